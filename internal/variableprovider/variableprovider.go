// Package variableprovider implements the layered context-override store
// the translation engine consults before seeding a voting's global and
// per-voter contexts (§4.6): pre-materialized values keyed by scope -
// global, per-topic, per-word-a, per-word-b, per-(topic, word-a), and
// per-(topic, word-b) - with most-specific-wins precedence.
package variableprovider

import "github.com/heartmarshall/ldatranslate/internal/voting"

// Side identifies which half of a bilingual pair a word belongs to.
type Side int

const (
	SideA Side = iota
	SideB
)

type keyValues map[string]voting.Value

// Provider holds every layer of override. ApplyGlobal and ApplyVoter on a
// nil or zero-value Provider find no overrides and leave the engine's own
// computed values in place; the Set* methods write into maps that only New
// allocates, so a Provider that receives overrides comes from New.
type Provider struct {
	global keyValues

	perTopic map[int]keyValues

	perWordA map[string]keyValues
	perWordB map[string]keyValues

	perTopicWordA map[int]map[string]keyValues
	perTopicWordB map[int]map[string]keyValues
}

// New returns an empty Provider.
func New() *Provider {
	return &Provider{
		global:        make(keyValues),
		perTopic:      make(map[int]keyValues),
		perWordA:      make(map[string]keyValues),
		perWordB:      make(map[string]keyValues),
		perTopicWordA: make(map[int]map[string]keyValues),
		perTopicWordB: make(map[int]map[string]keyValues),
	}
}

// SetGlobal sets a value applied to every topic's global context.
func (p *Provider) SetGlobal(key string, v voting.Value) *Provider {
	p.global[key] = v
	return p
}

// SetPerTopic sets a value applied to topic t's global context, overriding
// SetGlobal for that topic.
func (p *Provider) SetPerTopic(t int, key string, v voting.Value) *Provider {
	kv, ok := p.perTopic[t]
	if !ok {
		kv = make(keyValues)
		p.perTopic[t] = kv
	}
	kv[key] = v
	return p
}

func (p *Provider) perWordMap(side Side) map[string]keyValues {
	if side == SideA {
		return p.perWordA
	}
	return p.perWordB
}

func (p *Provider) perTopicWordMap(side Side) map[int]map[string]keyValues {
	if side == SideA {
		return p.perTopicWordA
	}
	return p.perTopicWordB
}

// SetPerWord sets a value applied to every voter context seeded for word
// on the given side, across all topics.
func (p *Provider) SetPerWord(side Side, word, key string, v voting.Value) *Provider {
	m := p.perWordMap(side)
	kv, ok := m[word]
	if !ok {
		kv = make(keyValues)
		m[word] = kv
	}
	kv[key] = v
	return p
}

// SetPerTopicWord sets a value applied only to the voter context seeded
// for word on the given side within topic t - the most specific layer.
func (p *Provider) SetPerTopicWord(side Side, t int, word, key string, v voting.Value) *Provider {
	outer := p.perTopicWordMap(side)
	byWord, ok := outer[t]
	if !ok {
		byWord = make(map[string]keyValues)
		outer[t] = byWord
	}
	kv, ok := byWord[word]
	if !ok {
		kv = make(keyValues)
		byWord[word] = kv
	}
	kv[key] = v
	return p
}

// ApplyGlobal overlays this provider's global and per-topic overrides onto
// ctx, most-specific (per-topic) last so it wins.
func (p *Provider) ApplyGlobal(ctx *voting.Context, topic int) {
	if p == nil {
		return
	}
	overlay(ctx, p.global)
	overlay(ctx, p.perTopic[topic])
}

// ApplyVoter overlays this provider's per-word and per-topic-word overrides
// for (side, word) onto ctx, in increasing order of specificity so that
// per-(topic, word) wins over per-word, per §4.6's stated precedence.
func (p *Provider) ApplyVoter(ctx *voting.Context, side Side, topic int, word string) {
	if p == nil {
		return
	}
	overlay(ctx, p.perWordMap(side)[word])
	if byWord, ok := p.perTopicWordMap(side)[topic]; ok {
		overlay(ctx, byWord[word])
	}
}

func overlay(ctx *voting.Context, kv keyValues) {
	for k, v := range kv {
		ctx.Set(k, v)
	}
}

package voting

import (
	"sort"

	"github.com/heartmarshall/ldatranslate/internal/ldaerr"
)

// Voting scores a candidate word against the translation votes cast for it
// by every origin-language voter. Eval returns the scalar score together
// with the subset of voters that were actually read while computing it —
// §4.5's "used voters" contract, which the engine uses to decide whether a
// candidate had any support at all.
type Voting interface {
	Eval(global *Context, voters []*Context, registry *Registry, epsilon float64) (score float64, usedVoters []int, err error)
	// Limit returns a decorated Voting that first truncates voters to the
	// top n by SCORE_CANDIDATE (descending, ties broken by ascending
	// VOTER_ID) before delegating.
	Limit(n int) Voting
}

type parsedVoting struct {
	expr Expr
}

// Parse compiles source into a standalone Voting.
func Parse(source string) (Voting, error) {
	expr, err := parse(source)
	if err != nil {
		return nil, err
	}
	return &parsedVoting{expr: expr}, nil
}

func (pv *parsedVoting) Eval(global *Context, voters []*Context, registry *Registry, epsilon float64) (float64, []int, error) {
	// NUMBER_OF_VOTERS reflects the voters actually passed to this call, set
	// right before evaluation so a .limit(n) decorator's truncation is
	// visible to the expression (mirrors buildin.rs's VotingWithLimit).
	global.Set("NUMBER_OF_VOTERS", Number(float64(len(voters))))
	env := &evalEnv{
		global: global, voters: voters, registry: registry,
		voterIdx: -1, used: make(map[int]bool), epsilon: epsilon, resolving: make(map[string]bool),
	}
	v, err := pv.expr.eval(env)
	if err != nil {
		return 0, nil, err
	}
	num, err := v.AsNumber()
	if err != nil {
		return 0, nil, ldaerr.NewEvalError("", pv.expr.Span(), "%v", err)
	}
	used := usedIndices(env.used)
	return num, used, nil
}

func (pv *parsedVoting) Limit(n int) Voting {
	return &limitedVoting{inner: pv, n: n}
}

type limitedVoting struct {
	inner Voting
	n     int
}

func (lv *limitedVoting) Eval(global *Context, voters []*Context, registry *Registry, epsilon float64) (float64, []int, error) {
	if lv.n <= 0 || lv.n >= len(voters) {
		return lv.inner.Eval(global, voters, registry, epsilon)
	}
	order := sortedVoterIndices(voters)[:lv.n]
	kept := make([]int, len(order))
	copy(kept, order)
	sort.Ints(kept)

	truncated := make([]*Context, len(kept))
	for i, origIdx := range kept {
		truncated[i] = voters[origIdx]
	}

	score, used, err := lv.inner.Eval(global, truncated, registry, epsilon)
	if err != nil {
		return 0, nil, err
	}
	remapped := make([]int, len(used))
	for i, localIdx := range used {
		remapped[i] = kept[localIdx]
	}
	return score, remapped, nil
}

func (lv *limitedVoting) Limit(n int) Voting {
	return &limitedVoting{inner: lv.inner, n: n}
}

// CallbackVoting adapts a host-provided Go function to the Voting
// interface, for voting logic too host-specific to express in the DSL.
type CallbackVoting func(global *Context, voters []*Context, registry *Registry, epsilon float64) (float64, []int, error)

func (f CallbackVoting) Eval(global *Context, voters []*Context, registry *Registry, epsilon float64) (float64, []int, error) {
	return f(global, voters, registry, epsilon)
}

func (f CallbackVoting) Limit(n int) Voting {
	return &limitedVoting{inner: f, n: n}
}

func usedIndices(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for i := range m {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

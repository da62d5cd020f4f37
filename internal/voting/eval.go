package voting

import (
	"math"
	"sort"

	"github.com/heartmarshall/ldatranslate/internal/ldaerr"
)

// Context is a mutable string-keyed map of Values: one global context and
// one context per voter are assembled before every voting invocation (§4.6
// of the contextual variable design this mirrors).
type Context struct {
	values map[string]Value
}

// NewContext returns an empty context.
func NewContext() *Context { return &Context{values: make(map[string]Value)} }

// Set assigns key, legal even for keys the engine never pre-populated.
func (c *Context) Set(key string, v Value) { c.values[key] = v }

func (c *Context) get(key string) (Value, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Get reads key, returning an EvalError if it was never set.
func (c *Context) Get(key string) (Value, error) {
	v, ok := c.get(key)
	if !ok {
		return Value{}, ldaerr.NewEvalError(key, ldaerr.Span{}, "read of unset context key %q", key)
	}
	return v, nil
}

const votersListSentinel = "\x00voters"

type evalEnv struct {
	global    *Context
	voters    []*Context
	registry  *Registry
	voterIdx  int
	used      map[int]bool
	epsilon   float64
	resolving map[string]bool
}

func (env *evalEnv) resolveIdent(name string, span ldaerr.Span) (Value, error) {
	if name == "voters" {
		return Value{Kind: KindList, Str: votersListSentinel}, nil
	}
	if env.voterIdx >= 0 {
		if v, ok := env.voters[env.voterIdx].get(name); ok {
			env.used[env.voterIdx] = true
			return v, nil
		}
	}
	if v, ok := env.global.get(name); ok {
		return v, nil
	}
	return env.evalRegistryRef(name, span)
}

func (env *evalEnv) evalRegistryRef(name string, span ldaerr.Span) (Value, error) {
	if env.registry == nil {
		return Value{}, ldaerr.NewEvalError(name, span, "unbound identifier %q", name)
	}
	if env.resolving[name] {
		return Value{}, ldaerr.NewEvalError(name, span, "voting %q references itself", name)
	}
	cv, ok := env.registry.getCompiled(name)
	if !ok {
		return Value{}, ldaerr.NewEvalError(name, span, "unbound identifier %q", name)
	}
	env.resolving[name] = true
	defer delete(env.resolving, name)
	sub := &evalEnv{
		global: env.global, voters: env.voters, registry: env.registry,
		voterIdx: -1, used: env.used, epsilon: env.epsilon, resolving: env.resolving,
	}
	return cv.expr.eval(sub)
}

func (n *numberLit) eval(_ *evalEnv) (Value, error) { return Number(n.val), nil }
func (n *stringLit) eval(_ *evalEnv) (Value, error) { return String(n.val), nil }
func (n *boolLit) eval(_ *evalEnv) (Value, error)   { return Bool_(n.val), nil }
func (n *nullLit) eval(_ *evalEnv) (Value, error)   { return Null, nil }

func (n *listLit) eval(env *evalEnv) (Value, error) {
	out := make([]Value, 0, len(n.items))
	for _, item := range n.items {
		v, err := item.eval(env)
		if err != nil {
			return Value{}, err
		}
		out = append(out, v)
	}
	return List(out), nil
}

func (n *ident) eval(env *evalEnv) (Value, error) { return env.resolveIdent(n.name, n.span) }

func (n *unary) eval(env *evalEnv) (Value, error) {
	x, err := n.x.eval(env)
	if err != nil {
		return Value{}, err
	}
	switch n.op {
	case tokNot:
		return Bool_(!x.Truthy()), nil
	case tokMinus:
		f, err := x.AsNumber()
		if err != nil {
			return Value{}, ldaerr.NewEvalError("", n.span, "%v", err)
		}
		return Number(-f), nil
	default:
		return Value{}, ldaerr.Invariantf("unreachable unary operator")
	}
}

func (n *ternary) eval(env *evalEnv) (Value, error) {
	c, err := n.cond.eval(env)
	if err != nil {
		return Value{}, err
	}
	if c.Truthy() {
		return n.then.eval(env)
	}
	return n.els.eval(env)
}

func (n *binary) eval(env *evalEnv) (Value, error) {
	if n.op == tokAnd {
		l, err := n.l.eval(env)
		if err != nil {
			return Value{}, err
		}
		if !l.Truthy() {
			return Bool_(false), nil
		}
		r, err := n.r.eval(env)
		if err != nil {
			return Value{}, err
		}
		return Bool_(r.Truthy()), nil
	}
	if n.op == tokOr {
		l, err := n.l.eval(env)
		if err != nil {
			return Value{}, err
		}
		if l.Truthy() {
			return Bool_(true), nil
		}
		r, err := n.r.eval(env)
		if err != nil {
			return Value{}, err
		}
		return Bool_(r.Truthy()), nil
	}

	l, err := n.l.eval(env)
	if err != nil {
		return Value{}, err
	}
	r, err := n.r.eval(env)
	if err != nil {
		return Value{}, err
	}

	switch n.op {
	case tokEq:
		return Bool_(l.Equal(r)), nil
	case tokNeq:
		return Bool_(!l.Equal(r)), nil
	}

	if n.op == tokPlus && l.Kind == KindString && r.Kind == KindString {
		return String(l.Str + r.Str), nil
	}

	lf, err := l.AsNumber()
	if err != nil {
		return Value{}, ldaerr.NewEvalError("", n.span, "%v", err)
	}
	rf, err := r.AsNumber()
	if err != nil {
		return Value{}, ldaerr.NewEvalError("", n.span, "%v", err)
	}

	switch n.op {
	case tokPlus:
		return Number(lf + rf), nil
	case tokMinus:
		return Number(lf - rf), nil
	case tokStar:
		return Number(lf * rf), nil
	case tokSlash:
		return Number(safeDivide(env.epsilon, lf, rf)), nil
	case tokPercent:
		if rf == 0 {
			return Number(env.epsilon), nil
		}
		return Number(math.Mod(lf, rf)), nil
	case tokStarStar:
		return Number(math.Pow(lf, rf)), nil
	case tokLt:
		return Bool_(lf < rf), nil
	case tokLe:
		return Bool_(lf <= rf), nil
	case tokGt:
		return Bool_(lf > rf), nil
	case tokGe:
		return Bool_(lf >= rf), nil
	default:
		return Value{}, ldaerr.Invariantf("unreachable binary operator")
	}
}

func (n *member) eval(env *evalEnv) (Value, error) {
	x, err := n.x.eval(env)
	if err != nil {
		return Value{}, err
	}
	if x.Kind != KindVoterRef {
		return Value{}, ldaerr.NewEvalError(n.field, n.span, "field access on non-voter value")
	}
	idx := int(x.Num)
	if idx < 0 || idx >= len(env.voters) {
		return Value{}, ldaerr.NewEvalError(n.field, n.span, "voter index %d out of range", idx)
	}
	env.used[idx] = true
	return env.voters[idx].Get(n.field)
}

func (n *index) eval(env *evalEnv) (Value, error) {
	x, err := n.x.eval(env)
	if err != nil {
		return Value{}, err
	}
	if x.Kind != KindList || x.Str != votersListSentinel {
		return Value{}, ldaerr.NewEvalError("", n.span, "indexing is only supported on 'voters'")
	}
	iv, err := n.i.eval(env)
	if err != nil {
		return Value{}, err
	}
	f, err := iv.AsNumber()
	if err != nil {
		return Value{}, ldaerr.NewEvalError("", n.span, "%v", err)
	}
	idx := int(f)
	if idx < 0 || idx >= len(env.voters) {
		return Value{}, ldaerr.NewEvalError("", n.span, "voter index %d out of range", idx)
	}
	return voterRef(idx), nil
}

// sortedVoterIndices returns 0..n-1 sorted by descending SCORE_CANDIDATE,
// ties broken by ascending VOTER_ID — the ranking rule §4.6 defines for RANK.
func sortedVoterIndices(voters []*Context) []int {
	idx := make([]int, len(voters))
	for i := range idx {
		idx[i] = i
	}
	score := func(i int) float64 {
		v, ok := voters[i].get("SCORE_CANDIDATE")
		if !ok {
			return 0
		}
		f, _ := v.AsNumber()
		return f
	}
	id := func(i int) float64 {
		v, ok := voters[i].get("VOTER_ID")
		if !ok {
			return 0
		}
		f, _ := v.AsNumber()
		return f
	}
	sort.SliceStable(idx, func(a, b int) bool {
		sa, sb := score(idx[a]), score(idx[b])
		if sa != sb {
			return sa > sb
		}
		return id(idx[a]) < id(idx[b])
	})
	return idx
}

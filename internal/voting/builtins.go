package voting

import (
	"math"
	"sort"

	"github.com/heartmarshall/ldatranslate/internal/ldaerr"
)

// call dispatches to an aggregate (sum/max/min/count/avg), evaluated once
// per voter with that voter bound as the current scope, to topsum (an
// aggregate parameterized by how many of the top voters to keep), or to a
// scalar math function, evaluated once in the caller's current scope.
func (n *call) eval(env *evalEnv) (Value, error) {
	switch n.name {
	case "sum", "max", "min", "count", "avg":
		return n.evalAggregate(env)
	case "topsum":
		return n.evalTopSum(env)
	case "exp", "abs", "sqrt", "log":
		return n.evalMath(env)
	case "pow":
		return n.evalPow(env)
	default:
		return Value{}, ldaerr.NewEvalError(n.name, n.span, "unknown function %q", n.name)
	}
}

func (n *call) evalAggregate(env *evalEnv) (Value, error) {
	if len(n.args) != 1 {
		return Value{}, ldaerr.NewEvalError(n.name, n.span, "%s() takes exactly one argument", n.name)
	}
	if env.voterIdx >= 0 {
		return Value{}, ldaerr.NewEvalError(n.name, n.span, "%s() cannot be nested inside a per-voter expression", n.name)
	}
	arg := n.args[0]

	var (
		sum      float64
		best     float64
		worst    float64
		cnt      float64
		numCount float64
		haveBest bool
	)
	for i := range env.voters {
		sub := &evalEnv{
			global: env.global, voters: env.voters, registry: env.registry,
			voterIdx: i, used: env.used, epsilon: env.epsilon, resolving: env.resolving,
		}
		v, err := arg.eval(sub)
		if err != nil {
			return Value{}, err
		}
		switch n.name {
		case "count":
			if v.Truthy() {
				cnt++
			}
			continue
		}
		f, err := v.AsNumber()
		if err != nil {
			return Value{}, ldaerr.NewEvalError(n.name, n.span, "%v", err)
		}
		sum += f
		numCount++
		if !haveBest || f > best {
			best = f
		}
		if !haveBest || f < worst {
			worst = f
		}
		haveBest = true
	}

	switch n.name {
	case "sum":
		return Number(sum), nil
	case "max":
		return Number(best), nil
	case "min":
		return Number(worst), nil
	case "count":
		return Number(cnt), nil
	case "avg":
		return Number(safeDivide(env.epsilon, sum, numCount)), nil
	default:
		return Value{}, ldaerr.Invariantf("unreachable aggregate %q", n.name)
	}
}

// evalTopSum sums the top n values of its first argument, evaluated once
// per voter, voters sorted descending; used by CombSumTop to mirror the
// reference Aggregation::new(SumOf, n).calculate_desc behavior.
func (n *call) evalTopSum(env *evalEnv) (Value, error) {
	if len(n.args) != 2 {
		return Value{}, ldaerr.NewEvalError(n.name, n.span, "topsum() takes exactly two arguments")
	}
	if env.voterIdx >= 0 {
		return Value{}, ldaerr.NewEvalError(n.name, n.span, "topsum() cannot be nested inside a per-voter expression")
	}
	countVal, err := n.args[1].eval(env)
	if err != nil {
		return Value{}, err
	}
	countF, err := countVal.AsNumber()
	if err != nil {
		return Value{}, ldaerr.NewEvalError(n.name, n.span, "%v", err)
	}
	top := int(countF)

	values := make([]float64, 0, len(env.voters))
	for i := range env.voters {
		sub := &evalEnv{
			global: env.global, voters: env.voters, registry: env.registry,
			voterIdx: i, used: env.used, epsilon: env.epsilon, resolving: env.resolving,
		}
		v, err := n.args[0].eval(sub)
		if err != nil {
			return Value{}, err
		}
		f, err := v.AsNumber()
		if err != nil {
			return Value{}, ldaerr.NewEvalError(n.name, n.span, "%v", err)
		}
		values = append(values, f)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(values)))
	if top > len(values) {
		top = len(values)
	}
	var sum float64
	for _, f := range values[:top] {
		sum += f
	}
	return Number(sum), nil
}

func (n *call) evalMath(env *evalEnv) (Value, error) {
	if len(n.args) != 1 {
		return Value{}, ldaerr.NewEvalError(n.name, n.span, "%s() takes exactly one argument", n.name)
	}
	v, err := n.args[0].eval(env)
	if err != nil {
		return Value{}, err
	}
	f, err := v.AsNumber()
	if err != nil {
		return Value{}, ldaerr.NewEvalError(n.name, n.span, "%v", err)
	}
	switch n.name {
	case "exp":
		return Number(math.Exp(f)), nil
	case "abs":
		return Number(math.Abs(f)), nil
	case "sqrt":
		return Number(math.Sqrt(f)), nil
	case "log":
		if f <= 0 {
			return Number(env.epsilon), nil
		}
		return Number(math.Log(f)), nil
	default:
		return Value{}, ldaerr.Invariantf("unreachable math function %q", n.name)
	}
}

func (n *call) evalPow(env *evalEnv) (Value, error) {
	if len(n.args) != 2 {
		return Value{}, ldaerr.NewEvalError(n.name, n.span, "pow() takes exactly two arguments")
	}
	base, err := n.args[0].eval(env)
	if err != nil {
		return Value{}, err
	}
	exp, err := n.args[1].eval(env)
	if err != nil {
		return Value{}, err
	}
	bf, err := base.AsNumber()
	if err != nil {
		return Value{}, ldaerr.NewEvalError(n.name, n.span, "%v", err)
	}
	ef, err := exp.AsNumber()
	if err != nil {
		return Value{}, ldaerr.NewEvalError(n.name, n.span, "%v", err)
	}
	return Number(math.Pow(bf, ef)), nil
}

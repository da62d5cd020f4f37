package voting

// catalogSource holds the DSL source text of every built-in voting, keyed
// by its registered name. A handful of these resolve Open Questions the
// spec leaves unpinned; the choice made and its rationale is recorded in
// DESIGN.md rather than here.
var catalogSource = map[string]string{
	"CombSum": "sum(SCORE_CANDIDATE)",
	"CombMax": "max(SCORE_CANDIDATE)",
	"RR":      "sum(1 / RANK)",

	// Voters: ported from buildin.rs's BuildInVoting::Voters, which reads
	// NUMBER_OF_VOTERS off the global context rather than COUNT_OF_VOTERS -
	// the two are kept numerically equal (NewGlobalContext seeds both, and
	// parsedVoting.Eval refreshes NUMBER_OF_VOTERS to len(voters) before
	// every call), but NUMBER_OF_VOTERS is the one the reference names.
	"Voters": "NUMBER_OF_VOTERS",

	// OriginalScore: buildin.rs's BuildInVoting::OriginalScore reads a
	// global SCORE_CANDIDATE set once per origin word being translated
	// (buildin.rs:141-146) - a shape this package's candidate-centric
	// context (one Eval call aggregates every voter for one candidate) has
	// no equivalent global scalar for. The nearest faithful reading within
	// that shape is the per-voter SCORE_CANDIDATE of whichever voter is the
	// origin word itself (IS_ORIGIN_WORD), since at most one voter can be;
	// summing the gated term rather than indexing it keeps the expression
	// total when no voter is the origin word.
	"OriginalScore": "sum(SCORE_CANDIDATE * IS_ORIGIN_WORD)",

	// CombSumTop: ported from buildin.rs's BuildInVoting::CombSumTop, which
	// is Aggregation::new(SumOf, 2).calculate_desc(...) over per-voter
	// SCORE - the sum of the top two voter scores, not a HAS_TRANSLATION
	// gate as an earlier pass of this catalog had it.
	"CombSumTop": "topsum(SCORE_CANDIDATE, 2)",

	// PCombSum: ported from buildin.rs's BuildInVoting::PCombSum
	// (buildin.rs:289-298) - EPSILON when there are no voters, otherwise
	// the mean voter score plus the best (maximum) reciprocal rank among
	// voters. An earlier pass of this catalog dropped the
	// max(RECIPROCAL_RANK) term entirely; NUMBER_OF_VOTERS is the
	// per-call voter count, refreshed by parsedVoting.Eval.
	"PCombSum": "NUMBER_OF_VOTERS == 0 ? EPSILON : (CombSum / NUMBER_OF_VOTERS) + max(RECIPROCAL_RANK)",

	"GCombSum":  "sum(SCORE_CANDIDATE * REAL_RECIPROCAL_RANK)",
	"WCombSum":  "sum(SCORE_CANDIDATE * IMPORTANCE)",
	"WCombSumG": "sum(SCORE_CANDIDATE * IMPORTANCE * REAL_RECIPROCAL_RANK)",

	// WGCombSum: ported from buildin.rs's BuildInVoting::WGCombSum
	// (buildin.rs:282-287), a log-geometric mean: exp of the sum of voter
	// log-scores plus the log of the (non-log) average score, divided by
	// voters+1. An earlier pass of this catalog substituted an unrelated
	// WCombSum*RR product; that version matched nothing in the reference
	// and is replaced rather than kept, per spec.md's direction to cross-
	// check this name against original_source before committing to it.
	"WGCombSum": "exp((sum(log(SCORE_CANDIDATE)) + log(avg(SCORE_CANDIDATE))) / (NUMBER_OF_VOTERS + 1))",

	"CombSumRR": "CombSum * RR",

	"CombSumPow2": "sum(SCORE_CANDIDATE ** 2)",
	"RRPow2":      "sum((1 / RANK) ** 2)",

	"CombSumRRPow2":     "CombSum * RRPow2",
	"CombSumPow2RR":     "CombSumPow2 * RR",
	"CombSumPow2RRPow2": "CombSumPow2 * RRPow2",

	"ExpCombMnz": "sum(exp(SCORE_CANDIDATE)) * count(HAS_TRANSLATION)",
}

// catalogOrder fixes registration order so every name composed from other
// names (CombSumRR references CombSum and RR, etc.) is registered only
// after its dependencies.
var catalogOrder = []string{
	"CombSum", "CombMax", "RR", "Voters", "OriginalScore", "CombSumTop",
	"PCombSum", "GCombSum", "WCombSum", "WCombSumG", "WGCombSum",
	"CombSumRR", "CombSumPow2", "RRPow2",
	"CombSumRRPow2", "CombSumPow2RR", "CombSumPow2RRPow2", "ExpCombMnz",
}

// NewBuiltinRegistry returns a Registry pre-populated with the closed
// catalog of standard votings.
func NewBuiltinRegistry() (*Registry, error) {
	r := NewRegistry()
	for _, name := range catalogOrder {
		if err := r.Register(name, catalogSource[name]); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Builtin parses and returns one catalog voting by name, independent of
// any registry (it will not be able to resolve composed names like
// CombSumRR unless evaluated with a registry that also has CombSum and RR
// registered - use NewBuiltinRegistry().Get(name) for that).
func Builtin(name string) (Voting, bool) {
	src, ok := catalogSource[name]
	if !ok {
		return nil, false
	}
	v, err := Parse(src)
	if err != nil {
		return nil, false
	}
	return v, true
}

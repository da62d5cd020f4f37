package voting

import "github.com/heartmarshall/ldatranslate/internal/ldaerr"

// Expr is a node of a parsed voting expression.
type Expr interface {
	eval(env *evalEnv) (Value, error)
	Span() ldaerr.Span
}

type numberLit struct {
	val  float64
	span ldaerr.Span
}

func (n *numberLit) Span() ldaerr.Span { return n.span }

type stringLit struct {
	val  string
	span ldaerr.Span
}

func (n *stringLit) Span() ldaerr.Span { return n.span }

type boolLit struct {
	val  bool
	span ldaerr.Span
}

func (n *boolLit) Span() ldaerr.Span { return n.span }

type nullLit struct{ span ldaerr.Span }

func (n *nullLit) Span() ldaerr.Span { return n.span }

type listLit struct {
	items []Expr
	span  ldaerr.Span
}

func (n *listLit) Span() ldaerr.Span { return n.span }

type ident struct {
	name string
	span ldaerr.Span
}

func (n *ident) Span() ldaerr.Span { return n.span }

type unary struct {
	op   tokenKind
	x    Expr
	span ldaerr.Span
}

func (n *unary) Span() ldaerr.Span { return n.span }

type binary struct {
	op   tokenKind
	l, r Expr
	span ldaerr.Span
}

func (n *binary) Span() ldaerr.Span { return n.span }

type ternary struct {
	cond, then, els Expr
	span            ldaerr.Span
}

func (n *ternary) Span() ldaerr.Span { return n.span }

type call struct {
	name string
	args []Expr
	span ldaerr.Span
}

func (n *call) Span() ldaerr.Span { return n.span }

type index struct {
	x, i Expr
	span ldaerr.Span
}

func (n *index) Span() ldaerr.Span { return n.span }

type member struct {
	x     Expr
	field string
	span  ldaerr.Span
}

func (n *member) Span() ldaerr.Span { return n.span }

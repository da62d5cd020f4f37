package voting

import "github.com/heartmarshall/ldatranslate/internal/ldaerr"

// parse compiles source into an Expr. Parse wraps the result as a Voting;
// Registry.Register stores it for Registry.Get and by-name references.
func parse(source string) (Expr, error) {
	toks, err := lex(source)
	if err != nil {
		return nil, err
	}
	p := &parser{src: source, toks: toks}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur().kind != tokEOF {
		return nil, ldaerr.NewParseError(source, p.cur().span, "unexpected trailing input %q", p.cur().text)
	}
	return expr, nil
}

type parser struct {
	src  string
	toks []token
	pos  int
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(k tokenKind, what string) (token, error) {
	if p.cur().kind != k {
		return token{}, ldaerr.NewParseError(p.src, p.cur().span, "expected %s", what)
	}
	return p.advance(), nil
}

func (p *parser) parseExpr() (Expr, error) { return p.parseTernary() }

func (p *parser) parseTernary() (Expr, error) {
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.cur().kind != tokQuestion {
		return cond, nil
	}
	start := cond.Span()
	p.advance()
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokColon, "':' in ternary expression"); err != nil {
		return nil, err
	}
	els, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ternary{cond: cond, then: then, els: els, span: ldaerr.Span{Start: start.Start, End: els.Span().End}}, nil
}

func (p *parser) parseOr() (Expr, error) {
	l, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur().kind == tokOr {
		p.advance()
		r, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		l = &binary{op: tokOr, l: l, r: r, span: ldaerr.Span{Start: l.Span().Start, End: r.Span().End}}
	}
	return l, nil
}

func (p *parser) parseAnd() (Expr, error) {
	l, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.cur().kind == tokAnd {
		p.advance()
		r, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		l = &binary{op: tokAnd, l: l, r: r, span: ldaerr.Span{Start: l.Span().Start, End: r.Span().End}}
	}
	return l, nil
}

func (p *parser) parseEquality() (Expr, error) {
	l, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.cur().kind == tokEq || p.cur().kind == tokNeq {
		op := p.advance().kind
		r, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		l = &binary{op: op, l: l, r: r, span: ldaerr.Span{Start: l.Span().Start, End: r.Span().End}}
	}
	return l, nil
}

func (p *parser) parseComparison() (Expr, error) {
	l, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.cur().kind == tokLt || p.cur().kind == tokLe || p.cur().kind == tokGt || p.cur().kind == tokGe {
		op := p.advance().kind
		r, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		l = &binary{op: op, l: l, r: r, span: ldaerr.Span{Start: l.Span().Start, End: r.Span().End}}
	}
	return l, nil
}

func (p *parser) parseAdditive() (Expr, error) {
	l, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.cur().kind == tokPlus || p.cur().kind == tokMinus {
		op := p.advance().kind
		r, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		l = &binary{op: op, l: l, r: r, span: ldaerr.Span{Start: l.Span().Start, End: r.Span().End}}
	}
	return l, nil
}

func (p *parser) parseMultiplicative() (Expr, error) {
	l, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for p.cur().kind == tokStar || p.cur().kind == tokSlash || p.cur().kind == tokPercent {
		op := p.advance().kind
		r, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		l = &binary{op: op, l: l, r: r, span: ldaerr.Span{Start: l.Span().Start, End: r.Span().End}}
	}
	return l, nil
}

func (p *parser) parsePower() (Expr, error) {
	l, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.cur().kind == tokStarStar {
		p.advance()
		r, err := p.parsePower() // right-associative
		if err != nil {
			return nil, err
		}
		return &binary{op: tokStarStar, l: l, r: r, span: ldaerr.Span{Start: l.Span().Start, End: r.Span().End}}, nil
	}
	return l, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if p.cur().kind == tokNot || p.cur().kind == tokMinus {
		op := p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unary{op: op.kind, x: x, span: ldaerr.Span{Start: op.span.Start, End: x.Span().End}}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (Expr, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().kind {
		case tokDot:
			p.advance()
			name, err := p.expect(tokIdent, "identifier after '.'")
			if err != nil {
				return nil, err
			}
			x = &member{x: x, field: name.text, span: ldaerr.Span{Start: x.Span().Start, End: name.span.End}}
		case tokLBracket:
			p.advance()
			i, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			end, err := p.expect(tokRBracket, "']'")
			if err != nil {
				return nil, err
			}
			x = &index{x: x, i: i, span: ldaerr.Span{Start: x.Span().Start, End: end.span.End}}
		default:
			return x, nil
		}
	}
}

func (p *parser) parsePrimary() (Expr, error) {
	t := p.cur()
	switch t.kind {
	case tokNumber:
		p.advance()
		return &numberLit{val: t.num, span: t.span}, nil
	case tokString:
		p.advance()
		return &stringLit{val: t.text, span: t.span}, nil
	case tokLParen:
		p.advance()
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return x, nil
	case tokLBracket:
		p.advance()
		var items []Expr
		for p.cur().kind != tokRBracket {
			item, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			if p.cur().kind == tokComma {
				p.advance()
			} else {
				break
			}
		}
		end, err := p.expect(tokRBracket, "']'")
		if err != nil {
			return nil, err
		}
		return &listLit{items: items, span: ldaerr.Span{Start: t.span.Start, End: end.span.End}}, nil
	case tokIdent:
		p.advance()
		switch t.text {
		case "true":
			return &boolLit{val: true, span: t.span}, nil
		case "false":
			return &boolLit{val: false, span: t.span}, nil
		case "null":
			return &nullLit{span: t.span}, nil
		}
		if p.cur().kind == tokLParen {
			p.advance()
			var args []Expr
			for p.cur().kind != tokRParen {
				arg, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.cur().kind == tokComma {
					p.advance()
				} else {
					break
				}
			}
			end, err := p.expect(tokRParen, "')'")
			if err != nil {
				return nil, err
			}
			return &call{name: t.text, args: args, span: ldaerr.Span{Start: t.span.Start, End: end.span.End}}, nil
		}
		return &ident{name: t.text, span: t.span}, nil
	default:
		return nil, ldaerr.NewParseError(p.src, t.span, "unexpected token %q", t.text)
	}
}

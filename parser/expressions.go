package parser

import (
	"strconv"

	"github.com/npillmayer/jss"
	"github.com/npillmayer/jss/ast"
	"github.com/npillmayer/jss/lexer"
)

var comparisons = map[string]bool{
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
}

// parseExpr parses `BoolTerm { '||' BoolTerm }`.
func (p *parser) parseExpr() (*ast.Node, error) {
	return p.parseChain(ast.Expr, "||", (*parser).parseBoolTerm)
}

// parseBoolTerm parses `BoolFactor { '&&' BoolFactor }`.
func (p *parser) parseBoolTerm() (*ast.Node, error) {
	return p.parseChain(ast.BoolTerm, "&&", (*parser).parseBoolFactor)
}

func (p *parser) parseChain(kind ast.Kind, op string, operand func(*parser) (*ast.Node, error)) (*ast.Node, error) {
	tok := p.peek()
	first, err := operand(p)
	if err != nil {
		return nil, err
	}
	if !p.at(op) {
		return first, nil
	}
	chain := ast.New(kind, tok).Add(first)
	for p.accept(op) {
		n, err := operand(p)
		if err != nil {
			return nil, err
		}
		chain.Add(n)
	}
	return chain, nil
}

// parseBoolFactor parses `'!' BoolFactor | ArithExpr [ CmpOp ArithExpr ]`.
func (p *parser) parseBoolFactor() (*ast.Node, error) {
	tok := p.peek()
	if p.accept("!") {
		inner, err := p.parseBoolFactor()
		if err != nil {
			return nil, err
		}
		return ast.New(ast.BoolFactor, tok).SetChild("left", inner).SetTag("not", "true"), nil
	}
	left, err := p.parseArithExpr()
	if err != nil {
		return nil, err
	}
	op := p.peek()
	if op.Kind != jss.TokPunct || !comparisons[op.Content] {
		return left, nil
	}
	p.next()
	right, err := p.parseArithExpr()
	if err != nil {
		return nil, err
	}
	factor := ast.New(ast.BoolFactor, tok).SetChild("left", left).SetChild("right", right)
	return factor.SetTag("op", op.Content), nil
}

// parseArithExpr parses `ArithTerm { ('+'|'-') ArithTerm }`.
func (p *parser) parseArithExpr() (*ast.Node, error) {
	return p.parseOpChain(ast.ArithExpr, (*parser).parseArithTerm, "+", "-")
}

// parseArithTerm parses `ArithFactor { ('*'|'/'|'%') ArithFactor }`.
func (p *parser) parseArithTerm() (*ast.Node, error) {
	return p.parseOpChain(ast.ArithTerm, (*parser).parseArithFactor, "*", "/", "%")
}

// parseOpChain parses a left-associative chain with alternative operators.
// Operators are collected in the node's data, one for every operand but the
// first.
func (p *parser) parseOpChain(kind ast.Kind, operand func(*parser) (*ast.Node, error),
	ops ...string) (*ast.Node, error) {
	//
	tok := p.peek()
	first, err := operand(p)
	if err != nil {
		return nil, err
	}
	var chain *ast.Node
	for {
		op, ok := p.atOneOf(ops)
		if !ok {
			break
		}
		p.next()
		n, err := operand(p)
		if err != nil {
			return nil, err
		}
		if chain == nil {
			chain = ast.New(kind, tok).Add(first)
		}
		chain.Add(n)
		chain.Data = append(chain.Data, op)
	}
	if chain == nil {
		return first, nil
	}
	return chain, nil
}

func (p *parser) atOneOf(lexemes []string) (string, bool) {
	for _, l := range lexemes {
		if p.at(l) {
			return l, true
		}
	}
	return "", false
}

// parseArithFactor parses `'-' ArithFactor | '(' Expr ')' | Atom`.
func (p *parser) parseArithFactor() (*ast.Node, error) {
	tok := p.peek()
	if p.accept("-") {
		inner, err := p.parseArithFactor()
		if err != nil {
			return nil, err
		}
		return ast.New(ast.ArithFactor, tok).SetChild("expr", inner), nil
	}
	if p.accept("(") {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(")"); err != nil {
			return nil, err
		}
		return e, nil
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() (*ast.Node, error) {
	tok := p.peek()
	switch tok.Kind {
	case jss.TokNumber:
		p.next()
		n, err := lexer.ParseNumber(tok.Content)
		if err != nil {
			return nil, &Error{Line: tok.Line, Col: tok.Col, Msg: err.Error()}
		}
		return literal(tok, "number", strconv.FormatFloat(n, 'g', -1, 64)), nil
	case jss.TokString:
		p.next()
		s, err := lexer.Unquote(tok.Content)
		if err != nil {
			return nil, &Error{Line: tok.Line, Col: tok.Col, Msg: err.Error()}
		}
		return literal(tok, "string", s), nil
	case jss.TokName:
		return p.parseNameRooted()
	case jss.TokKeyword:
		switch tok.Content {
		case "true", "false":
			p.next()
			return literal(tok, "bool", tok.Content), nil
		case "null":
			p.next()
			return literal(tok, "null", "null"), nil
		case "func":
			return p.parseFuncLit()
		}
	case jss.TokPunct:
		switch tok.Content {
		case "{":
			return p.parseObject()
		case "[":
			return p.parseArray()
		case "++", "--":
			p.next()
			path, err := p.parsePath()
			if err != nil {
				return nil, err
			}
			assign := ast.New(ast.Assign, tok).SetChild("target", path)
			return assign.SetTag("assignType", tok.Content).SetTag("fix", "pre"), nil
		}
	}
	return nil, p.errorf(tok, "expected expression")
}

func literal(tok jss.Token, typ string, lit string) *ast.Node {
	n := ast.New(ast.Value, tok).SetTag("type", typ)
	n.Data = []string{lit}
	return n
}

// parseNameRooted parses a path and decides, by the token following it, whether
// it is read, assigned or called.
func (p *parser) parseNameRooted() (*ast.Node, error) {
	tok := p.peek()
	path, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	op := p.peek()
	switch {
	case op.Kind == jss.TokPunct && assignOps[op.Content]:
		p.next()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		assign := ast.New(ast.Assign, tok).SetChild("target", path).SetChild("expr", e)
		return assign.SetTag("assignType", op.Content), nil
	case op.Is("++") || op.Is("--"):
		p.next()
		assign := ast.New(ast.Assign, tok).SetChild("target", path)
		return assign.SetTag("assignType", op.Content).SetTag("fix", "post"), nil
	case op.Is("("):
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		return ast.New(ast.FuncCall, tok).SetChild("target", path).SetChild("params", args), nil
	}
	return ast.New(ast.Atom, tok).SetChild("path", path), nil
}

// parsePath parses `name { '.' name | '[' Expr ']' }`. Member names become
// string literal keys.
func (p *parser) parsePath() (*ast.Node, error) {
	root, err := p.expectName()
	if err != nil {
		return nil, err
	}
	path := ast.New(ast.PathExpr, root)
	path.Data = []string{root.Content}
	for {
		switch {
		case p.accept("."):
			member := p.next()
			if member.Kind != jss.TokName && member.Kind != jss.TokKeyword {
				return nil, p.errorf(member, "expected member name")
			}
			path.Add(literal(member, "string", member.Content))
		case p.at("["):
			p.next()
			key, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect("]"); err != nil {
				return nil, err
			}
			path.Add(key)
		default:
			return path, nil
		}
	}
}

func (p *parser) parseArgs() (*ast.Node, error) {
	tok, err := p.expect("(")
	if err != nil {
		return nil, err
	}
	args := ast.New(ast.ParamsList, tok)
	if p.accept(")") {
		return args, nil
	}
	for {
		var arg *ast.Node
		if p.at("...") {
			arg, err = p.parseSpread()
		} else {
			arg, err = p.parseExpr()
		}
		if err != nil {
			return nil, err
		}
		args.Add(arg)
		if !p.accept(",") {
			break
		}
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) parseSpread() (*ast.Node, error) {
	tok, err := p.expect("...")
	if err != nil {
		return nil, err
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.New(ast.Spread, tok).SetChild("expr", e), nil
}

// parseObject parses an object literal with entries of the forms
// `...spread`, `key: expr` and `name`.
func (p *parser) parseObject() (*ast.Node, error) {
	tok, err := p.expect("{")
	if err != nil {
		return nil, err
	}
	obj := ast.New(ast.ObjectLiteral, tok)
	for !p.at("}") {
		if p.at("...") {
			spread, err := p.parseSpread()
			if err != nil {
				return nil, err
			}
			obj.Add(spread)
		} else {
			key := p.next()
			var k string
			switch key.Kind {
			case jss.TokName, jss.TokKeyword, jss.TokNumber:
				k = key.Content
			case jss.TokString:
				if k, err = lexer.Unquote(key.Content); err != nil {
					return nil, &Error{Line: key.Line, Col: key.Col, Msg: err.Error()}
				}
			default:
				return nil, p.errorf(key, "expected object key")
			}
			var e *ast.Node
			if p.accept(":") {
				if e, err = p.parseExpr(); err != nil {
					return nil, err
				}
			} else if key.Kind == jss.TokName {
				path := ast.New(ast.PathExpr, key)
				path.Data = []string{key.Content}
				e = ast.New(ast.Atom, key).SetChild("path", path)
			} else {
				return nil, p.errorf(p.peek(), "expected ':'")
			}
			if obj.Child(k) == nil {
				obj.Data = append(obj.Data, k)
			}
			obj.SetChild(k, e)
		}
		if !p.accept(",") {
			break
		}
	}
	if _, err := p.expect("}"); err != nil {
		return nil, err
	}
	return obj, nil
}

func (p *parser) parseArray() (*ast.Node, error) {
	tok, err := p.expect("[")
	if err != nil {
		return nil, err
	}
	arr := ast.New(ast.ArrayLiteral, tok)
	for !p.at("]") {
		var elem *ast.Node
		if p.at("...") {
			elem, err = p.parseSpread()
		} else {
			elem, err = p.parseExpr()
		}
		if err != nil {
			return nil, err
		}
		arr.Add(elem)
		if !p.accept(",") {
			break
		}
	}
	if _, err := p.expect("]"); err != nil {
		return nil, err
	}
	return arr, nil
}

// parseFuncLit parses `func(params) => body`. Both arrows `=>` and `->` are
// accepted. An expression body is wrapped into a code block.
func (p *parser) parseFuncLit() (*ast.Node, error) {
	tok, err := p.expect("func")
	if err != nil {
		return nil, err
	}
	fn := ast.New(ast.FuncDec, tok)
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	for !p.at(")") {
		name, err := p.expectName()
		if err != nil {
			return nil, err
		}
		fn.Data = append(fn.Data, name.Content)
		if !p.accept(",") {
			break
		}
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	if !p.accept("=>") && !p.accept("->") {
		return nil, p.errorf(p.peek(), "expected '=>' or '->'")
	}
	var body *ast.Node
	if p.at("{") {
		body, err = p.parseBlock()
	} else {
		btok := p.peek()
		var e *ast.Node
		if e, err = p.parseExpr(); err == nil {
			body = ast.New(ast.CodeBlock, btok).Add(e)
		}
	}
	if err != nil {
		return nil, err
	}
	return fn.SetChild("body", body), nil
}

package parser

import (
	"fmt"
	"strings"

	"github.com/npillmayer/jss"
	"github.com/npillmayer/jss/ast"
	"github.com/npillmayer/jss/lexer"
)

// SafetyWall limits the number of statements of a single statement list.
const SafetyWall = 100000

// Parse parses a program text and returns its PROGRAM node.
func Parse(source string) (*ast.Node, error) {
	tz, err := lexer.New(source)
	if err != nil {
		return nil, err
	}
	p := &parser{tz: tz}
	prog, err := p.parseProgram()
	if err != nil {
		tracer().Infof("%v", err)
		return nil, err
	}
	tracer().Debugf("parsed program with %d statements", len(prog.Children))
	return prog, nil
}

// parser holds the state of a single parse run.
type parser struct {
	tz *lexer.Tokenizer
}

func (p *parser) peek() jss.Token {
	return p.tz.Peek()
}

func (p *parser) next() jss.Token {
	return p.tz.Next()
}

// at is a predicate: is the next token the keyword or punctuation lexeme?
func (p *parser) at(lexeme string) bool {
	return p.peek().Is(lexeme)
}

// accept consumes the next token if it is lexeme.
func (p *parser) accept(lexeme string) bool {
	if p.at(lexeme) {
		p.next()
		return true
	}
	return false
}

// expect consumes the next token, which has to be lexeme.
func (p *parser) expect(lexeme string) (jss.Token, error) {
	tok := p.next()
	if !tok.Is(lexeme) {
		return tok, p.errorf(tok, "expected '%s'", lexeme)
	}
	return tok, nil
}

// expectName consumes the next token, which has to be a name.
func (p *parser) expectName() (jss.Token, error) {
	tok := p.next()
	if tok.Kind != jss.TokName {
		return tok, p.errorf(tok, "expected name")
	}
	return tok, nil
}

// errorf creates a parse error at the position of tok, describing tok.
func (p *parser) errorf(tok jss.Token, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	switch tok.Kind {
	case jss.TokEOF:
		msg += ", found end of input"
	case jss.TokInvalid:
		if strings.HasPrefix(tok.Content, `"`) || strings.HasPrefix(tok.Content, "'") {
			msg = "unterminated string literal"
		} else {
			msg = fmt.Sprintf("invalid input %q", tok.Content)
		}
	default:
		msg += fmt.Sprintf(", found %q", tok.Content)
	}
	return &Error{Line: tok.Line, Col: tok.Col, Msg: msg}
}

// --- Statements ------------------------------------------------------------

func (p *parser) parseProgram() (*ast.Node, error) {
	prog := ast.New(ast.Program, p.peek())
	stmts, err := p.parseStmtList("")
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Kind != jss.TokEOF {
		return nil, p.errorf(tok, "expected statement")
	}
	return prog.Add(stmts...), nil
}

// parseStmtList parses statements until the closing lexeme or EOF. Semicolons
// between statements are optional.
func (p *parser) parseStmtList(closer string) ([]*ast.Node, error) {
	var stmts []*ast.Node
	for count := 0; ; count++ {
		for p.accept(";") {
		}
		tok := p.peek()
		if tok.Kind == jss.TokEOF || (closer != "" && tok.Is(closer)) {
			return stmts, nil
		}
		if count >= SafetyWall {
			return nil, p.errorf(tok, "too many statements")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if after := p.peek(); after == tok {
			return nil, p.errorf(tok, "unexpected token")
		}
		stmts = append(stmts, stmt)
	}
}

func (p *parser) parseStatement() (*ast.Node, error) {
	tok := p.peek()
	if tok.Kind == jss.TokKeyword {
		switch tok.Content {
		case "var":
			return p.parseDecStmt()
		case "if":
			return p.parseIf()
		case "for", "each", "while", "do":
			return p.parseLoop()
		case "break", "continue":
			return p.parseJump()
		case "return":
			return p.parseReturn()
		}
	}
	switch {
	case tok.Is(":"):
		return p.parseLabeledLoop()
	case tok.Is("{"):
		return p.parseBlock()
	}
	return p.parseExpr()
}

func (p *parser) parseBlock() (*ast.Node, error) {
	tok, err := p.expect("{")
	if err != nil {
		return nil, err
	}
	stmts, err := p.parseStmtList("}")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("}"); err != nil {
		return nil, err
	}
	return ast.New(ast.CodeBlock, tok).Add(stmts...), nil
}

// parseLabel parses a ':name:' marker.
func (p *parser) parseLabel() (string, error) {
	if _, err := p.expect(":"); err != nil {
		return "", err
	}
	name, err := p.expectName()
	if err != nil {
		return "", err
	}
	if _, err := p.expect(":"); err != nil {
		return "", err
	}
	return name.Content, nil
}

func (p *parser) parseLabeledLoop() (*ast.Node, error) {
	label, err := p.parseLabel()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); !(tok.Is("for") || tok.Is("each") || tok.Is("while") || tok.Is("do")) {
		return nil, p.errorf(tok, "expected loop after label :%s:", label)
	}
	loop, err := p.parseLoop()
	if err != nil {
		return nil, err
	}
	return loop.SetTag("label", label), nil
}

func (p *parser) parseDecStmt() (*ast.Node, error) {
	tok, err := p.expect("var")
	if err != nil {
		return nil, err
	}
	name, err := p.expectName()
	if err != nil {
		return nil, err
	}
	dec := ast.New(ast.DecStmt, tok)
	dec.Data = []string{name.Content}
	if p.accept("=") {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		dec.SetChild("expr", e)
	}
	return dec, nil
}

// parseCond parses a parenthesized condition.
func (p *parser) parseCond() (*ast.Node, error) {
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	return cond, nil
}

// parseBody parses the statement governed by an if or a loop. A trailing
// semicolon is consumed, as it may stand between the body and an `else` or a
// do-loop's `while`.
func (p *parser) parseBody() (*ast.Node, error) {
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	for p.accept(";") {
	}
	return body, nil
}

func (p *parser) parseIf() (*ast.Node, error) {
	tok, err := p.expect("if")
	if err != nil {
		return nil, err
	}
	ifstmt := ast.New(ast.IfStmt, tok)
	cond, err := p.parseCond()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	ifstmt.SetChild("cond", cond).SetChild("body", body)
	for p.accept("else") {
		if !p.accept("if") {
			els, err := p.parseBody()
			if err != nil {
				return nil, err
			}
			ifstmt.SetChild("else", els)
			break
		}
		cond, err := p.parseCond()
		if err != nil {
			return nil, err
		}
		stmt, err := p.parseBody()
		if err != nil {
			return nil, err
		}
		ifstmt.Add(cond, stmt)
	}
	return ifstmt, nil
}

func (p *parser) parseLoop() (*ast.Node, error) {
	tok := p.next()
	switch tok.Content {
	case "for":
		return p.parseFor(tok)
	case "each":
		return p.parseEach(tok)
	case "while":
		loop := ast.New(ast.WhileLoop, tok)
		cond, err := p.parseCond()
		if err != nil {
			return nil, err
		}
		body, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		return loop.SetChild("cond", cond).SetChild("body", body), nil
	case "do":
		loop := ast.New(ast.DoWhileLoop, tok)
		body, err := p.parseBody()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect("while"); err != nil {
			return nil, err
		}
		cond, err := p.parseCond()
		if err != nil {
			return nil, err
		}
		return loop.SetChild("cond", cond).SetChild("body", body), nil
	}
	return nil, p.errorf(tok, "expected loop")
}

func (p *parser) parseFor(tok jss.Token) (*ast.Node, error) {
	loop := ast.New(ast.ForLoop, tok)
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	if !p.at(";") {
		init, err := p.parseStmtSeq(true)
		if err != nil {
			return nil, err
		}
		loop.SetChild("init", init)
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	if !p.at(";") {
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		loop.SetChild("cond", cond)
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	if !p.at(")") {
		incr, err := p.parseStmtSeq(false)
		if err != nil {
			return nil, err
		}
		loop.SetChild("incr", incr)
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return loop.SetChild("body", body), nil
}

// parseStmtSeq parses a comma separated list of for-loop clauses into a
// STMTLIST. Declarations are allowed for init clauses only.
func (p *parser) parseStmtSeq(decl bool) (*ast.Node, error) {
	seq := ast.New(ast.StmtList, p.peek())
	for {
		var stmt *ast.Node
		var err error
		if decl && p.at("var") {
			stmt, err = p.parseDecStmt()
		} else {
			stmt, err = p.parseExpr()
		}
		if err != nil {
			return nil, err
		}
		seq.Add(stmt)
		if !p.accept(",") {
			return seq, nil
		}
	}
}

func (p *parser) parseEach(tok jss.Token) (*ast.Node, error) {
	loop := ast.New(ast.EachLoop, tok)
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	p.accept("var")
	vars := ast.New(ast.VarList, p.peek())
	if p.accept("(") {
		for {
			name, err := p.expectName()
			if err != nil {
				return nil, err
			}
			vars.Data = append(vars.Data, name.Content)
			if !p.accept(",") {
				break
			}
		}
		if _, err := p.expect(")"); err != nil {
			return nil, err
		}
	} else {
		name, err := p.expectName()
		if err != nil {
			return nil, err
		}
		vars.Data = []string{name.Content}
	}
	if len(vars.Data) > 2 {
		return nil, p.errorf(vars.Token, "each-loop binds at most two names")
	}
	if _, err := p.expect("in"); err != nil {
		return nil, err
	}
	coll, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return loop.SetChild("vars", vars).SetChild("collection", coll).SetChild("body", body), nil
}

// parseJump parses break and continue statements.
func (p *parser) parseJump() (*ast.Node, error) {
	tok := p.next()
	kind := ast.BreakStmt
	if tok.Content == "continue" {
		kind = ast.ContinueStmt
	}
	jump := ast.New(kind, tok)
	if p.at(":") {
		label, err := p.parseLabel()
		if err != nil {
			return nil, err
		}
		jump.SetTag("label", label)
	}
	return jump, nil
}

func (p *parser) parseReturn() (*ast.Node, error) {
	tok, err := p.expect("return")
	if err != nil {
		return nil, err
	}
	ret := ast.New(ast.ReturnStmt, tok)
	if next := p.peek(); next.Kind == jss.TokEOF || next.Is(";") || next.Is("}") {
		return ret, nil
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ret.SetChild("expr", e), nil
}

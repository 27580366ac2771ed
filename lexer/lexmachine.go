package lexer

import (
	"strings"
	"sync"

	"github.com/npillmayer/jss"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// Keywords lists the reserved words of the language. `this` is not among them:
// it is an ordinary name which the evaluator resolves specially.
var Keywords = []string{
	"var", "func", "if", "else", "for", "each", "in", "while", "do",
	"break", "continue", "return", "true", "false", "null",
}

// Punctuation lists operators and delimiters. The DFA always prefers the
// longest match, so "+=" wins over "+".
var Punctuation = []string{
	"...", ">>>",
	"==", "!=", "<=", ">=", "&&", "||", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "=>", "->", "<<", ">>",
	"{", "}", "[", "]", "(", ")", ",", ";", ":", ".", "?",
	"=", "+", "-", "*", "/", "%", "<", ">", "!", "&", "|", "^", "~",
}

// IsKeyword is a predicate: is s a reserved word?
func IsKeyword(s string) bool {
	for _, k := range Keywords {
		if k == s {
			return true
		}
	}
	return false
}

var dfa struct {
	once  sync.Once
	lexer *lexmachine.Lexer
	err   error
}

// machine returns the shared lexmachine lexer, compiling it on first use.
func machine() (*lexmachine.Lexer, error) {
	dfa.once.Do(func() {
		lexer := lexmachine.NewLexer()
		// keywords have to precede names: on equal match length, lexmachine
		// prefers the pattern added first
		for _, kw := range Keywords {
			lexer.Add([]byte(kw), makeToken(jss.TokKeyword))
		}
		for _, lit := range Punctuation {
			r := "\\" + strings.Join(strings.Split(lit, ""), "\\")
			lexer.Add([]byte(r), makeToken(jss.TokPunct))
		}
		lexer.Add([]byte(`([a-z]|[A-Z]|_|\$)([a-z]|[A-Z]|[0-9]|_|\$)*`), makeToken(jss.TokName))
		lexer.Add([]byte(`[0-9]+(\.[0-9]+)?((e|E)(\+|\-)?[0-9]+)?(f|F|d|D|m|M|l|L|u|U)?`), makeToken(jss.TokNumber))
		lexer.Add([]byte(`\.[0-9]+((e|E)(\+|\-)?[0-9]+)?(f|F|d|D|m|M)?`), makeToken(jss.TokNumber))
		lexer.Add([]byte(`0(x|X)([0-9]|[a-f]|[A-F])+(u|U|l|L)*`), makeToken(jss.TokNumber))
		lexer.Add([]byte(`"([^"\\\n]|\\[^\n])*"`), makeToken(jss.TokString))
		lexer.Add([]byte(`'([^'\\\n]|\\[^\n])*'`), makeToken(jss.TokString))
		lexer.Add([]byte(`"([^"\\\n]|\\[^\n])*`), makeToken(jss.TokInvalid))
		lexer.Add([]byte(`'([^'\\\n]|\\[^\n])*`), makeToken(jss.TokInvalid))
		lexer.Add([]byte(`( |\r)+`), makeToken(jss.TokSpace))
		lexer.Add([]byte(`\t+`), makeToken(jss.TokTab))
		lexer.Add([]byte(`\r?\n`), makeToken(jss.TokNewline))
		if err := lexer.Compile(); err != nil {
			tracer().Errorf("error compiling DFA: %v", err)
			dfa.err = err
			return
		}
		dfa.lexer = lexer
	})
	return dfa.lexer, dfa.err
}

// makeToken is an action which wraps a scanned match into a lexmachine token
// of the given category.
func makeToken(kind jss.TokType) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(int(kind), string(m.Bytes), m), nil
	}
}

package lexer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/jss"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// ErrLex is the error category for malformed literals.
var ErrLex = errors.New("lexical error")

// Tokenizer hands out the tokens of a source text one at a time. Whitespace
// tokens are skipped by Peek and Next, but still count for line and column
// positions.
type Tokenizer struct {
	src       []byte
	scanner   *lexmachine.Scanner
	line, col int        // position of the next raw token
	lookahead *jss.Token // next significant token, if peeked
	done      bool
	Error     func(error) // called for unconsumable input
}

// New creates a tokenizer for source text. Comments are stripped beforehand.
// New fails only if the lexer DFA could not be compiled.
func New(source string) (*Tokenizer, error) {
	lexer, err := machine()
	if err != nil {
		return nil, err
	}
	src := []byte(StripComments(source))
	s, err := lexer.Scanner(src)
	if err != nil {
		return nil, err
	}
	return &Tokenizer{
		src:     src,
		scanner: s,
		line:    1,
		col:     1,
		Error:   logError,
	}, nil
}

func logError(e error) {
	tracer().Errorf("scanner error: %v", e)
}

// Peek returns the next significant token without consuming it.
func (t *Tokenizer) Peek() jss.Token {
	if t.lookahead == nil {
		tok := t.NextRaw()
		for tok.Kind.IsWhitespace() {
			tok = t.NextRaw()
		}
		t.lookahead = &tok
	}
	return *t.lookahead
}

// Advance consumes the token returned by the last call to Peek.
func (t *Tokenizer) Advance() {
	if t.lookahead == nil {
		t.Peek()
	}
	if t.lookahead.Kind != jss.TokEOF {
		t.lookahead = nil
	}
}

// Next consumes and returns the next significant token. After the end of input
// has been reached, Next keeps returning a TokEOF token.
func (t *Tokenizer) Next() jss.Token {
	tok := t.Peek()
	t.Advance()
	return tok
}

// NextRaw returns the next token including whitespace. It bypasses the
// lookahead of Peek, so clients should not mix both.
func (t *Tokenizer) NextRaw() jss.Token {
	if t.done {
		return t.eof()
	}
	tok, err, eof := t.scanner.Next()
	if err != nil {
		t.Error(err)
		if ui, is := err.(*machines.UnconsumedInput); is {
			return t.unconsumed(ui)
		}
		t.done = true
		return t.eof()
	}
	if eof || tok == nil {
		t.done = true
		return t.eof()
	}
	lmtok := tok.(*lexmachine.Token)
	token := jss.Token{
		Content: string(lmtok.Lexeme),
		Kind:    jss.TokType(lmtok.Type),
		Line:    t.line,
		Col:     t.col,
	}
	t.move(token)
	return token
}

// unconsumed wraps input the DFA could not match into an invalid token and
// restarts scanning behind it.
func (t *Tokenizer) unconsumed(ui *machines.UnconsumedInput) jss.Token {
	start, end := ui.StartTC, ui.FailTC
	if end <= start {
		_, size := utf8.DecodeRune(t.src[start:])
		end = start + size
	}
	if end > len(t.src) {
		end = len(t.src)
	}
	t.scanner.TC = end
	token := jss.Token{
		Content: string(t.src[start:end]),
		Kind:    jss.TokInvalid,
		Line:    t.line,
		Col:     t.col,
	}
	t.move(token)
	return token
}

func (t *Tokenizer) move(token jss.Token) {
	if token.Kind == jss.TokNewline {
		t.line++
		t.col = 1
		return
	}
	t.col += utf8.RuneCountInString(token.Content)
}

func (t *Tokenizer) eof() jss.Token {
	return jss.Token{Kind: jss.TokEOF, Line: t.line, Col: t.col}
}

// Tokens splits source text into all of its tokens, whitespace included. The
// final TokEOF is not part of the result.
func Tokens(source string) ([]jss.Token, error) {
	t, err := New(source)
	if err != nil {
		return nil, err
	}
	var toks []jss.Token
	for tok := t.NextRaw(); tok.Kind != jss.TokEOF; tok = t.NextRaw() {
		toks = append(toks, tok)
	}
	return toks, nil
}

// --- Literals --------------------------------------------------------------

// Unquote returns the text of a string literal lexeme, with delimiters removed and
// escape sequences resolved. Single and double quotes are both accepted.
func Unquote(lexeme string) (string, error) {
	if len(lexeme) < 2 || lexeme[0] != lexeme[len(lexeme)-1] || (lexeme[0] != '"' && lexeme[0] != '\'') {
		return "", fmt.Errorf("%w: unterminated string literal %s", ErrLex, lexeme)
	}
	quote := lexeme[0]
	s := lexeme[1 : len(lexeme)-1]
	var b strings.Builder
	for len(s) > 0 {
		if s[0] == '\\' && len(s) > 1 && strings.IndexByte(`/'"`, s[1]) >= 0 {
			b.WriteByte(s[1])
			s = s[2:]
			continue
		}
		r, multibyte, tail, err := strconv.UnquoteChar(s, quote)
		if err != nil {
			return "", fmt.Errorf("%w: invalid escape in string literal %s", ErrLex, lexeme)
		}
		if multibyte {
			b.WriteRune(r)
		} else {
			b.WriteByte(byte(r))
		}
		s = tail
	}
	return b.String(), nil
}

// ParseNumber interprets a numeric literal lexeme. Type suffixes (f, d, m, l, u)
// are accepted and ignored, hex literals start with 0x.
func ParseNumber(lexeme string) (float64, error) {
	s := strings.ToLower(lexeme)
	if strings.HasPrefix(s, "0x") {
		s = strings.TrimRight(s[2:], "ul")
		n, err := strconv.ParseUint(s, 16, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: malformed hex literal %s", ErrLex, lexeme)
		}
		return float64(n), nil
	}
	s = strings.TrimRight(s, "fdmlu")
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed number %s", ErrLex, lexeme)
	}
	return n, nil
}

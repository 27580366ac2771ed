package jss

import "fmt"

// --- A general purpose token type ------------------------------------------

// TokType is a category type for a Token.
type TokType int

// Token categories. TokInvalid and TokEOF are sentinels: TokInvalid marks input
// the lexer was unable to make sense of, TokEOF marks the end of the token stream.
const (
	TokInvalid TokType = iota - 2
	TokEOF
	TokName    // identifier
	TokNumber  // numeric literal, lexeme includes suffixes
	TokString  // string literal, lexeme includes delimiters
	TokKeyword // reserved word
	TokPunct   // operator or punctuation
	TokSpace   // run of blanks
	TokTab     // run of tabs
	TokNewline // single line break
)

func (t TokType) String() string {
	switch t {
	case TokInvalid:
		return "invalid"
	case TokEOF:
		return "EOF"
	case TokName:
		return "name"
	case TokNumber:
		return "number"
	case TokString:
		return "string"
	case TokKeyword:
		return "keyword"
	case TokPunct:
		return "punctuation"
	case TokSpace:
		return "space"
	case TokTab:
		return "tab"
	case TokNewline:
		return "newline"
	}
	return fmt.Sprintf("TokType(%d)", int(t))
}

// IsWhitespace is true for token types the parser never sees.
func (t TokType) IsWhitespace() bool {
	return t == TokSpace || t == TokTab || t == TokNewline
}

// Token represents an input token. Tokens are produced by the lexer on demand and
// never change afterwards.
//
// An example would be a token for a floating point number:
//
//    Kind    = TokNumber   // category of this token
//    Content = "3.1416"    // lexeme how it appeared in the input stream
//    Line    = 4           // line of the first character, starting at 1
//    Col     = 12          // column of the first character, starting at 1
//
type Token struct {
	Content string
	Kind    TokType
	Line    int
	Col     int
}

// Is is a predicate: is this a keyword or punctuation token with the given lexeme?
func (t Token) Is(lexeme string) bool {
	return (t.Kind == TokKeyword || t.Kind == TokPunct) && t.Content == lexeme
}

// Pos returns the position of a token as "line:col".
func (t Token) Pos() string {
	return fmt.Sprintf("%d:%d", t.Line, t.Col)
}

func (t Token) String() string {
	if t.Kind == TokEOF {
		return "<EOF>"
	}
	return fmt.Sprintf("<%s %q @%s>", t.Kind, t.Content, t.Pos())
}

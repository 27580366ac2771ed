package lexer

import "strings"

// StripComments removes C-style comments (`// …` and `/* … */`) from source text.
// Comment markers inside string literals are left alone. Newlines within block
// comments are kept, so line numbers of subsequent tokens do not change.
func StripComments(src string) string {
	var b strings.Builder
	b.Grow(len(src))
	const (
		code = iota
		str
		lineComment
		blockComment
	)
	state := code
	var quote rune
	r := []rune(src)
	for i := 0; i < len(r); i++ {
		c := r[i]
		switch state {
		case code:
			if c == '/' && i+1 < len(r) && r[i+1] == '/' {
				state = lineComment
				i++
				continue
			}
			if c == '/' && i+1 < len(r) && r[i+1] == '*' {
				state = blockComment
				i++
				continue
			}
			if c == '"' || c == '\'' {
				state, quote = str, c
			}
			b.WriteRune(c)
		case str:
			b.WriteRune(c)
			if c == '\\' && i+1 < len(r) && r[i+1] != '\n' {
				i++
				b.WriteRune(r[i])
			} else if c == quote || c == '\n' { // a newline ends a broken literal
				state = code
			}
		case lineComment:
			if c == '\n' {
				b.WriteRune(c)
				state = code
			}
		case blockComment:
			if c == '\n' {
				b.WriteRune(c)
			} else if c == '*' && i+1 < len(r) && r[i+1] == '/' {
				i++
				state = code
			}
		}
	}
	return b.String()
}

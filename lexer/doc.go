/*
Package lexer tokenizes jss source text.

Tokenizing happens in two phases. First, comments are stripped from the
source (StripComments), keeping line numbers intact. Second, a lexmachine
DFA splits the remaining text into tokens. The DFA is compiled once and
shared by all tokenizers.

Whitespace is not thrown away by the DFA: blanks, tabs and newlines are
tokens of their own, which lets the tokenizer track line and column
positions. The consuming API (Peek, Next) skips them.

Tokens the DFA cannot make sense of, as well as unterminated string
literals, are handed out as tokens of kind jss.TokInvalid. It is up to the
parser to reject them.

For more information on lexmachine, see e.g.
https://hackthology.com/how-to-tokenize-complex-strings-with-lexmachine.html

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lexer

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'jss.lexer'.
func tracer() tracing.Trace {
	return tracing.Select("jss.lexer")
}

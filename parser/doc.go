/*
Package parser implements a recursive-descent parser for jss.

Each grammar production is a method consuming exactly the tokens of its
production and returning a node of package ast. Productions with a single
child and no operator return the child unwrapped, e.g. a plain number
literal is never wrapped into EXPR/BOOLTERM/… nodes.

Statements starting with a name are ambiguous until the complete path has
been read: `a.b[1]` may turn out to be a read, an assignment (`a.b[1] = 5`,
`a.b[1]++`) or a call (`a.b[1](x)`). The parser reads the path first and
decides by the token following it, producing an ATOM, ASSIGN or FUNCCALL node.

Errors are reported with line and column of the offending token. Parsing
stops at the first error; no partial tree is returned.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parser

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'jss.parser'.
func tracer() tracing.Trace {
	return tracing.Select("jss.parser")
}

/*
Package jss is a small embeddable script language operating on JSON-like values.

jss strives to be a lightweight scripting layer for Go hosts which need
to run many small scripts side by side, either to completion or step by step,
driven by an external scheduler. Package structure is as follows:

■ lexer: Package lexer strips comments and tokenizes source text, based on a
lexmachine DFA.

■ parser: Package parser implements a recursive-descent parser producing trees of
package ast.

■ value: Package value implements the dynamically typed value model scripts operate on.

■ runtime: Package runtime provides scopes and call frames for the interpreter.

■ interp: Package interp implements the tree-walking evaluator, in a blocking and in a
suspending flavour, together with steppers and a cooperative scheduler.

■ host: Package host reflects native Go functions and objects into script values.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package jss

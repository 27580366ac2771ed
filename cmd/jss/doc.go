/*
Package main provides jss, an interactive command line tool for the jss
scripting language. Every line entered is compiled and executed in a
long-living execution context, and its result is printed. Given file
arguments, jss runs them as scripts instead.

Lines starting with a colon are commands:

  :tree <src>   print the program tree of <src>
  :globals      print the global scope
  :reset        start over with a fresh context
  :quit         leave

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'jss.repl'
func tracer() tracing.Trace {
	return tracing.Select("jss.repl")
}

package ast

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'jss.parser'.
func tracer() tracing.Trace {
	return tracing.Select("jss.parser")
}

/*
Package host connects native Go values to scripts.

Native objects expose their members to scripts through interface ScriptHost.
Types may implement ScriptHost themselves; for all other types Reflect builds
an adapter from the exported fields and methods of the type. The member table
of a type is computed once and cached, subsequent accesses are map lookups.

Plain Go functions and the methods of a receiver may be installed into a
binding object (usually the interpreter's globals) with LoadFuncs and
LoadMethods. Calls from scripts coerce each argument separately:

  1. arguments already matching the parameter type are passed as-is,
  2. others are converted structurally (see value.ToNative),
  3. if this fails, the zero value of the parameter type is passed.

Results are converted with value.FromNative, except promises and script hosts,
which are handed to the script as native values. A trailing non-nil error
result or a panic is logged and results in null.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package host

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'jss.host'.
func tracer() tracing.Trace {
	return tracing.Select("jss.host")
}

// ErrNoSuchMember is returned for calls of members a host does not have.
var ErrNoSuchMember = errors.New("no such member")

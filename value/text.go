package value

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrSyntax is returned by Parse for malformed input.
var ErrSyntax = errors.New("malformed value text")

// Circular is written in place of a container which contains itself.
const Circular = "[circular]"

// String returns the JSON text of v. Functions and natives, which have no
// JSON representation, are rendered as descriptive strings. A container nested
// inside itself is rendered as the string Circular.
func (v Value) String() string {
	var b strings.Builder
	v.write(&b, make(map[interface{}]bool))
	return b.String()
}

// open holds the containers currently being written.
func (v Value) write(b *strings.Builder, open map[interface{}]bool) {
	if v.kind == ArrayKind || v.kind == ObjectKind {
		if open[v.ref] {
			quote(b, Circular)
			return
		}
		open[v.ref] = true
		defer delete(open, v.ref)
	}
	switch v.kind {
	case NullKind:
		b.WriteString("null")
	case BoolKind:
		b.WriteString(strconv.FormatBool(v.num != 0))
	case NumberKind:
		b.WriteString(FormatNumber(v.num))
	case StringKind:
		quote(b, v.str)
	case ArrayKind:
		b.WriteByte('[')
		for i, e := range v.AsArray().Values() {
			if i > 0 {
				b.WriteByte(',')
			}
			e.write(b, open)
		}
		b.WriteByte(']')
	case ObjectKind:
		b.WriteByte('{')
		first := true
		v.AsObject().Each(func(k string, e Value) {
			if !first {
				b.WriteByte(',')
			}
			first = false
			quote(b, k)
			b.WriteByte(':')
			e.write(b, open)
		})
		b.WriteByte('}')
	case FuncKind:
		quote(b, fmt.Sprintf("<func %T>", v.ref))
	case NativeKind:
		quote(b, fmt.Sprintf("<native %T>", v.ref))
	}
}

// FormatNumber formats a number the way scripts print it: integral values without
// a fractional part, everything else in its shortest representation.
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == math.Trunc(n) && math.Abs(n) < 1e21:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case math.Abs(n) < 1e-6 || math.Abs(n) >= 1e21:
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func quote(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
}

// --- Deserialization -------------------------------------------------------

// Parse reads a value from its textual form. Every JSON document is accepted,
// as is YAML. Objects keep the key order of the input.
func Parse(text string) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return Null, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return fromYAML(&doc)
}

func fromYAML(n *yaml.Node) (Value, error) {
	switch n.Kind {
	case 0:
		return Null, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null, nil
		}
		return fromYAML(n.Content[0])
	case yaml.AliasNode:
		return fromYAML(n.Alias)
	case yaml.MappingNode:
		obj := NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := fromYAML(n.Content[i+1])
			if err != nil {
				return Null, err
			}
			obj.Set(n.Content[i].Value, v)
		}
		return Obj(obj), nil
	case yaml.SequenceNode:
		arr := NewArray()
		for _, c := range n.Content {
			v, err := fromYAML(c)
			if err != nil {
				return Null, err
			}
			arr.Append(v)
		}
		return Arr(arr), nil
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return Null, nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return Null, fmt.Errorf("%w: line %d: %v", ErrSyntax, n.Line, err)
			}
			return Bool(b), nil
		case "!!int", "!!float":
			var f float64
			if err := n.Decode(&f); err != nil {
				return Null, fmt.Errorf("%w: line %d: %v", ErrSyntax, n.Line, err)
			}
			return Number(f), nil
		}
		return String(n.Value), nil
	}
	return Null, fmt.Errorf("%w: line %d: unsupported node", ErrSyntax, n.Line)
}

// FILE: logflume/src/internal/core/value.go
package core

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind discriminates the payload carried by a Value.
type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
	KindBool
	KindStructured
)

// Value is a tagged field value. Context and meta fields carry Values rather
// than raw any so formatters can render every kind without reflection
// surprises.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
	Any  any
}

// Fields is an open string-keyed mapping of tagged values.
type Fields map[string]Value

// String wraps a string value.
func String(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// Int wraps an integer value.
func Int(n int64) Value {
	return Value{Kind: KindNumber, Num: float64(n)}
}

// Float wraps a floating point value.
func Float(f float64) Value {
	return Value{Kind: KindNumber, Num: f}
}

// Bool wraps a boolean value.
func Bool(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// Structured wraps an arbitrary value to be serialized by the formatter.
// A value that cannot be serialized is rendered as a placeholder, it never
// fails the entry.
func Structured(v any) Value {
	return Value{Kind: KindStructured, Any: v}
}

// Interface returns the value as a plain Go value for serialization.
func (v Value) Interface() any {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return v.Num
	case KindBool:
		return v.Bool
	case KindStructured:
		return v.Any
	default:
		return nil
	}
}

// MarshalJSON serializes the tagged payload. Structured values that cannot
// be marshaled become a placeholder string.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		return json.Marshal(v.Num)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindStructured:
		b, err := json.Marshal(v.Any)
		if err != nil {
			return json.Marshal(fmt.Sprintf("<unserializable: %T>", v.Any))
		}
		return b, nil
	default:
		return []byte("null"), nil
	}
}

// Text renders the value for the text formatter.
func (v Value) Text() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindStructured:
		b, err := json.Marshal(v.Any)
		if err != nil {
			return fmt.Sprintf("<unserializable: %T>", v.Any)
		}
		return string(b)
	default:
		return ""
	}
}

// Clone returns a shallow copy of the field map. Structured payloads are
// shared, the map itself is independent.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Merge returns a copy of f with extra applied on top. Keys in extra win.
func (f Fields) Merge(extra Fields) Fields {
	out := f.Clone()
	for k, v := range extra {
		out[k] = v
	}
	return out
}

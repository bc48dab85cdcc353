package storage

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind identifies which variant a Value holds.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
)

// Value is a single row cell. Numbers are kept as their exact decimal text
// so that BIGINT and DECIMAL values survive round-trips without losing
// precision to float64.
type Value struct {
	kind ValueKind
	b    bool
	text string
}

// NullValue returns the JSON null value.
func NullValue() Value {
	return Value{kind: KindNull}
}

// BoolValue returns a boolean value.
func BoolValue(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// NumberValue returns a numeric value holding the given decimal text.
func NumberValue(text string) Value {
	return Value{kind: KindNumber, text: text}
}

// StringValue returns a string value.
func StringValue(s string) Value {
	return Value{kind: KindString, text: s}
}

// Kind reports which variant the value holds.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Bool returns the boolean payload. It is only meaningful for KindBool.
func (v Value) Bool() bool {
	return v.b
}

// Text returns the value rendered as a string: the number text for numbers,
// the string payload for strings, "true"/"false" for booleans and "" for null.
func (v Value) Text() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return v.text
	}
}

// Equal reports whether two values hold the same variant and payload.
func (v Value) Equal(other Value) bool {
	return v.kind == other.kind && v.b == other.b && v.text == other.text
}

// MarshalJSON encodes the value as the corresponding JSON scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return []byte(strconv.FormatBool(v.b)), nil
	case KindNumber:
		return []byte(v.text), nil
	case KindString:
		return json.Marshal(v.text)
	default:
		return nil, fmt.Errorf("unknown value kind %d", v.kind)
	}
}

// UnmarshalJSON decodes any JSON scalar into the matching variant. Numbers
// keep their original text.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := valueFromToken(json.RawMessage(data))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// valueFromToken builds a Value from a raw JSON scalar.
func valueFromToken(raw json.RawMessage) (Value, error) {
	if len(raw) == 0 {
		return Value{}, fmt.Errorf("empty JSON value")
	}
	switch raw[0] {
	case 'n':
		return NullValue(), nil
	case 't':
		return BoolValue(true), nil
	case 'f':
		return BoolValue(false), nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return Value{}, fmt.Errorf("unsupported JSON value %s", raw)
		}
		return NumberValue(n.String()), nil
	}
}

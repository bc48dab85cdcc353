package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Row is an ordered mapping from column names to values. Iteration and JSON
// encoding follow insertion order, so persisted documents keep the declared
// column order stable.
type Row struct {
	keys   []string
	values map[string]Value
}

// NewRow returns an empty row.
func NewRow() Row {
	return Row{values: make(map[string]Value)}
}

// Set stores a value under the given column name, appending the name to the
// key order on first use.
func (r *Row) Set(name string, v Value) {
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if _, ok := r.values[name]; !ok {
		r.keys = append(r.keys, name)
	}
	r.values[name] = v
}

// Get returns the value for the given column name.
func (r Row) Get(name string) (Value, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Delete removes the column from the row if present.
func (r *Row) Delete(name string) {
	if _, ok := r.values[name]; !ok {
		return
	}
	delete(r.values, name)
	for i, k := range r.keys {
		if k == name {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
}

// Take removes the column and returns its former value.
func (r *Row) Take(name string) (Value, bool) {
	v, ok := r.values[name]
	if ok {
		r.Delete(name)
	}
	return v, ok
}

// Keys returns the column names in insertion order. The returned slice is a
// copy.
func (r Row) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of columns in the row.
func (r Row) Len() int {
	return len(r.keys)
}

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	out := NewRow()
	for _, k := range r.keys {
		out.Set(k, r.values[k])
	}
	return out
}

// MarshalJSON encodes the row as a JSON object with keys in insertion order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object preserving key order. Number tokens
// keep their original text.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("row document must be a JSON object")
	}

	out := NewRow()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("row document has a non-string key")
		}
		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		value, err := valueFromJSONToken(valTok)
		if err != nil {
			return fmt.Errorf("column %q: %w", key, err)
		}
		out.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = out
	return nil
}

// valueFromJSONToken converts a decoded scalar token into a Value.
func valueFromJSONToken(tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(t), nil
	case json.Number:
		return NumberValue(t.String()), nil
	case string:
		return StringValue(t), nil
	default:
		return Value{}, fmt.Errorf("unsupported value of type %T", tok)
	}
}

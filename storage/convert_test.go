package storage

import (
	"testing"

	"minidb/schema"
)

func buildColumn(t *testing.T, b *schema.ColumnBuilder) schema.Column {
	t.Helper()
	col, err := b.Build()
	if err != nil {
		t.Fatalf("Failed to build column: %v", err)
	}
	return col
}

func TestConvertValueInteger(t *testing.T) {
	col := buildColumn(t, schema.NewColumn("n", schema.TypeInteger))

	v, err := convertValue(col, StringValue("42"))
	if err != nil {
		t.Fatalf("Failed to convert: %v", err)
	}
	if v.Kind() != KindNumber || v.Text() != "42" {
		t.Errorf("Expected number 42, got %v", v)
	}

	if _, err := convertValue(col, StringValue("not a number")); err == nil {
		t.Error("Expected an error for non-numeric text")
	}
	if _, err := convertValue(col, NumberValue("19.99")); err == nil {
		t.Error("Expected an error for a fractional INTEGER")
	}
}

func TestConvertValueDecimal(t *testing.T) {
	col := buildColumn(t, schema.NewColumn("d", schema.TypeDecimal).Precision(10).Scale(2))

	cases := []struct{ in, want string }{
		{"42", "42"},
		{"19.99", "19.99"},
		{"19.9900", "19.99"},
		{"0.5", "0.5"},
	}
	for _, tc := range cases {
		v, err := convertValue(col, StringValue(tc.in))
		if err != nil {
			t.Fatalf("Failed to convert %q: %v", tc.in, err)
		}
		if v.Text() != tc.want {
			t.Errorf("Expected %s, got %s", tc.want, v.Text())
		}
	}

	if _, err := convertValue(col, StringValue("abc")); err == nil {
		t.Error("Expected an error for non-numeric text")
	}
}

func TestConvertValueBoolean(t *testing.T) {
	col := buildColumn(t, schema.NewColumn("b", schema.TypeBoolean))

	v, err := convertValue(col, StringValue("true"))
	if err != nil {
		t.Fatalf("Failed to convert: %v", err)
	}
	if v.Kind() != KindBool || !v.Bool() {
		t.Errorf("Expected true, got %v", v)
	}
	if _, err := convertValue(col, StringValue("maybe")); err == nil {
		t.Error("Expected an error for invalid boolean text")
	}
}

func TestConvertValueTimestamp(t *testing.T) {
	col := buildColumn(t, schema.NewColumn("ts", schema.TypeTimestamp))

	if _, err := convertValue(col, StringValue("2026-01-02 15:04:05")); err != nil {
		t.Errorf("Expected a valid timestamp, got error: %v", err)
	}
	if _, err := convertValue(col, StringValue("yesterday")); err == nil {
		t.Error("Expected an error for invalid timestamp text")
	}
}

func TestConvertValueVarcharPassesThrough(t *testing.T) {
	col := buildColumn(t, schema.NewColumn("s", schema.TypeVarchar).Length(50))

	cases := []Value{NumberValue("42"), BoolValue(true), StringValue("Widget")}
	for _, in := range cases {
		v, err := convertValue(col, in)
		if err != nil {
			t.Fatalf("Failed to convert %v: %v", in, err)
		}
		if !v.Equal(in) {
			t.Errorf("Expected %v unchanged, got %v", in, v)
		}
	}
}

func TestConvertValueDatePassesThrough(t *testing.T) {
	col := buildColumn(t, schema.NewColumn("d", schema.TypeDate))

	cases := []Value{StringValue("2026-01-02"), StringValue("not-a-date"), NumberValue("7")}
	for _, in := range cases {
		v, err := convertValue(col, in)
		if err != nil {
			t.Fatalf("Failed to convert %v: %v", in, err)
		}
		if !v.Equal(in) {
			t.Errorf("Expected %v unchanged, got %v", in, v)
		}
	}
}

func TestConvertValueNullPassesThrough(t *testing.T) {
	col := buildColumn(t, schema.NewColumn("n", schema.TypeInteger))
	v, err := convertValue(col, NullValue())
	if err != nil {
		t.Fatalf("Failed to convert: %v", err)
	}
	if !v.IsNull() {
		t.Errorf("Expected null to pass through, got %v", v)
	}
}

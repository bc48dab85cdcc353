package storage

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"minidb/schema"
)

// timestampLayout is the accepted TIMESTAMP text format.
const timestampLayout = "2006-01-02 15:04:05"

// convertValue coerces a stored value to the column's data type. Only
// INTEGER/BIGINT, DECIMAL, BOOLEAN and TIMESTAMP are validated; every other
// type passes the value through unchanged. A conversion failure is reported
// so the migration can fall back to the column default.
func convertValue(col schema.Column, v Value) (Value, error) {
	if v.IsNull() {
		return v, nil
	}

	switch col.Type {
	case schema.TypeInteger, schema.TypeBigInt:
		n, err := strconv.ParseInt(strings.TrimSpace(v.Text()), 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("cannot convert %q to %s", v.Text(), col.Type)
		}
		return NumberValue(strconv.FormatInt(n, 10)), nil

	case schema.TypeDecimal:
		rat, ok := new(big.Rat).SetString(strings.TrimSpace(v.Text()))
		if !ok {
			return Value{}, fmt.Errorf("cannot convert %q to %s", v.Text(), col.Type)
		}
		return NumberValue(formatRat(rat)), nil

	case schema.TypeBoolean:
		b, err := strconv.ParseBool(strings.TrimSpace(v.Text()))
		if err != nil {
			return Value{}, fmt.Errorf("cannot convert %q to %s", v.Text(), col.Type)
		}
		return BoolValue(b), nil

	case schema.TypeTimestamp:
		text := strings.TrimSpace(v.Text())
		if _, err := time.Parse(timestampLayout, text); err != nil {
			return Value{}, fmt.Errorf("cannot convert %q to %s", v.Text(), col.Type)
		}
		return StringValue(text), nil

	default:
		// VARCHAR, CHAR and DATE take the stored value as is.
		return v, nil
	}
}

// formatRat renders a rational as decimal text with up to ten fractional
// digits, trimming trailing zeros.
func formatRat(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	text := r.FloatString(10)
	text = strings.TrimRight(text, "0")
	text = strings.TrimSuffix(text, ".")
	return text
}

// defaultValue builds the stored value for a column default.
func defaultValue(col schema.Column) Value {
	if !col.Constraints.Has(schema.HasDefault) || col.Default == nil {
		return NullValue()
	}
	return StringValue(*col.Default)
}

package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DataType represents a supported column type.
type DataType string

const (
	TypeInteger   DataType = "INTEGER"
	TypeBigInt    DataType = "BIGINT"
	TypeVarchar   DataType = "VARCHAR"
	TypeChar      DataType = "CHAR"
	TypeDate      DataType = "DATE"
	TypeTimestamp DataType = "TIMESTAMP"
	TypeBoolean   DataType = "BOOLEAN"
	TypeDecimal   DataType = "DECIMAL"
)

// ParseDataType resolves a type name from DDL text to a DataType.
// Alternate spellings are normalized: INT becomes INTEGER and NUMERIC
// becomes DECIMAL.
func ParseDataType(name string) (DataType, error) {
	switch strings.ToUpper(name) {
	case "INT", "INTEGER":
		return TypeInteger, nil
	case "BIGINT":
		return TypeBigInt, nil
	case "VARCHAR":
		return TypeVarchar, nil
	case "CHAR":
		return TypeChar, nil
	case "DATE":
		return TypeDate, nil
	case "TIMESTAMP":
		return TypeTimestamp, nil
	case "BOOLEAN":
		return TypeBoolean, nil
	case "DECIMAL", "NUMERIC":
		return TypeDecimal, nil
	}
	return "", fmt.Errorf("unknown data type '%s'", name)
}

// Constraint identifies a single column constraint.
type Constraint uint8

const (
	PrimaryKey Constraint = 1 << iota
	NotNull
	Unique
	AutoIncrement
	HasDefault
)

// constraintNames lists constraints in their canonical serialization and
// DDL emission order.
var constraintNames = []struct {
	c    Constraint
	name string
}{
	{PrimaryKey, "PRIMARY_KEY"},
	{NotNull, "NOT_NULL"},
	{Unique, "UNIQUE"},
	{AutoIncrement, "AUTO_INCREMENT"},
	{HasDefault, "DEFAULT"},
}

// ConstraintSet is a value-type set of column constraints. It is owned by
// exactly one Column and is never shared or aliased.
type ConstraintSet uint8

// Has reports whether the set contains c.
func (s ConstraintSet) Has(c Constraint) bool {
	return s&ConstraintSet(c) != 0
}

// With returns a copy of the set with c added.
func (s ConstraintSet) With(c Constraint) ConstraintSet {
	return s | ConstraintSet(c)
}

// Without returns a copy of the set with c removed.
func (s ConstraintSet) Without(c Constraint) ConstraintSet {
	return s &^ ConstraintSet(c)
}

// MarshalJSON serializes the set as an array of constraint names in
// canonical order.
func (s ConstraintSet) MarshalJSON() ([]byte, error) {
	names := make([]string, 0, len(constraintNames))
	for _, entry := range constraintNames {
		if s.Has(entry.c) {
			names = append(names, entry.name)
		}
	}
	return json.Marshal(names)
}

// UnmarshalJSON restores the set from an array of constraint names.
func (s *ConstraintSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	var set ConstraintSet
	for _, name := range names {
		found := false
		for _, entry := range constraintNames {
			if entry.name == name {
				set = set.With(entry.c)
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown constraint '%s'", name)
		}
	}
	*s = set
	return nil
}

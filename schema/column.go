package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Column defines a table column. A Column is immutable once built; ALTER
// operations replace the whole column rather than mutating it in place.
type Column struct {
	Name        string        `json:"name"`
	Type        DataType      `json:"type"`
	Length      int           `json:"length,omitempty"`
	Precision   int           `json:"precision,omitempty"`
	Scale       int           `json:"scale,omitempty"`
	Constraints ConstraintSet `json:"constraints,omitempty"`
	Default     *string       `json:"default,omitempty"`
}

// ColumnBuilder assembles a Column. Obtain one via NewColumn.
type ColumnBuilder struct {
	col Column
}

// NewColumn starts building a column with the required name and type.
func NewColumn(name string, dt DataType) *ColumnBuilder {
	return &ColumnBuilder{col: Column{Name: name, Type: dt}}
}

// Length sets the length for VARCHAR/CHAR columns.
func (b *ColumnBuilder) Length(n int) *ColumnBuilder {
	b.col.Length = n
	return b
}

// Precision sets the precision for DECIMAL columns.
func (b *ColumnBuilder) Precision(n int) *ColumnBuilder {
	b.col.Precision = n
	return b
}

// Scale sets the scale for DECIMAL columns.
func (b *ColumnBuilder) Scale(n int) *ColumnBuilder {
	b.col.Scale = n
	return b
}

// Constraint adds a constraint to the column.
func (b *ColumnBuilder) Constraint(c Constraint) *ColumnBuilder {
	b.col.Constraints = b.col.Constraints.With(c)
	return b
}

// Default sets the default value (stored as text, interpreted per type) and
// marks the column with the DEFAULT constraint.
func (b *ColumnBuilder) Default(value string) *ColumnBuilder {
	v := value
	b.col.Default = &v
	b.col.Constraints = b.col.Constraints.With(HasDefault)
	return b
}

// Build validates and returns the column. Name and type are required;
// length is only valid on VARCHAR/CHAR and precision/scale only on DECIMAL.
func (b *ColumnBuilder) Build() (Column, error) {
	col := b.col
	if col.Name == "" {
		return Column{}, errors.New("column name is required")
	}
	if col.Type == "" {
		return Column{}, fmt.Errorf("column '%s' has no type", col.Name)
	}
	if col.Length > 0 && col.Type != TypeVarchar && col.Type != TypeChar {
		return Column{}, fmt.Errorf("type %s does not take a length", col.Type)
	}
	if (col.Precision > 0 || col.Scale > 0) && col.Type != TypeDecimal {
		return Column{}, fmt.Errorf("type %s does not take precision/scale", col.Type)
	}
	return col, nil
}

// IsPrimaryKey reports whether the column carries the PRIMARY KEY constraint.
func (c Column) IsPrimaryKey() bool {
	return c.Constraints.Has(PrimaryKey)
}

// IsNullable reports whether the column accepts NULL values.
func (c Column) IsNullable() bool {
	return !c.Constraints.Has(NotNull)
}

// Rename returns a copy of the column under a new name.
func (c Column) Rename(name string) Column {
	out := c
	out.Name = name
	if c.Default != nil {
		v := *c.Default
		out.Default = &v
	}
	return out
}

// ToDDL renders the column definition fragment used inside CREATE TABLE.
// The PRIMARY KEY constraint is not emitted here; Table.GenerateCreateDDL
// renders it as a table-level constraint.
func (c Column) ToDDL() string {
	var sb strings.Builder
	sb.WriteString(c.Name)
	sb.WriteByte(' ')
	sb.WriteString(string(c.Type))

	if c.Length > 0 {
		fmt.Fprintf(&sb, "(%d)", c.Length)
	} else if c.Precision > 0 {
		if c.Scale > 0 {
			fmt.Fprintf(&sb, "(%d,%d)", c.Precision, c.Scale)
		} else {
			fmt.Fprintf(&sb, "(%d)", c.Precision)
		}
	}

	if c.Constraints.Has(NotNull) {
		sb.WriteString(" NOT NULL")
	}
	if c.Constraints.Has(Unique) {
		sb.WriteString(" UNIQUE")
	}
	if c.Constraints.Has(AutoIncrement) {
		sb.WriteString(" AUTO_INCREMENT")
	}
	if c.Constraints.Has(HasDefault) && c.Default != nil {
		sb.WriteString(" DEFAULT ")
		sb.WriteString(c.formatDefault())
	}
	return sb.String()
}

// formatDefault quotes the default value for textual types.
func (c Column) formatDefault() string {
	switch c.Type {
	case TypeVarchar, TypeChar, TypeDate, TypeTimestamp:
		return "'" + strings.ReplaceAll(*c.Default, "'", "''") + "'"
	default:
		return *c.Default
	}
}

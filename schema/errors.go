package schema

import (
	"errors"
	"fmt"
)

// ErrNoColumns is returned when a table is defined without any columns.
var ErrNoColumns = errors.New("table must have at least one column")

// DuplicateColumnError is returned when a column name collides with an
// existing column. Column names are compared case-insensitively.
type DuplicateColumnError struct {
	Table  string
	Column string
}

func (e *DuplicateColumnError) Error() string {
	return fmt.Sprintf("column '%s' already exists in table '%s'", e.Column, e.Table)
}

// ColumnNotFoundError is returned when an operation names a column the
// table does not have.
type ColumnNotFoundError struct {
	Table  string
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column '%s' does not exist in table '%s'", e.Column, e.Table)
}

// TableExistsError is returned when a table name collides with an existing
// table in the same database.
type TableExistsError struct {
	Database string
	Table    string
}

func (e *TableExistsError) Error() string {
	return fmt.Sprintf("table '%s' already exists in database '%s'", e.Table, e.Database)
}

// TableNotFoundError is returned when an operation names a table the
// database does not have.
type TableNotFoundError struct {
	Database string
	Table    string
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("table '%s' does not exist in database '%s'", e.Table, e.Database)
}

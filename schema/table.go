package schema

import (
	"encoding/json"
	"sort"
	"strings"
)

// Table holds table metadata: a name, an optional schema qualifier, and an
// ordered sequence of columns. Column order is significant; it reflects
// declaration order and drives generated DDL and persisted row field order.
// The primary-key set is derived from the columns and recomputed on every
// structural change.
type Table struct {
	Name    string
	Schema  string
	Columns []Column

	primaryKeys map[string]struct{}
}

// NewTable validates the definition and returns a Table. The definition
// must have at least one column and no two columns may share a
// case-insensitive name.
func NewTable(name, schemaName string, columns []Column) (*Table, error) {
	t := &Table{
		Name:    name,
		Schema:  schemaName,
		Columns: append([]Column(nil), columns...),
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	t.recomputePrimaryKeys()
	return t, nil
}

func (t *Table) validate() error {
	if len(t.Columns) == 0 {
		return ErrNoColumns
	}
	seen := make(map[string]struct{}, len(t.Columns))
	for _, col := range t.Columns {
		key := strings.ToLower(col.Name)
		if _, dup := seen[key]; dup {
			return &DuplicateColumnError{Table: t.Name, Column: col.Name}
		}
		seen[key] = struct{}{}
	}
	return nil
}

func (t *Table) recomputePrimaryKeys() {
	t.primaryKeys = make(map[string]struct{})
	for _, col := range t.Columns {
		if col.IsPrimaryKey() {
			t.primaryKeys[col.Name] = struct{}{}
		}
	}
}

// Column returns the column with the given case-insensitive name.
func (t *Table) Column(name string) (Column, bool) {
	i := t.columnIndex(name)
	if i < 0 {
		return Column{}, false
	}
	return t.Columns[i], true
}

func (t *Table) columnIndex(name string) int {
	for i, col := range t.Columns {
		if strings.EqualFold(col.Name, name) {
			return i
		}
	}
	return -1
}

// PrimaryKeys returns the sorted set of primary-key column names.
func (t *Table) PrimaryKeys() []string {
	keys := make([]string, 0, len(t.primaryKeys))
	for name := range t.primaryKeys {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}

// IsPrimaryKey reports whether the named column is part of the primary key.
func (t *Table) IsPrimaryKey(name string) bool {
	_, ok := t.primaryKeys[name]
	return ok
}

// AddColumn appends a column to the table, preserving declaration order.
// It fails with DuplicateColumnError on a case-insensitive name collision.
func (t *Table) AddColumn(col Column) error {
	if t.columnIndex(col.Name) >= 0 {
		return &DuplicateColumnError{Table: t.Name, Column: col.Name}
	}
	t.Columns = append(t.Columns, col)
	if col.IsPrimaryKey() {
		t.primaryKeys[col.Name] = struct{}{}
	}
	return nil
}

// DropColumn removes the named column from the sequence and from the
// primary-key set. It fails with ColumnNotFoundError if the column is
// absent.
func (t *Table) DropColumn(name string) error {
	i := t.columnIndex(name)
	if i < 0 {
		return &ColumnNotFoundError{Table: t.Name, Column: name}
	}
	delete(t.primaryKeys, t.Columns[i].Name)
	t.Columns = append(t.Columns[:i], t.Columns[i+1:]...)
	return nil
}

// ModifyColumn replaces the column named oldName with newCol, preserving
// its position in the sequence. If newCol renames the column, the new name
// must not collide with any other column. The primary-key set is updated
// for every combination of the old and new key flags.
func (t *Table) ModifyColumn(oldName string, newCol Column) error {
	i := t.columnIndex(oldName)
	if i < 0 {
		return &ColumnNotFoundError{Table: t.Name, Column: oldName}
	}
	if !strings.EqualFold(oldName, newCol.Name) {
		if j := t.columnIndex(newCol.Name); j >= 0 && j != i {
			return &DuplicateColumnError{Table: t.Name, Column: newCol.Name}
		}
	}
	delete(t.primaryKeys, t.Columns[i].Name)
	t.Columns[i] = newCol
	if newCol.IsPrimaryKey() {
		t.primaryKeys[newCol.Name] = struct{}{}
	}
	return nil
}

// GenerateCreateDDL renders the table back to CREATE TABLE syntax. The
// output is stable: columns appear in declaration order and the primary key
// is emitted as a trailing table-level constraint.
func (t *Table) GenerateCreateDDL() string {
	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	if t.Schema != "" {
		sb.WriteString(t.Schema)
		sb.WriteByte('.')
	}
	sb.WriteString(t.Name)
	sb.WriteString(" (\n")

	for i, col := range t.Columns {
		if i > 0 {
			sb.WriteString(",\n")
		}
		sb.WriteString("  ")
		sb.WriteString(col.ToDDL())
	}

	if len(t.primaryKeys) > 0 {
		sb.WriteString(",\n  CONSTRAINT pk_")
		sb.WriteString(t.Name)
		sb.WriteString(" PRIMARY KEY (")
		// Declaration order keeps the output deterministic.
		first := true
		for _, col := range t.Columns {
			if !col.IsPrimaryKey() {
				continue
			}
			if !first {
				sb.WriteString(", ")
			}
			sb.WriteString(col.Name)
			first = false
		}
		sb.WriteByte(')')
	}

	sb.WriteString("\n)")
	return sb.String()
}

// tableJSON is the persisted shape of a Table.
type tableJSON struct {
	Name    string   `json:"name"`
	Schema  string   `json:"schema,omitempty"`
	Columns []Column `json:"columns"`
}

// MarshalJSON serializes the table metadata. The primary-key set is not
// persisted; it is derived from the columns on load.
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(tableJSON{Name: t.Name, Schema: t.Schema, Columns: t.Columns})
}

// UnmarshalJSON restores a table, revalidating its structure and deriving
// the primary-key set.
func (t *Table) UnmarshalJSON(data []byte) error {
	var raw tableJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	loaded, err := NewTable(raw.Name, raw.Schema, raw.Columns)
	if err != nil {
		return err
	}
	*t = *loaded
	return nil
}

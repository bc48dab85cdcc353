package storage

import (
	"fmt"

	"minidb/schema"
)

// ApplyAlter rewrites every stored row of the table to match a schema change
// that has already been applied to the in-memory metadata. It persists the
// new metadata document, logs the operation, and reports how many rows were
// rewritten.
func (e *Engine) ApplyAlter(t *schema.Table, cmd schema.AlterCommand) (int, error) {
	mu := e.lockTable(t.Name)
	mu.Lock()
	defer mu.Unlock()

	rows, err := e.readRows(t.Name)
	if err != nil {
		return 0, err
	}

	for i := range rows {
		migrated, err := migrateRow(t, cmd, rows[i])
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", i, err)
		}
		rows[i] = migrated
	}

	if err := e.writeRows(t.Name, rows); err != nil {
		return 0, err
	}
	if err := e.saveTableMetadata(t); err != nil {
		return 0, err
	}
	return len(rows), e.log.Append(cmd.Operation(), t.Name, len(rows))
}

// migrateRow transforms one stored row for the given schema change. The
// table already reflects the post-change schema.
func migrateRow(t *schema.Table, cmd schema.AlterCommand, row Row) (Row, error) {
	switch c := cmd.(type) {
	case schema.AddColumn:
		row.Set(c.Column.Name, defaultValue(c.Column))

	case schema.DropColumn:
		row.Delete(c.ColumnName)

	case schema.ModifyColumn:
		col, ok := t.Column(c.Column.Name)
		if !ok {
			return Row{}, &schema.ColumnNotFoundError{Table: t.Name, Column: c.Column.Name}
		}
		old, had := row.Take(c.OldName)
		if !had || old.IsNull() {
			// An empty cell takes the new column's default.
			row.Set(col.Name, defaultValue(col))
			break
		}
		converted, err := convertValue(col, old)
		if err != nil {
			// Unconvertible values fall back to the column default.
			converted = defaultValue(col)
		}
		row.Set(col.Name, converted)

	case schema.RenameColumn:
		if v, ok := row.Take(c.OldName); ok {
			row.Set(c.NewName, v)
		}

	default:
		return Row{}, fmt.Errorf("unsupported schema change %s", cmd.Operation())
	}

	return normalizeRow(t, row), nil
}

package schema

// AlterCommand is an executable ALTER TABLE operation. Each implementation
// carries only the fields relevant to its variant, so a command built as
// one variant can never be executed as another.
//
// Apply mutates metadata only; mirroring the change onto stored rows is the
// storage engine's job, invoked after a successful Apply.
type AlterCommand interface {
	// Table returns the name of the table being altered.
	Table() string
	// Operation returns the transaction-log operation name.
	Operation() string
	// Apply executes the alteration against the in-memory metadata.
	Apply(db *Database) error

	alterCommand()
}

// AddColumn appends a new column to a table.
type AddColumn struct {
	TableName string
	Column    Column
}

func (c AddColumn) Table() string     { return c.TableName }
func (c AddColumn) Operation() string { return "ALTER_ADD_COLUMN" }
func (c AddColumn) alterCommand()     {}

func (c AddColumn) Apply(db *Database) error {
	t, err := db.Table(c.TableName)
	if err != nil {
		return err
	}
	return t.AddColumn(c.Column)
}

// DropColumn removes a column from a table.
type DropColumn struct {
	TableName  string
	ColumnName string
}

func (c DropColumn) Table() string     { return c.TableName }
func (c DropColumn) Operation() string { return "ALTER_DROP_COLUMN" }
func (c DropColumn) alterCommand()     {}

func (c DropColumn) Apply(db *Database) error {
	t, err := db.Table(c.TableName)
	if err != nil {
		return err
	}
	return t.DropColumn(c.ColumnName)
}

// ModifyColumn replaces the definition of an existing column, optionally
// renaming it when Column.Name differs from OldName.
type ModifyColumn struct {
	TableName string
	OldName   string
	Column    Column
}

func (c ModifyColumn) Table() string     { return c.TableName }
func (c ModifyColumn) Operation() string { return "ALTER_MODIFY_COLUMN" }
func (c ModifyColumn) alterCommand()     {}

func (c ModifyColumn) Apply(db *Database) error {
	t, err := db.Table(c.TableName)
	if err != nil {
		return err
	}
	return t.ModifyColumn(c.OldName, c.Column)
}

// RenameColumn renames a column, keeping its type and constraints.
type RenameColumn struct {
	TableName string
	OldName   string
	NewName   string
}

func (c RenameColumn) Table() string     { return c.TableName }
func (c RenameColumn) Operation() string { return "ALTER_RENAME_COLUMN" }
func (c RenameColumn) alterCommand()     {}

func (c RenameColumn) Apply(db *Database) error {
	t, err := db.Table(c.TableName)
	if err != nil {
		return err
	}
	old, ok := t.Column(c.OldName)
	if !ok {
		return &ColumnNotFoundError{Table: c.TableName, Column: c.OldName}
	}
	return t.ModifyColumn(c.OldName, old.Rename(c.NewName))
}

package schema

import "sort"

// Database is the in-memory metadata container: a name and the tables it
// owns. A Table has no lifecycle outside its Database.
type Database struct {
	name   string
	tables map[string]*Table
}

// NewDatabase creates an empty database.
func NewDatabase(name string) *Database {
	return &Database{name: name, tables: make(map[string]*Table)}
}

// Name returns the database name.
func (d *Database) Name() string {
	return d.name
}

// Table returns the named table, failing with TableNotFoundError if absent.
func (d *Database) Table(name string) (*Table, error) {
	t, ok := d.tables[name]
	if !ok {
		return nil, &TableNotFoundError{Database: d.name, Table: name}
	}
	return t, nil
}

// HasTable reports whether the database owns a table with the given name.
func (d *Database) HasTable(name string) bool {
	_, ok := d.tables[name]
	return ok
}

// AddTable registers a table, failing with TableExistsError on a name
// collision.
func (d *Database) AddTable(t *Table) error {
	if _, exists := d.tables[t.Name]; exists {
		return &TableExistsError{Database: d.name, Table: t.Name}
	}
	d.tables[t.Name] = t
	return nil
}

// DropTable removes a table, failing with TableNotFoundError if absent.
func (d *Database) DropTable(name string) error {
	if _, exists := d.tables[name]; !exists {
		return &TableNotFoundError{Database: d.name, Table: name}
	}
	delete(d.tables, name)
	return nil
}

// ReplaceTable overwrites the entry for t.Name unconditionally. It is used
// to restore metadata from disk when a storage write fails mid-operation.
func (d *Database) ReplaceTable(t *Table) {
	d.tables[t.Name] = t
}

// TableNames returns the sorted names of all tables.
func (d *Database) TableNames() []string {
	names := make([]string, 0, len(d.tables))
	for name := range d.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

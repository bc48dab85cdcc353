package storage

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/zeebo/blake3"

	"minidb/fsys"
	"minidb/schema"
	"minidb/txlog"
)

var (
	// ErrTableExists is returned when creating a table whose files already
	// exist on disk.
	ErrTableExists = errors.New("table already exists")

	// ErrTableNotFound is returned when operating on a table with no files
	// on disk.
	ErrTableNotFound = errors.New("table not found")
)

// Engine is the row store for one database. All mutations are serialised per
// table and recorded in the transaction log.
type Engine struct {
	fs  *fsys.Manager
	log *txlog.Log

	mu      sync.Mutex
	tableMu map[string]*sync.Mutex
}

// New returns an engine over the given database directory layout.
func New(fs *fsys.Manager, log *txlog.Log) *Engine {
	return &Engine{
		fs:      fs,
		log:     log,
		tableMu: make(map[string]*sync.Mutex),
	}
}

// lockTable returns the mutex guarding the named table, creating it on first
// use.
func (e *Engine) lockTable(name string) *sync.Mutex {
	key := strings.ToLower(name)
	e.mu.Lock()
	defer e.mu.Unlock()
	mu, ok := e.tableMu[key]
	if !ok {
		mu = &sync.Mutex{}
		e.tableMu[key] = mu
	}
	return mu
}

// CreateTable creates the data and metadata files for a new table and logs
// the operation.
func (e *Engine) CreateTable(t *schema.Table) error {
	mu := e.lockTable(t.Name)
	mu.Lock()
	defer mu.Unlock()

	if e.fs.TableExists(t.Name) {
		return fmt.Errorf("%w: %s", ErrTableExists, t.Name)
	}
	if err := e.fs.CreateTableFiles(t.Name); err != nil {
		return fmt.Errorf("create table files: %w", err)
	}
	if err := e.saveTableMetadata(t); err != nil {
		return fmt.Errorf("save table metadata: %w", err)
	}
	return e.log.Append("CREATE_TABLE", t.Name, 0)
}

// DropTable removes the table's data and metadata files and logs the
// operation.
func (e *Engine) DropTable(name string) error {
	mu := e.lockTable(name)
	mu.Lock()
	defer mu.Unlock()

	if !e.fs.TableExists(name) {
		return fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	if err := e.fs.DeleteTableFiles(name); err != nil {
		return fmt.Errorf("delete table files: %w", err)
	}
	return e.log.Append("DROP_TABLE", name, 0)
}

// ListTables returns the names of tables with data files on disk, sorted.
func (e *Engine) ListTables() ([]string, error) {
	return e.fs.ListTables()
}

// SelectAll returns every row of the table in stored order.
func (e *Engine) SelectAll(t *schema.Table) ([]Row, error) {
	mu := e.lockTable(t.Name)
	mu.Lock()
	defer mu.Unlock()
	return e.readRows(t.Name)
}

// Insert appends one row, normalised to the declared column order.
func (e *Engine) Insert(t *schema.Table, row Row) error {
	return e.BatchInsert(t, []Row{row})
}

// BatchInsert appends the given rows in one file rewrite and one log entry.
func (e *Engine) BatchInsert(t *schema.Table, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	mu := e.lockTable(t.Name)
	mu.Lock()
	defer mu.Unlock()

	stored, err := e.readRows(t.Name)
	if err != nil {
		return err
	}
	for _, row := range rows {
		stored = append(stored, normalizeRow(t, row))
	}
	if err := e.writeRows(t.Name, stored); err != nil {
		return err
	}
	op := "INSERT"
	if len(rows) > 1 {
		op = "BATCH_INSERT"
	}
	return e.log.Append(op, t.Name, len(rows))
}

// Update mutates every row matching pred and reports how many rows changed.
func (e *Engine) Update(t *schema.Table, pred func(Row) bool, mutate func(*Row)) (int, error) {
	mu := e.lockTable(t.Name)
	mu.Lock()
	defer mu.Unlock()

	rows, err := e.readRows(t.Name)
	if err != nil {
		return 0, err
	}
	changed := 0
	for i := range rows {
		if !pred(rows[i]) {
			continue
		}
		mutate(&rows[i])
		rows[i] = normalizeRow(t, rows[i])
		changed++
	}
	if changed == 0 {
		return 0, nil
	}
	if err := e.writeRows(t.Name, rows); err != nil {
		return 0, err
	}
	return changed, e.log.Append("UPDATE", t.Name, changed)
}

// Delete removes every row matching pred and reports how many rows were
// removed.
func (e *Engine) Delete(t *schema.Table, pred func(Row) bool) (int, error) {
	mu := e.lockTable(t.Name)
	mu.Lock()
	defer mu.Unlock()

	rows, err := e.readRows(t.Name)
	if err != nil {
		return 0, err
	}
	kept := rows[:0]
	removed := 0
	for _, row := range rows {
		if pred(row) {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	if removed == 0 {
		return 0, nil
	}
	if err := e.writeRows(t.Name, kept); err != nil {
		return 0, err
	}
	return removed, e.log.Append("DELETE", t.Name, removed)
}

// readRows loads the table's row documents from disk.
func (e *Engine) readRows(table string) ([]Row, error) {
	data, err := os.ReadFile(e.fs.TableDataFile(table))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
		}
		return nil, fmt.Errorf("read table data: %w", err)
	}
	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode table %s: %w", table, err)
	}
	return rows, nil
}

// writeRows replaces the table's row documents on disk.
func (e *Engine) writeRows(table string, rows []Row) error {
	if rows == nil {
		rows = []Row{}
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("encode table %s: %w", table, err)
	}
	if err := os.WriteFile(e.fs.TableDataFile(table), data, 0o644); err != nil {
		return fmt.Errorf("write table data: %w", err)
	}
	return nil
}

// normalizeRow rebuilds the row in the table's declared column order. Columns
// missing from the row are stored as null; keys not declared by the table are
// dropped.
func normalizeRow(t *schema.Table, row Row) Row {
	out := NewRow()
	for _, col := range t.Columns {
		if v, ok := row.Get(col.Name); ok {
			out.Set(col.Name, v)
		} else {
			out.Set(col.Name, NullValue())
		}
	}
	return out
}

// saveTableMetadata persists the table document and its checksum sidecar.
func (e *Engine) saveTableMetadata(t *schema.Table) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata for %s: %w", t.Name, err)
	}
	if err := os.WriteFile(e.fs.TableMetaFile(t.Name), data, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	sum := blake3.Sum256(data)
	digest := hex.EncodeToString(sum[:])
	if err := os.WriteFile(e.fs.TableMetaSumFile(t.Name), []byte(digest+"\n"), 0o644); err != nil {
		return fmt.Errorf("write metadata checksum: %w", err)
	}
	return nil
}

// SaveTableMetadata persists the table's metadata document, replacing any
// previous version.
func (e *Engine) SaveTableMetadata(t *schema.Table) error {
	mu := e.lockTable(t.Name)
	mu.Lock()
	defer mu.Unlock()
	return e.saveTableMetadata(t)
}

// LoadTableMetadata reads a table's metadata document, verifying its
// checksum when the sidecar is present.
func (e *Engine) LoadTableMetadata(name string) (*schema.Table, error) {
	data, err := os.ReadFile(e.fs.TableMetaFile(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
		}
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	sumData, err := os.ReadFile(e.fs.TableMetaSumFile(name))
	if err == nil {
		sum := blake3.Sum256(data)
		want := strings.TrimSpace(string(sumData))
		if got := hex.EncodeToString(sum[:]); got != want {
			return nil, fmt.Errorf("metadata checksum mismatch for table %s", name)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read metadata checksum: %w", err)
	}

	var t schema.Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode metadata for %s: %w", name, err)
	}
	return &t, nil
}

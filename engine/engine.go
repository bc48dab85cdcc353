package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"minidb/fsys"
	"minidb/schema"
	"minidb/storage"
	"minidb/txlog"
)

var (
	// ErrDatabaseExists is returned when creating a database that is
	// already present.
	ErrDatabaseExists = errors.New("database already exists")

	// ErrDatabaseNotFound is returned when operating on an unknown
	// database.
	ErrDatabaseNotFound = errors.New("database not found")
)

// databaseDoc is the persisted database document in metadata/database.json.
type databaseDoc struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Created time.Time `json:"created"`
	Version string    `json:"version"`
}

// engineVersion tags database documents written by this build.
const engineVersion = "1.0"

// Engine manages every database under a single data root.
type Engine struct {
	root   string
	logger *slog.Logger

	mu        sync.Mutex
	databases map[string]*schema.Database
	stores    map[string]*storage.Engine
}

// New opens the data root and loads every database found under it. A
// database that fails to load is skipped with a warning so one corrupt
// directory does not take the whole engine down.
func New(dataRoot string, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dataRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create data root: %w", err)
	}

	e := &Engine{
		root:      dataRoot,
		logger:    logger,
		databases: make(map[string]*schema.Database),
		stores:    make(map[string]*storage.Engine),
	}

	names, err := fsys.ListDatabases(dataRoot)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		if err := e.loadDatabase(name); err != nil {
			logger.Warn("skipping database", "database", name, "error", err)
			continue
		}
		logger.Debug("loaded database", "database", name)
	}
	return e, nil
}

// loadDatabase reads every table metadata document under the database
// directory and registers the database in memory.
func (e *Engine) loadDatabase(name string) error {
	fs := fsys.Open(e.root, name)
	store := storage.New(fs, txlog.New(fs.TxLogFile()))

	db := schema.NewDatabase(name)
	tables, err := store.ListTables()
	if err != nil {
		return err
	}
	for _, table := range tables {
		t, err := store.LoadTableMetadata(table)
		if err != nil {
			return fmt.Errorf("table %s: %w", table, err)
		}
		if err := db.AddTable(t); err != nil {
			return err
		}
	}

	e.databases[name] = db
	e.stores[name] = store
	return nil
}

// CreateDatabase creates the directory layout and database document for a
// new database.
func (e *Engine) CreateDatabase(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.databases[name]; ok {
		return fmt.Errorf("%w: %s", ErrDatabaseExists, name)
	}
	if fsys.DatabaseExists(e.root, name) {
		return fmt.Errorf("%w: %s", ErrDatabaseExists, name)
	}

	fs, err := fsys.New(e.root, name)
	if err != nil {
		return err
	}
	doc := databaseDoc{
		ID:      uuid.New().String(),
		Name:    name,
		Created: time.Now().UTC(),
		Version: engineVersion,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode database document: %w", err)
	}
	if err := os.WriteFile(fs.DatabaseMetaFile(), data, 0o644); err != nil {
		// Leave no half-created directory behind.
		_ = fsys.RemoveDatabase(e.root, name)
		return fmt.Errorf("write database document: %w", err)
	}

	e.databases[name] = schema.NewDatabase(name)
	e.stores[name] = storage.New(fs, txlog.New(fs.TxLogFile()))
	e.logger.Info("database created", "database", name, "id", doc.ID)
	return nil
}

// DropDatabase removes a database and every file under it.
func (e *Engine) DropDatabase(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.databases[name]; !ok {
		return fmt.Errorf("%w: %s", ErrDatabaseNotFound, name)
	}
	if err := fsys.RemoveDatabase(e.root, name); err != nil {
		return err
	}
	delete(e.databases, name)
	delete(e.stores, name)
	e.logger.Info("database dropped", "database", name)
	return nil
}

// DatabaseExists reports whether the named database is loaded.
func (e *Engine) DatabaseExists(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.databases[name]
	return ok
}

// ListDatabases returns the names of loaded databases, sorted.
func (e *Engine) ListDatabases() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, 0, len(e.databases))
	for name := range e.databases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Database returns the in-memory metadata for a database.
func (e *Engine) Database(name string) (*schema.Database, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	db, ok := e.databases[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, name)
	}
	return db, nil
}

// Store returns the storage engine for a database.
func (e *Engine) Store(name string) (*storage.Engine, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	store, ok := e.stores[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, name)
	}
	return store, nil
}

// DatabaseInfo reads back the persisted database document.
func (e *Engine) DatabaseInfo(name string) (id string, created time.Time, version string, err error) {
	if !e.DatabaseExists(name) {
		return "", time.Time{}, "", fmt.Errorf("%w: %s", ErrDatabaseNotFound, name)
	}
	fs := fsys.Open(e.root, name)
	data, err := os.ReadFile(fs.DatabaseMetaFile())
	if err != nil {
		return "", time.Time{}, "", fmt.Errorf("read database document: %w", err)
	}
	var doc databaseDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", time.Time{}, "", fmt.Errorf("decode database document: %w", err)
	}
	return doc.ID, doc.Created, doc.Version, nil
}

// ShowDatabaseSchema renders a human-readable overview of every table in the
// database.
func (e *Engine) ShowDatabaseSchema(name string) (string, error) {
	db, err := e.Database(name)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Database: %s\n", db.Name())
	tables := db.TableNames()
	if len(tables) == 0 {
		b.WriteString("  (no tables)\n")
		return b.String(), nil
	}
	for _, tableName := range tables {
		t, err := db.Table(tableName)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "  Table: %s\n", t.Name)
		for _, col := range t.Columns {
			fmt.Fprintf(&b, "    Column: %s\n", col.ToDDL())
		}
		if pks := t.PrimaryKeys(); len(pks) > 0 {
			fmt.Fprintf(&b, "    Primary Key: %s\n", strings.Join(pks, ", "))
		}
	}
	return b.String(), nil
}

// BackupCopy copies a database directory tree to dst.
func (e *Engine) BackupCopy(name, dst string) error {
	if !e.DatabaseExists(name) {
		return fmt.Errorf("%w: %s", ErrDatabaseNotFound, name)
	}
	fs := fsys.Open(e.root, name)
	if err := fsys.CopyDir(fs.Root(), dst); err != nil {
		return err
	}
	e.logger.Info("database copied", "database", name, "destination", dst)
	return nil
}

// BackupArchive writes a database into an xz-compressed tar archive at dst.
func (e *Engine) BackupArchive(name, dst string) error {
	if !e.DatabaseExists(name) {
		return fmt.Errorf("%w: %s", ErrDatabaseNotFound, name)
	}
	fs := fsys.Open(e.root, name)
	if err := fsys.BackupArchive(fs.Root(), dst); err != nil {
		return err
	}
	e.logger.Info("database archived", "database", name, "archive", dst)
	return nil
}

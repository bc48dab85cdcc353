// Package fsys owns the on-disk layout of databases.
//
// Every database lives under a shared data root:
//
//	<root>/<database>/
//	    tables/<table>.data.json      row documents
//	    metadata/<table>.meta.json    table metadata
//	    metadata/<table>.meta.sum     metadata checksum
//	    metadata/database.json        database document
//	    metadata/transactions.log     transaction log
//
// The package provides path accessors, table file lifecycle, database
// discovery, and whole-database copy and archive backups.
package fsys

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	tablesDirName   = "tables"
	metadataDirName = "metadata"

	dataSuffix = ".data.json"
	metaSuffix = ".meta.json"
	sumSuffix  = ".meta.sum"

	databaseMetaName = "database.json"
	txLogName        = "transactions.log"
)

// Manager resolves paths and manages table files for one database directory.
type Manager struct {
	root string
}

// New creates the directory layout for a database under the data root and
// returns a manager for it.
func New(dataRoot, database string) (*Manager, error) {
	root := filepath.Join(dataRoot, database)
	for _, dir := range []string{
		filepath.Join(root, tablesDirName),
		filepath.Join(root, metadataDirName),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database layout: %w", err)
		}
	}
	return &Manager{root: root}, nil
}

// Open returns a manager for an existing database directory without creating
// anything.
func Open(dataRoot, database string) *Manager {
	return &Manager{root: filepath.Join(dataRoot, database)}
}

// Root returns the database directory.
func (m *Manager) Root() string {
	return m.root
}

// TablesDir returns the directory holding row data files.
func (m *Manager) TablesDir() string {
	return filepath.Join(m.root, tablesDirName)
}

// MetadataDir returns the directory holding metadata documents.
func (m *Manager) MetadataDir() string {
	return filepath.Join(m.root, metadataDirName)
}

// TableDataFile returns the path of a table's row data file.
func (m *Manager) TableDataFile(table string) string {
	return filepath.Join(m.TablesDir(), table+dataSuffix)
}

// TableMetaFile returns the path of a table's metadata document.
func (m *Manager) TableMetaFile(table string) string {
	return filepath.Join(m.MetadataDir(), table+metaSuffix)
}

// TableMetaSumFile returns the path of a table's metadata checksum sidecar.
func (m *Manager) TableMetaSumFile(table string) string {
	return filepath.Join(m.MetadataDir(), table+sumSuffix)
}

// DatabaseMetaFile returns the path of the database document.
func (m *Manager) DatabaseMetaFile() string {
	return filepath.Join(m.MetadataDir(), databaseMetaName)
}

// TxLogFile returns the path of the transaction log.
func (m *Manager) TxLogFile() string {
	return filepath.Join(m.MetadataDir(), txLogName)
}

// TableExists reports whether the table's data file is present.
func (m *Manager) TableExists(table string) bool {
	_, err := os.Stat(m.TableDataFile(table))
	return err == nil
}

// CreateTableFiles writes an empty data file and a placeholder metadata
// document for a new table.
func (m *Manager) CreateTableFiles(table string) error {
	if m.TableExists(table) {
		return fmt.Errorf("table files for %s already exist", table)
	}
	if err := os.WriteFile(m.TableDataFile(table), []byte("[]"), 0o644); err != nil {
		return fmt.Errorf("create data file: %w", err)
	}
	if err := os.WriteFile(m.TableMetaFile(table), []byte("{}"), 0o644); err != nil {
		return fmt.Errorf("create metadata file: %w", err)
	}
	return nil
}

// DeleteTableFiles removes the table's data, metadata and checksum files.
// Missing files are ignored.
func (m *Manager) DeleteTableFiles(table string) error {
	for _, path := range []string{
		m.TableDataFile(table),
		m.TableMetaFile(table),
		m.TableMetaSumFile(table),
	} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("delete table files: %w", err)
		}
	}
	return nil
}

// ListTables returns the names of tables with data files, sorted.
func (m *Manager) ListTables() ([]string, error) {
	entries, err := os.ReadDir(m.TablesDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list tables: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, dataSuffix) {
			names = append(names, strings.TrimSuffix(name, dataSuffix))
		}
	}
	sort.Strings(names)
	return names, nil
}

// DatabaseExists reports whether a database directory with the expected
// layout is present under the data root.
func DatabaseExists(dataRoot, database string) bool {
	info, err := os.Stat(filepath.Join(dataRoot, database, metadataDirName))
	return err == nil && info.IsDir()
}

// ListDatabases returns the names of databases under the data root, sorted.
func ListDatabases(dataRoot string) ([]string, error) {
	entries, err := os.ReadDir(dataRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list databases: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() && DatabaseExists(dataRoot, entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// RemoveDatabase deletes a database directory and everything in it.
func RemoveDatabase(dataRoot, database string) error {
	if err := os.RemoveAll(filepath.Join(dataRoot, database)); err != nil {
		return fmt.Errorf("remove database: %w", err)
	}
	return nil
}

// CopyDir recursively copies a directory tree. The destination must not
// already exist.
func CopyDir(src, dst string) error {
	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("destination %s already exists", dst)
	}
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

package fsys

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewCreatesLayout(t *testing.T) {
	root := t.TempDir()
	m, err := New(root, "shop")
	if err != nil {
		t.Fatalf("Failed to create layout: %v", err)
	}

	for _, dir := range []string{m.TablesDir(), m.MetadataDir()} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("Expected directory %s: %v", dir, err)
		}
	}
	if !DatabaseExists(root, "shop") {
		t.Error("Expected DatabaseExists to report the new database")
	}
	if DatabaseExists(root, "absent") {
		t.Error("Expected DatabaseExists to reject an absent database")
	}
}

func TestPathAccessors(t *testing.T) {
	m := Open("/data", "shop")
	cases := []struct{ got, want string }{
		{m.TableDataFile("products"), filepath.Join("/data", "shop", "tables", "products.data.json")},
		{m.TableMetaFile("products"), filepath.Join("/data", "shop", "metadata", "products.meta.json")},
		{m.TableMetaSumFile("products"), filepath.Join("/data", "shop", "metadata", "products.meta.sum")},
		{m.DatabaseMetaFile(), filepath.Join("/data", "shop", "metadata", "database.json")},
		{m.TxLogFile(), filepath.Join("/data", "shop", "metadata", "transactions.log")},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Errorf("Expected %s, got %s", tc.want, tc.got)
		}
	}
}

func TestTableFileLifecycle(t *testing.T) {
	m, err := New(t.TempDir(), "shop")
	if err != nil {
		t.Fatalf("Failed to create layout: %v", err)
	}

	if m.TableExists("products") {
		t.Error("Expected no table files yet")
	}
	if err := m.CreateTableFiles("products"); err != nil {
		t.Fatalf("Failed to create table files: %v", err)
	}
	if err := m.CreateTableFiles("products"); err == nil {
		t.Error("Expected an error for existing table files")
	}

	data, err := os.ReadFile(m.TableDataFile("products"))
	if err != nil {
		t.Fatalf("Failed to read data file: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("Expected empty array, got %q", data)
	}

	names, err := m.ListTables()
	if err != nil {
		t.Fatalf("Failed to list tables: %v", err)
	}
	if len(names) != 1 || names[0] != "products" {
		t.Errorf("Expected [products], got %v", names)
	}

	if err := m.DeleteTableFiles("products"); err != nil {
		t.Fatalf("Failed to delete table files: %v", err)
	}
	if m.TableExists("products") {
		t.Error("Expected table files to be gone")
	}
	// Deleting again is a no-op.
	if err := m.DeleteTableFiles("products"); err != nil {
		t.Errorf("Expected idempotent delete, got %v", err)
	}
}

func TestListDatabases(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"beta", "alpha"} {
		if _, err := New(root, name); err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
	}
	// A stray directory without the expected layout is not a database.
	if err := os.MkdirAll(filepath.Join(root, "junk"), 0o755); err != nil {
		t.Fatalf("Failed to create stray dir: %v", err)
	}

	names, err := ListDatabases(root)
	if err != nil {
		t.Fatalf("Failed to list databases: %v", err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Errorf("Expected [alpha beta], got %v", names)
	}

	if err := RemoveDatabase(root, "alpha"); err != nil {
		t.Fatalf("Failed to remove database: %v", err)
	}
	names, _ = ListDatabases(root)
	if len(names) != 1 || names[0] != "beta" {
		t.Errorf("Expected [beta], got %v", names)
	}
}

func TestCopyDir(t *testing.T) {
	root := t.TempDir()
	m, err := New(root, "shop")
	if err != nil {
		t.Fatalf("Failed to create layout: %v", err)
	}
	if err := m.CreateTableFiles("products"); err != nil {
		t.Fatalf("Failed to create table files: %v", err)
	}
	if err := os.WriteFile(m.DatabaseMetaFile(), []byte(`{"name":"shop"}`), 0o644); err != nil {
		t.Fatalf("Failed to write database document: %v", err)
	}

	dst := filepath.Join(t.TempDir(), "backup")
	if err := CopyDir(m.Root(), dst); err != nil {
		t.Fatalf("Failed to copy: %v", err)
	}

	copied, err := os.ReadFile(filepath.Join(dst, "metadata", "database.json"))
	if err != nil {
		t.Fatalf("Failed to read copied file: %v", err)
	}
	if string(copied) != `{"name":"shop"}` {
		t.Errorf("Copied content differs: %q", copied)
	}
	if _, err := os.Stat(filepath.Join(dst, "tables", "products.data.json")); err != nil {
		t.Errorf("Expected copied data file: %v", err)
	}

	if err := CopyDir(m.Root(), dst); err == nil {
		t.Error("Expected an error for an existing destination")
	}
}

package fsys

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ulikunitz/xz"
)

func TestBackupArchiveRoundTrip(t *testing.T) {
	m, err := New(t.TempDir(), "shop")
	if err != nil {
		t.Fatalf("Failed to create layout: %v", err)
	}
	if err := m.CreateTableFiles("products"); err != nil {
		t.Fatalf("Failed to create table files: %v", err)
	}
	if err := os.WriteFile(m.TableDataFile("products"), []byte(`[{"id":1}]`), 0o644); err != nil {
		t.Fatalf("Failed to write data: %v", err)
	}

	archive := filepath.Join(t.TempDir(), "shop.tar.xz")
	if err := BackupArchive(m.Root(), archive); err != nil {
		t.Fatalf("Failed to archive: %v", err)
	}

	// The archive is a readable xz-compressed tar with relative entries.
	f, err := os.Open(archive)
	if err != nil {
		t.Fatalf("Failed to open archive: %v", err)
	}
	defer f.Close()
	xr, err := xz.NewReader(f)
	if err != nil {
		t.Fatalf("Failed to open xz stream: %v", err)
	}
	tr := tar.NewReader(xr)

	entries := map[string]string{}
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Failed to read archive: %v", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		content, err := io.ReadAll(tr)
		if err != nil {
			t.Fatalf("Failed to read entry %s: %v", hdr.Name, err)
		}
		entries[hdr.Name] = string(content)
	}

	if entries["tables/products.data.json"] != `[{"id":1}]` {
		t.Errorf("Unexpected archived data: %v", entries)
	}
	if _, ok := entries["metadata/products.meta.json"]; !ok {
		t.Errorf("Expected metadata entry in archive, got %v", entries)
	}

	// Restore reproduces the tree.
	restored := filepath.Join(t.TempDir(), "restored")
	if err := RestoreArchive(archive, restored); err != nil {
		t.Fatalf("Failed to restore: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(restored, "tables", "products.data.json"))
	if err != nil {
		t.Fatalf("Failed to read restored file: %v", err)
	}
	if string(data) != `[{"id":1}]` {
		t.Errorf("Restored content differs: %q", data)
	}

	if err := RestoreArchive(archive, restored); err == nil {
		t.Error("Expected an error for an existing destination")
	}
}

// Package storage provides the file-backed row store for a single database.
//
// The storage package is responsible for physical data storage: table rows
// live as pretty-printed JSON document arrays, table metadata lives as JSON
// documents with integrity checksums, and every mutation is recorded in the
// transaction log.
//
// Key Components:
//   - Value: Tagged union for row cell values (null, boolean, number, string)
//   - Row: Ordered column-name to value mapping with a stable JSON encoding
//   - Engine: Per-database store with table CRUD and metadata persistence
//
// Architecture:
//   - Document-Based: Each table is one JSON array of row documents
//   - Whole-File Rewrites: Mutations read all rows, change them, write all back
//   - Per-Table Locking: A mutex per table serialises writers
//   - Checksummed Metadata: Table metadata carries a BLAKE3 digest sidecar
//
// Key Responsibilities:
//   - Creating and dropping table data and metadata files
//   - Inserting, updating and deleting rows
//   - Normalising rows to the declared column order
//   - Rewriting every row when the schema changes (ALTER TABLE)
//   - Converting stored values to a column's new data type
//   - Persisting and verifying table metadata documents
//
// Storage Format:
//   - Rows: Pretty-printed JSON array in tables/<table>.data.json
//   - Metadata: JSON document in metadata/<table>.meta.json
//   - Checksums: Hex BLAKE3 digest in metadata/<table>.meta.sum
//
// Usage Example:
//
//	store, err := storage.New(fs, txLog)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := store.CreateTable(table); err != nil {
//		log.Fatal(err)
//	}
//	row := storage.NewRow()
//	row.Set("id", storage.NumberValue("1"))
//	row.Set("name", storage.StringValue("Widget"))
//	if err := store.Insert(table, row); err != nil {
//		log.Fatal(err)
//	}
package storage

// Package engine is the top-level facade tying the parser, schema model and
// storage engine together.
//
// An Engine manages every database under one data root. It keeps the parsed
// metadata for each database in memory, mirrors every change to disk through
// the storage layer, and rolls the in-memory state back when a disk write
// fails.
//
// Key Responsibilities:
//   - Creating, dropping, listing and inspecting databases
//   - Executing DDL statements against a named database
//   - Keeping in-memory metadata consistent with the on-disk files
//   - Producing directory and archive backups of a database
//
// Usage Example:
//
//	eng, err := engine.New("./data", slog.Default())
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := eng.CreateDatabase("shop"); err != nil {
//		log.Fatal(err)
//	}
//	err = eng.ExecuteDDL("shop", "CREATE TABLE products (id INTEGER PRIMARY KEY, name VARCHAR(100))")
package engine

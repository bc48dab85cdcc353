package engine

import (
	"fmt"

	"minidb/parser"
	"minidb/schema"
)

// ExecuteDDL parses one DDL statement and applies it to the named database.
// The in-memory metadata is changed first and rolled back if the matching
// disk write fails, so memory and disk stay consistent either way.
func (e *Engine) ExecuteDDL(database, ddl string) error {
	db, err := e.Database(database)
	if err != nil {
		return err
	}
	store, err := e.Store(database)
	if err != nil {
		return err
	}

	stmt, err := parser.Parse(ddl)
	if err != nil {
		return err
	}

	switch s := stmt.(type) {
	case *parser.CreateTable:
		if err := db.AddTable(s.Table); err != nil {
			return err
		}
		if err := store.CreateTable(s.Table); err != nil {
			_ = db.DropTable(s.Table.Name)
			return err
		}
		e.logger.Info("table created", "database", database, "table", s.Table.Name)
		return nil

	case *parser.AlterTable:
		return e.executeAlter(database, db, store, s.Command)

	case *parser.DropTable:
		t, err := db.Table(s.TableName)
		if err != nil {
			return err
		}
		if err := db.DropTable(s.TableName); err != nil {
			return err
		}
		if err := store.DropTable(s.TableName); err != nil {
			_ = db.AddTable(t)
			return err
		}
		e.logger.Info("table dropped", "database", database, "table", s.TableName)
		return nil

	default:
		return fmt.Errorf("unsupported statement %T", stmt)
	}
}

// executeAlter applies a schema change to the metadata, then migrates the
// stored rows. A storage failure restores the metadata from the last
// persisted document.
func (e *Engine) executeAlter(database string, db *schema.Database, store storeAPI, cmd schema.AlterCommand) error {
	if err := cmd.Apply(db); err != nil {
		return err
	}
	t, err := db.Table(cmd.Table())
	if err != nil {
		return err
	}

	rows, err := store.ApplyAlter(t, cmd)
	if err != nil {
		if prev, loadErr := store.LoadTableMetadata(cmd.Table()); loadErr == nil {
			db.ReplaceTable(prev)
		} else {
			e.logger.Error("metadata rollback failed",
				"database", database, "table", cmd.Table(), "error", loadErr)
		}
		return fmt.Errorf("%s on %s: %w", cmd.Operation(), cmd.Table(), err)
	}

	e.logger.Info("table altered",
		"database", database, "table", cmd.Table(),
		"operation", cmd.Operation(), "rows", rows)
	return nil
}

// storeAPI is the slice of the storage engine that schema changes need.
type storeAPI interface {
	ApplyAlter(t *schema.Table, cmd schema.AlterCommand) (int, error)
	LoadTableMetadata(name string) (*schema.Table, error)
}

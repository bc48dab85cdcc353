// Command minidb manages file-backed databases from the command line.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"minidb/engine"
	"minidb/internal/logging"
	"minidb/schema"
	"minidb/storage"
)

var cli struct {
	DataDir  string `help:"Directory holding database files." default:"./data" type:"path"`
	LogLevel string `help:"Log level (debug, info, warn, error)." default:"info"`
	LogJSON  bool   `help:"Emit log records as JSON."`

	Create CreateCmd `cmd:"" help:"Create a database."`
	Drop   DropCmd   `cmd:"" help:"Drop a database and all its tables."`
	List   ListCmd   `cmd:"" help:"List databases."`
	Exec   ExecCmd   `cmd:"" help:"Execute a DDL statement against a database."`
	Schema SchemaCmd `cmd:"" help:"Show the schema of a database."`
	Insert InsertCmd `cmd:"" help:"Insert a row into a table."`
	Rows   RowsCmd   `cmd:"" help:"Print every row of a table as JSON."`
	Backup BackupCmd `cmd:"" help:"Back up a database."`
}

type runContext struct {
	engine *engine.Engine
}

type CreateCmd struct {
	Database string `arg:"" help:"Database name."`
}

func (c *CreateCmd) Run(rc *runContext) error {
	if err := rc.engine.CreateDatabase(c.Database); err != nil {
		return err
	}
	fmt.Printf("Database %s created\n", c.Database)
	return nil
}

type DropCmd struct {
	Database string `arg:"" help:"Database name."`
}

func (c *DropCmd) Run(rc *runContext) error {
	if err := rc.engine.DropDatabase(c.Database); err != nil {
		return err
	}
	fmt.Printf("Database %s dropped\n", c.Database)
	return nil
}

type ListCmd struct{}

func (c *ListCmd) Run(rc *runContext) error {
	names := rc.engine.ListDatabases()
	if len(names) == 0 {
		fmt.Println("No databases")
		return nil
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

type ExecCmd struct {
	Database string `arg:"" help:"Database name."`
	DDL      string `arg:"" help:"DDL statement to execute."`
}

func (c *ExecCmd) Run(rc *runContext) error {
	if err := rc.engine.ExecuteDDL(c.Database, c.DDL); err != nil {
		return err
	}
	fmt.Println("OK")
	return nil
}

type SchemaCmd struct {
	Database string `arg:"" help:"Database name."`
}

func (c *SchemaCmd) Run(rc *runContext) error {
	out, err := rc.engine.ShowDatabaseSchema(c.Database)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

type InsertCmd struct {
	Database string   `arg:"" help:"Database name."`
	Table    string   `arg:"" help:"Table name."`
	Values   []string `arg:"" help:"Column values as name=value pairs."`
}

func (c *InsertCmd) Run(rc *runContext) error {
	db, err := rc.engine.Database(c.Database)
	if err != nil {
		return err
	}
	store, err := rc.engine.Store(c.Database)
	if err != nil {
		return err
	}
	t, err := db.Table(c.Table)
	if err != nil {
		return err
	}

	row := storage.NewRow()
	for _, pair := range c.Values {
		name, text, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("value %q is not in name=value form", pair)
		}
		col, ok := t.Column(name)
		if !ok {
			return fmt.Errorf("table %s has no column %q", t.Name, name)
		}
		row.Set(col.Name, typedValue(col, text))
	}
	if err := store.Insert(t, row); err != nil {
		return err
	}
	fmt.Println("1 row inserted")
	return nil
}

// typedValue maps CLI text to the value variant matching the column type.
func typedValue(col schema.Column, text string) storage.Value {
	switch col.Type {
	case schema.TypeInteger, schema.TypeBigInt, schema.TypeDecimal:
		return storage.NumberValue(text)
	case schema.TypeBoolean:
		return storage.BoolValue(strings.EqualFold(text, "true"))
	default:
		return storage.StringValue(text)
	}
}

type RowsCmd struct {
	Database string `arg:"" help:"Database name."`
	Table    string `arg:"" help:"Table name."`
}

func (c *RowsCmd) Run(rc *runContext) error {
	db, err := rc.engine.Database(c.Database)
	if err != nil {
		return err
	}
	store, err := rc.engine.Store(c.Database)
	if err != nil {
		return err
	}
	t, err := db.Table(c.Table)
	if err != nil {
		return err
	}
	rows, err := store.SelectAll(t)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

type BackupCmd struct {
	Database string `arg:"" help:"Database name."`
	Dest     string `arg:"" help:"Destination path." type:"path"`
	Archive  bool   `help:"Write an xz-compressed tar archive instead of a directory copy."`
}

func (c *BackupCmd) Run(rc *runContext) error {
	if c.Archive {
		if err := rc.engine.BackupArchive(c.Database, c.Dest); err != nil {
			return err
		}
	} else {
		if err := rc.engine.BackupCopy(c.Database, c.Dest); err != nil {
			return err
		}
	}
	fmt.Printf("Database %s backed up to %s\n", c.Database, c.Dest)
	return nil
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("minidb"),
		kong.Description("File-backed relational database engine."),
		kong.UsageOnError(),
	)

	level, err := logging.ParseLevel(cli.LogLevel)
	if err != nil {
		ctx.FatalIfErrorf(err)
	}
	logger := logging.Init(level, cli.LogJSON)

	eng, err := engine.New(cli.DataDir, logger)
	if err != nil {
		ctx.FatalIfErrorf(err)
	}

	err = ctx.Run(&runContext{engine: eng})
	if err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

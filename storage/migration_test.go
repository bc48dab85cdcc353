package storage

import (
	"strings"
	"testing"

	"minidb/schema"
)

// applyAlter mirrors the engine's orchestration: the metadata change is
// applied first, then the stored rows are migrated.
func applyAlter(t *testing.T, store *Engine, db *schema.Database, cmd schema.AlterCommand) int {
	t.Helper()
	if err := cmd.Apply(db); err != nil {
		t.Fatalf("Failed to apply %s: %v", cmd.Operation(), err)
	}
	table, err := db.Table(cmd.Table())
	if err != nil {
		t.Fatalf("Failed to get table: %v", err)
	}
	rows, err := store.ApplyAlter(table, cmd)
	if err != nil {
		t.Fatalf("Failed to migrate rows for %s: %v", cmd.Operation(), err)
	}
	return rows
}

func seededStore(t *testing.T) (*Engine, *schema.Database, *schema.Table) {
	t.Helper()
	store, _ := newTestStore(t)
	table := productsTable(t)
	db := schema.NewDatabase("shop")
	if err := db.AddTable(table); err != nil {
		t.Fatalf("Failed to add table: %v", err)
	}
	if err := store.CreateTable(table); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	if err := store.BatchInsert(table, []Row{
		productRow("1", "Widget", "19.99"),
		productRow("2", "Gadget", "5.00"),
		productRow("3", "Gizmo", "0.50"),
	}); err != nil {
		t.Fatalf("Failed to insert: %v", err)
	}
	return store, db, table
}

func TestApplyAlterAddColumnBackfillsDefault(t *testing.T) {
	store, db, table := seededStore(t)

	stock := buildColumn(t, schema.NewColumn("stock", schema.TypeInteger).Default("0"))
	migrated := applyAlter(t, store, db, schema.AddColumn{TableName: "products", Column: stock})
	if migrated != 3 {
		t.Errorf("Expected 3 rows migrated, got %d", migrated)
	}

	rows, err := store.SelectAll(table)
	if err != nil {
		t.Fatalf("Failed to select: %v", err)
	}
	for i, row := range rows {
		v, ok := row.Get("stock")
		if !ok {
			t.Fatalf("Row %d missing stock", i)
		}
		if v.Text() != "0" {
			t.Errorf("Row %d: expected default '0', got %q", i, v.Text())
		}
		// The new column lands at the end of the row.
		keys := row.Keys()
		if keys[len(keys)-1] != "stock" {
			t.Errorf("Row %d: expected stock last, got %v", i, keys)
		}
	}
}

func TestApplyAlterAddColumnWithoutDefaultBackfillsNull(t *testing.T) {
	store, db, table := seededStore(t)

	note := buildColumn(t, schema.NewColumn("note", schema.TypeVarchar).Length(50))
	applyAlter(t, store, db, schema.AddColumn{TableName: "products", Column: note})

	rows, _ := store.SelectAll(table)
	for i, row := range rows {
		if v, ok := row.Get("note"); !ok || !v.IsNull() {
			t.Errorf("Row %d: expected null note, got %v %v", i, v, ok)
		}
	}
}

func TestApplyAlterDropColumnRemovesValues(t *testing.T) {
	store, db, table := seededStore(t)

	applyAlter(t, store, db, schema.DropColumn{TableName: "products", ColumnName: "price"})

	rows, _ := store.SelectAll(table)
	for i, row := range rows {
		if _, ok := row.Get("price"); ok {
			t.Errorf("Row %d still has price", i)
		}
		if row.Len() != 2 {
			t.Errorf("Row %d: expected 2 columns, got %d", i, row.Len())
		}
	}
}

func TestApplyAlterModifyColumnConvertsValues(t *testing.T) {
	store, db, table := seededStore(t)

	// price DECIMAL -> VARCHAR keeps the number text as a string.
	asText := buildColumn(t, schema.NewColumn("price", schema.TypeVarchar).Length(20))
	applyAlter(t, store, db, schema.ModifyColumn{
		TableName: "products", OldName: "price", Column: asText,
	})

	rows, _ := store.SelectAll(table)
	v, _ := rows[0].Get("price")
	if v.Kind() != KindString || v.Text() != "19.99" {
		t.Errorf("Expected string \"19.99\", got %v", v)
	}
}

func TestApplyAlterModifyColumnFallsBackToDefault(t *testing.T) {
	store, db, table := seededStore(t)

	// name holds text that cannot become an INTEGER; the default steps in.
	asInt := buildColumn(t, schema.NewColumn("name", schema.TypeInteger).Default("0"))
	applyAlter(t, store, db, schema.ModifyColumn{
		TableName: "products", OldName: "name", Column: asInt,
	})

	rows, _ := store.SelectAll(table)
	for i, row := range rows {
		v, _ := row.Get("name")
		if v.Text() != "0" {
			t.Errorf("Row %d: expected fallback '0', got %q", i, v.Text())
		}
	}
}

func TestApplyAlterModifyColumnWithoutDefaultFallsBackToNull(t *testing.T) {
	store, db, table := seededStore(t)

	asInt := buildColumn(t, schema.NewColumn("name", schema.TypeInteger))
	applyAlter(t, store, db, schema.ModifyColumn{
		TableName: "products", OldName: "name", Column: asInt,
	})

	rows, _ := store.SelectAll(table)
	for i, row := range rows {
		if v, _ := row.Get("name"); !v.IsNull() {
			t.Errorf("Row %d: expected null, got %v", i, v)
		}
	}
}

func TestApplyAlterModifyColumnNullCellTakesDefault(t *testing.T) {
	store, db, table := seededStore(t)

	// Null out one price cell.
	if _, err := store.Update(table, func(r Row) bool {
		v, _ := r.Get("id")
		return v.Text() == "2"
	}, func(r *Row) {
		r.Set("price", NullValue())
	}); err != nil {
		t.Fatalf("Failed to seed: %v", err)
	}

	asInt := buildColumn(t, schema.NewColumn("price", schema.TypeInteger).Default("7"))
	applyAlter(t, store, db, schema.ModifyColumn{
		TableName: "products", OldName: "price", Column: asInt,
	})

	rows, _ := store.SelectAll(table)
	if v, _ := rows[1].Get("price"); v.Text() != "7" {
		t.Errorf("Expected null cell to take the default '7', got %q", v.Text())
	}
	// Non-null cells still convert normally; 19.99 cannot become an
	// INTEGER so it also lands on the default.
	if v, _ := rows[0].Get("price"); v.Text() != "7" {
		t.Errorf("Expected unconvertible cell to fall back to '7', got %q", v.Text())
	}
}

func TestApplyAlterRenameColumnMovesValues(t *testing.T) {
	store, db, table := seededStore(t)

	applyAlter(t, store, db, schema.RenameColumn{
		TableName: "products", OldName: "name", NewName: "title",
	})

	rows, _ := store.SelectAll(table)
	v, ok := rows[0].Get("title")
	if !ok || v.Text() != "Widget" {
		t.Errorf("Expected title Widget, got %v %v", v, ok)
	}
	if _, ok := rows[0].Get("name"); ok {
		t.Error("Expected old column name to be gone")
	}
	// Position is preserved.
	keys := rows[0].Keys()
	if len(keys) != 3 || keys[1] != "title" {
		t.Errorf("Expected title at position 1, got %v", keys)
	}
}

func TestApplyAlterChain(t *testing.T) {
	store, db, table := seededStore(t)

	stock := buildColumn(t, schema.NewColumn("stock", schema.TypeInteger).Default("5"))
	applyAlter(t, store, db, schema.AddColumn{TableName: "products", Column: stock})

	asDecimal := buildColumn(t, schema.NewColumn("stock", schema.TypeDecimal).Precision(8).Scale(2))
	applyAlter(t, store, db, schema.ModifyColumn{
		TableName: "products", OldName: "stock", Column: asDecimal,
	})

	applyAlter(t, store, db, schema.RenameColumn{
		TableName: "products", OldName: "stock", NewName: "on_hand",
	})
	applyAlter(t, store, db, schema.DropColumn{TableName: "products", ColumnName: "price"})

	rows, err := store.SelectAll(table)
	if err != nil {
		t.Fatalf("Failed to select: %v", err)
	}
	for i, row := range rows {
		v, ok := row.Get("on_hand")
		if !ok {
			t.Fatalf("Row %d missing on_hand: %v", i, row.Keys())
		}
		if v.Text() != "5" {
			t.Errorf("Row %d: expected 5, got %q", i, v.Text())
		}
		if _, ok := row.Get("price"); ok {
			t.Errorf("Row %d still has price", i)
		}
	}

	// The persisted metadata reflects the final shape.
	loaded, err := store.LoadTableMetadata("products")
	if err != nil {
		t.Fatalf("Failed to load metadata: %v", err)
	}
	if _, ok := loaded.Column("on_hand"); !ok {
		t.Error("Expected on_hand in persisted metadata")
	}
	if _, ok := loaded.Column("price"); ok {
		t.Error("Expected price gone from persisted metadata")
	}
}

func TestApplyAlterPenRowScenario(t *testing.T) {
	store, _ := newTestStore(t)
	table, err := schema.NewTable("products", "", []schema.Column{
		buildColumn(t, schema.NewColumn("id", schema.TypeInteger).Constraint(schema.PrimaryKey).Constraint(schema.NotNull)),
		buildColumn(t, schema.NewColumn("name", schema.TypeVarchar).Constraint(schema.NotNull)),
		buildColumn(t, schema.NewColumn("price", schema.TypeDecimal)),
	})
	if err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	db := schema.NewDatabase("shop")
	if err := db.AddTable(table); err != nil {
		t.Fatalf("Failed to add table: %v", err)
	}
	if err := store.CreateTable(table); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	pen := NewRow()
	pen.Set("id", NumberValue("1"))
	pen.Set("name", StringValue("pen"))
	pen.Set("price", StringValue("1.5"))
	if err := store.Insert(table, pen); err != nil {
		t.Fatalf("Failed to insert: %v", err)
	}

	stock := buildColumn(t, schema.NewColumn("stock", schema.TypeInteger).Constraint(schema.NotNull).Default("0"))
	applyAlter(t, store, db, schema.AddColumn{TableName: "products", Column: stock})

	rows, _ := store.SelectAll(table)
	keys := rows[0].Keys()
	if len(keys) != 4 || keys[3] != "stock" {
		t.Fatalf("Expected [id name price stock], got %v", keys)
	}
	if v, _ := rows[0].Get("stock"); v.Text() != "0" {
		t.Errorf("Expected stock '0', got %q", v.Text())
	}

	applyAlter(t, store, db, schema.DropColumn{TableName: "products", ColumnName: "price"})

	rows, _ = store.SelectAll(table)
	keys = rows[0].Keys()
	if len(keys) != 3 || keys[0] != "id" || keys[1] != "name" || keys[2] != "stock" {
		t.Fatalf("Expected [id name stock], got %v", keys)
	}
	if v, _ := rows[0].Get("name"); v.Text() != "pen" {
		t.Errorf("Expected name 'pen', got %q", v.Text())
	}
}

func TestApplyAlterIntegerToDecimal(t *testing.T) {
	store, db, table := seededStore(t)

	// Seed a non-numeric value into a column about to become DECIMAL.
	if _, err := store.Update(table, func(r Row) bool {
		v, _ := r.Get("id")
		return v.Text() == "3"
	}, func(r *Row) {
		r.Set("id", StringValue("oops"))
	}); err != nil {
		t.Fatalf("Failed to seed: %v", err)
	}

	asDecimal := buildColumn(t, schema.NewColumn("id", schema.TypeDecimal).Precision(10).Scale(2).Default("0"))
	applyAlter(t, store, db, schema.ModifyColumn{
		TableName: "products", OldName: "id", Column: asDecimal,
	})

	rows, _ := store.SelectAll(table)
	if v, _ := rows[0].Get("id"); v.Kind() != KindNumber || v.Text() != "1" {
		t.Errorf("Expected converted 1, got %v", v)
	}
	if v, _ := rows[2].Get("id"); v.Text() != "0" {
		t.Errorf("Expected non-numeric row to fall back to default '0', got %q", v.Text())
	}
}

func TestApplyAlterWritesTransactionLog(t *testing.T) {
	store, db, _ := seededStore(t)

	stock := buildColumn(t, schema.NewColumn("stock", schema.TypeInteger).Default("0"))
	applyAlter(t, store, db, schema.AddColumn{TableName: "products", Column: stock})

	entries, err := store.log.Entries()
	if err != nil {
		t.Fatalf("Failed to read transaction log: %v", err)
	}
	last := entries[len(entries)-1]
	if !strings.Contains(last, "ALTER_ADD_COLUMN products rows=3") {
		t.Errorf("Unexpected log entry: %q", last)
	}
}

// Package schema provides the typed metadata model for databases, tables,
// and columns.
//
// The schema package defines the in-memory schema graph that the parser
// produces and the storage engine persists. A Database owns a set of Tables;
// a Table owns an ordered sequence of Columns plus a derived primary-key set
// that is recomputed on every structural change.
//
// Key Types:
//   - DataType: Supported column types (INTEGER, BIGINT, VARCHAR, CHAR,
//     DATE, TIMESTAMP, BOOLEAN, DECIMAL)
//   - ConstraintSet: Value-type set of column constraints
//   - Column: Immutable column definition built through ColumnBuilder
//   - Table: Table metadata with in-place alteration operations
//   - Database: Named collection of tables
//   - AlterCommand: Executable ALTER TABLE variants (add, drop, modify,
//     rename column)
//
// Key Responsibilities:
//   - Validating table structure (at least one column, case-insensitive
//     column name uniqueness)
//   - Applying column additions, drops, and modifications while keeping the
//     primary-key set consistent
//   - Generating CREATE TABLE DDL text from table metadata
//   - Serializing schema metadata for the storage engine
//
// Usage Example:
//
//	id, _ := schema.NewColumn("id", schema.TypeInteger).
//		Constraint(schema.PrimaryKey).
//		Constraint(schema.NotNull).
//		Build()
//	name, _ := schema.NewColumn("name", schema.TypeVarchar).Length(64).Build()
//
//	table, _ := schema.NewTable("users", "", []schema.Column{id, name})
//	ddl := table.GenerateCreateDDL()
//
// The schema package depends on nothing else in the module. It is consumed
// by the parser (which produces Tables and AlterCommands), the storage
// engine (which persists them), and the engine facade.
package schema

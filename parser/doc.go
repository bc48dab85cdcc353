// Package parser turns DDL text into schema objects.
//
// The parser package covers two stages. The lexer breaks a statement into a
// sequence of classified, positioned tokens using an ordered list of
// priority rules; comments and whitespace are recognized but filtered out
// so the grammar never has to special-case them. The parser then makes a
// single left-to-right pass over the token sequence with one-token
// lookahead and produces either a *schema.Table (CREATE TABLE) or a
// schema.AlterCommand (ALTER TABLE).
//
// Supported statements:
//   - CREATE TABLE [schema.]name (column definitions, optional table-level
//     [CONSTRAINT name] PRIMARY KEY (...) clause)
//   - ALTER TABLE name ADD COLUMN <definition>
//   - ALTER TABLE name DROP COLUMN <name>
//   - ALTER TABLE name MODIFY COLUMN <name> <type> <constraints>
//   - ALTER TABLE name RENAME COLUMN <old> TO <new>
//   - DROP TABLE name
//
// Key Responsibilities:
//   - Tokenizing with case-insensitive keywords and SQL string escaping
//     ('' inside single quotes)
//   - Reporting lex failures with the offending character and offset
//   - Reporting syntax failures with position and nearby source context,
//     distinguishing unexpected end of input from wrong-token errors
//   - Normalizing type spellings (INT to INTEGER, NUMERIC to DECIMAL) and
//     rejecting length/precision on types that do not take them
//
// Usage Example:
//
//	table, err := parser.ParseCreateTable(
//		"CREATE TABLE products (id INTEGER PRIMARY KEY, name VARCHAR NOT NULL)")
//
//	cmd, err := parser.ParseAlterTable(
//		"ALTER TABLE products ADD COLUMN stock INTEGER NOT NULL DEFAULT 0")
//
// The parser depends on the schema package for the objects it produces and
// validates structure through it, so a statement that parses but defines an
// invalid table (for example duplicate column names) still fails.
package parser

package parser

import (
	"fmt"
	"strconv"
	"strings"

	"minidb/schema"
)

// parseCreateTable handles:
//
//	CREATE TABLE [schema.]name ( columndef [, columndef]... [, pk-clause] )
func (p *ddlParser) parseCreateTable() (*schema.Table, error) {
	if err := p.consumeKeyword("CREATE"); err != nil {
		return nil, err
	}
	if err := p.consumeKeyword("TABLE"); err != nil {
		return nil, err
	}

	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	schemaName := ""
	if p.peekSymbol(".") {
		p.pos++
		schemaName = name
		if name, err = p.parseIdentifier(); err != nil {
			return nil, err
		}
	}

	columns, pkNames, err := p.parseColumnDefinitions()
	if err != nil {
		return nil, err
	}

	// Table-level PRIMARY KEY clauses mark the named columns.
	for _, pk := range pkNames {
		found := false
		for i := range columns {
			if strings.EqualFold(columns[i].Name, pk) {
				columns[i].Constraints = columns[i].Constraints.With(schema.PrimaryKey)
				found = true
				break
			}
		}
		if !found {
			return nil, &SyntaxError{
				Message:  fmt.Sprintf("primary key references unknown column '%s'", pk),
				Position: -1,
			}
		}
	}

	return schema.NewTable(name, schemaName, columns)
}

// parseColumnDefinitions parses the parenthesized column list, returning
// the columns and any column names listed in table-level PRIMARY KEY
// clauses.
func (p *ddlParser) parseColumnDefinitions() ([]schema.Column, []string, error) {
	if err := p.consumeSymbol("("); err != nil {
		return nil, nil, err
	}

	var columns []schema.Column
	var pkNames []string
	for !p.peekSymbol(")") {
		if p.peekKeyword("CONSTRAINT") || p.peekKeyword("PRIMARY") {
			names, err := p.parseTablePrimaryKey()
			if err != nil {
				return nil, nil, err
			}
			pkNames = append(pkNames, names...)
		} else {
			col, err := p.parseColumnDefinition()
			if err != nil {
				return nil, nil, err
			}
			columns = append(columns, col)
		}
		if !p.peekSymbol(")") {
			if err := p.consumeSymbol(","); err != nil {
				return nil, nil, err
			}
		}
	}

	if err := p.consumeSymbol(")"); err != nil {
		return nil, nil, err
	}
	return columns, pkNames, nil
}

// parseTablePrimaryKey handles [CONSTRAINT name] PRIMARY KEY (col, ...).
func (p *ddlParser) parseTablePrimaryKey() ([]string, error) {
	if p.peekKeyword("CONSTRAINT") {
		p.pos++
		// Constraint names are accepted and discarded.
		if _, err := p.parseIdentifier(); err != nil {
			return nil, err
		}
	}
	if err := p.consumeKeyword("PRIMARY"); err != nil {
		return nil, err
	}
	if err := p.consumeKeyword("KEY"); err != nil {
		return nil, err
	}
	if err := p.consumeSymbol("("); err != nil {
		return nil, err
	}

	var names []string
	for {
		name, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		if !p.peekSymbol(",") {
			break
		}
		p.pos++
	}
	if err := p.consumeSymbol(")"); err != nil {
		return nil, err
	}
	return names, nil
}

// parseColumnDefinition handles: name datatype constraint*.
func (p *ddlParser) parseColumnDefinition() (schema.Column, error) {
	name, err := p.parseIdentifier()
	if err != nil {
		return schema.Column{}, err
	}

	builder, err := p.parseDataType(name)
	if err != nil {
		return schema.Column{}, err
	}
	return p.parseColumnConstraints(builder)
}

// parseColumnConstraints parses the constraint tail of a column definition:
// PRIMARY KEY | NOT NULL | UNIQUE | AUTO_INCREMENT | DEFAULT value.
func (p *ddlParser) parseColumnConstraints(builder *schema.ColumnBuilder) (schema.Column, error) {
	for {
		switch {
		case p.peekKeyword("PRIMARY"):
			p.pos++
			if err := p.consumeKeyword("KEY"); err != nil {
				return schema.Column{}, err
			}
			builder.Constraint(schema.PrimaryKey)
		case p.peekKeyword("NOT"):
			p.pos++
			if err := p.consumeKeyword("NULL"); err != nil {
				return schema.Column{}, err
			}
			builder.Constraint(schema.NotNull)
		case p.peekKeyword("UNIQUE"):
			p.pos++
			builder.Constraint(schema.Unique)
		case p.peekKeyword("AUTO_INCREMENT"):
			p.pos++
			builder.Constraint(schema.AutoIncrement)
		case p.peekKeyword("DEFAULT"):
			p.pos++
			value, err := p.parseDefaultValue()
			if err != nil {
				return schema.Column{}, err
			}
			if value != nil {
				builder.Default(*value)
			}
		default:
			return builder.Build()
		}
	}
}

// parseDataType handles: KEYWORD [ '(' NUMBER [',' NUMBER] ')' ]. Length is
// only valid on VARCHAR/CHAR and precision/scale only on DECIMAL.
func (p *ddlParser) parseDataType(columnName string) (*schema.ColumnBuilder, error) {
	tok, err := p.consume(KindKeyword)
	if err != nil {
		return nil, err
	}
	dt, err := schema.ParseDataType(tok.Text)
	if err != nil {
		return nil, p.errorAt(tok, fmt.Sprintf("expected data type but found '%s'", tok.Text))
	}
	builder := schema.NewColumn(columnName, dt)

	if !p.peekSymbol("(") {
		return builder, nil
	}
	p.pos++

	first, err := p.parseUint()
	if err != nil {
		return nil, err
	}

	if p.peekSymbol(",") {
		p.pos++
		second, err := p.parseUint()
		if err != nil {
			return nil, err
		}
		if err := p.consumeSymbol(")"); err != nil {
			return nil, err
		}
		if dt != schema.TypeDecimal {
			return nil, p.errorAt(tok, fmt.Sprintf("type %s does not take precision and scale", dt))
		}
		return builder.Precision(first).Scale(second), nil
	}

	if err := p.consumeSymbol(")"); err != nil {
		return nil, err
	}
	switch dt {
	case schema.TypeVarchar, schema.TypeChar:
		return builder.Length(first), nil
	case schema.TypeDecimal:
		return builder.Precision(first), nil
	}
	return nil, p.errorAt(tok, fmt.Sprintf("type %s does not take a length", dt))
}

// parseUint consumes a non-negative integer number token.
func (p *ddlParser) parseUint() (int, error) {
	tok, err := p.consume(KindNumber)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(tok.Text)
	if err != nil || n < 0 {
		return 0, p.errorAt(tok, fmt.Sprintf("expected a non-negative integer but found '%s'", tok.Text))
	}
	return n, nil
}

// parseDefaultValue handles DEFAULT values. String literals are unquoted
// with '' unescaped; numbers keep their literal text; NULL yields nil.
func (p *ddlParser) parseDefaultValue() (*string, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, p.eofError("expected default value")
	}
	switch {
	case tok.Kind == KindString:
		p.pos++
		value := unquoteString(tok.Text)
		return &value, nil
	case tok.Kind == KindNumber:
		p.pos++
		value := tok.Text
		return &value, nil
	case p.peekKeyword("NULL"):
		p.pos++
		return nil, nil
	}
	return nil, p.errorAt(tok, fmt.Sprintf("expected default value but found '%s'", tok.Text))
}

// unquoteString strips the surrounding quotes from a string literal token
// and unescapes doubled quotes.
func unquoteString(text string) string {
	inner := text[1 : len(text)-1]
	return strings.ReplaceAll(inner, "''", "'")
}

package parser

import (
	"minidb/schema"
)

// parseAlterTable handles:
//
//	ALTER TABLE name ADD COLUMN columndef
//	ALTER TABLE name DROP COLUMN ident
//	ALTER TABLE name MODIFY COLUMN ident datatype constraint*
//	ALTER TABLE name RENAME COLUMN ident TO ident
func (p *ddlParser) parseAlterTable() (schema.AlterCommand, error) {
	if err := p.consumeKeyword("ALTER"); err != nil {
		return nil, err
	}
	if err := p.consumeKeyword("TABLE"); err != nil {
		return nil, err
	}
	tableName, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	switch {
	case p.peekKeyword("ADD"):
		p.pos++
		if err := p.consumeKeyword("COLUMN"); err != nil {
			return nil, err
		}
		col, err := p.parseColumnDefinition()
		if err != nil {
			return nil, err
		}
		return schema.AddColumn{TableName: tableName, Column: col}, nil

	case p.peekKeyword("DROP"):
		p.pos++
		if err := p.consumeKeyword("COLUMN"); err != nil {
			return nil, err
		}
		name, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		return schema.DropColumn{TableName: tableName, ColumnName: name}, nil

	case p.peekKeyword("MODIFY"):
		p.pos++
		if err := p.consumeKeyword("COLUMN"); err != nil {
			return nil, err
		}
		name, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		builder, err := p.parseDataType(name)
		if err != nil {
			return nil, err
		}
		col, err := p.parseColumnConstraints(builder)
		if err != nil {
			return nil, err
		}
		return schema.ModifyColumn{TableName: tableName, OldName: name, Column: col}, nil

	case p.peekKeyword("RENAME"):
		p.pos++
		if err := p.consumeKeyword("COLUMN"); err != nil {
			return nil, err
		}
		oldName, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		if err := p.consumeKeyword("TO"); err != nil {
			return nil, err
		}
		newName, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		return schema.RenameColumn{TableName: tableName, OldName: oldName, NewName: newName}, nil
	}

	return nil, p.errorAtCurrent("expected ADD, DROP, MODIFY or RENAME")
}

// parseDropTable handles: DROP TABLE ident.
func (p *ddlParser) parseDropTable() (string, error) {
	if err := p.consumeKeyword("DROP"); err != nil {
		return "", err
	}
	if err := p.consumeKeyword("TABLE"); err != nil {
		return "", err
	}
	return p.parseIdentifier()
}

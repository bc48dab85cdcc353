package parser

import (
	"fmt"
	"strings"

	"minidb/schema"
)

// Statement is the result of parsing one DDL statement.
type Statement interface {
	ddlStatement()
}

// CreateTable is a parsed CREATE TABLE statement.
type CreateTable struct {
	Table *schema.Table
}

func (*CreateTable) ddlStatement() {}

// AlterTable is a parsed ALTER TABLE statement.
type AlterTable struct {
	Command schema.AlterCommand
}

func (*AlterTable) ddlStatement() {}

// DropTable is a parsed DROP TABLE statement.
type DropTable struct {
	TableName string
}

func (*DropTable) ddlStatement() {}

// Parse parses a single DDL statement, dispatching on its leading keyword.
func Parse(ddl string) (Statement, error) {
	p, err := newParser(ddl)
	if err != nil {
		return nil, err
	}

	var stmt Statement
	switch {
	case p.peekKeyword("CREATE"):
		table, err := p.parseCreateTable()
		if err != nil {
			return nil, err
		}
		stmt = &CreateTable{Table: table}
	case p.peekKeyword("ALTER"):
		cmd, err := p.parseAlterTable()
		if err != nil {
			return nil, err
		}
		stmt = &AlterTable{Command: cmd}
	case p.peekKeyword("DROP"):
		name, err := p.parseDropTable()
		if err != nil {
			return nil, err
		}
		stmt = &DropTable{TableName: name}
	default:
		return nil, p.errorAtCurrent("unsupported DDL statement")
	}

	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	return stmt, nil
}

// ParseCreateTable parses a CREATE TABLE statement into a Table.
func ParseCreateTable(ddl string) (*schema.Table, error) {
	p, err := newParser(ddl)
	if err != nil {
		return nil, err
	}
	table, err := p.parseCreateTable()
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	return table, nil
}

// ParseAlterTable parses an ALTER TABLE statement into an AlterCommand.
func ParseAlterTable(ddl string) (schema.AlterCommand, error) {
	p, err := newParser(ddl)
	if err != nil {
		return nil, err
	}
	cmd, err := p.parseAlterTable()
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	return cmd, nil
}

// ddlParser walks a token sequence left to right with one-token lookahead.
type ddlParser struct {
	input  string
	tokens []Token
	pos    int
}

func newParser(input string) (*ddlParser, error) {
	tokens, err := Tokenize(input)
	if err != nil {
		return nil, err
	}
	return &ddlParser{input: input, tokens: tokens}, nil
}

func (p *ddlParser) peek() (Token, bool) {
	if p.pos >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *ddlParser) peekKeyword(kw string) bool {
	tok, ok := p.peek()
	return ok && tok.Kind == KindKeyword && strings.EqualFold(tok.Text, kw)
}

func (p *ddlParser) peekSymbol(sym string) bool {
	tok, ok := p.peek()
	return ok && tok.Kind == KindSymbol && tok.Text == sym
}

// consume takes the next token, requiring the given kind.
func (p *ddlParser) consume(kind TokenKind) (Token, error) {
	tok, ok := p.peek()
	if !ok {
		return Token{}, p.eofError("expected " + kind.String())
	}
	if tok.Kind != kind {
		return Token{}, p.errorAt(tok, fmt.Sprintf("expected %s but found %s '%s'", kind, tok.Kind, tok.Text))
	}
	p.pos++
	return tok, nil
}

func (p *ddlParser) consumeKeyword(kw string) error {
	tok, ok := p.peek()
	if !ok {
		return p.eofError("expected keyword " + kw)
	}
	if tok.Kind != KindKeyword || !strings.EqualFold(tok.Text, kw) {
		return p.errorAt(tok, fmt.Sprintf("expected keyword %s but found '%s'", kw, tok.Text))
	}
	p.pos++
	return nil
}

func (p *ddlParser) consumeSymbol(sym string) error {
	tok, ok := p.peek()
	if !ok {
		return p.eofError("expected '" + sym + "'")
	}
	if tok.Kind != KindSymbol || tok.Text != sym {
		return p.errorAt(tok, fmt.Sprintf("expected '%s' but found '%s'", sym, tok.Text))
	}
	p.pos++
	return nil
}

func (p *ddlParser) parseIdentifier() (string, error) {
	tok, err := p.consume(KindIdent)
	if err != nil {
		return "", err
	}
	return tok.Text, nil
}

// expectEnd requires that all input has been consumed, allowing a trailing
// semicolon.
func (p *ddlParser) expectEnd() error {
	if p.peekSymbol(";") {
		p.pos++
	}
	if tok, ok := p.peek(); ok {
		return p.errorAt(tok, fmt.Sprintf("unexpected trailing input '%s'", tok.Text))
	}
	return nil
}

// contextAt slices the raw input around an offset for error reporting.
func (p *ddlParser) contextAt(offset int) string {
	if offset < 0 || offset > len(p.input) {
		return ""
	}
	start := offset - 10
	if start < 0 {
		start = 0
	}
	end := offset + 20
	if end > len(p.input) {
		end = len(p.input)
	}
	return p.input[start:end]
}

func (p *ddlParser) errorAt(tok Token, msg string) error {
	return &SyntaxError{Message: msg, Position: tok.Offset, Context: p.contextAt(tok.Offset)}
}

func (p *ddlParser) errorAtCurrent(msg string) error {
	if tok, ok := p.peek(); ok {
		return p.errorAt(tok, msg)
	}
	return p.eofError(msg)
}

func (p *ddlParser) eofError(msg string) error {
	return &SyntaxError{
		Message:  msg,
		Position: len(p.input),
		Context:  p.contextAt(len(p.input)),
		err:      ErrUnexpectedEOF,
	}
}

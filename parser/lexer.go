package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// TokenKind classifies a lexical token.
type TokenKind int

const (
	KindKeyword TokenKind = iota
	KindIdent
	KindString
	KindNumber
	KindSymbol
)

func (k TokenKind) String() string {
	switch k {
	case KindKeyword:
		return "keyword"
	case KindIdent:
		return "identifier"
	case KindString:
		return "string literal"
	case KindNumber:
		return "number"
	case KindSymbol:
		return "symbol"
	}
	return "unknown"
}

// Token is a classified, positioned unit of statement text.
type Token struct {
	Kind   TokenKind
	Text   string
	Offset int
}

// ddlLexer defines the lexical rules. Rule order is load-bearing: rules are
// tried at the current offset in this order and the first match wins, so
// comments and whitespace are consumed before anything else and keywords
// shadow identifiers. Keywords match whole words only; an identifier that
// merely begins with a keyword spelling stays an identifier.
var ddlLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `--[^\n]*|/\*[\s\S]*?\*/`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "String", Pattern: `'(?:''|[^'])*'`},
	{Name: "Number", Pattern: `-?\d+(?:\.\d+)?(?:[eE][+-]?\d+)?`},
	{Name: "Keyword", Pattern: `(?i)(?:CREATE|TABLE|ALTER|ADD|COLUMN|PRIMARY|KEY|UNIQUE|NOT|NULL|DEFAULT|CONSTRAINT|REFERENCES|FOREIGN|INDEX|CHECK|DROP|MODIFY|RENAME|TO|AUTO_INCREMENT|INTEGER|INT|BIGINT|VARCHAR|CHAR|DATE|TIMESTAMP|BOOLEAN|DECIMAL|NUMERIC)\b`},
	{Name: "Symbol", Pattern: `[(),;=<>+\-*/%.]`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
})

// tokenKinds maps the lexer's rule symbols to token kinds. Comment and
// Whitespace are absent; their tokens are dropped during tokenization.
var tokenKinds = func() map[lexer.TokenType]TokenKind {
	syms := ddlLexer.Symbols()
	return map[lexer.TokenType]TokenKind{
		syms["Keyword"]: KindKeyword,
		syms["Ident"]:   KindIdent,
		syms["String"]:  KindString,
		syms["Number"]:  KindNumber,
		syms["Symbol"]:  KindSymbol,
	}
}()

// Tokenize converts statement text into a token sequence with comments and
// whitespace filtered out. It fails with a *LexError at the first byte that
// matches no rule.
func Tokenize(input string) ([]Token, error) {
	lx, err := ddlLexer.Lex("", strings.NewReader(input))
	if err != nil {
		return nil, newLexError(input, err)
	}

	var tokens []Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, newLexError(input, err)
		}
		if tok.EOF() {
			return tokens, nil
		}
		kind, ok := tokenKinds[tok.Type]
		if !ok {
			// Comment or whitespace.
			continue
		}
		tokens = append(tokens, Token{Kind: kind, Text: tok.Value, Offset: tok.Pos.Offset})
	}
}

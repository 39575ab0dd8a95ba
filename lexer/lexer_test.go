package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ntua-el19005/gracec/lexer"
	"github.com/ntua-el19005/gracec/token"
)

func collect(t *testing.T, src string) []token.Token {
	t.Helper()
	l := lexer.New("t.grc", src)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF || tok.Type == token.ILLEGAL {
			break
		}
	}
	return toks
}

func TestNextTokenBasics(t *testing.T) {
	src := `fun main():nothing{writeInteger(1+2);}`
	toks := collect(t, src)

	want := []token.Type{
		token.FUN, token.IDENT, token.LPAREN, token.RPAREN, token.COLON,
		token.NOTHING, token.LBRACE, token.IDENT, token.LPAREN, token.INT,
		token.PLUS, token.INT, token.RPAREN, token.SEMICOLON, token.RBRACE,
		token.EOF,
	}
	require.Len(t, toks, len(want))
	for i, w := range want {
		require.Equalf(t, w, toks[i].Type, "token %d", i)
	}
}

func TestOperators(t *testing.T) {
	toks := collect(t, `<- = # < > <= >=`)
	want := []token.Type{token.ASSIGN, token.EQ, token.NOT_EQ, token.LT, token.GT, token.LE, token.GE, token.EOF}
	require.Len(t, toks, len(want))
	for i, w := range want {
		require.Equal(t, w, toks[i].Type)
	}
}

func TestLineComment(t *testing.T) {
	toks := collect(t, "var x : int; $ trailing comment\nvar y : int;")
	var kinds []token.Type
	for _, tk := range toks {
		kinds = append(kinds, tk.Type)
	}
	require.Contains(t, kinds, token.VAR)
	require.NotContains(t, kinds, token.ILLEGAL)
}

func TestBlockComment(t *testing.T) {
	toks := collect(t, "$$ this is\n a block $$ var x : int;")
	require.Equal(t, token.VAR, toks[0].Type)
}

func TestStringLiteralEscapes(t *testing.T) {
	toks := collect(t, `"Less\n"`)
	require.Equal(t, token.STRING, toks[0].Type)
	require.Equal(t, "Less\n", toks[0].Literal)
}

func TestCharLiteral(t *testing.T) {
	toks := collect(t, `'a' '\n' '\x41'`)
	require.Equal(t, token.CHAR, toks[0].Type)
	require.Equal(t, "a", toks[0].Literal)
	require.Equal(t, "\n", toks[1].Literal)
	require.Equal(t, "A", toks[2].Literal)
}

func TestUnterminatedString(t *testing.T) {
	toks := collect(t, `"abc`)
	require.Equal(t, token.ILLEGAL, toks[len(toks)-1].Type)
}

func TestKeywords(t *testing.T) {
	toks := collect(t, "and or not div mod var fun ref return if then else while do char int nothing")
	want := []token.Type{
		token.AND, token.OR, token.NOT, token.DIV, token.MOD, token.VAR,
		token.FUN, token.REF, token.RETURN, token.IF, token.THEN, token.ELSE,
		token.WHILE, token.DO, token.CHAR_KW, token.INT_KW, token.NOTHING, token.EOF,
	}
	require.Len(t, toks, len(want))
	for i, w := range want {
		require.Equal(t, w, toks[i].Type)
	}
}

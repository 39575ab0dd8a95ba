package diag_test

import (
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/ntua-el19005/gracec/diag"
	"github.com/ntua-el19005/gracec/token"
)

func TestErrorWireFormatWithPosition(t *testing.T) {
	pos := token.Pos{File: "prog.grc", Line: 3, Column: 7}
	err := diag.New(diag.Semantic, pos, "undefined function %q", "f")
	require.Equal(t, `semantic error at file: prog.grc, line: 3, column: 7: undefined function "f"`, err.Error())
}

func TestErrorWireFormatEachKind(t *testing.T) {
	pos := token.Pos{File: "t.grc", Line: 1, Column: 1}
	cases := []struct {
		kind diag.Kind
		want string
	}{
		{diag.Lexing, "lexing error"},
		{diag.Parser, "parser error"},
		{diag.Semantic, "semantic error"},
		{diag.SymbolTable, "symbol-table error"},
		{diag.Codegen, "codegen error"},
	}
	for _, c := range cases {
		err := diag.New(c.kind, pos, "x")
		require.Contains(t, err.Error(), c.want+" at file: t.grc, line: 1, column: 1: x")
	}
}

func TestInternalErrorWireFormatHasNoPosition(t *testing.T) {
	err := diag.InternalError("unsupported node %T", 0)
	require.Equal(t, "internal compiler error: unsupported node int", err.Error())
}

func TestWrapPreservesCauseAndPrependsContext(t *testing.T) {
	pos := token.Pos{File: "t.grc", Line: 2, Column: 4}
	base := diag.New(diag.Parser, pos, "unexpected token")

	wrapped := diag.Wrap(base, "compiling t.grc")
	require.Equal(t, "compiling t.grc: "+base.Error(), wrapped.Error())
	require.Equal(t, error(base), pkgerrors.Cause(wrapped))
}

func TestAsErrorUnwrapsWrappedDiagError(t *testing.T) {
	pos := token.Pos{File: "t.grc", Line: 5, Column: 1}
	base := diag.New(diag.Codegen, pos, "unresolved call to %q", "f")
	wrapped := diag.Wrap(base, "compiling t.grc")

	de, ok := diag.AsError(wrapped)
	require.True(t, ok)
	require.Same(t, base, de)
	require.Equal(t, base.Error(), de.Error())
}

func TestAsErrorRejectsPlainError(t *testing.T) {
	_, ok := diag.AsError(pkgerrors.New("not a diagnostic"))
	require.False(t, ok)
}

func TestWarningStringWireFormat(t *testing.T) {
	w := diag.Warning{Pos: token.Pos{File: "t.grc", Line: 9, Column: 2}, Message: "unreachable code"}
	require.Equal(t, "warning at file: t.grc, line: 9, column: 2: unreachable code", w.String())
}

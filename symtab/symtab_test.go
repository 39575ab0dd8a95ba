package symtab_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ntua-el19005/gracec/ast"
	"github.com/ntua-el19005/gracec/symtab"
)

func pos() ast.Pos { return ast.Pos{File: "t.grc", Line: 1, Column: 1} }

func TestInsertAssignsSequentialFrameOffsets(t *testing.T) {
	tab := symtab.New()
	tab.OpenGlobalScope()
	tab.OpenScope("f")

	p := &symtab.ParameterRef{Name: "a", Type: ast.ScalarType(ast.Int)}
	require.NoError(t, tab.Insert(pos(), "a", &symtab.Entity{Parameter: p}))
	require.Equal(t, 0, p.FrameOffset)

	v := &symtab.VariableRef{Name: "b", Type: ast.ScalarType(ast.Int)}
	require.NoError(t, tab.Insert(pos(), "b", &symtab.Entity{Variable: v}))
	require.Equal(t, 1, v.FrameOffset)
}

func TestInsertRejectsRedefinition(t *testing.T) {
	tab := symtab.New()
	tab.OpenGlobalScope()
	tab.OpenScope("f")
	v := &symtab.VariableRef{Name: "x", Type: ast.ScalarType(ast.Int)}
	require.NoError(t, tab.Insert(pos(), "x", &symtab.Entity{Variable: v}))
	require.Error(t, tab.Insert(pos(), "x", &symtab.Entity{Variable: v}))
}

func TestLookupAllWalksOuterScopes(t *testing.T) {
	tab := symtab.New()
	tab.OpenGlobalScope()
	tab.OpenScope("outer")
	v := &symtab.VariableRef{Name: "x", Type: ast.ScalarType(ast.Int)}
	require.NoError(t, tab.Insert(pos(), "x", &symtab.Entity{Variable: v}))

	tab.OpenScope("inner")
	_, ok := tab.Lookup("x")
	require.False(t, ok, "Lookup is scope-local only")

	ent, ok := tab.LookupAll("x")
	require.True(t, ok)
	require.Equal(t, v, ent.Variable)
}

func TestCloseScopeRejectsDeclaredWithoutDefinition(t *testing.T) {
	tab := symtab.New()
	tab.OpenGlobalScope()
	tab.OpenScope("main")

	header := &ast.FunctionHeader{Pos: pos(), Id: "g", ReturnType: ast.ScalarType(ast.Nothing)}
	ref := &symtab.FunctionRef{Header: header, Status: ast.Declared, Pos: pos()}
	require.NoError(t, tab.Insert(pos(), "g", &symtab.Entity{Function: ref}))

	require.Error(t, tab.CloseScope(pos()))
}

func TestCloseScopeAcceptsMarkedDefined(t *testing.T) {
	tab := symtab.New()
	tab.OpenGlobalScope()
	tab.OpenScope("main")

	header := &ast.FunctionHeader{Pos: pos(), Id: "g", ReturnType: ast.ScalarType(ast.Nothing)}
	ref := &symtab.FunctionRef{Header: header, Status: ast.Declared, Pos: pos()}
	require.NoError(t, tab.Insert(pos(), "g", &symtab.Entity{Function: ref}))

	def := &ast.FunctionDef{Header: header, Body: &ast.BlockStmt{}}
	require.NoError(t, tab.MarkDefined(pos(), "g", def))
	require.NoError(t, tab.CloseScope(pos()))
}

func TestGlobalScopeRejectsStrayLeftovers(t *testing.T) {
	tab := symtab.New()
	tab.OpenGlobalScope()
	v := &symtab.VariableRef{Name: "leftover", Type: ast.ScalarType(ast.Int)}
	require.NoError(t, tab.Insert(pos(), "leftover", &symtab.Entity{Variable: v}))
	require.Error(t, tab.CloseScope(pos()))
}

func TestParentPathIgnoresGlobalScope(t *testing.T) {
	tab := symtab.New()
	tab.OpenGlobalScope()
	require.Empty(t, tab.ParentPath())
	tab.OpenScope("main")
	require.Equal(t, []string{"main"}, tab.ParentPath())
	tab.OpenScope("nested")
	require.Equal(t, []string{"nested", "main"}, tab.ParentPath())
}

package sema_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ntua-el19005/gracec/ast"
	"github.com/ntua-el19005/gracec/sema"
	"github.com/ntua-el19005/gracec/symtab"
)

func pos() ast.Pos { return ast.Pos{File: "t.grc", Line: 1, Column: 1} }

func TestCheckVarDefRejectsUnboundDimension(t *testing.T) {
	v := &ast.VarDef{Pos: pos(), Names: []string{"a"}, Type: ast.ArrayType(ast.Int, []ast.Dimension{{Unspecified: true}})}
	err := sema.CheckVarDef(v)
	require.Error(t, err)
}

func TestCheckParamDefRequiresByRefForArrays(t *testing.T) {
	p := &ast.ParamDef{Pos: pos(), Name: "a", Type: ast.ArrayType(ast.Int, []ast.Dimension{{Unspecified: true}}), Mode: ast.ByValue}
	err := sema.CheckParamDef(p)
	require.Error(t, err)
}

func TestResolveIdentifierUndefined(t *testing.T) {
	tab := symtab.New()
	tab.OpenScope("main")
	id := &ast.Identifier{Pos: pos(), Name: "x"}
	err := sema.ResolveIdentifier(tab, id)
	require.Error(t, err)
}

func TestResolveIdentifierFindsVariable(t *testing.T) {
	tab := symtab.New()
	tab.OpenScope("main")
	v := &ast.VarDef{Pos: pos(), Names: []string{"x"}, Type: ast.ScalarType(ast.Int)}
	require.NoError(t, sema.DeclareVarDef(tab, v))

	id := &ast.Identifier{Pos: pos(), Name: "x"}
	require.NoError(t, sema.ResolveIdentifier(tab, id))
	require.Equal(t, ast.VariableEntity, id.EntityKind)
	require.True(t, id.ResolvedType.Equal(ast.ScalarType(ast.Int)))
	require.Equal(t, 0, id.FrameOffset)
}

func TestCheckAssignRejectsStringLiteralTarget(t *testing.T) {
	s := &ast.AssignStmt{
		Pos:    pos(),
		Target: &ast.StringLiteral{Pos: pos(), Value: "hi", ResolvedType: ast.ArrayType(ast.Char, []ast.Dimension{{Bound: 3}})},
		Value:  &ast.IntegerLiteral{Pos: pos(), Value: 1},
	}
	require.Error(t, sema.CheckAssign(s))
}

func TestCheckAssignTypeMismatch(t *testing.T) {
	id := &ast.Identifier{Pos: pos(), Name: "x", ResolvedType: ast.ScalarType(ast.Int)}
	s := &ast.AssignStmt{Pos: pos(), Target: id, Value: &ast.CharacterLiteral{Pos: pos(), Value: 'a'}}
	require.Error(t, sema.CheckAssign(s))
}

func TestCheckReturnNothingAllowsBareReturn(t *testing.T) {
	rt := ast.ScalarType(ast.Nothing)
	require.NoError(t, sema.CheckReturn(rt, &ast.ReturnStmt{Pos: pos()}))
}

func TestCheckReturnMismatch(t *testing.T) {
	rt := ast.ScalarType(ast.Int)
	require.Error(t, sema.CheckReturn(rt, &ast.ReturnStmt{Pos: pos()}))
}

func TestCheckReturnAllowsNothingCallPayload(t *testing.T) {
	rt := ast.ScalarType(ast.Nothing)
	call := &ast.CallExpr{Pos: pos(), Callee: "writeInteger", ResolvedType: ast.ScalarType(ast.Nothing)}
	require.NoError(t, sema.CheckReturn(rt, &ast.ReturnStmt{Pos: pos(), Value: call}))
}

func TestCheckMain(t *testing.T) {
	good := &ast.FunctionDef{Header: &ast.FunctionHeader{Pos: pos(), Id: "main", ReturnType: ast.ScalarType(ast.Nothing)}, Body: &ast.BlockStmt{}}
	require.NoError(t, sema.CheckMain(good))

	bad := &ast.FunctionDef{Header: &ast.FunctionHeader{
		Pos: pos(), Id: "main",
		Params:     []*ast.ParamDef{{Pos: pos(), Name: "x", Type: ast.ScalarType(ast.Int)}},
		ReturnType: ast.ScalarType(ast.Nothing),
	}, Body: &ast.BlockStmt{}}
	require.Error(t, sema.CheckMain(bad))
}

func TestAllPathsReturn(t *testing.T) {
	ret := &ast.ReturnStmt{Pos: pos(), Value: &ast.IntegerLiteral{Pos: pos(), Value: 1}}
	ifBoth := &ast.IfStmt{Pos: pos(), Cond: &ast.Comparison{Pos: pos()}, Then: ret, Else: ret}
	require.True(t, sema.AllPathsReturn(ifBoth))

	ifOneArm := &ast.IfStmt{Pos: pos(), Cond: &ast.Comparison{Pos: pos()}, Then: ret}
	require.False(t, sema.AllPathsReturn(ifOneArm))

	block := &ast.BlockStmt{Statements: []ast.Statement{&ast.EmptyStmt{Pos: pos()}, ret, &ast.EmptyStmt{Pos: pos()}}}
	require.True(t, sema.AllPathsReturn(block))
}

func TestResolveCallArgCountMismatch(t *testing.T) {
	tab := symtab.New()
	tab.OpenScope("main")
	fn := &ast.FunctionDef{
		Header: &ast.FunctionHeader{Pos: pos(), Id: "f", ReturnType: ast.ScalarType(ast.Nothing),
			Params: []*ast.ParamDef{{Pos: pos(), Name: "a", Type: ast.ScalarType(ast.Int)}}},
	}
	ref := &symtab.FunctionRef{Header: fn.Header, Status: ast.Defined, Def: fn, ParentPath: tab.ParentPath()}
	require.NoError(t, tab.Insert(pos(), "f", &symtab.Entity{Function: ref}))

	call := &ast.CallExpr{Pos: pos(), Callee: "f"}
	require.Error(t, sema.ResolveCall(tab, call))
}

func TestResolveCallRejectsTopLevelFunction(t *testing.T) {
	tab := symtab.New()
	tab.OpenGlobalScope()
	fn := &ast.FunctionDef{
		Header: &ast.FunctionHeader{Pos: pos(), Id: "main", ReturnType: ast.ScalarType(ast.Nothing)},
	}
	ref := &symtab.FunctionRef{Header: fn.Header, Status: ast.Defined, Def: fn}
	require.NoError(t, tab.Insert(pos(), "main", &symtab.Entity{Function: ref}))
	tab.OpenScope("main")

	call := &ast.CallExpr{Pos: pos(), Callee: "main"}
	require.Error(t, sema.ResolveCall(tab, call))
}

func TestResolveCallAllowsRuntimeFunctionDespiteEmptyParentPath(t *testing.T) {
	tab := symtab.New()
	tab.OpenGlobalScope()
	header := &ast.FunctionHeader{
		Pos: pos(), Id: "writeInteger", ReturnType: ast.ScalarType(ast.Nothing),
		Params: []*ast.ParamDef{{Pos: pos(), Name: "n", Type: ast.ScalarType(ast.Int)}},
	}
	ref := &symtab.FunctionRef{Header: header, Status: ast.Defined, IsRuntime: true}
	require.NoError(t, tab.Insert(pos(), "writeInteger", &symtab.Entity{Function: ref}))
	tab.OpenScope("main")

	call := &ast.CallExpr{Pos: pos(), Callee: "writeInteger", Args: []ast.Expression{&ast.IntegerLiteral{Pos: pos(), Value: 1}}}
	require.NoError(t, sema.ResolveCall(tab, call))
	require.True(t, call.IsRuntime)
}

func TestResolveCallByRefRequiresLValue(t *testing.T) {
	tab := symtab.New()
	tab.OpenScope("main")
	fn := &ast.FunctionDef{
		Header: &ast.FunctionHeader{Pos: pos(), Id: "f", ReturnType: ast.ScalarType(ast.Nothing),
			Params: []*ast.ParamDef{{Pos: pos(), Name: "a", Type: ast.ScalarType(ast.Int), Mode: ast.ByReference}}},
	}
	ref := &symtab.FunctionRef{Header: fn.Header, Status: ast.Defined, Def: fn, ParentPath: tab.ParentPath()}
	require.NoError(t, tab.Insert(pos(), "f", &symtab.Entity{Function: ref}))

	call := &ast.CallExpr{Pos: pos(), Callee: "f", Args: []ast.Expression{&ast.IntegerLiteral{Pos: pos(), Value: 1}}}
	require.Error(t, sema.ResolveCall(tab, call))
}

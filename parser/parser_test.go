package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ntua-el19005/gracec/ast"
	"github.com/ntua-el19005/gracec/lexer"
	"github.com/ntua-el19005/gracec/parser"
)

func parse(t *testing.T, src string) (*ast.Program, error) {
	t.Helper()
	l := lexer.New("t.grc", src)
	prog, _, err := parser.Parse(l)
	return prog, err
}

func TestParseMinimalMain(t *testing.T) {
	prog, err := parse(t, `
fun main(): nothing
{
}
`)
	require.NoError(t, err)
	require.NotNil(t, prog.Main)
	require.Equal(t, "main", prog.Main.Header.Id)
	require.True(t, prog.Main.Header.ReturnType.Equal(ast.ScalarType(ast.Nothing)))
}

func TestParseVarDefAndAssignment(t *testing.T) {
	prog, err := parse(t, `
fun main(): nothing
var x : int;
{
	x <- 1 + 2 * 3;
}
`)
	require.NoError(t, err)
	require.Len(t, prog.Main.Locals, 1)
	require.Len(t, prog.Main.Body.Statements, 1)
}

func TestParseCallStatement(t *testing.T) {
	prog, err := parse(t, `
fun main(): nothing
{
	writeInteger(42);
}
`)
	require.NoError(t, err)
	call, ok := prog.Main.Body.Statements[0].(*ast.CallStmt)
	require.True(t, ok)
	require.Equal(t, "writeInteger", call.Call.Callee)
}

func TestParseIfElseDanglingResolvesInnermost(t *testing.T) {
	prog, err := parse(t, `
fun main(): nothing
var x : int;
{
	if x = 1 then
		if x = 2 then
			x <- 1;
		else
			x <- 2;
}
`)
	require.NoError(t, err)
	outer, ok := prog.Main.Body.Statements[0].(*ast.IfStmt)
	require.True(t, ok)
	inner, ok := outer.Then.(*ast.IfStmt)
	require.True(t, ok)
	require.NotNil(t, inner.Else, "dangling else binds to the innermost open if")
	require.Nil(t, outer.Else)
}

func TestParseWhileLoop(t *testing.T) {
	prog, err := parse(t, `
fun main(): nothing
var i : int;
{
	i <- 0;
	while i < 10 do
		i <- i + 1;
}
`)
	require.NoError(t, err)
	w, ok := prog.Main.Body.Statements[1].(*ast.WhileStmt)
	require.True(t, ok)
	require.IsType(t, &ast.Comparison{}, w.Cond)
}

func TestParseNestedFunctionWithRefArrayParam(t *testing.T) {
	prog, err := parse(t, `
fun main(): nothing
var a : int[10];
fun bump(ref arr: int[]; n: int): nothing
{
	arr[0] <- arr[0] + n;
}
{
	bump(a, 1);
}
`)
	require.NoError(t, err)
	require.Len(t, prog.Main.Locals, 2)
}

func TestParseFunctionDeclarationThenDefinitionMatches(t *testing.T) {
	prog, err := parse(t, `
fun main(): nothing
fun helper(n: int): nothing;
fun helper(n: int): nothing
{
	return;
}
{
	helper(1);
}
`)
	require.NoError(t, err)
	require.Len(t, prog.Main.Locals, 2)
}

func TestParseFunctionDeclarationMismatchedDefinitionErrors(t *testing.T) {
	_, err := parse(t, `
fun main(): nothing
fun helper(n: int): nothing;
fun helper(n: char): nothing
{
	return;
}
{
	helper(1);
}
`)
	require.Error(t, err)
}

func TestParseAssignTypeMismatchErrors(t *testing.T) {
	_, err := parse(t, `
fun main(): nothing
var x : int;
{
	x <- 'a';
}
`)
	require.Error(t, err)
}

func TestParseMissingReturnOnNonNothingFunctionErrors(t *testing.T) {
	_, err := parse(t, `
fun main(): nothing
fun f(): int
{
}
{
	return;
}
`)
	require.Error(t, err)
}

func TestParseUndeclaredIdentifierErrors(t *testing.T) {
	_, err := parse(t, `
fun main(): nothing
{
	x <- 1;
}
`)
	require.Error(t, err)
}

func TestParseCallToMainErrors(t *testing.T) {
	_, err := parse(t, `
fun main(): nothing
{
	main();
}
`)
	require.Error(t, err)
}

func TestParseASTOnlySkipsSemanticChecks(t *testing.T) {
	l := lexer.New("t.grc", `
fun main(): nothing
{
	x <- 1;
}
`)
	p := parser.NewASTOnly(l)
	prog, err := p.ParseProgram()
	require.NoError(t, err, "x is undeclared, but ModeASTOnly skips identifier resolution")
	require.NotNil(t, prog)
}

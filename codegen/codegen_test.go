package codegen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ntua-el19005/gracec/ast"
	"github.com/ntua-el19005/gracec/backend"
	"github.com/ntua-el19005/gracec/codegen"
	"github.com/ntua-el19005/gracec/lexer"
	"github.com/ntua-el19005/gracec/parser"
)

func compile(t *testing.T, src string) (*backend.Session, string) {
	t.Helper()
	l := lexer.New("t.grc", src)
	prog, wctx, err := parser.Parse(l)
	require.NoError(t, err)

	sess, err := backend.NewSession("t", false)
	require.NoError(t, err)
	t.Cleanup(sess.Dispose)

	require.NoError(t, codegen.New(sess, wctx).Generate(prog))
	return sess, sess.EmitIR()
}

func TestGenerateMinimalProgram(t *testing.T) {
	_, ir := compile(t, `
fun main(): nothing
{
	writeInteger(1 + 2);
}
`)
	require.Contains(t, ir, "define void @main")
	require.Contains(t, ir, "call void @writeInteger")
}

func TestGenerateNestedFunctionWithArrayParam(t *testing.T) {
	_, ir := compile(t, `
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
	require.Contains(t, ir, "define void @main.bump")
	require.Contains(t, ir, "call void @main.bump")
	require.Contains(t, ir, "main.frame")
	require.Contains(t, ir, "main.bump.frame")
}

func TestGenerateIfElseBothArmsReturn(t *testing.T) {
	_, ir := compile(t, `
fun main(): nothing
fun choose(n: int): int
{
	if n < 0 then
		return 0;
	else
		return 1;
}
{
	writeInteger(choose(3));
}
`)
	require.Contains(t, ir, "define i64 @main.choose")
}

func TestGenerateWhileLoop(t *testing.T) {
	_, ir := compile(t, `
fun main(): nothing
var i : int;
{
	i <- 0;
	while i < 10 do
	{
		writeInteger(i);
		i <- i + 1;
	}
}
`)
	require.Contains(t, ir, "while.cond")
	require.Contains(t, ir, "while.body")
}

func TestGenerateLogicalShortCircuit(t *testing.T) {
	_, ir := compile(t, `
fun main(): nothing
var x : int;
{
	x <- 1;
	if x > 0 and x < 10 then
		writeInteger(x);
}
`)
	require.Contains(t, ir, "and.rhs")
	require.Contains(t, ir, "and.merge")
	require.Contains(t, ir, "phi i1")
}

func TestGenerateStringLiteralEmitsPrivateGlobal(t *testing.T) {
	_, ir := compile(t, `
fun main(): nothing
{
	writeString("hi");
}
`)
	require.Contains(t, ir, "private")
	require.Contains(t, ir, "call void @writeString")
}

func TestGenerateUnreachableCodeWarning(t *testing.T) {
	l := lexer.New("t.grc", `
fun main(): nothing
{
	return;
	writeInteger(1);
}
`)
	prog, wctx, err := parser.Parse(l)
	require.NoError(t, err)

	sess, err := backend.NewSession("t", false)
	require.NoError(t, err)
	defer sess.Dispose()

	require.NoError(t, codegen.New(sess, wctx).Generate(prog))
	require.Len(t, wctx.Warnings, 1)
	require.True(t, strings.Contains(wctx.Warnings[0].Message, "unreachable"))
}

func TestGenerateNestedFunctionReadsEnclosingLocal(t *testing.T) {
	_, ir := compile(t, `
fun main(): nothing
fun outer(): nothing
var n : int;
fun inner(): nothing
{
	writeInteger(n);
}
{
	n <- 5;
	inner();
}
{
	outer();
}
`)
	require.Contains(t, ir, "define void @main.outer.inner")
	require.Contains(t, ir, "define void @main.outer")
}

func TestArrayTypeRecordsDimensions(t *testing.T) {
	arr := ast.ArrayType(ast.Int, []ast.Dimension{{Bound: 3}, {Bound: 4}})
	require.True(t, arr.IsArray)
	require.Equal(t, 2, len(arr.Dims))
}

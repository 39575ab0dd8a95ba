// Package wrapper implements Grace's frontend wrapper layer (§4.3).
//
// The parser builds every AST node by calling into this package instead of
// the ast package's bare constructors directly. Each call (a) constructs a
// fully-shaped node, (b) invokes [sema] on it, and (c) hands back the
// now-annotated node — except in [ModeASTOnly], where semantic side
// effects (including scope open/close) are skipped entirely, used only for
// the AST-dump round-trip tooling of §8. Because semantic checks depend on
// the current lexical scope, open_scope/close_scope are anchored here, at
// function headers, not as a post-hoc pass after parsing completes.
package wrapper

import (
	"github.com/ntua-el19005/gracec/ast"
	"github.com/ntua-el19005/gracec/diag"
	"github.com/ntua-el19005/gracec/sema"
	"github.com/ntua-el19005/gracec/symtab"
)

// Mode switches the wrapper layer between full semantic side effects and
// AST-only construction (§4.3).
type Mode int

const (
	ModeFull Mode = iota
	ModeASTOnly
)

// Context carries the shared symbol table and accumulated warnings across
// one compilation's wrapper calls.
type Context struct {
	Mode     Mode
	Tab      *symtab.Table
	Warnings []diag.Warning
}

// NewContext creates a wrapper context with a fresh symbol table and opens
// the outermost program scope.
func NewContext(mode Mode) *Context {
	c := &Context{Mode: mode, Tab: symtab.New()}
	c.Tab.OpenGlobalScope()
	seedRuntimeLibrary(c.Tab)
	return c
}

func (c *Context) full() bool { return c.Mode == ModeFull }

// NewVarDef builds and, in full mode, declares a variable definition.
func (c *Context) NewVarDef(pos ast.Pos, names []string, typ *ast.Type) (*ast.VarDef, error) {
	v := &ast.VarDef{Pos: pos, Names: names, Type: typ}
	if !c.full() {
		return v, nil
	}
	if err := sema.DeclareVarDef(c.Tab, v); err != nil {
		return nil, err
	}
	return v, nil
}

// NewParamDef builds and, in full mode, declares a parameter definition
// into the currently-open function scope.
func (c *Context) NewParamDef(pos ast.Pos, name string, typ *ast.Type, mode ast.ParamMode) (*ast.ParamDef, error) {
	p := &ast.ParamDef{Pos: pos, Name: name, Type: typ, Mode: mode}
	if !c.full() {
		return p, nil
	}
	if err := sema.DeclareParamDef(c.Tab, p); err != nil {
		return nil, err
	}
	return p, nil
}

// NewFunctionDecl builds a forward declaration and, in full mode, inserts
// it into the enclosing scope as a "declared" function entity.
func (c *Context) NewFunctionDecl(header *ast.FunctionHeader) (*ast.FunctionDecl, error) {
	decl := &ast.FunctionDecl{Header: header}
	if !c.full() {
		return decl, nil
	}
	decl.ParentPath = c.Tab.ParentPath()
	ref := &symtab.FunctionRef{Header: header, ParentPath: decl.ParentPath, Status: ast.Declared, Pos: header.Pos}
	if err := c.Tab.Insert(header.Pos, header.Id, &symtab.Entity{Function: ref}); err != nil {
		return nil, err
	}
	return decl, nil
}

// BeginFunction registers header's function entity in the enclosing scope
// (if one wasn't already registered by a prior [NewFunctionDecl]), opens
// the new function's own scope, and declares header's parameters into it.
// In full mode the returned *ast.FunctionDef has its ParentPath set; in
// either mode it has no Locals/Body yet — the parser fills those in and
// passes the node to [Context.EndFunction].
func (c *Context) BeginFunction(header *ast.FunctionHeader) (*ast.FunctionDef, error) {
	def := &ast.FunctionDef{Header: header}
	if !c.full() {
		return def, nil
	}

	def.ParentPath = c.Tab.ParentPath()

	if _, exists := c.Tab.Lookup(header.Id); !exists {
		ref := &symtab.FunctionRef{Header: header, ParentPath: def.ParentPath, Status: ast.Declared, Pos: header.Pos}
		if err := c.Tab.Insert(header.Pos, header.Id, &symtab.Entity{Function: ref}); err != nil {
			return nil, err
		}
	}

	c.Tab.OpenScope(header.Id)
	for _, p := range header.Params {
		if err := sema.DeclareParamDef(c.Tab, p); err != nil {
			return nil, err
		}
	}
	return def, nil
}

// EndFunction attaches locals/body to def, validates invariant 7 (every
// non-nothing function returns on every path), closes the function's own
// scope (validating invariant 3 for any nested declarations), and marks
// def as defined in the enclosing scope.
func (c *Context) EndFunction(def *ast.FunctionDef, locals []ast.LocalDef, body *ast.BlockStmt) error {
	def.Locals = locals
	def.Body = body

	if !c.full() {
		return nil
	}

	if len(def.ParentPath) == 0 {
		// top-level main: verify header shape before closing its scope.
		if err := sema.CheckMain(def); err != nil {
			return err
		}
	}

	if err := sema.CheckFunctionBodyReturns(def); err != nil {
		return err
	}

	if err := c.Tab.CloseScope(def.Position()); err != nil {
		return err
	}
	if err := c.Tab.MarkDefined(def.Position(), def.Header.Id, def); err != nil {
		return err
	}
	def.Status = ast.Defined
	return nil
}

// EndProgram closes the outermost program scope, validating that only the
// defined main function remains (§4.1).
func (c *Context) EndProgram(pos ast.Pos) error {
	if !c.full() {
		return nil
	}
	return c.Tab.CloseScope(pos)
}

// RecordWarning appends a non-aborting diagnostic (§7); currently only
// "unreachable code" warnings are produced, by codegen.
func (c *Context) RecordWarning(w diag.Warning) { c.Warnings = append(c.Warnings, w) }

// NewIdentifier builds an identifier l-value and, in full mode, resolves
// it against the current scope chain.
func (c *Context) NewIdentifier(pos ast.Pos, name string) (*ast.Identifier, error) {
	id := &ast.Identifier{Pos: pos, Name: name}
	if !c.full() {
		return id, nil
	}
	if err := sema.ResolveIdentifier(c.Tab, id); err != nil {
		return nil, err
	}
	return id, nil
}

// NewStringLiteral builds a string-literal l-value, typed char[len+1]
// including the trailing NUL (§3).
func (c *Context) NewStringLiteral(pos ast.Pos, value string) *ast.StringLiteral {
	return &ast.StringLiteral{
		Pos: pos, Value: value,
		ResolvedType: ast.ArrayType(ast.Char, []ast.Dimension{{Bound: len(value) + 1}}),
	}
}

// NewIntegerLiteral builds an integer literal.
func (c *Context) NewIntegerLiteral(pos ast.Pos, v int64) *ast.IntegerLiteral {
	return &ast.IntegerLiteral{Pos: pos, Value: v}
}

// NewCharacterLiteral builds a character literal.
func (c *Context) NewCharacterLiteral(pos ast.Pos, v byte) *ast.CharacterLiteral {
	return &ast.CharacterLiteral{Pos: pos, Value: v}
}

// NewIndexAccess builds an indexed access over base and, in full mode,
// validates the bracket count and index types.
func (c *Context) NewIndexAccess(pos ast.Pos, base ast.LValue, indices []ast.Expression) (*ast.IndexAccess, error) {
	a := &ast.IndexAccess{Pos: pos, Base: base, Indices: indices}
	if !c.full() {
		return a, nil
	}
	if err := sema.CheckIndexAccess(a); err != nil {
		return nil, err
	}
	return a, nil
}

// NewUnary builds a unary arithmetic expression and, in full mode,
// validates the operand type.
func (c *Context) NewUnary(pos ast.Pos, op string, operand ast.Expression) (*ast.UnaryExpr, error) {
	u := &ast.UnaryExpr{Pos: pos, Op: op, Operand: operand}
	if !c.full() {
		return u, nil
	}
	if err := sema.CheckUnary(u); err != nil {
		return nil, err
	}
	return u, nil
}

// NewBinary builds a binary arithmetic expression and, in full mode,
// validates both operand types.
func (c *Context) NewBinary(pos ast.Pos, op string, left, right ast.Expression) (*ast.BinaryExpr, error) {
	b := &ast.BinaryExpr{Pos: pos, Op: op, Left: left, Right: right}
	if !c.full() {
		return b, nil
	}
	if err := sema.CheckBinary(b); err != nil {
		return nil, err
	}
	return b, nil
}

// NewCallExpr builds a call expression and, in full mode, resolves it
// against the current scope (argument count/types/modes, §4.2).
func (c *Context) NewCallExpr(pos ast.Pos, callee string, args []ast.Expression) (*ast.CallExpr, error) {
	call := &ast.CallExpr{Pos: pos, Callee: callee, Args: args}
	if !c.full() {
		return call, nil
	}
	if err := sema.ResolveCall(c.Tab, call); err != nil {
		return nil, err
	}
	return call, nil
}

// NewComparison builds a condition comparison and, in full mode, checks
// that both operands share a scalar type.
func (c *Context) NewComparison(pos ast.Pos, op string, left, right ast.Expression) (*ast.Comparison, error) {
	cmp := &ast.Comparison{Pos: pos, Op: op, Left: left, Right: right}
	if !c.full() {
		return cmp, nil
	}
	if err := sema.CheckComparison(cmp); err != nil {
		return nil, err
	}
	return cmp, nil
}

// NewLogicalBinary builds `left and/or right` over conditions.
func (c *Context) NewLogicalBinary(pos ast.Pos, op string, left, right ast.Condition) *ast.LogicalBinary {
	return &ast.LogicalBinary{Pos: pos, Op: op, Left: left, Right: right}
}

// NewLogicalNot builds `not cond`.
func (c *Context) NewLogicalNot(pos ast.Pos, operand ast.Condition) *ast.LogicalNot {
	return &ast.LogicalNot{Pos: pos, Operand: operand}
}

// NewAssignStmt builds an assignment statement and, in full mode,
// validates it (§3 invariants 4/5, §4.2).
func (c *Context) NewAssignStmt(pos ast.Pos, target ast.LValue, value ast.Expression) (*ast.AssignStmt, error) {
	s := &ast.AssignStmt{Pos: pos, Target: target, Value: value}
	if !c.full() {
		return s, nil
	}
	if err := sema.CheckAssign(s); err != nil {
		return nil, err
	}
	return s, nil
}

// NewReturnStmt builds a return statement and, in full mode, validates it
// against the enclosing function's declared return type.
func (c *Context) NewReturnStmt(pos ast.Pos, returnType *ast.Type, value ast.Expression) (*ast.ReturnStmt, error) {
	s := &ast.ReturnStmt{Pos: pos, Value: value}
	if !c.full() {
		return s, nil
	}
	if err := sema.CheckReturn(returnType, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Package sema implements Grace's semantic analyzer (§4.2).
//
// Each exported function here checks one syntactic category against the
// current [symtab.Table] and writes resolved information back into the
// AST node's annotation fields — check, then annotate, one function per
// node kind, invoked inline as the parser builds each node. Every
// violation returns a *diag.Error of kind Semantic (or SymbolTable, where
// §4.1 requires it); analysis aborts on the first error, there is no
// recovery, matching §4.2's "Failure semantics".
package sema

import (
	"github.com/ntua-el19005/gracec/ast"
	"github.com/ntua-el19005/gracec/diag"
	"github.com/ntua-el19005/gracec/symtab"
)

// CheckVarDef validates a variable definition: every array dimension must
// be present and positive (§4.2).
func CheckVarDef(v *ast.VarDef) error {
	if v.Type.IsArray {
		for _, d := range v.Type.Dims {
			if d.Unspecified || d.Bound <= 0 {
				return diag.New(diag.Semantic, v.Pos,
					"variable %v has an unbound or non-positive array dimension", v.Names)
			}
		}
	}
	return nil
}

// CheckParamDef validates a parameter definition: every dimension except
// possibly the first must be present and positive; arrays must be
// by-reference (§4.2).
func CheckParamDef(p *ast.ParamDef) error {
	if p.Type.IsArray {
		if p.Mode != ast.ByReference {
			return diag.New(diag.Semantic, p.Pos, "array parameter %q must be passed by reference", p.Name)
		}
		for i, d := range p.Type.Dims {
			if i == 0 {
				continue // leading dimension may be unspecified
			}
			if d.Unspecified || d.Bound <= 0 {
				return diag.New(diag.Semantic, p.Pos,
					"parameter %q has an unbound or non-positive non-leading array dimension", p.Name)
			}
		}
	}
	return nil
}

// DeclareVarDef inserts every name of v into tab's current scope,
// validating it first.
func DeclareVarDef(tab *symtab.Table, v *ast.VarDef) error {
	if err := CheckVarDef(v); err != nil {
		return err
	}
	v.FrameOffsets = make([]int, len(v.Names))
	for i, name := range v.Names {
		ref := &symtab.VariableRef{Name: name, Type: v.Type, Pos: v.Pos}
		if err := tab.Insert(v.Pos, name, &symtab.Entity{Variable: ref}); err != nil {
			return err
		}
		v.FrameOffsets[i] = ref.FrameOffset
	}
	return nil
}

// DeclareParamDef inserts p into tab's current (function header) scope,
// validating it first.
func DeclareParamDef(tab *symtab.Table, p *ast.ParamDef) error {
	if err := CheckParamDef(p); err != nil {
		return err
	}
	ref := &symtab.ParameterRef{Name: p.Name, Type: p.Type, Mode: p.Mode, Pos: p.Pos}
	if err := tab.Insert(p.Pos, p.Name, &symtab.Entity{Parameter: ref}); err != nil {
		return err
	}
	p.FrameOffset = ref.FrameOffset
	return nil
}

// ResolveIdentifier resolves id against tab (§4.2 invariant 1) and
// annotates it with the entity's type, kind, mode, frame offset, and
// owning parent path.
func ResolveIdentifier(tab *symtab.Table, id *ast.Identifier) error {
	ent, ok := tab.LookupAll(id.Name)
	if !ok {
		return diag.New(diag.Semantic, id.Pos, "undefined name %q", id.Name)
	}
	switch {
	case ent.Variable != nil:
		id.ResolvedType = ent.Variable.Type
		id.EntityKind = ast.VariableEntity
		id.FrameOffset = ent.Variable.FrameOffset
		id.DefParentPath = ent.Variable.ParentPath
	case ent.Parameter != nil:
		id.ResolvedType = ent.Parameter.Type
		id.EntityKind = ast.ParameterEntity
		id.Mode = ent.Parameter.Mode
		id.FrameOffset = ent.Parameter.FrameOffset
		id.DefParentPath = ent.Parameter.ParentPath
	default:
		return diag.New(diag.Semantic, id.Pos, "%q is a function, not a variable", id.Name)
	}
	return nil
}

// CheckIndexAccess validates `base[i1]...[ik]`: the bracket count must not
// exceed the base's dimension count, and every index expression must have
// type int (§4.2). A bracket count shorter than the dimension count yields
// a slice whose resolved type is the remaining trailing dimensions — the
// case exercised when passing an array to a parameter with an unspecified
// leading dimension.
func CheckIndexAccess(a *ast.IndexAccess) error {
	baseType := a.Base.ExprType()
	if !baseType.IsArray {
		return diag.New(diag.Semantic, a.Pos, "cannot index non-array value of type %s", baseType)
	}
	if len(a.Indices) > len(baseType.Dims) {
		return diag.New(diag.Semantic, a.Pos,
			"too many indices: %s has %d dimension(s)", baseType, len(baseType.Dims))
	}
	for _, idx := range a.Indices {
		if idx.ExprType() == nil || idx.ExprType().IsArray || idx.ExprType().Scalar != ast.Int {
			return diag.New(diag.Semantic, idx.Position(), "array index must have type int")
		}
	}
	if len(a.Indices) == len(baseType.Dims) {
		a.ResolvedType = ast.ScalarType(baseType.Scalar)
	} else {
		a.ResolvedType = ast.ArrayType(baseType.Scalar, baseType.Dims[len(a.Indices):])
	}
	return nil
}

// CheckAssign validates `target <- value` (§3 invariants 4 and 5, §4.2):
// the l-value type must equal the expression type, the l-value must not
// be a string literal, and it must not itself be an array.
func CheckAssign(s *ast.AssignStmt) error {
	if _, isString := s.Target.(*ast.StringLiteral); isString {
		return diag.New(diag.Semantic, s.Pos, "cannot assign to a string literal")
	}
	tt := s.Target.ExprType()
	if tt.IsArray {
		return diag.New(diag.Semantic, s.Pos, "cannot assign to an array-typed l-value")
	}
	if !tt.Equal(s.Value.ExprType()) {
		return diag.New(diag.Semantic, s.Pos,
			"type mismatch in assignment: target is %s, value is %s", tt, s.Value.ExprType())
	}
	return nil
}

// CheckReturn validates a return statement against the enclosing
// function's declared return type (§3 invariant 6, §4.2).
func CheckReturn(returnType *ast.Type, s *ast.ReturnStmt) error {
	if s.Value == nil {
		if returnType.Scalar != ast.Nothing || returnType.IsArray {
			return diag.New(diag.Semantic, s.Pos,
				"missing return value: function returns %s", returnType)
		}
		return nil
	}

	if call, ok := s.Value.(*ast.CallExpr); ok && call.ResolvedType != nil &&
		call.ResolvedType.Scalar == ast.Nothing && !call.ResolvedType.IsArray {
		if returnType.Scalar != ast.Nothing || returnType.IsArray {
			return diag.New(diag.Semantic, s.Pos,
				"return type mismatch: function returns %s, got nothing-call", returnType)
		}
		return nil
	}

	vt := s.Value.ExprType()
	if vt == nil || vt.IsArray || !vt.Equal(returnType) {
		return diag.New(diag.Semantic, s.Pos,
			"return type mismatch: function returns %s, got %s", returnType, vt)
	}
	return nil
}

// CheckMain validates the program's top-level function (§3): no
// parameters, return type nothing.
func CheckMain(def *ast.FunctionDef) error {
	if len(def.Header.Params) != 0 {
		return diag.New(diag.Semantic, def.Position(), "main function %q must take no parameters", def.Header.Id)
	}
	if def.Header.ReturnType.Scalar != ast.Nothing || def.Header.ReturnType.IsArray {
		return diag.New(diag.Semantic, def.Position(), "main function %q must return nothing", def.Header.Id)
	}
	return nil
}

// ResolveCall resolves a function call against tab (§4.2): argument count
// must match, by-reference arguments must be l-values, each argument's
// type must be compatible with its parameter, and the node is annotated
// with the callee's return type, the callee's and caller's parent paths
// (for codegen's static-link hop computation), and each argument's
// zipped parameter mode.
func ResolveCall(tab *symtab.Table, call *ast.CallExpr) error {
	ent, ok := tab.LookupAll(call.Callee)
	if !ok {
		return diag.New(diag.Semantic, call.Pos, "call to undefined function %q", call.Callee)
	}
	if ent.Function == nil {
		return diag.New(diag.Semantic, call.Pos, "%q is not a function", call.Callee)
	}
	// The program's single top-level function (§2 "Program") has no
	// enclosing scope and so no static-link slot of its own to pass to a
	// callee; it is the compilation's entry point, never an ordinary
	// callable. Runtime entries also have an empty ParentPath, so they're
	// excluded from this check by IsRuntime rather than by depth alone.
	if !ent.Function.IsRuntime && len(ent.Function.ParentPath) == 0 {
		return diag.New(diag.Semantic, call.Pos, "top-level function %q cannot be called", call.Callee)
	}
	params := ent.Function.Header.Params
	if len(call.Args) != len(params) {
		return diag.New(diag.Semantic, call.Pos,
			"%q expects %d argument(s), got %d", call.Callee, len(params), len(call.Args))
	}

	modes := make([]ast.ParamMode, len(params))
	for i, p := range params {
		arg := call.Args[i]
		if p.Mode == ast.ByReference {
			if _, isLV := arg.(ast.LValue); !isLV {
				return diag.New(diag.Semantic, arg.Position(),
					"argument %d to %q must be an l-value (passed by reference)", i+1, call.Callee)
			}
		}
		at := arg.ExprType()
		if at == nil || !at.CompatibleArg(p.Type) {
			return diag.New(diag.Semantic, arg.Position(),
				"argument %d to %q has type %s, expected %s", i+1, call.Callee, at, p.Type)
		}
		modes[i] = p.Mode
	}

	call.ResolvedType = ent.Function.Header.ReturnType
	call.CalleeParentPath = ent.Function.ParentPath
	call.CallerParentPath = tab.ParentPath()
	call.ArgModes = modes
	call.IsRuntime = ent.Function.IsRuntime
	return nil
}

// CheckUnary validates unary arithmetic: the operand must have type int
// (§3: "unary/binary arithmetic on non-int is ill-typed").
func CheckUnary(u *ast.UnaryExpr) error {
	ot := u.Operand.ExprType()
	if ot == nil || ot.IsArray || ot.Scalar != ast.Int {
		return diag.New(diag.Semantic, u.Pos, "operand of %q must have type int, got %s", u.Op, ot)
	}
	return nil
}

// CheckBinary validates integer binary arithmetic: both operands must
// have type int.
func CheckBinary(b *ast.BinaryExpr) error {
	lt, rt := b.Left.ExprType(), b.Right.ExprType()
	if lt == nil || lt.IsArray || lt.Scalar != ast.Int {
		return diag.New(diag.Semantic, b.Left.Position(), "left operand of %q must have type int, got %s", b.Op, lt)
	}
	if rt == nil || rt.IsArray || rt.Scalar != ast.Int {
		return diag.New(diag.Semantic, b.Right.Position(), "right operand of %q must have type int, got %s", b.Op, rt)
	}
	return nil
}

// CheckComparison validates a condition comparison: operands must share a
// scalar type, either both int or both char (§3).
func CheckComparison(c *ast.Comparison) error {
	lt, rt := c.Left.ExprType(), c.Right.ExprType()
	if lt == nil || rt == nil || lt.IsArray || rt.IsArray || lt.Scalar != rt.Scalar {
		return diag.New(diag.Semantic, c.Pos,
			"comparison operands must share a scalar type, got %s and %s", lt, rt)
	}
	return nil
}

// AllPathsReturn reports whether every control-flow path through s
// executes a return statement, implementing invariant 7 of §3. A while
// loop never guarantees this statically (its condition is data-dependent),
// matching the conservative treatment codegen's terminator discipline
// relies on for its own merge-block dummy-terminator rule (§4.4).
func AllPathsReturn(s ast.Statement) bool {
	switch n := s.(type) {
	case *ast.ReturnStmt:
		return true
	case *ast.BlockStmt:
		for _, st := range n.Statements {
			if AllPathsReturn(st) {
				return true
			}
		}
		return false
	case *ast.IfStmt:
		if n.Else == nil {
			return false
		}
		return AllPathsReturn(n.Then) && AllPathsReturn(n.Else)
	default:
		return false
	}
}

// CheckFunctionBodyReturns validates invariant 7 for a non-nothing
// function's body.
func CheckFunctionBodyReturns(def *ast.FunctionDef) error {
	if def.Header.ReturnType.Scalar == ast.Nothing && !def.Header.ReturnType.IsArray {
		return nil
	}
	if !AllPathsReturn(def.Body) {
		return diag.New(diag.Semantic, def.Position(),
			"function %q must return a value of type %s on every control-flow path",
			def.Header.Id, def.Header.ReturnType)
	}
	return nil
}

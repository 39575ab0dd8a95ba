// Package symtab implements Grace's lexically-scoped symbol table (§4.1).
//
// The table is a stack of scopes. Each scope holds an insertion-order
// sequence of entries plus a fast name→entry index; the table additionally
// tracks a parent_path trail of enclosing function ids (innermost first)
// and, per function, a frame-offset counter that assigns the next frame
// slot to each variable or parameter as it is inserted.
//
// Entities are identity-stable pointers ([*VariableRef], [*ParameterRef],
// [*FunctionRef]) so that later annotation passes can mutate frame offsets
// and statuses in place without invalidating earlier lookups, across an
// explicit open/close scope stack with declared-vs-defined bookkeeping.
package symtab

import (
	"strings"

	"github.com/ntua-el19005/gracec/ast"
	"github.com/ntua-el19005/gracec/diag"
	"github.com/ntua-el19005/gracec/token"
)

// VariableRef is a resolved variable binding.
type VariableRef struct {
	Name        string
	Type        *ast.Type
	FrameOffset int
	ParentPath  []string // of the owning function, innermost first
	Pos         token.Pos
}

// ParameterRef is a resolved parameter binding.
type ParameterRef struct {
	Name        string
	Type        *ast.Type
	Mode        ast.ParamMode
	FrameOffset int
	ParentPath  []string
	Pos         token.Pos
}

// FunctionRef is a resolved function binding, declared or defined.
type FunctionRef struct {
	Def        *ast.FunctionDef  // non-nil once defined
	Decl       *ast.FunctionDecl // the declaration, if one preceded the definition
	Header     *ast.FunctionHeader
	ParentPath []string // of the function itself, innermost first, excluding itself
	Status     ast.FunctionStatus
	Pos        token.Pos

	// IsRuntime marks one of the seeded runtime-library entries (§6),
	// distinguishing them from ordinary top-level source functions, both
	// of which otherwise have an empty ParentPath.
	IsRuntime bool
}

// Entity is the sum type of the three binding kinds a scope may hold.
type Entity struct {
	Variable  *VariableRef
	Parameter *ParameterRef
	Function  *FunctionRef
}

// Kind reports which alternative of Entity is populated.
func (e *Entity) Kind() ast.EntityKind {
	switch {
	case e.Parameter != nil:
		return ast.ParameterEntity
	case e.Function != nil:
		return ast.FunctionEntity
	default:
		return ast.VariableEntity
	}
}

// Type returns the entity's data type ("nothing" for a function entity,
// which has no variable-like type of its own).
func (e *Entity) Type() *ast.Type {
	switch {
	case e.Variable != nil:
		return e.Variable.Type
	case e.Parameter != nil:
		return e.Parameter.Type
	default:
		return ast.ScalarType(ast.Nothing)
	}
}

type scope struct {
	funcID  string
	entries map[string]*Entity
	order   []string
	// declaredFuncs tracks, by name, function entities declared (not yet
	// defined) in this scope — checked against at close_scope.
	declaredFuncs map[string]*Entity
	// isGlobal marks the outermost program scope, which holds the main
	// function and the seeded runtime library entries and never
	// contributes to parentPath.
	isGlobal bool
}

func newScope(funcID string) *scope {
	return &scope{
		funcID:        funcID,
		entries:       make(map[string]*Entity),
		declaredFuncs: make(map[string]*Entity),
	}
}

// Table is the stack of lexical scopes described in §4.1.
type Table struct {
	scopes []*scope
	// parentPath tracks the enclosing function-id chain, innermost first.
	parentPath []string
	// offsetCounters[key] is the next frame slot to assign within the
	// function whose scope key is key (its parent path, own id first,
	// joined with '.'), advancing as parameters then locals are inserted
	// (§4.3).
	offsetCounters map[string]int
}

// New creates an empty symbol table.
func New() *Table {
	return &Table{offsetCounters: make(map[string]int)}
}

// OpenScope pushes a new scope for funcID and extends the parent path.
func (t *Table) OpenScope(funcID string) {
	t.parentPath = append([]string{funcID}, t.parentPath...)
	// The counter key is the full path, so same-named functions in
	// different scopes (or nested in one another) number their own frames.
	key := strings.Join(t.parentPath, ".")
	t.scopes = append(t.scopes, newScope(key))
	if _, ok := t.offsetCounters[key]; !ok {
		t.offsetCounters[key] = 0
	}
}

// OpenGlobalScope pushes the outermost program scope, which holds the main
// function entry (plus any runtime library entries inserted into it) and
// never contributes to parentPath (§4.1).
func (t *Table) OpenGlobalScope() {
	s := newScope("")
	s.isGlobal = true
	t.scopes = append(t.scopes, s)
}

// AtGlobalScope reports whether the current (innermost) scope is the
// outermost program scope.
func (t *Table) AtGlobalScope() bool {
	return len(t.scopes) > 0 && t.scopes[len(t.scopes)-1].isGlobal
}

// ParentPath returns the current enclosing function-id chain, innermost
// first, as a fresh slice safe for the caller to retain.
func (t *Table) ParentPath() []string {
	out := make([]string, len(t.parentPath))
	copy(out, t.parentPath)
	return out
}

// CloseScope pops the top scope, first verifying invariant 3 (§3): every
// function declared-but-not-defined in that scope is an error. At the
// outermost scope (after popping "main"'s own scope down to empty), any
// leftover variable/parameter entry, or any function entry whose status is
// not Defined, is uniformly a symbol-table error — resolving §9's open
// question about symbol-table vs. semantic error classification.
func (t *Table) CloseScope(pos token.Pos) error {
	if len(t.scopes) == 0 {
		return diag.New(diag.SymbolTable, pos, "cannot close scope: table is empty")
	}
	top := t.scopes[len(t.scopes)-1]
	for name, ent := range top.declaredFuncs {
		if ent.Function.Status != ast.Defined {
			return diag.New(diag.SymbolTable, ent.Function.Pos,
				"function %q declared but not defined", name)
		}
	}
	if top.isGlobal {
		for name, ent := range top.entries {
			if ent.Variable != nil || ent.Parameter != nil {
				return diag.New(diag.SymbolTable, pos,
					"stray top-level variable/parameter %q survives program end", name)
			}
			if ent.Function != nil && ent.Function.Status != ast.Defined {
				return diag.New(diag.SymbolTable, pos,
					"stray undefined function %q survives program end", name)
			}
		}
	}
	t.scopes = t.scopes[:len(t.scopes)-1]
	if !top.isGlobal && len(t.parentPath) > 0 {
		t.parentPath = t.parentPath[1:]
	}
	return nil
}

// Insert adds id to the current (innermost) scope, failing if the scope
// already holds id (§4.1 invariant 2). When ent is a variable or
// parameter, its FrameOffset is assigned from the owning function's
// offset counter, which is then advanced.
func (t *Table) Insert(pos token.Pos, id string, ent *Entity) error {
	if len(t.scopes) == 0 {
		return diag.New(diag.SymbolTable, pos, "cannot insert %q: table is empty", id)
	}
	top := t.scopes[len(t.scopes)-1]
	if _, exists := top.entries[id]; exists {
		return diag.New(diag.Semantic, pos, "redefinition of %q in the same scope", id)
	}

	switch {
	case ent.Variable != nil:
		ent.Variable.FrameOffset = t.nextOffset(top.funcID)
		ent.Variable.ParentPath = t.ParentPath()
	case ent.Parameter != nil:
		ent.Parameter.FrameOffset = t.nextOffset(top.funcID)
		ent.Parameter.ParentPath = t.ParentPath()
	case ent.Function != nil:
		if ent.Function.Status == ast.Declared {
			top.declaredFuncs[id] = ent
		}
	}

	top.entries[id] = ent
	top.order = append(top.order, id)
	return nil
}

// MarkDefined transitions a previously-declared function entity to
// Defined, checking header-match against the original declaration (§3
// invariant 3, §4.2's header-match rule), and removes it from the
// scope's pending-declaration set.
func (t *Table) MarkDefined(pos token.Pos, id string, def *ast.FunctionDef) error {
	if len(t.scopes) == 0 {
		return diag.New(diag.SymbolTable, pos, "cannot mark %q defined: table is empty", id)
	}
	top := t.scopes[len(t.scopes)-1]
	ent, ok := top.entries[id]
	if !ok || ent.Function == nil {
		// first definition in this scope with no prior declaration
		return nil
	}
	if !ent.Function.Header.HeaderEquals(def.Header) {
		return diag.New(diag.Semantic, def.Position(),
			"definition of %q does not match its earlier declaration", id)
	}
	ent.Function.Status = ast.Defined
	ent.Function.Def = def
	delete(top.declaredFuncs, id)
	return nil
}

func (t *Table) nextOffset(funcID string) int {
	off := t.offsetCounters[funcID]
	t.offsetCounters[funcID] = off + 1
	return off
}

// Lookup searches only the innermost (current) scope, used to detect
// redefinition before insertion.
func (t *Table) Lookup(id string) (*Entity, bool) {
	if len(t.scopes) == 0 {
		return nil, false
	}
	ent, ok := t.scopes[len(t.scopes)-1].entries[id]
	return ent, ok
}

// LookupAll walks scopes from innermost to outermost, used to resolve
// identifier uses per §4.1 invariant 1.
func (t *Table) LookupAll(id string) (*Entity, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if ent, ok := t.scopes[i].entries[id]; ok {
			return ent, true
		}
	}
	return nil, false
}

// Depth returns the current scope-stack depth, counting the global scope
// when it is open (0 only before any scope has been opened).
func (t *Table) Depth() int { return len(t.scopes) }

// FrameSize returns the number of slots (parameters + locals) assigned so
// far to the function whose scope key is funcID (its parent path, own id
// first, joined with '.', e.g. "inner.main"). Codegen does not call it: it
// sizes frame records from the AST's own locals and parameters.
func (t *Table) FrameSize(funcID string) int { return t.offsetCounters[funcID] }

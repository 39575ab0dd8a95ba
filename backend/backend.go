// Package backend wraps tinygo.org/x/go-llvm behind the minimal session
// interface DESIGN NOTES §9 calls for: a fresh llvm.Context and
// llvm.Module per compilation, an llvm.Builder to emit instructions, and a
// target machine configured from the host triple, producing the three
// output sinks of §4.5 (intermediate listing, assembly, object bytes).
//
// codegen fills a *Session: frame record types and function declarations
// first, then function bodies. The driver then calls EmitIR, EmitAssembly,
// and/or EmitObject (file mode calls all three; each stdin mode one).
// Dispose releases the context exactly once, per §5's single-owner
// resource discipline.
package backend

import (
	"fmt"

	"github.com/pkg/errors"
	"tinygo.org/x/go-llvm"

	"github.com/ntua-el19005/gracec/diag"
)

// Session owns one compilation's LLVM context, module, and builder.
type Session struct {
	ctx     llvm.Context
	Module  llvm.Module
	Builder llvm.Builder

	tm llvm.TargetMachine

	// Optimize runs the fixed pipeline of §4.4 before emission when true.
	Optimize bool
}

// IntType and CharType are Grace's two physical scalar types, mapped onto
// the target's native integer widths.
func (s *Session) IntType() llvm.Type  { return llvm.Int64Type() }
func (s *Session) CharType() llvm.Type { return llvm.Int8Type() }

// NewSession creates a fresh backend context and module named moduleName,
// configuring the module with the host target triple and data layout
// (§4.5). Each compilation must allocate its own Session (§5).
func NewSession(moduleName string, optimize bool) (*Session, error) {
	llvm.InitializeNativeTarget()
	llvm.InitializeNativeAsmPrinter()
	llvm.InitializeAllTargetInfos()
	llvm.InitializeAllTargetMCs()
	llvm.InitializeAllAsmParsers()
	llvm.InitializeAllAsmPrinters()
	llvm.InitializeAllTargets()

	ctx := llvm.NewContext()
	module := ctx.NewModule(moduleName)
	builder := ctx.NewBuilder()

	triple := llvm.DefaultTargetTriple()
	target, err := llvm.GetTargetFromTriple(triple)
	if err != nil {
		builder.Dispose()
		module.Dispose()
		ctx.Dispose()
		return nil, diag.InternalError("resolving target triple %q: %s", triple, err)
	}

	tm := target.CreateTargetMachine(triple, "generic", "",
		llvm.CodeGenLevelDefault, llvm.RelocDefault, llvm.CodeModelDefault)
	td := tm.CreateTargetData()
	module.SetDataLayout(td.String())
	module.SetTarget(triple)
	td.Dispose()

	return &Session{ctx: ctx, Module: module, Builder: builder, tm: tm, Optimize: optimize}, nil
}

// Dispose releases the session's builder, target machine, module, and
// context, exactly once (§5).
func (s *Session) Dispose() {
	s.Builder.Dispose()
	s.tm.Dispose()
	s.Module.Dispose()
	s.ctx.Dispose()
}

// Verify checks the completed module's integrity (§4.4's "must pass an
// integrity verification step regardless" of optimization).
func (s *Session) Verify() error {
	if err := llvm.VerifyModule(s.Module, llvm.ReturnStatusAction); err != nil {
		return diag.InternalError("module failed verification: %s", err)
	}
	return nil
}

// RunOptimizations runs a fixed pipeline of scalar and inter-procedural
// passes over the module when Optimize is set (§4.4).
func (s *Session) RunOptimizations() {
	if !s.Optimize {
		return
	}
	pm := llvm.NewPassManager()
	defer pm.Dispose()
	pm.AddInstructionCombiningPass()
	pm.AddReassociatePass()
	pm.AddGVNPass()
	pm.AddCFGSimplificationPass()
	pm.AddPromoteMemoryToRegisterPass()
	pm.AddFunctionInliningPass()
	pm.Run(s.Module)
}

// EmitIR renders the module's textual intermediate listing (§4.5's first
// output sink).
func (s *Session) EmitIR() string { return s.Module.String() }

// EmitAssembly renders the module as target assembly text (§4.5's second
// output sink).
func (s *Session) EmitAssembly() ([]byte, error) {
	buf, err := s.tm.EmitToMemoryBuffer(s.Module, llvm.AssemblyFile)
	if err != nil {
		return nil, errors.Wrap(err, "emitting assembly")
	}
	defer buf.Dispose()
	return append([]byte(nil), buf.Bytes()...), nil
}

// EmitObject renders the module as relocatable object bytes (§4.5's third
// output sink).
func (s *Session) EmitObject() ([]byte, error) {
	buf, err := s.tm.EmitToMemoryBuffer(s.Module, llvm.ObjectFile)
	if err != nil {
		return nil, errors.Wrap(err, "emitting object code")
	}
	defer buf.Dispose()
	return append([]byte(nil), buf.Bytes()...), nil
}

// DeclareFunction declares (but does not define) an external function
// with the given name, parameter types, and return type, used both for
// the runtime catalog (§6) and for forward-declaring a callee ahead of
// its body.
func (s *Session) DeclareFunction(name string, params []llvm.Type, ret llvm.Type) llvm.Value {
	if fn := s.Module.NamedFunction(name); !fn.IsNil() {
		return fn
	}
	fnType := llvm.FunctionType(ret, params, false)
	return llvm.AddFunction(s.Module, name, fnType)
}

// NamedStructType creates the opaque named struct type for a frame
// record, per §4.4's one-record-per-function model. SetStructBody fills
// in its fields once the frame-type pass knows them.
func (s *Session) NamedStructType(name string) llvm.Type {
	return s.ctx.StructCreateNamed(name)
}

// SetStructBody fills in a previously-created named struct type's field
// layout — the frame record's {static-link?, params, locals} order.
func (s *Session) SetStructBody(t llvm.Type, fields []llvm.Type) {
	t.StructSetBody(fields, false)
}

// Context exposes the underlying llvm.Context for operations the Session
// doesn't wrap directly (basic block/constant helpers in codegen).
func (s *Session) Context() llvm.Context { return s.ctx }

// VoidType returns the backend's void type, used for nothing-returning
// functions.
func (s *Session) VoidType() llvm.Type { return s.ctx.VoidType() }

// String implements fmt.Stringer for debugging sessions in tests.
func (s *Session) String() string {
	return fmt.Sprintf("backend.Session{module=%s}", s.Module.Target())
}

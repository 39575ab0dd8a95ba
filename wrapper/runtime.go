package wrapper

import (
	"github.com/ntua-el19005/gracec/ast"
	"github.com/ntua-el19005/gracec/symtab"
)

// runtimeSignature is one runtime library function's Grace-level signature
// (§6), expressed in ast.Type terms so it can be inserted into the symbol
// table exactly like a user-written declaration. runtimecatalog mirrors
// this same fixed list in LLVM terms for the backend; the two are kept
// separate because they describe the function at two different layers
// (source-level resolution vs. physical calling convention) and neither
// package needs to import the other's type system.
type runtimeSignature struct {
	name   string
	params []*ast.ParamDef
	ret    *ast.Type
}

func scalarParam(name string, k ast.ScalarKind) *ast.ParamDef {
	return &ast.ParamDef{Name: name, Type: ast.ScalarType(k), Mode: ast.ByValue}
}

func refCharArrayParam(name string) *ast.ParamDef {
	return &ast.ParamDef{
		Name: name,
		Type: ast.ArrayType(ast.Char, []ast.Dimension{{Unspecified: true}}),
		Mode: ast.ByReference,
	}
}

// runtimeSignatures is the closed catalog of §6, in declaration order.
var runtimeSignatures = []runtimeSignature{
	{"writeInteger", []*ast.ParamDef{scalarParam("n", ast.Int)}, ast.ScalarType(ast.Nothing)},
	{"writeChar", []*ast.ParamDef{scalarParam("c", ast.Char)}, ast.ScalarType(ast.Nothing)},
	{"writeString", []*ast.ParamDef{refCharArrayParam("s")}, ast.ScalarType(ast.Nothing)},
	{"readInteger", nil, ast.ScalarType(ast.Int)},
	{"readChar", nil, ast.ScalarType(ast.Char)},
	{"readString", []*ast.ParamDef{scalarParam("n", ast.Int), refCharArrayParam("s")}, ast.ScalarType(ast.Nothing)},
	{"ascii", []*ast.ParamDef{scalarParam("c", ast.Char)}, ast.ScalarType(ast.Int)},
	{"chr", []*ast.ParamDef{scalarParam("n", ast.Int)}, ast.ScalarType(ast.Char)},
	{"strlen", []*ast.ParamDef{refCharArrayParam("s")}, ast.ScalarType(ast.Int)},
	{"strcmp", []*ast.ParamDef{refCharArrayParam("a"), refCharArrayParam("b")}, ast.ScalarType(ast.Int)},
	{"strcpy", []*ast.ParamDef{refCharArrayParam("dst"), refCharArrayParam("src")}, ast.ScalarType(ast.Nothing)},
	{"strcat", []*ast.ParamDef{refCharArrayParam("dst"), refCharArrayParam("src")}, ast.ScalarType(ast.Nothing)},
}

// seedRuntimeLibrary inserts every runtime library function into tab's
// (already-open) outermost scope as an already-Defined function entity, so
// that ordinary calls to e.g. writeInteger resolve through the same
// sema.ResolveCall lookup path as a user-declared function (§4.1 invariant
// 1). A Grace program may shadow a runtime name with its own declaration;
// normal innermost-first scope lookup then prefers the user's version.
func seedRuntimeLibrary(tab *symtab.Table) {
	for _, sig := range runtimeSignatures {
		header := &ast.FunctionHeader{Id: sig.name, Params: sig.params, ReturnType: sig.ret}
		ref := &symtab.FunctionRef{Header: header, Status: ast.Defined, IsRuntime: true}
		if err := tab.Insert(ast.Pos{}, sig.name, &symtab.Entity{Function: ref}); err != nil {
			panic("wrapper: seeding runtime library: " + err.Error())
		}
	}
}

// Package runtimecatalog declares Grace's fixed runtime library (§6) to a
// [*backend.Session]: a single ordered list of name-to-signature entries,
// looked up by name and materialized as external function declarations up
// front, before any user code is lowered.
package runtimecatalog

import (
	"tinygo.org/x/go-llvm"

	"github.com/ntua-el19005/gracec/backend"
)

// Entry is one runtime library function's fixed signature (§6).
type Entry struct {
	Name    string
	Params  func(s *backend.Session) []llvm.Type
	Returns func(s *backend.Session) llvm.Type
}

// Catalog is the closed, ordered set of runtime library functions every
// Grace program may call (§6). Order matches the specification's listing.
var Catalog = []Entry{
	{"writeInteger", params1(func(s *backend.Session) llvm.Type { return s.IntType() }), voidReturn},
	{"writeChar", params1(func(s *backend.Session) llvm.Type { return s.CharType() }), voidReturn},
	{"writeString", params1(ptrToChar), voidReturn},
	{"readInteger", params0, func(s *backend.Session) llvm.Type { return s.IntType() }},
	{"readChar", params0, func(s *backend.Session) llvm.Type { return s.CharType() }},
	{"readString", func(s *backend.Session) []llvm.Type { return []llvm.Type{s.IntType(), ptrToChar(s)} }, voidReturn},
	{"ascii", params1(func(s *backend.Session) llvm.Type { return s.CharType() }), func(s *backend.Session) llvm.Type { return s.IntType() }},
	{"chr", params1(func(s *backend.Session) llvm.Type { return s.IntType() }), func(s *backend.Session) llvm.Type { return s.CharType() }},
	{"strlen", params1(ptrToChar), func(s *backend.Session) llvm.Type { return s.IntType() }},
	{"strcmp", func(s *backend.Session) []llvm.Type { return []llvm.Type{ptrToChar(s), ptrToChar(s)} }, func(s *backend.Session) llvm.Type { return s.IntType() }},
	{"strcpy", func(s *backend.Session) []llvm.Type { return []llvm.Type{ptrToChar(s), ptrToChar(s)} }, voidReturn},
	{"strcat", func(s *backend.Session) []llvm.Type { return []llvm.Type{ptrToChar(s), ptrToChar(s)} }, voidReturn},
}

func params0(_ *backend.Session) []llvm.Type { return nil }

func params1(t func(*backend.Session) llvm.Type) func(*backend.Session) []llvm.Type {
	return func(s *backend.Session) []llvm.Type { return []llvm.Type{t(s)} }
}

func voidReturn(s *backend.Session) llvm.Type { return s.VoidType() }

func ptrToChar(s *backend.Session) llvm.Type { return llvm.PointerType(s.CharType(), 0) }

// byName indexes Catalog for [Lookup].
var byName = func() map[string]Entry {
	m := make(map[string]Entry, len(Catalog))
	for _, e := range Catalog {
		m[e.Name] = e
	}
	return m
}()

// Lookup reports whether name is a runtime library function, and its entry.
func Lookup(name string) (Entry, bool) {
	e, ok := byName[name]
	return e, ok
}

// DeclareAll declares every catalog entry on s as an external function,
// run once per compilation before any user frame types are built (§4.5).
func DeclareAll(s *backend.Session) map[string]llvm.Value {
	decls := make(map[string]llvm.Value, len(Catalog))
	for _, e := range Catalog {
		decls[e.Name] = s.DeclareFunction(e.Name, e.Params(s), e.Returns(s))
	}
	return decls
}

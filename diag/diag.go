// Package diag implements Grace's closed error taxonomy and diagnostic
// formatting (§7).
//
// Six error kinds are recognized: lexing, parser, semantic, symbol-table,
// codegen, and internal. Every kind but internal carries a source
// position. A single [Error] value threads through the whole pipeline —
// the driver stops at the first one and prints exactly one diagnostic
// line. [Warning] values (currently only "unreachable code", §4.4) do not
// abort and may accumulate.
package diag

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/ntua-el19005/gracec/token"
)

// Kind is one of the six closed error categories of §7.
type Kind int

const (
	Lexing Kind = iota
	Parser
	Semantic
	SymbolTable
	Codegen
	Internal
)

func (k Kind) String() string {
	switch k {
	case Lexing:
		return "lexing error"
	case Parser:
		return "parser error"
	case Semantic:
		return "semantic error"
	case SymbolTable:
		return "symbol-table error"
	case Codegen:
		return "codegen error"
	case Internal:
		return "internal compiler error"
	default:
		return "error"
	}
}

// Error is a Grace diagnostic: a kind, an optional position (absent only
// for Internal), and a human-readable message.
type Error struct {
	Kind    Kind
	Pos     token.Pos
	HasPos  bool
	Message string
}

// New builds a position-carrying error of the given kind.
func New(kind Kind, pos token.Pos, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, HasPos: true, Message: fmt.Sprintf(format, args...)}
}

// InternalError builds a location-less internal-compiler-error.
func InternalError(format string, args ...any) *Error {
	return &Error{Kind: Internal, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface, rendering the exact wire format
// required by §7:
//
//	<kind> at file: <f>, line: <l>, column: <c>: <message>
//
// or, for location-less internal errors:
//
//	<kind>: <message>
func (e *Error) Error() string {
	if !e.HasPos {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s at file: %s, line: %d, column: %d: %s",
		e.Kind, e.Pos.File, e.Pos.Line, e.Pos.Column, e.Message)
}

// Wrap attaches additional context to an existing diagnostic while
// preserving its kind and position, using pkg/errors so the underlying
// cause remains inspectable via errors.Cause for tests and tooling.
func Wrap(err error, context string) error {
	return errors.Wrap(err, context)
}

// AsError reports whether err is (or wraps) a *Error, per pkg/errors'
// Cause-chain convention.
func AsError(err error) (*Error, bool) {
	for err != nil {
		if de, ok := err.(*Error); ok {
			return de, true
		}
		cause := errors.Cause(err)
		if cause == err {
			return nil, false
		}
		err = cause
	}
	return nil, false
}

// Warning is a non-aborting diagnostic (§7): today only "unreachable
// code", carrying the position of the first statement dropped after a
// terminator.
type Warning struct {
	Pos     token.Pos
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("warning at file: %s, line: %d, column: %d: %s",
		w.Pos.File, w.Pos.Line, w.Pos.Column, w.Message)
}

// Package code renders indented text listings for gracedump's AST and
// symbol-table dumps.
//
// Grace has no bytecode or VM (§4.4 lowers straight to LLVM IR, run by an
// external backend), so there is no instruction stream to disassemble;
// [Listing] is instead a single-pass writer that turns a tree of labelled
// entries into readable, indented text, at arbitrary nesting depth.
package code

import (
	"fmt"
	"strings"
)

// Listing accumulates an indented text rendering of a tree-shaped
// structure (an AST subtree, a symbol-table scope) one line at a time.
type Listing struct {
	out   strings.Builder
	depth int
}

// NewListing creates an empty listing.
func NewListing() *Listing { return &Listing{} }

// Line appends one line at the current indentation depth, printf-style.
func (l *Listing) Line(format string, args ...any) {
	l.out.WriteString(strings.Repeat("  ", l.depth))
	_, _ = fmt.Fprintf(&l.out, format, args...)
	l.out.WriteString("\n")
}

// Indent runs fn with the indentation depth increased by one.
func (l *Listing) Indent(fn func()) {
	l.depth++
	fn()
	l.depth--
}

// String returns the accumulated text.
func (l *Listing) String() string { return l.out.String() }

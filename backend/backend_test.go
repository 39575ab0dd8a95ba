package backend_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"tinygo.org/x/go-llvm"

	"github.com/ntua-el19005/gracec/backend"
)

func TestNewSessionConfiguresModule(t *testing.T) {
	s, err := backend.NewSession("t", false)
	require.NoError(t, err)
	defer s.Dispose()

	require.NotEmpty(t, s.EmitIR())
}

func TestDeclareFunctionIsIdempotent(t *testing.T) {
	s, err := backend.NewSession("t", false)
	require.NoError(t, err)
	defer s.Dispose()

	fn1 := s.DeclareFunction("writeInteger", []llvm.Type{s.IntType()}, s.VoidType())
	fn2 := s.DeclareFunction("writeInteger", []llvm.Type{s.IntType()}, s.VoidType())
	require.Equal(t, fn1, fn2, "redeclaring the same external symbol returns the existing value")
}

func TestNamedStructTypeRoundTrip(t *testing.T) {
	s, err := backend.NewSession("t", false)
	require.NoError(t, err)
	defer s.Dispose()

	frame := s.NamedStructType("main.frame")
	s.SetStructBody(frame, []llvm.Type{s.IntType()})
	require.False(t, frame.IsNil())
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunHelpExitsZero(t *testing.T) {
	require.Equal(t, 0, run([]string{"gracec", "--help"}))
}

func TestRunVersionExitsZero(t *testing.T) {
	require.Equal(t, 0, run([]string{"gracec", "--version"}))
}

func TestRunMissingFilenameIsUsageError(t *testing.T) {
	require.Equal(t, 1, run([]string{"gracec"}))
}

func TestRunUnknownFlagIsUsageError(t *testing.T) {
	require.NotEqual(t, 0, run([]string{"gracec", "--not-a-real-flag"}))
}

func TestRunFileModeCompilesAndWritesSinks(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.grc")
	require.NoError(t, os.WriteFile(src, []byte("fun main(): nothing { writeInteger(1); }"), 0o644))

	// The linker invocation itself isn't exercised here (no "cc"/runtime
	// archive guaranteed in a test environment); this only checks that the
	// frontend/backend stages run and emit their three sinks before the
	// driver hands off to the linker.
	code := run([]string{"gracec", src})
	_ = code // linker exit code is environment-dependent

	require.FileExists(t, filepath.Join(dir, "prog.imm"))
	require.FileExists(t, filepath.Join(dir, "prog.asm"))
	require.FileExists(t, filepath.Join(dir, "prog.o"))
}

package driver_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ntua-el19005/gracec/driver"
)

func TestRunStdinIREmitsIntermediateListing(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := driver.Run(driver.Options{
		StdinIR: true,
		Stdin:   strings.NewReader("fun main(): nothing { writeInteger(1); }"),
		Stdout:  &stdout,
		Stderr:  &stderr,
	})
	require.Equal(t, 0, code)
	require.Contains(t, stdout.String(), "define void @main")
}

func TestRunStdinAssemblyTakesPrecedenceOverIR(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := driver.Run(driver.Options{
		StdinAssembly: true,
		StdinIR:       true,
		Stdin:         strings.NewReader("fun main(): nothing { writeInteger(1); }"),
		Stdout:        &stdout,
		Stderr:        &stderr,
	})
	require.Equal(t, 0, code)
	require.NotContains(t, stdout.String(), "define void @main", "assembly output, not IR text")
}

func TestRunNoFilenameNoStdinModeIsUsageError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := driver.Run(driver.Options{Stdout: &stdout, Stderr: &stderr})
	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "usage error")
}

func TestRunStdinModeReportsParseErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := driver.Run(driver.Options{
		StdinIR: true,
		Stdin:   strings.NewReader("fun main(): nothing { x <- ; }"),
		Stdout:  &stdout,
		Stderr:  &stderr,
	})
	require.Equal(t, 1, code)
	require.NotEmpty(t, stderr.String())
}

package code_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ntua-el19005/gracec/code"
)

func TestListingIndentsNestedLines(t *testing.T) {
	l := code.NewListing()
	l.Line("function main")
	l.Indent(func() {
		l.Line("var x : int")
		l.Indent(func() {
			l.Line("offset 0")
		})
	})

	out := l.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "function main", lines[0])
	require.Equal(t, "  var x : int", lines[1])
	require.Equal(t, "    offset 0", lines[2])
}

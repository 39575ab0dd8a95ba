package runtimecatalog_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ntua-el19005/gracec/runtimecatalog"
)

func TestLookupKnownsAndUnknowns(t *testing.T) {
	_, ok := runtimecatalog.Lookup("writeInteger")
	require.True(t, ok)

	_, ok = runtimecatalog.Lookup("notARuntimeFunction")
	require.False(t, ok)
}

func TestCatalogCoversSpecSignatures(t *testing.T) {
	names := make([]string, 0, len(runtimecatalog.Catalog))
	for _, e := range runtimecatalog.Catalog {
		names = append(names, e.Name)
	}
	require.ElementsMatch(t, []string{
		"writeInteger", "writeChar", "writeString",
		"readInteger", "readChar", "readString",
		"ascii", "chr", "strlen", "strcmp", "strcpy", "strcat",
	}, names)
}

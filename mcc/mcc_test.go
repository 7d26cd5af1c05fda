package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	ignored = 0
	var b bytes.Buffer
	report(&b, counts{tp: 42, fn: 8, fp: 5, tn: 945}, .5, 1)
	g := goldie.New(t)
	g.Assert(t, "report", b.Bytes())
}

func TestReportIgnored(t *testing.T) {
	ignored = 3
	var b bytes.Buffer
	report(&b, counts{tn: 1}, .5, 1)
	ignored = 0
	require.Contains(t, b.String(), "Lines ignored:      3")
	require.Contains(t, b.String(), "Matthews correlation coefficient: 0.00")
}

func TestAboveThreshold(t *testing.T) {
	ignored = 0
	col = 1
	fn := filepath.Join(t.TempDir(), "scores")
	require.NoError(t, os.WriteFile(fn, []byte(`Name Pout
a 0.9
b 0.4
c 0.91
`), 0644))
	ge, lt, err := aboveThreshold(fn, .5)
	require.NoError(t, err)
	require.Equal(t, 2, ge)
	require.Equal(t, 1, lt)
	require.Equal(t, 2, ignored)
}

func TestTruthCounts(t *testing.T) {
	ignored = 0
	dir := t.TempDir()
	truthFn := filepath.Join(dir, "truth")
	listFn := filepath.Join(dir, "listing")
	require.NoError(t, os.WriteFile(truthFn, []byte("a 3\na 7\nb 2\n"), 0644))
	require.NoError(t, os.WriteFile(listFn, []byte(`a 0 0.01
a 3 0.92
a 7 0.40
b 0 0.70
b 1 0.05
`), 0644))
	c, err := truthCounts(truthFn, listFn, .5)
	require.NoError(t, err)
	require.Equal(t, counts{tp: 1, fn: 2, fp: 1, tn: 2}, c)
	require.Equal(t, 2, ignored)
}

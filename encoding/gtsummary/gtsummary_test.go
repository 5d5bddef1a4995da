package gtsummary

import (
	"context"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

const testTable = `BC	UMI	WT.calls	MUT.calls	amb.calls	call.in.dups	num.WT.in.dups	num.MUT.in.dups	num.amb.in.dups
AAAC	ACGTACGTACGT;TTTTACGTACGT	2	0	0	WT;WT	3;2	0;0	0;0
CCCA	GGGGACGTACGT	0	1	0	MUT	0	5	1
GGGT		0	0	0				
`

func writeTable(t *testing.T, content string) string {
	dir, err := ioutil.TempDir("", "gtsummary")
	require.NoError(t, err)
	path := filepath.Join(dir, "summary.tsv")
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRead(t *testing.T) {
	rows, err := Read(context.Background(), writeTable(t, testTable))
	expect.NoError(t, err)
	// The GGGT row has no UMIs and is dropped.
	expect.EQ(t, len(rows), 2)
	expect.EQ(t, rows[0].Barcode, "AAAC")
	expect.EQ(t, rows[0].WTCalls, 2)
	expect.EQ(t, rows[0].UMIList, "ACGTACGTACGT;TTTTACGTACGT")
	expect.EQ(t, rows[0].NumWT, "3;2")
	expect.EQ(t, rows[1].Barcode, "CCCA")
	expect.EQ(t, rows[1].MUTCalls, 1)
	expect.EQ(t, rows[1].CallList, "MUT")
}

// Columns bind by header name, so a table with a different column order must
// still parse into the right fields.
func TestReadReorderedColumns(t *testing.T) {
	const table = `UMI	BC	MUT.calls	WT.calls	amb.calls	call.in.dups	num.WT.in.dups	num.MUT.in.dups	num.amb.in.dups
ACGTACGTACGT	AAAC	1	2	0	WT;WT;MUT	3	5	0
`
	rows, err := Read(context.Background(), writeTable(t, table))
	expect.NoError(t, err)
	require.Equal(t, 1, len(rows))
	expect.EQ(t, rows[0].Barcode, "AAAC")
	expect.EQ(t, rows[0].UMIList, "ACGTACGTACGT")
	expect.EQ(t, rows[0].WTCalls, 2)
	expect.EQ(t, rows[0].MUTCalls, 1)
	expect.EQ(t, rows[0].NumMUT, "5")
}

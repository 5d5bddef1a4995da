package gtvalid

import (
	"testing"

	"github.com/grailbio/genotype/encoding/gtsummary"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	rows := []gtsummary.Row{
		{
			Barcode:  "AAAC",
			UMIList:  "ACGTACGTACGT;TTTTACGTACGT;GGGGACGTACGT",
			WTCalls:  2,
			MUTCalls: 1,
			AmbCalls: 0,
			CallList: "WT;MUT;WT",
			NumWT:    "3;0;2",
			NumMUT:   "0;5;1",
			NumAmb:   "1;0;0",
		},
		{
			Barcode:  "CCCA",
			UMIList:  "ACGTACGTACGT",
			WTCalls:  0,
			MUTCalls: 0,
			AmbCalls: 1,
			CallList: "amb",
			NumWT:    "1",
			NumMUT:   "1",
			NumAmb:   "2",
		},
	}
	observations, err := Expand(rows, testOpts())
	expect.NoError(t, err)
	require.Len(t, observations, 4)

	obs := observations[0]
	expect.EQ(t, obs.RowIdx, 0)
	expect.EQ(t, obs.Barcode, "AAAC")
	expect.EQ(t, obs.UMI, "ACGTACGTACGT")
	expect.EQ(t, obs.UMICode, mustEncode(t, "ACGTACGTACGT"))
	expect.EQ(t, obs.Call, CallWT)
	expect.EQ(t, obs.TotalDups, 4)
	expect.EQ(t, obs.TotalDupsWTMUT, 3)

	obs = observations[1]
	expect.EQ(t, obs.Call, CallMUT)
	expect.EQ(t, obs.TotalDups, 5)
	expect.EQ(t, obs.TotalDupsWTMUT, 5)

	obs = observations[3]
	expect.EQ(t, obs.RowIdx, 1)
	expect.EQ(t, obs.Barcode, "CCCA")
	expect.EQ(t, obs.Call, CallAmb)
	expect.EQ(t, obs.TotalDups, 4)
	expect.EQ(t, obs.TotalDupsWTMUT, 2)
}

func TestExpandLengthMismatch(t *testing.T) {
	rows := []gtsummary.Row{{
		Barcode:  "GGGT",
		UMIList:  "ACGTACGTACGT;TTTTACGTACGT",
		WTCalls:  3, // declares 3 molecules, lists hold 2
		MUTCalls: 0,
		AmbCalls: 0,
		CallList: "WT;WT",
		NumWT:    "1;1",
		NumMUT:   "0;0",
		NumAmb:   "0;0",
	}}
	_, err := Expand(rows, testOpts())
	require.Error(t, err)
	require.Contains(t, err.Error(), "GGGT")
	require.Contains(t, err.Error(), "UMI")
}

func TestExpandBadUMI(t *testing.T) {
	rows := []gtsummary.Row{{
		Barcode:  "GGGT",
		UMIList:  "ACGNACGTACGT",
		WTCalls:  1,
		CallList: "WT",
		NumWT:    "1",
		NumMUT:   "0",
		NumAmb:   "0",
	}}
	_, err := Expand(rows, testOpts())
	require.Error(t, err)
	require.Contains(t, err.Error(), "GGGT")

	rows[0].UMIList = "ACGT" // wrong length
	_, err = Expand(rows, testOpts())
	require.Error(t, err)
}

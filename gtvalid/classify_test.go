package gtvalid

import (
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	opts := testOpts()
	opts.Parallelism = 2

	targetUMI := "ACGTACGTACGT"
	nearUMI := "ACGTACGTACGA" // one substitution from targetUMI
	farUMI := "TTTTTTTTTTTT"
	otherUMI := "GGGGACGTACGT"

	targetSet := map[Key]struct{}{
		{"AAAA", targetUMI}: {},
	}
	collapsed := map[CodeKey]CollapsedMolecule{
		{"AAAA", mustEncode(t, targetUMI)}: {Label: "JAK2", Reads: 5},
		{"AAAA", mustEncode(t, otherUMI)}:  {Label: "GAPDH", Reads: 2},
		{"CCCC", mustEncode(t, otherUMI)}:  {Label: "Multiple", Reads: 1},
		{"CCCC", mustEncode(t, targetUMI)}: {Label: "Multiple_JAK2", Reads: 1},
	}

	observations := []Observation{
		{Barcode: "AAAA", UMI: targetUMI, UMICode: mustEncode(t, targetUMI)},
		{Barcode: "AAAA", UMI: nearUMI, UMICode: mustEncode(t, nearUMI)},
		{Barcode: "AAAA", UMI: otherUMI, UMICode: mustEncode(t, otherUMI)},
		{Barcode: "CCCC", UMI: otherUMI, UMICode: mustEncode(t, otherUMI)},
		{Barcode: "CCCC", UMI: farUMI, UMICode: mustEncode(t, farUMI)},
	}
	stats, err := Classify(observations, targetSet, collapsed, opts)
	expect.NoError(t, err)

	expect.EQ(t, observations[0].Class, Exact)
	expect.EQ(t, observations[0].InGEX, true)
	expect.EQ(t, observations[0].GeneLabel, "JAK2")

	// Near match: not in the target set, but within edit distance 2.
	expect.EQ(t, observations[1].Class, Approx)
	expect.EQ(t, observations[1].InGEX, false)

	expect.EQ(t, observations[2].Class, OtherGene)
	expect.EQ(t, observations[2].GeneLabel, "GAPDH")

	// "Multiple" without the target gene is still another gene.
	expect.EQ(t, observations[3].Class, OtherGene)

	expect.EQ(t, observations[4].Class, NoGene)
	expect.EQ(t, observations[4].InGEX, false)

	expect.EQ(t, stats, Stats{Observations: 5, Exact: 1, Approx: 1, OtherGene: 2, NoGene: 1})
}

// Classification precedence is exclusive: an observation reported Exact is
// never also reported under any other class.
func TestClassifyPrecedence(t *testing.T) {
	opts := testOpts()
	targetUMI := "ACGTACGTACGT"
	targetSet := map[Key]struct{}{{"AAAA", targetUMI}: {}}
	// The same key also collapses to a non-target label; the exact match
	// must win.
	collapsed := map[CodeKey]CollapsedMolecule{
		{"AAAA", mustEncode(t, targetUMI)}: {Label: "Multiple", Reads: 1},
	}
	observations := []Observation{
		{Barcode: "AAAA", UMI: targetUMI, UMICode: mustEncode(t, targetUMI)},
	}
	stats, err := Classify(observations, targetSet, collapsed, opts)
	require.NoError(t, err)
	expect.EQ(t, observations[0].Class, Exact)
	expect.EQ(t, stats.Exact, 1)
	expect.EQ(t, stats.Approx+stats.OtherGene+stats.NoGene, 0)
}

func TestClassifyApproxNotShortCircuited(t *testing.T) {
	opts := testOpts()
	opts.MaxEditDistance = 0
	targetUMI := "ACGTACGTACGT"
	nearUMI := "ACGTACGTACGA"
	targetSet := map[Key]struct{}{{"AAAA", targetUMI}: {}}
	observations := []Observation{
		{Barcode: "AAAA", UMI: nearUMI, UMICode: mustEncode(t, nearUMI)},
	}
	_, err := Classify(observations, targetSet, nil, opts)
	require.NoError(t, err)
	// With a zero edit budget the near miss is not corroborated at all.
	expect.EQ(t, observations[0].Class, NoGene)
}

func TestClassifyEmpty(t *testing.T) {
	stats, err := Classify(nil, nil, nil, testOpts())
	require.NoError(t, err)
	expect.EQ(t, stats, Stats{})
}

func TestClassifyMultipleTargetNotOtherGene(t *testing.T) {
	opts := testOpts()
	umiSeq := "GGGGACGTACGT"
	// In the collapsed index under a Multiple_<target> label, but not in
	// the target set and not within the edit budget of anything: the label
	// names the target, so the observation is not OtherGene.
	collapsed := map[CodeKey]CollapsedMolecule{
		{"AAAA", mustEncode(t, umiSeq)}: {Label: "Multiple_JAK2", Reads: 1},
	}
	observations := []Observation{
		{Barcode: "AAAA", UMI: umiSeq, UMICode: mustEncode(t, umiSeq)},
	}
	_, err := Classify(observations, map[Key]struct{}{}, collapsed, opts)
	require.NoError(t, err)
	expect.EQ(t, observations[0].Class, NoGene)
	expect.EQ(t, observations[0].InGEX, true)
	expect.EQ(t, observations[0].GeneLabel, "Multiple_JAK2")
}

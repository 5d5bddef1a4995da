// Package gtvalid cross-validates per-cell genotype calls from a targeted
// amplicon pipeline against a molecule-level expression archive.  Each
// supporting barcode/UMI observation is classified by how the expression
// data corroborates it (Exact, Approx, OtherGene, NoGene); a read-support
// threshold estimated from the classified population then drives three
// progressively filtered per-barcode genotype tables.
package gtvalid

// Call is the genotype assigned to one UMI by the amplicon pipeline.
type Call uint8

const (
	CallWT Call = iota
	CallMUT
	CallAmb
)

func (c Call) String() string {
	switch c {
	case CallWT:
		return "WT"
	case CallMUT:
		return "MUT"
	case CallAmb:
		return "amb"
	}
	return "invalid"
}

// MatchClass is the four-way classification of a genotyping observation
// against the expression archive.
type MatchClass uint8

const (
	// Exact: the (barcode, UMI) pair was observed for the target gene.
	Exact MatchClass = iota
	// Approx: a target-gene pair lies within the edit-distance budget of
	// this observation's barcode+UMI key.
	Approx
	// OtherGene: the pair is in the expression data, but for a different
	// gene (including multi-gene collapse labels not naming the target).
	OtherGene
	// NoGene: the pair does not appear in the expression data at all.
	NoGene
)

func (m MatchClass) String() string {
	switch m {
	case Exact:
		return "Exact"
	case Approx:
		return "Approx"
	case OtherGene:
		return "OtherGene"
	case NoGene:
		return "NoGene"
	}
	return "invalid"
}

// MoleculeRecord is one molecule from the expression archive, with the
// archive's table indices already dereferenced to concrete strings.  Records
// are built once, restricted to barcodes present in the genotyping table,
// and never mutated.
type MoleculeRecord struct {
	Barcode  string
	UMICode  uint64
	GeneID   string
	GeneName string
	Reads    uint32
}

// Observation is one supporting UMI of one genotyping summary row.  A row
// reporting N = WT.calls+MUT.calls+amb.calls supporting molecules expands
// into exactly N observations.  An observation is immutable once classified.
type Observation struct {
	// RowIdx is the index of the source summary row.
	RowIdx  int
	Barcode string
	UMI     string
	UMICode uint64
	Call    Call

	// Per-class read counts within this molecule's PCR-duplicate group.
	DupWT  int
	DupMUT int
	DupAmb int
	// TotalDups = DupWT + DupMUT + DupAmb.
	TotalDups int
	// TotalDupsWTMUT = DupWT + DupMUT; the read-support figure thresholds
	// operate on.
	TotalDupsWTMUT int

	Class MatchClass
	// InGEX reports whether (Barcode, UMICode) is in the collapsed
	// molecule index.
	InGEX bool
	// GeneLabel is the collapsed index label when InGEX.
	GeneLabel string
	// Keep is the full keep rule's verdict given the estimated threshold.
	Keep bool
}

// LevelSummary is the per-barcode call tally at one filtering level.
type LevelSummary struct {
	// Label is "MUT", "WT", "NA", or "No Data".
	Label string
	// HasData distinguishes "no observations at all" from "all
	// observations filtered out".  Counts are meaningless when false.
	HasData    bool
	WTCalls    int
	MUTCalls   int
	TotalCalls int
}

// BarcodeSummary is the final per-barcode result: the call tallies and
// genotype labels at the three filtering levels.  There is exactly one per
// barcode in the reference universe, including barcodes that never appear in
// the genotyping table.
type BarcodeSummary struct {
	Barcode           string
	Unfiltered        LevelSummary
	GeneFiltered      LevelSummary
	ThresholdFiltered LevelSummary
}

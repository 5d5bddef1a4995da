package gtvalid

// ThresholdStrategy selects how the read-support cutoff is estimated from
// the classified observations.
type ThresholdStrategy string

const (
	// StrategyQuantile takes a fixed quantile of the read support of
	// OtherGene observations.
	StrategyQuantile ThresholdStrategy = "quantile"
	// StrategyBimodalMinimum locates the density minimum between the two
	// modes of the NoGene read-support distribution.
	StrategyBimodalMinimum ThresholdStrategy = "bimodal"
)

type Opts struct {
	// TargetGene is the feature name of the amplicon target in the
	// expression archive. Required.
	TargetGene string

	// UMILength is the number of bases in a UMI sequence.
	UMILength int

	// MaxEditDistance is the Levenshtein budget for an approximate match of
	// the concatenated barcode+UMI key against the target-gene key set.
	MaxEditDistance int

	// Quantile is the probability used by StrategyQuantile.
	Quantile float64

	// Strategy picks the threshold estimator.
	Strategy ThresholdStrategy

	// Parallelism caps the number of concurrent classification shards.
	// <=0 means runtime.NumCPU.
	Parallelism int
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	UMILength:       12,  // -umi-length
	MaxEditDistance: 2,   // -max-edit-distance
	Quantile:        0.8, // -quantile
	Strategy:        StrategyQuantile,
}

package gtvalid

// Stats represents high-level statistics of one validation run.
type Stats struct {
	// Rows is the number of genotyping summary rows expanded.
	Rows int
	// Observations is the number of per-UMI observations produced.
	Observations int
	// Exact, Approx, OtherGene, NoGene count observations per match class.
	Exact     int
	Approx    int
	OtherGene int
	NoGene    int
	// Kept is the number of observations surviving the full keep rule.
	Kept int
}

// Merge adds the field values of the two Stats objects and creates new Stats.
func (s Stats) Merge(o Stats) Stats {
	s.Rows += o.Rows
	s.Observations += o.Observations
	s.Exact += o.Exact
	s.Approx += o.Approx
	s.OtherGene += o.OtherGene
	s.NoGene += o.NoGene
	s.Kept += o.Kept
	return s
}

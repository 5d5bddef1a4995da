package gtvalid

import "github.com/grailbio/base/log"

// FilterLevel selects how aggressively observations are filtered before
// per-barcode aggregation.
type FilterLevel int

const (
	// Unfiltered keeps every observation.
	Unfiltered FilterLevel = iota
	// GeneFiltered drops OtherGene observations.
	GeneFiltered
	// ThresholdFiltered additionally drops NoGene observations at or below
	// the read-support threshold.
	ThresholdFiltered
)

func (l FilterLevel) String() string {
	switch l {
	case Unfiltered:
		return "unfiltered"
	case GeneFiltered:
		return "gene-filtered"
	case ThresholdFiltered:
		return "threshold-filtered"
	}
	return "invalid"
}

// keepAt reports whether obs survives the given filtering level.  The levels
// are nested by construction: anything kept at ThresholdFiltered is kept at
// GeneFiltered, and anything kept at GeneFiltered is kept at Unfiltered.
func keepAt(obs Observation, level FilterLevel, threshold float64) bool {
	switch level {
	case Unfiltered:
		return true
	case GeneFiltered:
		return obs.Class != OtherGene
	case ThresholdFiltered:
		switch obs.Class {
		case Exact, Approx:
			return true
		case OtherGene:
			return false
		default: // NoGene
			return float64(obs.TotalDupsWTMUT) > threshold
		}
	}
	panic(level)
}

// ApplyKeepRule records the full (threshold-filtered) keep verdict on each
// observation and returns the number kept.
func ApplyKeepRule(observations []Observation, threshold float64) int {
	kept := 0
	for i := range observations {
		observations[i].Keep = keepAt(observations[i], ThresholdFiltered, threshold)
		if observations[i].Keep {
			kept++
		}
	}
	return kept
}

// summarizeLevel tallies one barcode's observations at one filtering level.
// It is a pure function of the classified observation set.
func summarizeLevel(observations []Observation, level FilterLevel, threshold float64) LevelSummary {
	s := LevelSummary{HasData: len(observations) > 0}
	if !s.HasData {
		s.Label = "No Data"
		return s
	}
	ambCalls := 0
	for _, obs := range observations {
		if !keepAt(obs, level, threshold) {
			continue
		}
		switch obs.Call {
		case CallWT:
			s.WTCalls++
		case CallMUT:
			s.MUTCalls++
		case CallAmb:
			ambCalls++
		}
	}
	s.TotalCalls = s.WTCalls + s.MUTCalls + ambCalls
	switch {
	case s.MUTCalls > 0:
		s.Label = "MUT"
	case s.WTCalls >= 1:
		s.Label = "WT"
	default:
		s.Label = "NA"
	}
	return s
}

// Summarize merges the three filtering levels into one BarcodeSummary per
// barcode in universe (in universe order).  Each level is computed
// independently over the same classified observation set; barcodes absent
// from the genotyping table get "No Data" at every level.
func Summarize(universe []string, observations []Observation, threshold float64) []BarcodeSummary {
	byBarcode := map[string][]Observation{}
	for _, obs := range observations {
		byBarcode[obs.Barcode] = append(byBarcode[obs.Barcode], obs)
	}

	summaries := make([]BarcodeSummary, 0, len(universe))
	var levelKept [3]int
	for _, barcode := range universe {
		obs := byBarcode[barcode]
		s := BarcodeSummary{
			Barcode:           barcode,
			Unfiltered:        summarizeLevel(obs, Unfiltered, threshold),
			GeneFiltered:      summarizeLevel(obs, GeneFiltered, threshold),
			ThresholdFiltered: summarizeLevel(obs, ThresholdFiltered, threshold),
		}
		levelKept[Unfiltered] += s.Unfiltered.TotalCalls
		levelKept[GeneFiltered] += s.GeneFiltered.TotalCalls
		levelKept[ThresholdFiltered] += s.ThresholdFiltered.TotalCalls
		summaries = append(summaries, s)
	}
	log.Printf("Stats: calls kept per level: unfiltered=%d gene-filtered=%d threshold-filtered=%d",
		levelKept[Unfiltered], levelKept[GeneFiltered], levelKept[ThresholdFiltered])
	return summaries
}

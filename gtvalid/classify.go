package gtvalid

import (
	"runtime"
	"strings"
	"sync"

	"github.com/grailbio/base/traverse"
	"github.com/grailbio/genotype/util"
)

// namesTarget reports whether a collapsed gene label corroborates the target
// gene, either directly or through a multi-gene collapse label.
func namesTarget(label, target string) bool {
	return label == target || strings.HasPrefix(label, "Multiple_"+target)
}

// classifyOne classifies a single observation in place.  Exact and Approx
// are computed independently; precedence is applied afterwards, first match
// wins.
func classifyOne(obs *Observation, targetSet map[Key]struct{}, targetKeys []string,
	collapsed map[CodeKey]CollapsedMolecule, opts Opts) {
	_, exact := targetSet[Key{obs.Barcode, obs.UMI}]

	composite := obs.Barcode + obs.UMI
	approx := false
	for _, key := range targetKeys {
		if len(key) != len(composite) {
			continue
		}
		if util.LevenshteinWithin(composite, key, opts.MaxEditDistance) {
			approx = true
			break
		}
	}

	mol, inGEX := collapsed[CodeKey{obs.Barcode, obs.UMICode}]
	obs.InGEX = inGEX
	if inGEX {
		obs.GeneLabel = mol.Label
	}

	switch {
	case exact:
		obs.Class = Exact
	case approx:
		obs.Class = Approx
	case inGEX && !namesTarget(mol.Label, opts.TargetGene):
		obs.Class = OtherGene
	default:
		obs.Class = NoGene
	}
}

// Classify labels every observation against the molecule index.  The
// per-observation work is pure and independent, so observations are sharded
// across a worker pool; each worker writes results back by index, preserving
// the original order for downstream joins.  The returned Stats holds the
// classification tallies.
func Classify(observations []Observation, targetSet map[Key]struct{},
	collapsed map[CodeKey]CollapsedMolecule, opts Opts) (Stats, error) {
	targetKeys := make([]string, 0, len(targetSet))
	for key := range targetSet {
		targetKeys = append(targetKeys, key.Barcode+key.UMI)
	}

	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	if parallelism > len(observations) {
		parallelism = len(observations)
	}
	if parallelism == 0 {
		return Stats{}, nil
	}

	var (
		mu    sync.Mutex
		stats Stats
	)
	err := traverse.Each(parallelism, func(jobIdx int) error {
		startIdx := (jobIdx * len(observations)) / parallelism
		endIdx := ((jobIdx + 1) * len(observations)) / parallelism
		shardStats := Stats{Observations: endIdx - startIdx}
		for i := startIdx; i < endIdx; i++ {
			classifyOne(&observations[i], targetSet, targetKeys, collapsed, opts)
			switch observations[i].Class {
			case Exact:
				shardStats.Exact++
			case Approx:
				shardStats.Approx++
			case OtherGene:
				shardStats.OtherGene++
			case NoGene:
				shardStats.NoGene++
			}
		}
		mu.Lock()
		stats = stats.Merge(shardStats)
		mu.Unlock()
		return nil
	})
	return stats, err
}

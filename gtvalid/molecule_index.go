package gtvalid

import (
	"strings"

	"github.com/grailbio/base/log"
	"github.com/grailbio/genotype/encoding/molinfo"
	"github.com/grailbio/genotype/umi"
	"github.com/pkg/errors"
)

// Key identifies one molecule by barcode and UMI sequence.
type Key struct {
	Barcode string
	UMI     string
}

// CodeKey identifies one molecule by barcode and integer UMI code.
type CodeKey struct {
	Barcode string
	UMICode uint64
}

// abChannelMarker marks a feature-barcoding (antibody capture) channel in a
// gene name.
const abChannelMarker = "TotalSeq"

// MoleculeIndex answers two questions about the expression archive: which
// (barcode, UMI) pairs were observed for the target gene, and which single
// gene label each (barcode, UMI code) pair collapses to.
type MoleculeIndex struct {
	opts    Opts
	records []MoleculeRecord
	// featureNames holds every feature in the archive's feature table,
	// whether or not any retained record references it.
	featureNames map[string]bool
}

// BuildRecords dereferences the archive's zero-based index arrays against
// its string tables, keeping only molecules whose barcode is in keep.
func BuildRecords(a *molinfo.Archive, keep map[string]bool) []MoleculeRecord {
	records := make([]MoleculeRecord, 0, len(keep))
	for i := 0; i < a.NumMolecules(); i++ {
		barcode := a.Barcodes[a.BarcodeIdx[i]]
		if !keep[barcode] {
			continue
		}
		records = append(records, MoleculeRecord{
			Barcode:  barcode,
			UMICode:  a.UMI[i],
			GeneID:   a.FeatureIDs[a.FeatureIdx[i]],
			GeneName: a.FeatureNames[a.FeatureIdx[i]],
			Reads:    a.Count[i],
		})
	}
	log.Printf("Stats: kept %d of %d archive molecules for %d barcodes",
		len(records), a.NumMolecules(), len(keep))
	return records
}

// NewMoleculeIndex creates an index over records.  featureNames must be the
// archive's full feature table; the target gene is validated against it, not
// against the (barcode-restricted) record set.
func NewMoleculeIndex(records []MoleculeRecord, featureNames []string, opts Opts) *MoleculeIndex {
	names := make(map[string]bool, len(featureNames))
	for _, name := range featureNames {
		names[name] = true
	}
	return &MoleculeIndex{opts: opts, records: records, featureNames: names}
}

// TargetGeneSet returns the set of (barcode, UMI sequence) pairs observed
// for the target gene.  It fails if the target gene is not in the archive's
// feature table; there is then nothing to validate against.
func (ix *MoleculeIndex) TargetGeneSet() (map[Key]struct{}, error) {
	target := ix.opts.TargetGene
	if !ix.featureNames[target] {
		return nil, errors.Errorf("target gene %q is not in the archive feature table", target)
	}
	set := map[Key]struct{}{}
	for _, rec := range ix.records {
		if rec.GeneName != target {
			continue
		}
		seq, err := umi.Decode(rec.UMICode, ix.opts.UMILength)
		if err != nil {
			return nil, errors.Wrapf(err, "archive molecule for barcode %s", rec.Barcode)
		}
		set[Key{rec.Barcode, seq}] = struct{}{}
	}
	log.Printf("Stats: %d distinct (barcode, UMI) pairs for target gene %s", len(set), target)
	return set, nil
}

// CollapsedMolecule is the reduction of one (barcode, UMI code) group.
type CollapsedMolecule struct {
	// Label is the resolved gene label, possibly a "Multiple" variant.
	Label string
	// Reads is the read count of the first record in group order.
	Reads uint32
}

// Collapse groups the records of barcodes in universe by (barcode, UMI code)
// and reduces each group to a single gene label.  A singleton group keeps
// its record's gene name.  A multi-gene group is a multi-mapping artifact:
// if the target gene is among the group's genes the label is
// "Multiple_<target>", gaining an "_Ab" suffix when an antibody-capture
// channel is involved; otherwise the label is "Multiple".  Other retained
// fields tie-break to the first record in group order.  The reduction builds
// a new table; the record set is never modified.
func (ix *MoleculeIndex) Collapse(universe map[string]bool) map[CodeKey]CollapsedMolecule {
	groups := map[CodeKey][]MoleculeRecord{}
	for _, rec := range ix.records {
		if !universe[rec.Barcode] {
			continue
		}
		key := CodeKey{rec.Barcode, rec.UMICode}
		groups[key] = append(groups[key], rec)
	}

	target := ix.opts.TargetGene
	collapsed := make(map[CodeKey]CollapsedMolecule, len(groups))
	nMulti := 0
	for key, recs := range groups {
		if len(recs) == 1 {
			collapsed[key] = CollapsedMolecule{Label: recs[0].GeneName, Reads: recs[0].Reads}
			continue
		}
		nMulti++
		hasTarget, hasAb := false, false
		for _, rec := range recs {
			if rec.GeneName == target {
				hasTarget = true
			}
			if strings.Contains(rec.GeneName, abChannelMarker) {
				hasAb = true
			}
		}
		label := "Multiple"
		if hasTarget {
			label = "Multiple_" + target
			if hasAb {
				label += "_Ab"
			}
		}
		collapsed[key] = CollapsedMolecule{Label: label, Reads: recs[0].Reads}
	}
	log.Printf("Stats: collapsed %d (barcode, UMI) pairs, %d multi-gene", len(collapsed), nMulti)
	return collapsed
}

// Package molinfo reads a molecule-level expression archive: an HDF5
// columnar store with one entry per captured molecule (barcode index,
// feature index, 2-bit-coded UMI, read count) plus string tables for
// barcodes and features.  The package only materializes the raw arrays and
// validates their consistency; record construction and all downstream logic
// live in package gtvalid.
package molinfo

import (
	"context"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/pkg/errors"
	"gonum.org/v1/hdf5"
)

// Archive holds the raw columns of the expression archive.  The per-molecule
// arrays are index-aligned and the index arrays are zero-based.
type Archive struct {
	// Barcodes and FeatureNames/FeatureIDs are the string tables the
	// per-molecule index arrays point into.
	Barcodes     []string
	FeatureNames []string
	FeatureIDs   []string

	// BarcodeIdx[i], FeatureIdx[i], UMI[i], Count[i] describe molecule i.
	BarcodeIdx []uint64
	FeatureIdx []uint32
	UMI        []uint64
	Count      []uint32
}

// NumMolecules returns the number of per-molecule entries.
func (a *Archive) NumMolecules() int { return len(a.BarcodeIdx) }

func readUint64s(f *hdf5.File, name string) ([]uint64, error) {
	dset, err := f.OpenDataset(name)
	if err != nil {
		return nil, errors.Wrapf(err, "open dataset %s", name)
	}
	defer dset.Close() // nolint: errcheck
	n := dset.Space().SimpleExtentNPoints()
	data := make([]uint64, n)
	if err := dset.Read(&data); err != nil {
		return nil, errors.Wrapf(err, "read dataset %s", name)
	}
	return data, nil
}

func readUint32s(f *hdf5.File, name string) ([]uint32, error) {
	dset, err := f.OpenDataset(name)
	if err != nil {
		return nil, errors.Wrapf(err, "open dataset %s", name)
	}
	defer dset.Close() // nolint: errcheck
	n := dset.Space().SimpleExtentNPoints()
	data := make([]uint32, n)
	if err := dset.Read(&data); err != nil {
		return nil, errors.Wrapf(err, "read dataset %s", name)
	}
	return data, nil
}

func readStrings(f *hdf5.File, name string) ([]string, error) {
	dset, err := f.OpenDataset(name)
	if err != nil {
		return nil, errors.Wrapf(err, "open dataset %s", name)
	}
	defer dset.Close() // nolint: errcheck
	n := dset.Space().SimpleExtentNPoints()
	data := make([]string, n)
	if err := dset.Read(&data); err != nil {
		return nil, errors.Wrapf(err, "read dataset %s", name)
	}
	return data, nil
}

// Read loads the archive at path.  The path must be local; HDF5 has no
// reader abstraction to plug remote storage into.
func Read(path string) (*Archive, error) {
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, errors.Wrapf(err, "open archive %s", path)
	}
	defer f.Close() // nolint: errcheck

	a := &Archive{}
	if a.Barcodes, err = readStrings(f, "barcodes"); err != nil {
		return nil, err
	}
	if a.FeatureNames, err = readStrings(f, "features/name"); err != nil {
		return nil, err
	}
	if a.FeatureIDs, err = readStrings(f, "features/id"); err != nil {
		return nil, err
	}
	if a.BarcodeIdx, err = readUint64s(f, "barcode_idx"); err != nil {
		return nil, err
	}
	if a.FeatureIdx, err = readUint32s(f, "feature_idx"); err != nil {
		return nil, err
	}
	if a.UMI, err = readUint64s(f, "umi"); err != nil {
		return nil, err
	}
	if a.Count, err = readUint32s(f, "count"); err != nil {
		return nil, err
	}
	if err := a.Validate(); err != nil {
		return nil, errors.Wrapf(err, "archive %s", path)
	}
	return a, nil
}

// Validate checks that the per-molecule arrays are equal length and that
// every index points inside its string table.
func (a *Archive) Validate() error {
	n := len(a.BarcodeIdx)
	if len(a.FeatureIdx) != n || len(a.UMI) != n || len(a.Count) != n {
		return errors.Errorf("per-molecule arrays disagree in length: barcode_idx=%d feature_idx=%d umi=%d count=%d",
			len(a.BarcodeIdx), len(a.FeatureIdx), len(a.UMI), len(a.Count))
	}
	if len(a.FeatureNames) != len(a.FeatureIDs) {
		return errors.Errorf("feature tables disagree in length: name=%d id=%d",
			len(a.FeatureNames), len(a.FeatureIDs))
	}
	for i, b := range a.BarcodeIdx {
		if b >= uint64(len(a.Barcodes)) {
			return errors.Errorf("molecule %d: barcode_idx %d out of range (%d barcodes)", i, b, len(a.Barcodes))
		}
	}
	for i, fi := range a.FeatureIdx {
		if fi >= uint32(len(a.FeatureNames)) {
			return errors.Errorf("molecule %d: feature_idx %d out of range (%d features)", i, fi, len(a.FeatureNames))
		}
	}
	return nil
}

// ReadBarcodeList reads a reference barcode list: one identifier per line,
// optionally carrying a sample-index tag after a '-' separator, which is
// stripped.  Duplicates after stripping are dropped, preserving first-seen
// order.
func ReadBarcodeList(ctx context.Context, path string) ([]string, error) {
	data, err := file.ReadFile(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "read barcode list %s", path)
	}
	var (
		barcodes []string
		seen     = map[string]bool{}
	)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if i := strings.IndexByte(line, '-'); i >= 0 {
			line = line[:i]
		}
		if !seen[line] {
			seen[line] = true
			barcodes = append(barcodes, line)
		}
	}
	return barcodes, nil
}

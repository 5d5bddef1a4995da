// Package gtsummary reads the per-barcode genotyping summary table produced
// by a targeted-amplicon genotyping pipeline.  The table is tab-separated
// with a header row; some columns hold one scalar per barcode, others hold a
// semicolon-joined list with one element per supporting molecule.  Which
// column is which is declared here, not sniffed per row.
package gtsummary

import (
	"context"
	"io"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/pkg/errors"
)

// ListDelimiter joins per-molecule elements within one table cell.
const ListDelimiter = ";"

// Row is one genotyping summary row.  BC and the three call counters are
// per-barcode scalars; the remaining fields are ListDelimiter-joined lists
// that must each hold WTCalls+MUTCalls+AmbCalls elements.  Splitting and
// validating the lists is the expander's job (package gtvalid), so the
// fields are kept in their raw string form here.
type Row struct {
	Barcode  string `tsv:"BC"`
	UMIList  string `tsv:"UMI"`
	WTCalls  int    `tsv:"WT.calls"`
	MUTCalls int    `tsv:"MUT.calls"`
	AmbCalls int    `tsv:"amb.calls"`
	CallList string `tsv:"call.in.dups"`
	NumWT    string `tsv:"num.WT.in.dups"`
	NumMUT   string `tsv:"num.MUT.in.dups"`
	NumAmb   string `tsv:"num.amb.in.dups"`
}

// Read loads the summary table at path, transparently decompressing by path
// suffix.  Rows with an empty UMI list carry no supporting molecules and are
// dropped.
func Read(ctx context.Context, path string) ([]Row, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "open genotyping table %s", path)
	}
	var r io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(r, in.Name()); u != nil {
		r = u
	}
	tr := tsv.NewReader(r)
	tr.HasHeaderRow = true
	tr.UseHeaderNames = true

	var (
		rows    []Row
		dropped int
	)
	for {
		var row Row
		if err := tr.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrapf(err, "read genotyping table %s", path)
		}
		if row.UMIList == "" {
			dropped++
			continue
		}
		rows = append(rows, row)
	}
	if err := in.Close(ctx); err != nil {
		return nil, errors.Wrapf(err, "close genotyping table %s", path)
	}
	if dropped > 0 {
		log.Printf("%s: dropped %d rows with an empty UMI list", path, dropped)
	}
	return rows, nil
}

package main

// This file writes the persisted summary artifact: one row per reference
// barcode with the genotype label and call tallies at each of the three
// filtering levels.  Existing outputs are never overwritten; reruns warn
// and skip instead.

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/genotype/gtvalid"
	"github.com/klauspost/compress/gzip"
)

var summaryColumns = []string{
	"BC",
	"genotype", "WT.calls", "MUT.calls", "total.calls",
	"genotype.gene.filtered", "WT.calls.gene.filtered", "MUT.calls.gene.filtered", "total.calls.gene.filtered",
	"genotype.threshold.filtered", "WT.calls.threshold.filtered", "MUT.calls.threshold.filtered", "total.calls.threshold.filtered",
}

func writeLevel(w *tsv.Writer, level gtvalid.LevelSummary) {
	w.WriteString(level.Label)
	if !level.HasData {
		// Null counts for barcodes with no observations.
		w.WriteString("NA")
		w.WriteString("NA")
		w.WriteString("NA")
		return
	}
	w.WriteString(strconv.Itoa(level.WTCalls))
	w.WriteString(strconv.Itoa(level.MUTCalls))
	w.WriteString(strconv.Itoa(level.TotalCalls))
}

// writeSummary persists the per-barcode summary table to path, gzipped when
// the path carries a .gz suffix.  A pre-existing file is left untouched so
// reruns are idempotent.
func writeSummary(ctx context.Context, path string, summaries []gtvalid.BarcodeSummary) {
	if _, err := file.Stat(ctx, path); err == nil {
		log.Error.Printf("%s: output exists, skipping summary write", path)
		return
	}
	out, err := file.Create(ctx, path)
	if err != nil {
		log.Fatalf("create %s: %v", path, err)
	}
	var (
		w  io.Writer = out.Writer(ctx)
		gz *gzip.Writer
	)
	if strings.HasSuffix(path, ".gz") {
		gz = gzip.NewWriter(w)
		w = gz
	}
	tw := tsv.NewWriter(w)
	er := errors.Once{}
	for _, col := range summaryColumns {
		tw.WriteString(col)
	}
	er.Set(tw.EndLine())
	for _, s := range summaries {
		tw.WriteString(s.Barcode)
		writeLevel(tw, s.Unfiltered)
		writeLevel(tw, s.GeneFiltered)
		writeLevel(tw, s.ThresholdFiltered)
		er.Set(tw.EndLine())
	}
	er.Set(tw.Flush())
	if gz != nil {
		er.Set(gz.Close())
	}
	er.Set(out.Close(ctx))
	if er.Err() != nil {
		log.Fatalf("write %s: %v", path, er.Err())
	}
	log.Printf("Wrote %d barcode summaries to %s", len(summaries), path)
}

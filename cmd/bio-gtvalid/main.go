package main

// bio-gtvalid cross-validates per-cell genotype calls from a targeted
// amplicon pipeline against a molecule-level expression archive from the
// same cell population.
//
// The run has four phases:
//
//   1. Load the reference barcode list, the genotyping summary table, and
//      the expression archive; expand summary rows into per-UMI
//      observations and build the molecule index.
//
//   2. Classify every observation as Exact/Approx/OtherGene/NoGene against
//      the index.
//
//   3. Estimate a read-support threshold from the classified population.
//
//   4. Aggregate per barcode at three filtering levels and write the
//      summary table (and, optionally, a diagnostic plot).
//
// Example:
//
//    bio-gtvalid -target-gene=JAK2 -gex=molecule_info.h5 \
//        -genotyping-table=summary.tsv.gz -barcodes=barcodes.tsv \
//        -output-dir=out

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/genotype/encoding/gtsummary"
	"github.com/grailbio/genotype/encoding/molinfo"
	"github.com/grailbio/genotype/gtvalid"
)

// Collection of options set via cmdline flags.
type gtvalidFlags struct {
	gexPath      string
	tablePath    string
	barcodesPath string
	outputDir    string
	plot         bool
}

func validate(ctx context.Context, flags gtvalidFlags, opts gtvalid.Opts) {
	universe, err := molinfo.ReadBarcodeList(ctx, flags.barcodesPath)
	if err != nil {
		log.Fatalf("read barcode list: %v", err)
	}
	log.Printf("Stats: %d reference barcodes", len(universe))

	rows, err := gtsummary.Read(ctx, flags.tablePath)
	if err != nil {
		log.Fatalf("read genotyping table: %v", err)
	}
	log.Printf("Stats: %d genotyping rows", len(rows))
	tableBarcodes := make(map[string]bool, len(rows))
	for _, row := range rows {
		tableBarcodes[row.Barcode] = true
	}

	archive, err := molinfo.Read(flags.gexPath)
	if err != nil {
		log.Fatalf("read expression archive: %v", err)
	}
	log.Printf("Stats: archive holds %d molecules, %d barcodes, %d features",
		archive.NumMolecules(), len(archive.Barcodes), len(archive.FeatureNames))

	observations, err := gtvalid.Expand(rows, opts)
	if err != nil {
		log.Fatalf("expand genotyping table: %v", err)
	}

	records := gtvalid.BuildRecords(archive, tableBarcodes)
	index := gtvalid.NewMoleculeIndex(records, archive.FeatureNames, opts)
	targetSet, err := index.TargetGeneSet()
	if err != nil {
		log.Fatalf("build target gene set: %v", err)
	}
	collapsed := index.Collapse(tableBarcodes)

	stats, err := gtvalid.Classify(observations, targetSet, collapsed, opts)
	if err != nil {
		log.Fatalf("classify observations: %v", err)
	}
	stats.Rows = len(rows)
	log.Printf("Stats: finished classification: %+v", stats)

	threshold, err := gtvalid.EstimateThreshold(observations, opts)
	if err != nil {
		log.Fatalf("estimate threshold: %v", err)
	}
	if opts.Strategy == gtvalid.StrategyBimodalMinimum && (threshold <= 1 || threshold >= 1000) {
		log.Error.Printf("bimodal threshold %.2f sits on the search boundary; the read-support distribution may not be bimodal", threshold)
	}
	log.Printf("Stats: read-support threshold %.3f (strategy %s)", threshold, opts.Strategy)

	kept := gtvalid.ApplyKeepRule(observations, threshold)
	stats.Kept = kept
	log.Printf("Stats: %d of %d observations kept by the full rule", kept, len(observations))

	summaries := gtvalid.Summarize(universe, observations, threshold)
	writeSummary(ctx, filepath.Join(flags.outputDir, "genotype_summary.tsv"), summaries)
	if flags.plot {
		writePlot(filepath.Join(flags.outputDir, "read_support_by_class.png"), observations, threshold)
	}
	log.Printf("All done")
}

func usage() {
	fmt.Fprintln(os.Stderr, `
bio-gtvalid refines per-cell genotype calls by checking each supporting
barcode/UMI observation against a molecule-level expression archive, then
reports per-barcode genotypes at three filtering levels (unfiltered,
gene-filtered, threshold-filtered).

Usage:
  bio-gtvalid -target-gene=GENE -gex=molecule_info.h5 \
      -genotyping-table=summary.tsv -barcodes=barcodes.tsv [flags]
`)
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	flag.Usage = usage

	opts := gtvalid.DefaultOpts
	flags := gtvalidFlags{}
	flag.StringVar(&flags.gexPath, "gex", "", "Expression archive (molecule info HDF5 file).")
	flag.StringVar(&flags.tablePath, "genotyping-table", "", "Genotyping summary table (TSV, optionally gzipped).")
	flag.StringVar(&flags.barcodesPath, "barcodes", "", "Reference barcode list, one barcode per line.")
	flag.StringVar(&flags.outputDir, "output-dir", ".", "Directory for output artifacts.")
	flag.BoolVar(&flags.plot, "plot", true, "Write the diagnostic read-support plot.")

	flag.StringVar(&opts.TargetGene, "target-gene", "", "Feature name of the amplicon target gene.")
	flag.IntVar(&opts.UMILength, "umi-length", gtvalid.DefaultOpts.UMILength, "UMI length in bases.")
	flag.Float64Var(&opts.Quantile, "quantile", gtvalid.DefaultOpts.Quantile,
		"Quantile of OtherGene read support used by the quantile strategy.")
	flag.IntVar(&opts.MaxEditDistance, "max-edit-distance", gtvalid.DefaultOpts.MaxEditDistance,
		"Levenshtein budget for an approximate barcode+UMI match.")
	strategy := flag.String("threshold-strategy", string(gtvalid.DefaultOpts.Strategy),
		"Threshold estimation strategy: quantile or bimodal.")
	flag.IntVar(&opts.Parallelism, "parallelism", 0, "Max concurrent classification shards (0 = NumCPU).")

	cleanup := grail.Init()
	defer cleanup()
	ctx := vcontext.Background()

	opts.Strategy = gtvalid.ThresholdStrategy(*strategy)
	if opts.Strategy != gtvalid.StrategyQuantile && opts.Strategy != gtvalid.StrategyBimodalMinimum {
		log.Fatalf("unknown -threshold-strategy %q", *strategy)
	}
	if opts.TargetGene == "" {
		log.Fatal("-target-gene is required")
	}
	for _, arg := range []struct{ name, value string }{
		{"-gex", flags.gexPath},
		{"-genotyping-table", flags.tablePath},
		{"-barcodes", flags.barcodesPath},
	} {
		if arg.value == "" {
			log.Fatalf("%s is required", arg.name)
		}
	}
	validate(ctx, flags, opts)
}

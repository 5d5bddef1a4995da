package main

// This file renders the diagnostic plot: the distribution of log10 read
// support per match class, with the chosen threshold overlaid, so a reviewer
// can judge whether the threshold actually separates ambient molecules from
// real ones.

import (
	"math"
	"os"

	"github.com/grailbio/base/log"
	"github.com/grailbio/genotype/gtvalid"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// writePlot renders the read-support histograms to path.  Same skip policy
// as the summary writer: never overwrite an existing artifact.  The plot
// always targets the local filesystem.
func writePlot(path string, observations []gtvalid.Observation, threshold float64) {
	if _, err := os.Stat(path); err == nil {
		log.Error.Printf("%s: output exists, skipping plot write", path)
		return
	}

	byClass := map[gtvalid.MatchClass]plotter.Values{}
	for _, obs := range observations {
		if obs.TotalDupsWTMUT <= 0 {
			continue
		}
		byClass[obs.Class] = append(byClass[obs.Class], math.Log10(float64(obs.TotalDupsWTMUT)))
	}

	p, err := plot.New()
	if err != nil {
		log.Fatalf("plot %s: %v", path, err)
	}
	p.Title.Text = "Read support by match class"
	p.X.Label.Text = "log10(WT+MUT duplicate reads)"
	p.Y.Label.Text = "density"

	classes := []gtvalid.MatchClass{gtvalid.Exact, gtvalid.Approx, gtvalid.OtherGene, gtvalid.NoGene}
	maxDensity := 0.0
	for i, class := range classes {
		values := byClass[class]
		if len(values) == 0 {
			continue
		}
		h, err := plotter.NewHist(values, 40)
		if err != nil {
			log.Fatalf("plot %s: histogram for %s: %v", path, class, err)
		}
		h.Normalize(1)
		for _, bin := range h.Bins {
			if bin.Weight > maxDensity {
				maxDensity = bin.Weight
			}
		}
		h.FillColor = nil
		h.LineStyle.Color = plotutil.Color(i)
		h.LineStyle.Width = vg.Points(1.5)
		p.Add(h)
		p.Legend.Add(class.String(), h)
	}

	if threshold > 0 {
		x := math.Log10(threshold)
		line, err := plotter.NewLine(plotter.XYs{{X: x, Y: 0}, {X: x, Y: maxDensity}})
		if err != nil {
			log.Fatalf("plot %s: threshold line: %v", path, err)
		}
		line.LineStyle.Width = vg.Points(1)
		line.LineStyle.Dashes = plotutil.Dashes(1)
		p.Add(line)
		p.Legend.Add("threshold", line)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		log.Fatalf("save plot %s: %v", path, err)
	}
	log.Printf("Wrote read-support plot to %s", path)
}

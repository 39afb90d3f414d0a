package datareader

import (
	"bytes"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/montanaflynn/stats"

	"github.com/kiteco/hardata/local-pipelines/har-datareader/internal/datasets"
)

// ClassCount is the number of samples carrying one label.
type ClassCount struct {
	Name  string
	Count int
}

// SplitSummary describes the samples of one split.
type SplitSummary struct {
	Split   datasets.Split
	Samples int
	Classes []ClassCount
	// Mean and StdDev are per feature; nil for an empty split.
	Mean   []float64
	StdDev []float64
}

// Summarize computes per-split class balance and feature statistics.
func Summarize(b *Bundle) []SplitSummary {
	var summaries []SplitSummary
	for _, split := range datasets.Splits {
		data := b.Split(split)
		s := SplitSummary{
			Split:   split,
			Samples: data.Len(),
			Classes: make([]ClassCount, len(b.Classes)),
		}
		for i, name := range b.Classes {
			s.Classes[i].Name = name
		}
		for _, t := range data.Targets {
			if t >= 0 && int(t) < len(s.Classes) {
				s.Classes[t].Count++
			}
		}

		if data.Len() > 0 {
			s.Mean = make([]float64, b.NumFeatures)
			s.StdDev = make([]float64, b.NumFeatures)
			column := make(stats.Float64Data, data.Len())
			for j := 0; j < b.NumFeatures; j++ {
				for i, row := range data.Inputs {
					column[i] = row[j]
				}
				// inputs are non-empty so these cannot fail
				s.Mean[j], _ = stats.Mean(column)
				s.StdDev[j], _ = stats.StandardDeviationPopulation(column)
			}
		}
		summaries = append(summaries, s)
	}
	return summaries
}

// String renders the summary on a couple of lines.
func (s SplitSummary) String() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s: %s samples", s.Split, humanize.Comma(int64(s.Samples)))
	for _, c := range s.Classes {
		pct := 0.0
		if s.Samples > 0 {
			pct = 100 * float64(c.Count) / float64(s.Samples)
		}
		fmt.Fprintf(&buf, ", %s %s (%.1f%%)", c.Name, humanize.Comma(int64(c.Count)), pct)
	}
	if s.Mean != nil {
		fmt.Fprintf(&buf, "\n  mean %.4f\n  std  %.4f", s.Mean, s.StdDev)
	}
	return buf.String()
}

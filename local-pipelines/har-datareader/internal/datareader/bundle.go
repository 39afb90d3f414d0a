package datareader

import (
	"github.com/kiteco/hardata/local-pipelines/har-datareader/internal/datasets"
)

// SplitData holds the samples of one split: Inputs[i] is the feature vector
// labelled Targets[i].
type SplitData struct {
	Inputs  [][]float64
	Targets []int64
}

// Len returns the number of samples
func (s *SplitData) Len() int {
	return len(s.Targets)
}

func (s *SplitData) add(features []float64, target int64) {
	s.Inputs = append(s.Inputs, features)
	s.Targets = append(s.Targets, target)
}

// Bundle is a prepared dataset: every split plus the label index.
type Bundle struct {
	Name string
	// Classes is the label index, Classes[id] names dense label id.
	Classes []string
	// NumFeatures is the width of every feature vector.
	NumFeatures int
	Splits      map[datasets.Split]*SplitData
	// Files records what was read from each source file, in read order.
	Files []FileStats
}

func newBundle(name string, classes []string, numFeatures int) *Bundle {
	b := &Bundle{
		Name:        name,
		Classes:     classes,
		NumFeatures: numFeatures,
		Splits:      make(map[datasets.Split]*SplitData),
	}
	for _, s := range datasets.Splits {
		b.Splits[s] = &SplitData{}
	}
	return b
}

// Split returns the samples of s, never nil.
func (b *Bundle) Split(s datasets.Split) *SplitData {
	if d, ok := b.Splits[s]; ok {
		return d
	}
	return &SplitData{}
}

// Train returns the training split
func (b *Bundle) Train() *SplitData { return b.Split(datasets.Train) }

// Validation returns the validation split
func (b *Bundle) Validation() *SplitData { return b.Split(datasets.Validation) }

// Test returns the test split
func (b *Bundle) Test() *SplitData { return b.Split(datasets.Test) }

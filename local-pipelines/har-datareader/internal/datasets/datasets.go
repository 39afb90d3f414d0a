package datasets

import (
	"sort"
	"strconv"

	"github.com/kiteco/hardata/kite-golib/errors"
)

// Split names one of the partitions samples are assigned to.
type Split string

// Splits, in the order they are read and written
const (
	Train      Split = "train"
	Validation Split = "validation"
	Test       Split = "test"
)

// Splits lists every split in order
var Splits = []Split{Train, Validation, Test}

// ErrUnsupportedDataset is returned for dataset names missing from the registry
var ErrUnsupportedDataset = errors.New("dataset is not yet supported")

// Label maps a raw label code found in the source files to a readable name.
type Label struct {
	Code int
	Name string
}

// Definition is the static description of one dataset: which files go to which
// split and how their columns are read.
type Definition struct {
	Name string
	// Files lists the source files of each split, relative to <root>/dataset.
	Files map[Split][]string
	// Labels is the label table; position in the table is the dense label id.
	// The sentinel code never appears here.
	Labels []Label
	// Columns are the field indices extracted from each line, in order. The last
	// extracted value is the label code, the others are features.
	Columns []int
	// LabelColumn is checked against Sentinel before anything else is read.
	LabelColumn int
	// Sentinel marks rows of an excluded activity.
	Sentinel string
	// Missing marks an unusable reading; rows containing it are dropped.
	Missing string
	// Scale divides every feature value.
	Scale float64
}

// Classes returns the label index: names in table order.
func (d Definition) Classes() []string {
	classes := make([]string, 0, len(d.Labels))
	for _, l := range d.Labels {
		classes = append(classes, l.Name)
	}
	return classes
}

// LabelIDs maps the textual raw code of every label to its dense id.
func (d Definition) LabelIDs() map[string]int64 {
	ids := make(map[string]int64, len(d.Labels))
	for i, l := range d.Labels {
		ids[strconv.Itoa(l.Code)] = int64(i)
	}
	return ids
}

// NumFeatures is the width of a feature vector.
func (d Definition) NumFeatures() int {
	if len(d.Columns) == 0 {
		return 0
	}
	return len(d.Columns) - 1
}

// Validate checks the definition for internal consistency.
func (d Definition) Validate() error {
	switch {
	case d.Name == "":
		return errors.New("dataset definition without a name")
	case len(d.Columns) < 2:
		return errors.Errorf("%s: need at least one feature column and a label column", d.Name)
	case d.Columns[len(d.Columns)-1] != d.LabelColumn:
		return errors.Errorf("%s: the last extracted column must be the label column %d", d.Name, d.LabelColumn)
	case d.Scale == 0:
		return errors.Errorf("%s: scale must be non-zero", d.Name)
	case len(d.Labels) == 0:
		return errors.Errorf("%s: empty label table", d.Name)
	}

	for _, c := range d.Columns {
		if c < 0 {
			return errors.Errorf("%s: negative column index %d", d.Name, c)
		}
	}

	seen := make(map[int]bool)
	for _, l := range d.Labels {
		if strconv.Itoa(l.Code) == d.Sentinel {
			return errors.Errorf("%s: label table contains the sentinel code %s", d.Name, d.Sentinel)
		}
		if seen[l.Code] {
			return errors.Errorf("%s: duplicate label code %d", d.Name, l.Code)
		}
		seen[l.Code] = true
	}

	for _, s := range Splits {
		if _, ok := d.Files[s]; !ok {
			return errors.Errorf("%s: no files for split %s", d.Name, s)
		}
	}
	return nil
}

var registry = map[string]Definition{
	Daphnet.Name: Daphnet,
}

// Lookup returns the definition registered under name.
func Lookup(name string) (Definition, error) {
	d, ok := registry[name]
	if !ok {
		return Definition{}, errors.Wrapf(ErrUnsupportedDataset, "%q", name)
	}
	return d, nil
}

// Names lists the registered datasets, sorted.
func Names() []string {
	var names []string
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

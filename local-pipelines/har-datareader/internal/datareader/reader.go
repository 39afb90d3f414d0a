package datareader

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/kiteco/hardata/kite-golib/errors"
	"github.com/kiteco/hardata/kite-golib/fileutil"
	"github.com/kiteco/hardata/kite-golib/kitelog"
	"github.com/kiteco/hardata/local-pipelines/har-datareader/internal/datasets"
)

// Options configures a run
type Options struct {
	// Logger receives progress lines; nothing is printed if nil.
	Logger kitelog.Interface
	// Durations, if set, records how long each split and the persist step took.
	Durations *kitelog.Durations
	// OutDir is where New writes the container and classes file; defaults to the root.
	OutDir string
}

func (o Options) printf(format string, args ...interface{}) {
	if o.Logger != nil {
		o.Logger.Printf(format, args...)
	}
}

func (o Options) record(name string, start time.Time) {
	if o.Durations != nil {
		o.Durations.Since(name, start)
	}
}

// FileStats counts what happened to the lines of one source file.
type FileStats struct {
	Split datasets.Split
	Path  string
	// Rows is the number of records read.
	Rows int
	// Kept rows became samples.
	Kept int
	// Excluded rows carried the sentinel label.
	Excluded int
	// Missing rows had a missing-value marker in an extracted column.
	Missing int
}

// Prepare reads the raw files of the named dataset under root into a Bundle.
// Unknown names fail with datasets.ErrUnsupportedDataset.
func Prepare(name, root string, opts Options) (*Bundle, error) {
	def, err := datasets.Lookup(name)
	if err != nil {
		return nil, err
	}
	return PrepareDefinition(def, root, opts)
}

// PrepareDefinition reads the raw files described by def from <root>/dataset.
// Any unreadable file or uninterpretable line aborts the run.
func PrepareDefinition(def datasets.Definition, root string, opts Options) (*Bundle, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	root = fileutil.TrimSlash(root)
	ids := def.LabelIDs()
	b := newBundle(def.Name, def.Classes(), def.NumFeatures())

	for _, split := range datasets.Splits {
		start := time.Now()
		files := def.Files[split]
		for i, name := range files {
			opts.printf("Reading file %d of %d", i+1, len(files))

			path := fileutil.Join(root, "dataset", name)
			stats, err := readFile(path, def, ids, b.Splits[split])
			if err != nil {
				return nil, err
			}
			stats.Split = split
			b.Files = append(b.Files, stats)

			opts.printf("  %s: kept %s of %s rows (%s excluded, %s missing)", name,
				humanize.Comma(int64(stats.Kept)), humanize.Comma(int64(stats.Rows)),
				humanize.Comma(int64(stats.Excluded)), humanize.Comma(int64(stats.Missing)))
		}
		opts.record("read "+string(split), start)
	}

	return b, nil
}

func readFile(path string, def datasets.Definition, ids map[string]int64, acc *SplitData) (stats FileStats, err error) {
	r, err := fileutil.NewReader(path)
	if err != nil {
		return stats, errors.Wrapf(err, "error opening %s", path)
	}
	defer errors.Defer(&err, r.Close)

	stats, err = scan(r, path, def, ids, acc)
	return stats, err
}

// scan appends the samples found in r to acc.
func scan(r io.Reader, path string, def datasets.Definition, ids map[string]int64, acc *SplitData) (FileStats, error) {
	stats := FileStats{Path: path}

	reader := csv.NewReader(r)
	reader.Comma = ' '
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	for {
		fields, err := reader.Read()
		if err == io.EOF {
			return stats, nil
		}
		if err != nil {
			return stats, errors.Wrapf(err, "error reading %s", path)
		}
		stats.Rows++

		features, target, status, err := parseRecord(def, ids, fields)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return stats, errors.Wrapf(err, "%s:%d", path, line)
		}

		switch status {
		case rowExcluded:
			stats.Excluded++
		case rowMissing:
			stats.Missing++
		default:
			stats.Kept++
			acc.add(features, target)
		}
	}
}

type rowStatus int

const (
	rowKept rowStatus = iota
	rowExcluded
	rowMissing
)

// parseRecord turns the fields of one line into a sample. Rows with the sentinel
// label or a missing value are reported through the status, not as errors.
func parseRecord(def datasets.Definition, ids map[string]int64, fields []string) ([]float64, int64, rowStatus, error) {
	if def.LabelColumn >= len(fields) {
		return nil, 0, 0, errors.Errorf("expected at least %d fields, found %d", def.LabelColumn+1, len(fields))
	}
	if fields[def.LabelColumn] == def.Sentinel {
		return nil, 0, rowExcluded, nil
	}

	// cols[i] is the source column of elem[i]
	elem := make([]string, 0, len(def.Columns))
	cols := make([]int, 0, len(def.Columns))
	for _, c := range def.Columns {
		if c >= len(fields) {
			return nil, 0, 0, errors.Errorf("expected at least %d fields, found %d", c+1, len(fields))
		}
		if c == def.LabelColumn && fields[c] == def.Sentinel {
			continue
		}
		elem = append(elem, fields[c])
		cols = append(cols, c)
	}

	for _, v := range elem {
		if v == def.Missing {
			return nil, 0, rowMissing, nil
		}
	}
	if len(elem) == 0 {
		return nil, 0, 0, errors.New("no columns extracted")
	}

	last := len(elem) - 1
	features := make([]float64, last)
	for i, v := range elem[:last] {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, 0, 0, errors.Wrapf(err, "column %d", cols[i])
		}
		features[i] = f / def.Scale
	}

	target, ok := ids[elem[last]]
	if !ok {
		return nil, 0, 0, errors.Errorf("unknown label code %q", elem[last])
	}
	return features, target, rowKept, nil
}

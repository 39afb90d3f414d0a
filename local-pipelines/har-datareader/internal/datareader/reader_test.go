package datareader

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiteco/hardata/kite-golib/errors"
	"github.com/kiteco/hardata/kite-golib/kitelog"
	"github.com/kiteco/hardata/local-pipelines/har-datareader/internal/datasets"
)

// testDef reads the daphnet columns from a handful of small files.
func testDef() datasets.Definition {
	def := datasets.Daphnet
	def.Name = "tiny"
	def.Files = map[datasets.Split][]string{
		datasets.Train:      {"a.txt", "b.txt"},
		datasets.Validation: {"c.txt"},
		datasets.Test:       {"d.txt"},
	}
	return def
}

// writeDataset creates <root>/dataset/<name> for every entry and returns root.
func writeDataset(t *testing.T, files map[string]string) string {
	root, err := ioutil.TempDir("", "datareader")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(root) })

	require.NoError(t, os.MkdirAll(filepath.Join(root, "dataset"), 0755))
	for name, contents := range files {
		require.NoError(t, ioutil.WriteFile(filepath.Join(root, "dataset", name), []byte(contents), 0644))
	}
	return root
}

func scaled(vals ...float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = v / 1000
	}
	return out
}

func TestParseRecord(t *testing.T) {
	def := datasets.Daphnet
	ids := def.LabelIDs()

	features, target, status, err := parseRecord(def, ids, strings.Split("1 2 3 4 5 6 7 8 9 10 1", " "))
	require.NoError(t, err)
	assert.Equal(t, rowKept, status)
	assert.Equal(t, int64(0), target)
	assert.Equal(t, scaled(2, 3, 4, 5, 6, 7, 8, 9, 10), features)

	features, target, status, err = parseRecord(def, ids, strings.Split("15 -1000 250 1e3 0 0 0 -7.5 8 9 2", " "))
	require.NoError(t, err)
	assert.Equal(t, rowKept, status)
	assert.Equal(t, int64(1), target)
	assert.Equal(t, []float64{-1, 0.25, 1, 0, 0, 0, -0.0075, 0.008, 0.009}, features)
}

func TestParseRecordSkips(t *testing.T) {
	def := datasets.Daphnet
	ids := def.LabelIDs()

	tests := []struct {
		line   string
		status rowStatus
	}{
		{"1 2 3 4 5 6 7 8 9 10 0", rowExcluded},
		{"1 NaN NaN NaN 5 6 7 8 9 10 0", rowExcluded},
		{"1 2 3 4 5 NaN 7 8 9 10 1", rowMissing},
		{"1 2 3 4 5 6 7 8 9 NaN 2", rowMissing},
		{"1 2 3 4 5 6 7 8 9 10 NaN", rowMissing},
		// the marker is case-sensitive; anything else must parse as a number
		{"NaN 2 3 4 5 6 7 8 9 10 1", rowKept},
	}
	for _, tt := range tests {
		_, _, status, err := parseRecord(def, ids, strings.Split(tt.line, " "))
		require.NoError(t, err, tt.line)
		assert.Equal(t, tt.status, status, tt.line)
	}
}

func TestParseRecordErrors(t *testing.T) {
	def := datasets.Daphnet
	ids := def.LabelIDs()

	for _, line := range []string{
		// too short
		"1 2 3",
		// label code not in the table
		"1 2 3 4 5 6 7 8 9 10 3",
		// not a number
		"1 2 x 4 5 6 7 8 9 10 1",
		// a double space shifts the label out of its column
		"1 2 3 4 5 6 7 8 9 10  1",
	} {
		_, _, _, err := parseRecord(def, ids, strings.Split(line, " "))
		assert.Error(t, err, line)
	}
}

func TestParseRecordLabelColumnRepeated(t *testing.T) {
	def := datasets.Daphnet
	def.Columns = []int{1, 10, 2, 10}
	require.NoError(t, def.Validate())

	features, target, status, err := parseRecord(def, def.LabelIDs(), strings.Split("0 5 6 0 0 0 0 0 0 0 2", " "))
	require.NoError(t, err)
	assert.Equal(t, rowKept, status)
	assert.Equal(t, scaled(5, 2, 6), features)
	assert.Equal(t, int64(1), target)
}

func TestParseRecordErrorNamesColumn(t *testing.T) {
	def := datasets.Daphnet
	def.Columns = []int{3, 10, 2, 10}
	require.NoError(t, def.Validate())

	_, _, _, err := parseRecord(def, def.LabelIDs(), strings.Split("0 5 x 7 0 0 0 0 0 0 1", " "))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "column 2")

	_, _, _, err = parseRecord(datasets.Daphnet, datasets.Daphnet.LabelIDs(), strings.Split("0 5 6 7 8 y 0 0 0 0 1", " "))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "column 5")
}

func TestPrepareRootWithSpecialCharacters(t *testing.T) {
	for _, prefix := range []string{"har root", "har%root"} {
		root, err := ioutil.TempDir("", prefix)
		require.NoError(t, err)
		defer os.RemoveAll(root)

		require.NoError(t, os.MkdirAll(filepath.Join(root, "dataset"), 0755))
		for _, name := range []string{"a.txt", "b.txt", "c.txt", "d.txt"} {
			require.NoError(t, ioutil.WriteFile(filepath.Join(root, "dataset", name), []byte("15 1 2 3 4 5 6 7 8 9 1\n"), 0644))
		}

		b, err := PrepareDefinition(testDef(), root, Options{})
		require.NoError(t, err, prefix)
		assert.Equal(t, 2, b.Train().Len(), prefix)
		assert.Equal(t, filepath.Join(root, "dataset", "a.txt"), b.Files[0].Path, prefix)

		require.NoError(t, Persist(b, "tiny", root, Options{}), prefix)
		_, err = os.Stat(filepath.Join(root, "tiny.h5"))
		assert.NoError(t, err, prefix)
	}
}

func TestPrepareDefinition(t *testing.T) {
	root := writeDataset(t, map[string]string{
		"a.txt": "15 1 2 3 4 5 6 7 8 9 1\n" +
			"31 1 2 3 4 5 6 7 8 9 0\n" +
			"46 NaN 2 3 4 5 6 7 8 9 2\n" +
			"62 10 20 30 40 50 60 70 80 90 2\n",
		"b.txt": "15 -1 -2 -3 -4 -5 -6 -7 -8 -9 1\n",
		"c.txt": "15 0 0 0 0 0 0 0 0 0 0\n",
		"d.txt": "15 1000 0 0 0 0 0 0 0 0 2\r\n31 0 1000 0 0 0 0 0 0 0 1\r\n",
	})

	var progress bytes.Buffer
	var durations kitelog.Durations
	b, err := PrepareDefinition(testDef(), root+"/", Options{
		Logger:    kitelog.New(&progress, "", 0),
		Durations: &durations,
	})
	require.NoError(t, err)

	assert.Equal(t, "tiny", b.Name)
	assert.Equal(t, []string{"No freeze", "Freeze"}, b.Classes)
	assert.Equal(t, 9, b.NumFeatures)

	train := b.Train()
	assert.Equal(t, [][]float64{
		scaled(1, 2, 3, 4, 5, 6, 7, 8, 9),
		scaled(10, 20, 30, 40, 50, 60, 70, 80, 90),
		scaled(-1, -2, -3, -4, -5, -6, -7, -8, -9),
	}, train.Inputs)
	assert.Equal(t, []int64{0, 1, 0}, train.Targets)

	assert.Equal(t, 0, b.Validation().Len())
	assert.Empty(t, b.Validation().Inputs)

	assert.Equal(t, [][]float64{scaled(1000, 0, 0, 0, 0, 0, 0, 0, 0), scaled(0, 1000, 0, 0, 0, 0, 0, 0, 0)}, b.Test().Inputs)
	assert.Equal(t, []int64{1, 0}, b.Test().Targets)

	require.Len(t, b.Files, 4)
	assert.Equal(t, FileStats{
		Split: datasets.Train, Path: filepath.Join(root, "dataset", "a.txt"),
		Rows: 4, Kept: 2, Excluded: 1, Missing: 1,
	}, b.Files[0])
	assert.Equal(t, datasets.Validation, b.Files[2].Split)
	assert.Equal(t, 1, b.Files[2].Excluded)

	out := progress.String()
	assert.Contains(t, out, "Reading file 1 of 2\n")
	assert.Contains(t, out, "Reading file 2 of 2\n")
	assert.Equal(t, 3, strings.Count(out, "Reading file 1 of "))
	assert.Len(t, durations, 3)

	for _, split := range datasets.Splits {
		assert.Equal(t, len(b.Split(split).Inputs), len(b.Split(split).Targets))
	}
}

func TestPrepareMissingFile(t *testing.T) {
	root := writeDataset(t, map[string]string{
		"a.txt": "15 1 2 3 4 5 6 7 8 9 1\n",
		"b.txt": "15 1 2 3 4 5 6 7 8 9 1\n",
		"d.txt": "15 1 2 3 4 5 6 7 8 9 1\n",
	})

	_, err := PrepareDefinition(testDef(), root, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, err.Error(), "c.txt")
}

func TestPrepareBadLine(t *testing.T) {
	root := writeDataset(t, map[string]string{
		"a.txt": "15 1 2 3 4 5 6 7 8 9 1\n15 1 2 3 4 5 6 7 8 9 7\n",
		"b.txt": "", "c.txt": "", "d.txt": "",
	})

	_, err := PrepareDefinition(testDef(), root, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a.txt:2")
	assert.Contains(t, err.Error(), `unknown label code "7"`)
}

func TestPrepareUnsupported(t *testing.T) {
	_, err := Prepare("opportunity", "opportunity", Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, datasets.ErrUnsupportedDataset))
}

func TestPrepareInvalidDefinition(t *testing.T) {
	def := testDef()
	def.Scale = 0
	_, err := PrepareDefinition(def, "unused", Options{})
	assert.Error(t, err)
}

package datareader

import (
	"time"

	"github.com/kiteco/hardata/kite-golib/errors"
	"github.com/kiteco/hardata/kite-golib/fileutil"
	"github.com/kiteco/hardata/kite-golib/h5util"
	"github.com/kiteco/hardata/kite-golib/serialization"
	"github.com/kiteco/hardata/local-pipelines/har-datareader/internal/datasets"
)

const (
	inputsKey  = "inputs"
	targetsKey = "targets"
)

// ContainerPath is where the HDF5 container of a dataset lives in dir.
func ContainerPath(dir, name string) string {
	return fileutil.Join(fileutil.TrimSlash(dir), name+".h5")
}

// ClassesPath is where the label index of a dataset lives in dir.
func ClassesPath(dir, name string) string {
	return ContainerPath(dir, name) + ".classes.json"
}

// Persist writes <dir>/<name>.h5 with one group per split holding the "inputs"
// matrix and the "targets" vector, and <dir>/<name>.h5.classes.json with the
// label index. Existing files are replaced. Both files are staged and only moved
// into place once both are complete.
func Persist(b *Bundle, name, dir string, opts Options) (err error) {
	defer opts.record("persist", time.Now())

	containerPath := ContainerPath(dir, name)
	container, err := fileutil.NewStagedFile(containerPath)
	if err != nil {
		return errors.Wrapf(err, "error staging %s", containerPath)
	}
	defer errors.Defer(&err, container.Discard)

	classesPath := ClassesPath(dir, name)
	sidecar, err := fileutil.NewStagedFile(classesPath)
	if err != nil {
		return errors.Wrapf(err, "error staging %s", classesPath)
	}
	defer errors.Defer(&err, sidecar.Discard)

	if err := writeContainer(container.Path, b); err != nil {
		return errors.Wrapf(err, "error writing %s", containerPath)
	}
	classes := b.Classes
	if classes == nil {
		classes = []string{}
	}
	if err := serialization.Encode(sidecar.Path, classes); err != nil {
		return errors.Wrapf(err, "error writing %s", classesPath)
	}

	// sidecar first: a new container is never published without its label index
	if err := sidecar.Commit(); err != nil {
		return errors.Wrapf(err, "error writing %s", classesPath)
	}
	if err := container.Commit(); err != nil {
		return errors.Wrapf(err, "error writing %s", containerPath)
	}

	opts.printf("Done.")
	return nil
}

func writeContainer(path string, b *Bundle) (err error) {
	w, err := h5util.Create(path)
	if err != nil {
		return err
	}
	defer errors.Defer(&err, w.Close)

	for _, split := range datasets.Splits {
		data := b.Split(split)
		if len(data.Inputs) != len(data.Targets) {
			return errors.Errorf("%s: %d inputs but %d targets", split, len(data.Inputs), len(data.Targets))
		}
		if err := w.WriteMatrix(string(split), inputsKey, data.Inputs, b.NumFeatures); err != nil {
			return err
		}
		if err := w.WriteVector(string(split), targetsKey, data.Targets); err != nil {
			return err
		}
	}
	return nil
}

// Load reads a bundle written by Persist back from dir.
func Load(dir, name string) (*Bundle, error) {
	var classes []string
	classesPath := ClassesPath(dir, name)
	if err := serialization.Decode(classesPath, &classes); err != nil {
		return nil, err
	}

	containerPath := ContainerPath(dir, name)
	local, cleanup, err := fileutil.LocalCopy(containerPath)
	if err != nil {
		return nil, errors.Wrapf(err, "error loading %s", containerPath)
	}
	defer cleanup()

	r, err := h5util.Open(local)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if err := checkGroups(r); err != nil {
		return nil, errors.Wrapf(err, "error loading %s", containerPath)
	}

	b := newBundle(name, classes, 0)
	for _, split := range datasets.Splits {
		inputs, cols, err := r.ReadMatrix(string(split), inputsKey)
		if err != nil {
			return nil, errors.Wrapf(err, "error loading %s", containerPath)
		}
		targets, err := r.ReadVector(string(split), targetsKey)
		if err != nil {
			return nil, errors.Wrapf(err, "error loading %s", containerPath)
		}
		if len(inputs) != len(targets) {
			return nil, errors.Errorf("%s: split %s has %d inputs but %d targets", containerPath, split, len(inputs), len(targets))
		}
		b.NumFeatures = cols
		b.Splits[split] = &SplitData{Inputs: inputs, Targets: targets}
	}
	return b, nil
}

// checkGroups requires exactly one group per split.
func checkGroups(r *h5util.Reader) error {
	groups, err := r.Groups()
	if err != nil {
		return err
	}

	found := make(map[string]bool, len(groups))
	for _, g := range groups {
		found[g] = true
	}
	for _, split := range datasets.Splits {
		if !found[string(split)] {
			return errors.Errorf("missing split %s", split)
		}
		delete(found, string(split))
	}
	for g := range found {
		return errors.Errorf("unexpected group %s", g)
	}
	return nil
}

package datareader

import (
	"github.com/kiteco/hardata/kite-golib/fileutil"
)

// DataReader is a prepared and persisted dataset. Its split accessors serve the
// in-memory bundle without touching the written files.
type DataReader struct {
	*Bundle

	// ContainerPath and ClassesPath are the files written by New.
	ContainerPath string
	ClassesPath   string
}

// New prepares the named dataset from root and persists it to opts.OutDir,
// or to root itself when no output directory is given.
func New(name, root string, opts Options) (*DataReader, error) {
	root = fileutil.TrimSlash(root)

	b, err := Prepare(name, root, opts)
	if err != nil {
		return nil, err
	}

	out := opts.OutDir
	if out == "" {
		out = root
	}
	if err := Persist(b, name, out, opts); err != nil {
		return nil, err
	}

	return &DataReader{
		Bundle:        b,
		ContainerPath: ContainerPath(out, name),
		ClassesPath:   ClassesPath(out, name),
	}, nil
}

// Package h5util reads and writes the small subset of HDF5 used for training data:
// top-level groups holding 2-D float64 matrices and 1-D int64 vectors.
package h5util

import (
	"gonum.org/v1/hdf5"

	"github.com/kiteco/hardata/kite-golib/errors"
)

// Writer creates groups and datasets in a new HDF5 file.
type Writer struct {
	path   string
	f      *hdf5.File
	groups map[string]*hdf5.Group
}

// Create creates (or truncates) the HDF5 file at the local path.
func Create(path string) (*Writer, error) {
	f, err := hdf5.CreateFile(path, hdf5.F_ACC_TRUNC)
	if err != nil {
		return nil, errors.Wrapf(err, "error creating %s", path)
	}
	return &Writer{
		path:   path,
		f:      f,
		groups: make(map[string]*hdf5.Group),
	}, nil
}

func (w *Writer) group(name string) (*hdf5.Group, error) {
	if g, ok := w.groups[name]; ok {
		return g, nil
	}
	g, err := w.f.CreateGroup(name)
	if err != nil {
		return nil, errors.Wrapf(err, "error creating group %s in %s", name, w.path)
	}
	w.groups[name] = g
	return g, nil
}

// WriteMatrix writes rows as a rows x cols float64 dataset at group/name.
// cols is explicit so that an empty matrix keeps its width.
func (w *Writer) WriteMatrix(group, name string, rows [][]float64, cols int) error {
	flat := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return errors.Errorf("%s/%s: row %d has %d columns, expected %d", group, name, i, len(row), cols)
		}
		flat = append(flat, row...)
	}
	return w.write(group, name, hdf5.T_NATIVE_DOUBLE, []uint{uint(len(rows)), uint(cols)}, &flat, len(flat))
}

// WriteVector writes v as a 1-D int64 dataset at group/name.
func (w *Writer) WriteVector(group, name string, v []int64) error {
	return w.write(group, name, hdf5.T_NATIVE_INT64, []uint{uint(len(v))}, &v, len(v))
}

func (w *Writer) write(group, name string, dtype *hdf5.Datatype, dims []uint, data interface{}, n int) (err error) {
	g, err := w.group(group)
	if err != nil {
		return err
	}

	space, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		return errors.Wrapf(err, "error creating dataspace for %s/%s", group, name)
	}
	defer errors.Defer(&err, space.Close)

	dset, err := g.CreateDataset(name, dtype, space)
	if err != nil {
		return errors.Wrapf(err, "error creating dataset %s/%s", group, name)
	}
	defer errors.Defer(&err, dset.Close)

	// the library cannot take the address of an empty slice
	if n == 0 {
		return nil
	}
	return errors.WrapfOrNil(dset.Write(data), "error writing %s/%s", group, name)
}

// Close closes every group and then the file.
func (w *Writer) Close() error {
	var err error
	for name, g := range w.groups {
		err = errors.Combine(err, g.Close())
		delete(w.groups, name)
	}
	return errors.Combine(err, w.f.Close())
}

// --

// Reader reads datasets written by Writer.
type Reader struct {
	path string
	f    *hdf5.File
}

// Open opens the HDF5 file at the local path read-only.
func Open(path string) (*Reader, error) {
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening %s", path)
	}
	return &Reader{path: path, f: f}, nil
}

// Groups lists the top-level objects of the file.
func (r *Reader) Groups() ([]string, error) {
	n, err := r.f.NumObjects()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, n)
	for i := uint(0); i < n; i++ {
		name, err := r.f.ObjectNameByIndex(i)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// ReadMatrix reads a 2-D float64 dataset.
func (r *Reader) ReadMatrix(group, name string) ([][]float64, int, error) {
	var flat []float64
	dims, err := r.read(group, name, 2, func(n int) interface{} {
		flat = make([]float64, n)
		return &flat
	})
	if err != nil {
		return nil, 0, err
	}

	nrows, ncols := int(dims[0]), int(dims[1])
	rows := make([][]float64, nrows)
	for i := range rows {
		rows[i] = flat[i*ncols : (i+1)*ncols : (i+1)*ncols]
	}
	return rows, ncols, nil
}

// ReadVector reads a 1-D int64 dataset.
func (r *Reader) ReadVector(group, name string) ([]int64, error) {
	var v []int64
	_, err := r.read(group, name, 1, func(n int) interface{} {
		v = make([]int64, n)
		return &v
	})
	return v, err
}

func (r *Reader) read(group, name string, rank int, alloc func(n int) interface{}) (dims []uint, err error) {
	g, err := r.f.OpenGroup(group)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening group %s in %s", group, r.path)
	}
	defer errors.Defer(&err, g.Close)

	dset, err := g.OpenDataset(name)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening dataset %s/%s in %s", group, name, r.path)
	}
	defer errors.Defer(&err, dset.Close)

	space := dset.Space()
	defer errors.Defer(&err, space.Close)

	dims, _, err = space.SimpleExtentDims()
	if err != nil {
		return nil, err
	}
	if len(dims) != rank {
		return nil, errors.Errorf("%s/%s: expected rank %d, found %d", group, name, rank, len(dims))
	}

	n := 1
	for _, d := range dims {
		n *= int(d)
	}
	data := alloc(n)
	if n == 0 {
		return dims, nil
	}
	if err := dset.Read(data); err != nil {
		return nil, errors.Wrapf(err, "error reading %s/%s", group, name)
	}
	return dims, nil
}

// Close closes the file.
func (r *Reader) Close() error {
	return r.f.Close()
}

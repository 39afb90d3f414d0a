package serialization

import (
	"compress/gzip"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/kiteco/hardata/kite-golib/fileutil"
)

// Encode writes the object to the path, using the format specified by the file
// extension, which can be .json or .gob. The path may additionally have a .gz
// suffix, in which case the stream will be compressed. Local and s3:// paths are
// supported; an existing file is overwritten.
func Encode(path string, obj interface{}) (err error) {
	enc, err := NewEncoder(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := enc.Close(); err == nil {
			err = cerr
		}
	}()
	return enc.Encode(obj)
}

// Encoder is an interface that matches gob.Encoder and json.Encoder
type Encoder interface {
	// Encode adds an item to the stream
	Encode(interface{}) error
}

// EncodeCloser is an encoder that can also close its underlying stream
type EncodeCloser struct {
	encoder Encoder
	closers []io.Closer
}

// Encode writes an object to the underlying stream
func (e *EncodeCloser) Encode(x interface{}) error {
	return e.encoder.Encode(x)
}

// Close closes the underlying stream
func (e *EncodeCloser) Close() error {
	var closeErr error
	// We must close in reverse order
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil && closeErr == nil {
			closeErr = err
		}
	}
	return closeErr
}

// NewEncoder opens the specified path and returns an encoder that writes in the format
// specified by the file extension (.json or .gob, optionally followed by .gz).
func NewEncoder(path string) (*EncodeCloser, error) {
	inpath := path
	format, compressed, err := formatOf(path)
	if err != nil {
		return nil, err
	}

	f, err := fileutil.NewBufferedWriter(inpath)
	if err != nil {
		return nil, fmt.Errorf("error creating %s: %v", inpath, err)
	}

	var w io.Writer = f
	closers := []io.Closer{f}
	if compressed {
		gz := gzip.NewWriter(f)
		w = gz
		closers = append(closers, gz)
	}

	var e Encoder
	switch format {
	case ".json":
		e = json.NewEncoder(w)
	case ".gob":
		e = gob.NewEncoder(w)
	}

	return &EncodeCloser{
		encoder: e,
		closers: closers,
	}, nil
}

// formatOf returns the encoding extension of path and whether it is gzipped.
func formatOf(path string) (string, bool, error) {
	compressed := strings.HasSuffix(path, ".gz")
	trimmed := strings.TrimSuffix(path, ".gz")
	for _, ext := range []string{".json", ".gob"} {
		if strings.HasSuffix(trimmed, ext) {
			return ext, compressed, nil
		}
	}
	return "", false, fmt.Errorf("could not find encoding for %s", path)
}

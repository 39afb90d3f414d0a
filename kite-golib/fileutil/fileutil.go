package fileutil

import (
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/kiteco/hardata/kite-golib/awsutil"
	"github.com/kiteco/hardata/kite-golib/errors"
)

// NewReader opens a local or remote path for reading. If the path looks like
// "s3://bucket/path/to/object" then this will read an object from S3. Otherwise, this
// will read a path from the local filesystem.
func NewReader(path string) (io.ReadCloser, error) {
	if awsutil.IsS3URI(path) {
		return awsutil.NewS3Reader(path)
	}
	return os.Open(path)
}

// NamedWriteCloser is a file-like object extending io.WriteCloser with a string Name() similar to os.File.Name()
type NamedWriteCloser interface {
	io.WriteCloser
	Name() string
}

// NewBufferedWriter opens a local or remote path for writing. If the path starts with
// "s3://", then this will write to a local buffer, copying to s3 on close. Otherwise,
// this will write to the local FS, truncating any existing file.
func NewBufferedWriter(path string) (NamedWriteCloser, error) {
	if awsutil.IsS3URI(path) {
		return awsutil.NewBufferedS3Writer(path)
	}
	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return nil, err
	}
	return os.Create(path)
}

// LocalCopy returns a local path holding the contents of path. Local paths are
// returned as is; remote ones are downloaded to a temporary file which cleanup removes.
func LocalCopy(path string) (local string, cleanup func() error, err error) {
	if !awsutil.IsS3URI(path) {
		if _, err := os.Stat(path); err != nil {
			return "", nil, err
		}
		return path, func() error { return nil }, nil
	}

	r, err := NewReader(path)
	if err != nil {
		return "", nil, err
	}
	defer errors.Defer(&err, r.Close)

	f, err := ioutil.TempFile("", "download")
	if err != nil {
		return "", nil, err
	}
	remove := func() error { return os.Remove(f.Name()) }

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		remove()
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		remove()
		return "", nil, err
	}
	return f.Name(), remove, nil
}

// StagedFile is a local scratch file for writers that need a real filename
// (cgo libraries and the like). Nothing appears at the destination until Commit.
type StagedFile struct {
	// Path is the local file to write to
	Path string

	dest      string
	committed bool
}

// NewStagedFile creates an empty scratch file for dest. Local destinations are staged
// next to the destination so that Commit is a rename on the same filesystem.
func NewStagedFile(dest string) (*StagedFile, error) {
	dir := os.TempDir()
	if !awsutil.IsS3URI(dest) {
		dir = filepath.Dir(dest)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	// the random part goes first so the scratch file keeps dest's extensions
	f, err := ioutil.TempFile(dir, ".tmp*-"+filepath.Base(dest))
	if err != nil {
		return nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, err
	}
	return &StagedFile{Path: f.Name(), dest: dest}, nil
}

// Commit publishes the staged file to its destination, replacing whatever is there.
func (s *StagedFile) Commit() (err error) {
	if s.committed {
		return errors.Errorf("%s already committed", s.dest)
	}

	if !awsutil.IsS3URI(s.dest) {
		if err := os.Chmod(s.Path, 0644); err != nil {
			return err
		}
		if err := os.Rename(s.Path, s.dest); err != nil {
			return err
		}
		s.committed = true
		return nil
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return err
	}
	defer errors.Defer(&err, f.Close)

	if err := awsutil.S3PutObject(f, s.dest); err != nil {
		return err
	}
	s.committed = true
	return os.Remove(s.Path)
}

// Discard removes the scratch file if it was not committed. Safe to defer.
func (s *StagedFile) Discard() error {
	if s.committed {
		return nil
	}
	err := os.Remove(s.Path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

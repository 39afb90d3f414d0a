package awsutil

import (
	"io"
	"io/ioutil"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/kiteco/hardata/kite-golib/envutil"
	"github.com/kiteco/hardata/kite-golib/errors"
)

// defaultRegion is used to look up bucket locations.
var defaultRegion = envutil.GetenvDefault("AWS_REGION", "us-west-1")

// newClient builds the client for a region; tests swap it for a fake.
var newClient = func(region string) (s3iface.S3API, error) {
	return NewS3(region)
}

// IsS3URI returns true if the path is an s3 uri.
func IsS3URI(path string) bool {
	return strings.HasPrefix(path, "s3://")
}

// NewS3 creates an s3 client.
func NewS3(region string) (*s3.S3, error) {
	sess, err := session.NewSession()
	if err != nil {
		return nil, err
	}

	return s3.New(sess, aws.NewConfig().WithRegion(region)), nil
}

// NewS3Reader returns a io.ReadCloser that will read the contents
// of the file pointed to by the uri. URI will be of the form
// s3://bucket-name/path/to/file
func NewS3Reader(uri string) (io.ReadCloser, error) {
	s3url, err := ValidateURI(uri)
	if err != nil {
		return nil, err
	}

	client, err := bucketClient(s3url)
	if err != nil {
		return nil, err
	}

	out, err := client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(s3url.Host),
		Key:    aws.String(objectKey(s3url)),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "error getting %s", uri)
	}
	return out.Body, nil
}

// S3PutObject writes the contents of the specified reader
// to the specified s3 URI.
func S3PutObject(r io.ReadSeeker, uri string) error {
	s3url, err := ValidateURI(uri)
	if err != nil {
		return err
	}

	client, err := bucketClient(s3url)
	if err != nil {
		return err
	}

	_, err = client.PutObject(&s3.PutObjectInput{
		Bucket: aws.String(s3url.Host),
		Key:    aws.String(objectKey(s3url)),
		Body:   r,
	})
	return errors.WrapfOrNil(err, "error putting %s", uri)
}

// NamedWriteCloser is a file-like object extending io.WriteCloser with a string Name() similar to os.File.Name()
type NamedWriteCloser interface {
	io.WriteCloser
	Name() string
}

type bufferedS3Writer struct {
	f     *os.File
	s3uri *url.URL
}

// Write writes to disk
func (w bufferedS3Writer) Write(p []byte) (int, error) {
	return w.f.Write(p)
}

// Close copies the buffered data to s3 and removes the buffer file
func (w bufferedS3Writer) Close() (err error) {
	defer os.Remove(w.f.Name())
	defer errors.Defer(&err, w.f.Close)

	if err := w.f.Sync(); err != nil {
		return err
	}
	if _, err := w.f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	return S3PutObject(w.f, w.s3uri.String())
}

// Name returns the destination uri
func (w bufferedS3Writer) Name() string {
	return w.s3uri.String()
}

// NewBufferedS3Writer returns an io.WriteCloser that will write
// to disk and upload to S3 on Close
func NewBufferedS3Writer(uri string) (NamedWriteCloser, error) {
	s3url, err := ValidateURI(uri)
	if err != nil {
		return nil, err
	}

	f, err := ioutil.TempFile("", "s3buffer")
	if err != nil {
		return nil, err
	}
	return bufferedS3Writer{f: f, s3uri: s3url}, nil
}

// --

// ValidateURI checks whether the given uri points to S3.
func ValidateURI(uri string) (*url.URL, error) {
	s3url, err := url.Parse(uri)
	if err != nil {
		return nil, err
	}
	if s3url.Scheme != "s3" {
		return nil, errors.Errorf("%s: url is not a s3 path", uri)
	}
	if s3url.Host == "" {
		return nil, errors.Errorf("%s: missing bucket", uri)
	}
	return s3url, nil
}

func objectKey(s3url *url.URL) string {
	return strings.TrimPrefix(s3url.Path, "/")
}

// bucketClient returns a client for the region the bucket lives in.
func bucketClient(s3url *url.URL) (s3iface.S3API, error) {
	region, err := objectRegion(s3url)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to determine region")
	}
	return newClient(region)
}

func objectRegion(uri *url.URL) (string, error) {
	client, err := newClient(defaultRegion)
	if err != nil {
		return "", err
	}

	out, err := client.GetBucketLocation(&s3.GetBucketLocationInput{
		Bucket: aws.String(uri.Host),
	})
	if err != nil {
		return "", err
	}

	if out.LocationConstraint == nil || *out.LocationConstraint == "" {
		return "us-east-1", nil
	}
	return *out.LocationConstraint, nil
}

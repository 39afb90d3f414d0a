package serialization

import (
	"compress/gzip"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"

	"github.com/kiteco/hardata/kite-golib/fileutil"
)

// Decoder is an interface that matches gob.Decoder and json.Decoder
type Decoder interface {
	// Decode extracts an object from the stream
	Decode(interface{}) error
}

// Decode loads the object written by Encode at path into the pointer obj:
//
//   var classes []string
//   err := serialization.Decode("daphnet.h5.classes.json", &classes)
func Decode(path string, obj interface{}) error {
	r, err := fileutil.NewReader(path)
	if err != nil {
		return fmt.Errorf("error loading %s: %v", path, err)
	}
	defer r.Close()
	return decodeAs(r, path, obj)
}

// decodeAs is like Decode but uses the provided path to determine the compression and
// encoding used in the file.
func decodeAs(r io.Reader, path string, obj interface{}) error {
	format, compressed, err := formatOf(path)
	if err != nil {
		return err
	}

	if compressed {
		rd, err := gzip.NewReader(r)
		if err != nil {
			return fmt.Errorf("error loading %s: %v", path, err)
		}
		defer rd.Close()
		r = rd
	}

	var d Decoder
	switch format {
	case ".json":
		d = json.NewDecoder(r)
	case ".gob":
		d = gob.NewDecoder(r)
	}

	if err := d.Decode(obj); err != nil {
		return fmt.Errorf("error decoding %s: %v", path, err)
	}
	return nil
}

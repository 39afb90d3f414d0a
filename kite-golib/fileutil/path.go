package fileutil

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/kiteco/hardata/kite-golib/awsutil"
)

const s3Scheme = "s3://"

// Join joins path elements. Local paths are joined with filepath.Join and never
// escaped, so any character valid in a file name survives. S3 URIs keep their
// scheme and bucket and join the key with forward slashes.
func Join(parts ...string) string {
	if len(parts) == 0 {
		return ""
	}
	if !awsutil.IsS3URI(parts[0]) {
		return filepath.Join(parts...)
	}

	elems := make([]string, len(parts))
	copy(elems, parts)
	elems[0] = strings.TrimPrefix(parts[0], s3Scheme)
	return s3Scheme + path.Join(elems...)
}

// TrimSlash strips trailing slashes, keeping a lone "/" intact.
func TrimSlash(p string) string {
	trimmed := strings.TrimRight(p, "/")
	if trimmed == "" && p != "" {
		return "/"
	}
	return trimmed
}

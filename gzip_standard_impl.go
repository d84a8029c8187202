//go:build standard_gzip
// +build standard_gzip

package tmeta

import (
	"compress/gzip"
	"io"
)

// newGzipReader returns a gzip decompressor backed by the standard
// library, selected by the standard_gzip build tag.
func newGzipReader(reader io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(reader)
}

func newGzipWriter(w io.Writer) io.WriteCloser {
	return gzip.NewWriter(w)
}

//go:build !standard_gzip || klauspost_gzip
// +build !standard_gzip klauspost_gzip

package tmeta

import (
	"io"

	gzip "github.com/klauspost/compress/gzip"
)

// newGzipReader returns a gzip decompressor backed by the klauspost
// implementation. Build with the standard_gzip tag to use the standard
// library instead.
func newGzipReader(reader io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(reader)
}

func newGzipWriter(w io.Writer) io.WriteCloser {
	return gzip.NewWriter(w)
}

package tmeta

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// -------- Perf knobs (env tunables) --------

const (
	envMaxInMemSize        = "TMETAMaxInMemorySize"        // in bytes; compiled-catalog spooling threshold; if not set, calls NewSpooledTempFile with -1 which will default internally to MaxInMemorySize (1MB)
	envZstdDecoderConc     = "TMETAZstdDecoderConcurrency" // >1 enables parallel Zstd decode; if not set, defaults to defaultZstdDecoderConc (1)
	defaultZstdDecoderConc = 1                             // default Zstd decoder concurrency (1 == no parallelism)
)

const (
	magicGZip           = "\x1f\x8b"                 // Magic bytes for the Gzip format (RFC 1952, section 2.3.1)
	magicBZip2          = "\x42\x5a"                 // Magic bytes for the BZip2 format (no formal spec exists)
	magicXZ             = "\xfd\x37\x7a\x58\x5a\x00" // Magic bytes for the XZ format (https://tukaani.org/xz/xz-file-format.txt)
	magicZStdFrame      = "\x28\xb5\x2f\xfd"         // Magic bytes for the ZStd frame format (RFC 8478, section 3.1.1)
	magicMOLittleEndian = "\xde\x12\x04\x95"         // Magic bytes of a little-endian compiled catalog
	magicMOBigEndian    = "\x95\x04\x12\xde"         // Magic bytes of a big-endian compiled catalog

	// magicPeekSize is the longest compression magic we sniff (XZ).
	magicPeekSize = 6
)

// Format identifies a catalog serialization.
type Format int

const (
	FormatUnknown Format = iota
	// FormatMO is the compiled binary catalog format.
	FormatMO
	// FormatPO is the plain-text catalog format.
	FormatPO
	// FormatJSON is the JSON catalog format.
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatMO:
		return "mo"
	case FormatPO:
		return "po"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// newDecompressionReader returns a reader transparently decompressing
// GZip, BZip2, XZ and ZStd input, identified by magic bytes. Input
// matching none of them passes through unmodified.
func newDecompressionReader(br *bufio.Reader) (io.ReadCloser, error) {
	magic, err := br.Peek(magicPeekSize)
	if len(magic) < 2 {
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("peek magic bytes: %w", err)
		}
		// Too short for any magic; hand it through untouched.
		return io.NopCloser(br), nil
	}

	switch {
	case string(magic[0:2]) == magicGZip:
		dr, err := newGzipReader(br)
		if err != nil {
			return nil, fmt.Errorf("read GZip stream: %w", err)
		}
		return dr, nil

	case string(magic[0:2]) == magicBZip2:
		return io.NopCloser(bzip2.NewReader(br)), nil

	case len(magic) >= 6 && string(magic[0:6]) == magicXZ:
		dr, err := xz.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("read XZ stream: %w", err)
		}
		return io.NopCloser(dr), nil

	case len(magic) >= 4 && string(magic[0:4]) == magicZStdFrame:
		dr, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(zstdDecoderConcurrency()))
		if err != nil {
			return nil, fmt.Errorf("read ZStd stream: %w", err)
		}
		return dr.IOReadCloser(), nil

	default:
		return io.NopCloser(br), nil
	}
}

func zstdDecoderConcurrency() int {
	if s := os.Getenv(envZstdDecoderConc); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			// v==0 lets zstd pick an automatic value; v>=1 sets exact goroutines.
			return v
		}
	}
	return defaultZstdDecoderConc
}

// DetectFormat identifies the catalog serialization from its leading
// bytes, after any compression layer has been removed. Compiled catalogs
// are recognized by their magic number; for text input the first
// non-blank line decides between JSON and the PO line shapes.
func DetectFormat(peek []byte) Format {
	if len(peek) >= 4 {
		switch string(peek[0:4]) {
		case magicMOLittleEndian, magicMOBigEndian:
			return FormatMO
		}
	}

	peek = bytes.TrimPrefix(peek, []byte("\xef\xbb\xbf"))

	for _, line := range bytes.Split(peek, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if line[0] == '{' {
			return FormatJSON
		}
		if line[0] == '#' || line[0] == '"' ||
			bytes.HasPrefix(line, []byte("msgid")) || bytes.HasPrefix(line, []byte("msgctxt")) {
			return FormatPO
		}
		return FormatUnknown
	}

	return FormatUnknown
}

// spoolThreshold returns the in-memory spooling threshold for compiled
// catalogs, or -1 to use the spool's built-in default.
func spoolThreshold() int {
	if s := os.Getenv(envMaxInMemSize); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			return v
		}
	}
	return -1
}

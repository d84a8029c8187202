package tmeta

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// detectPeekSize is how many decompressed bytes DetectFormat gets to
// look at. Large enough to get past leading comment blocks in text
// catalogs.
const detectPeekSize = 512

var (
	// ErrUnknownFormat means the input matched no known catalog
	// serialization.
	ErrUnknownFormat = errors.New("unknown catalog format")
	// ErrNoHeader means the catalog is readable but carries no header
	// entry.
	ErrNoHeader = errors.New("catalog has no header entry")
)

// ReadHeader reads the raw header fields of a catalog in any supported
// format, transparently decompressing gzip, bzip2, xz and zstd input.
// It returns the fields as spelled in the file along with the detected
// format; Reconcile turns them into canonical metadata.
func ReadHeader(r io.Reader) (RawHeader, Format, error) {
	dec, err := newDecompressionReader(bufio.NewReader(r))
	if err != nil {
		return nil, FormatUnknown, err
	}
	defer dec.Close()

	br := bufio.NewReader(dec)
	peek, err := br.Peek(detectPeekSize)
	if len(peek) == 0 {
		if err != nil && err != io.EOF {
			return nil, FormatUnknown, fmt.Errorf("peek catalog: %w", err)
		}
		return nil, FormatUnknown, ErrUnknownFormat
	}

	format := DetectFormat(peek)

	var raw RawHeader
	switch format {
	case FormatMO:
		raw, err = ReadMOHeader(br)
	case FormatPO:
		raw, err = ReadPOHeader(br)
	case FormatJSON:
		raw, err = ReadJSONHeader(br)
	default:
		return nil, FormatUnknown, ErrUnknownFormat
	}
	if err != nil {
		return nil, format, fmt.Errorf("read %s header: %w", format, err)
	}

	return raw, format, nil
}

// ReadMetadata reads, reconciles and wraps the header of a catalog in
// any supported format.
func ReadMetadata(r io.Reader) (*Metadata, Format, error) {
	raw, format, err := ReadHeader(r)
	if err != nil {
		return nil, format, err
	}
	return NewMetadata(raw), format, nil
}

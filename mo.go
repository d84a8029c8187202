package tmeta

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/TrayDigita/Translation-Meta/pkg/spooledtempfile"
)

const (
	moMagicLittleEndian uint32 = 0x950412de
	moMagicBigEndian    uint32 = 0xde120495
)

var (
	// ErrBadMagic means the input does not start with a compiled-catalog
	// magic number.
	ErrBadMagic = errors.New("not a compiled catalog: bad magic")
	// ErrUnsupportedRevision means the compiled catalog uses a format
	// revision this reader does not understand.
	ErrUnsupportedRevision = errors.New("unsupported catalog revision")
)

// ReadMOHeader extracts the raw header fields from a compiled (binary)
// catalog. The stream is spooled to allow random access over the string
// tables, so compressed input works the same as a plain file. Only the
// header entry is decoded; message bodies are never materialized.
func ReadMOHeader(r io.Reader) (RawHeader, error) {
	spool := spooledtempfile.NewSpooledTempFile("catalog", "", spoolThreshold(), false, -1)
	defer spool.Close()

	if _, err := io.Copy(spool, r); err != nil {
		return nil, fmt.Errorf("spooling catalog: %w", err)
	}

	// First word identifies the byte order.
	var magic uint32
	if err := binary.Read(spool, binary.LittleEndian, &magic); err != nil {
		return nil, fmt.Errorf("reading magic: %w", err)
	}

	var order binary.ByteOrder
	switch magic {
	case moMagicLittleEndian:
		order = binary.LittleEndian
	case moMagicBigEndian:
		order = binary.BigEndian
	default:
		return nil, ErrBadMagic
	}

	// Next two words: major and minor revision numbers.
	var major, minor uint16
	if err := binary.Read(spool, order, &major); err != nil {
		return nil, fmt.Errorf("reading revision: %w", err)
	}
	if err := binary.Read(spool, order, &minor); err != nil {
		return nil, fmt.Errorf("reading revision: %w", err)
	}
	if major > 1 || minor > 1 {
		return nil, fmt.Errorf("%w: %d.%d", ErrUnsupportedRevision, major, minor)
	}

	// Next five words: number of messages, offset of the messages table,
	// offset of the translations table, hash table size and offset (the
	// last two are ignored).
	var words [5]uint32
	for i := range words {
		if err := binary.Read(spool, order, &words[i]); err != nil {
			return nil, fmt.Errorf("reading catalog index: %w", err)
		}
	}
	count, msgTable, trnTable := words[0], words[1], words[2]

	// Each table entry is 8 bytes, so more entries than fit in the file
	// means a corrupt count word.
	if size := spool.Len(); size >= 0 && uint64(count) > uint64(size)/8 {
		return nil, fmt.Errorf("message count %d exceeds catalog size %d", count, size)
	}

	// The header lives in the translation of the empty msgid.
	for i := uint32(0); i < count; i++ {
		msg, err := readMOString(spool, order, msgTable+i*8)
		if err != nil {
			return nil, fmt.Errorf("reading message %d: %w", i, err)
		}
		if len(msg) != 0 {
			continue
		}

		trn, err := readMOString(spool, order, trnTable+i*8)
		if err != nil {
			return nil, fmt.Errorf("reading header block: %w", err)
		}
		return parseHeaderBlock(string(trn)), nil
	}

	return nil, ErrNoHeader
}

// readMOString reads one {length, offset} table entry and the string it
// points at.
func readMOString(f spooledtempfile.ReadSeekCloser, order binary.ByteOrder, entry uint32) ([]byte, error) {
	var hdr [8]byte
	if _, err := f.ReadAt(hdr[:], int64(entry)); err != nil {
		return nil, err
	}
	length := order.Uint32(hdr[0:4])
	offset := order.Uint32(hdr[4:8])

	// A string that runs past the end of the file means a corrupt table
	// entry.
	if size := f.Len(); size >= 0 && uint64(offset)+uint64(length) > uint64(size) {
		return nil, fmt.Errorf("string of %d bytes at %d exceeds catalog size %d", length, offset, size)
	}

	b := make([]byte, length)
	if _, err := f.ReadAt(b, int64(offset)); err != nil {
		return nil, err
	}
	return b, nil
}

// parseHeaderBlock splits the translation block of the empty msgid entry
// into header fields following GNU conventions: one "Key: Value" field
// per line, lines without a colon appended to the previous field. Keys
// are kept as spelled; canonicalization happens during reconciliation.
func parseHeaderBlock(block string) RawHeader {
	raw := make(RawHeader)
	var lastKey string

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if i := strings.Index(line, ":"); i != -1 {
			key := strings.TrimSpace(line[:i])
			value := strings.TrimSpace(line[i+1:])
			raw[key] = value
			lastKey = key
		} else if lastKey != "" {
			raw[lastKey] = raw[lastKey].(string) + "\n" + line
		}
	}

	return raw
}

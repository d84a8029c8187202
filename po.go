package tmeta

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ReadPOHeader extracts the raw header fields from a plain-text catalog.
// The header is the translation of the leading empty-msgid entry; the
// scan stops as soon as that entry ends, so message bodies are never
// parsed. A catalog whose first entry has a non-empty msgid carries no
// header and yields ErrNoHeader.
func ReadPOHeader(r io.Reader) (RawHeader, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		header    strings.Builder
		field     string // last keyword seen, "msgid" or "msgstr"
		started   bool   // inside the first entry
		candidate bool   // the first entry's msgid is still empty
	)

scan:
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "" || line[0] == '#':
			// Blank lines and comments end the first entry once it began.
			if started {
				break scan
			}

		case strings.HasPrefix(line, "msgid "):
			if started {
				// A second entry begins: the first one is complete.
				break scan
			}
			started = true
			candidate = unquotePO(strings.TrimPrefix(line, "msgid")) == ""
			field = "msgid"

		case strings.HasPrefix(line, "msgstr"):
			if !started {
				break scan
			}
			header.WriteString(unquotePO(strings.TrimPrefix(line, "msgstr")))
			field = "msgstr"

		case line[0] == '"':
			// Continuation of the previous msgid/msgstr string.
			value := unquotePO(line)
			switch field {
			case "msgid":
				if value != "" {
					candidate = false
				}
			case "msgstr":
				header.WriteString(value)
			}

		default:
			// msgctxt or any other keyword ahead of the header entry.
			if started {
				break scan
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	if !candidate {
		return nil, ErrNoHeader
	}

	return parseHeaderBlock(header.String()), nil
}

// unquotePO removes the PO-style quoting from a string literal,
// resolving the \n, \t, \r, \\ and \" escapes. Unknown escapes are kept
// verbatim. Input without surrounding quotes is returned as-is.
func unquotePO(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	s = s[1 : len(s)-1]

	var result strings.Builder
	result.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				result.WriteByte('\n')
				i++
			case 't':
				result.WriteByte('\t')
				i++
			case 'r':
				result.WriteByte('\r')
				i++
			case '\\':
				result.WriteByte('\\')
				i++
			case '"':
				result.WriteByte('"')
				i++
			default:
				result.WriteByte(s[i])
			}
		} else {
			result.WriteByte(s[i])
		}
	}

	return result.String()
}

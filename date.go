package tmeta

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateLayout is the single output format for normalized header timestamps.
const dateLayout = "2006-01-02 15:04:05-0700"

var (
	// datetimeRe matches the loose timestamp spellings seen in catalog
	// headers: digit groups joined by "-", ":" or whitespace (plus "T"
	// between date and time), an optional fractional second, and a
	// trailing zone designator of arbitrary shape.
	datetimeRe = regexp.MustCompile(`^(\d{4})[-:\s]+(0[0-9]|1[0-2])[-:\s]+([0-2][0-9]|3[01])[-:\sTt]+([01][0-9]|2[0-4]):([0-5][0-9]):([0-5][0-9])(?:[.,]\d+)?(.*)$`)

	// bareZoneDigitRe catches malformed offsets like "GMT6" or "UTC6"
	// where the "+" went missing.
	bareZoneDigitRe = regexp.MustCompile(`(UTC|GMT)(\d)`)

	// zoneOffsetRe matches numeric zone offsets, with or without a
	// "GMT"/"UTC" prefix and with or without a colon.
	zoneOffsetRe = regexp.MustCompile(`^(?:GMT|UTC)?\s*([+-])(\d{1,2})(?::?([0-9]{2}))?$`)
)

// NormalizeDate parses the inconsistent timestamp spellings found in
// catalog headers and reformats them as "YYYY-MM-DD HH:MM:SS±HHMM".
// Parsing is best-effort: anything that does not resolve to a real
// calendar instant comes back as the empty string, never as an error.
func NormalizeDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	m := datetimeRe.FindStringSubmatch(s)
	if m == nil {
		return ""
	}

	zone := strings.TrimSpace(m[7])
	zone = bareZoneDigitRe.ReplaceAllString(zone, "${1}+${2}")

	stamp := m[1] + "-" + m[2] + "-" + m[3] + " " + m[4] + ":" + m[5] + ":" + m[6]
	t, err := time.ParseInLocation("2006-01-02 15:04:05", stamp, zoneLocation(zone))
	if err != nil {
		// Patterns like month 00 or hour 24 pass the regex but are not
		// real instants.
		return ""
	}

	return t.Format(dateLayout)
}

// zoneLocation resolves the trailing zone designator of a header
// timestamp. Designators that are neither a recognized name nor a numeric
// offset fall back to UTC rather than failing the whole parse.
func zoneLocation(zone string) *time.Location {
	switch strings.ToUpper(zone) {
	case "", "Z", "UTC", "GMT":
		return time.UTC
	}

	m := zoneOffsetRe.FindStringSubmatch(zone)
	if m == nil {
		return time.UTC
	}

	hours, _ := strconv.Atoi(m[2])
	minutes := 0
	if m[3] != "" {
		minutes, _ = strconv.Atoi(m[3])
	}

	offset := hours*3600 + minutes*60
	if m[1] == "-" {
		offset = -offset
	}

	return time.FixedZone(zone, offset)
}

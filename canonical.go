package tmeta

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Canonical header field names. Every spelling found in a catalog maps onto
// one of these via CanonicalKey; unknown fields pass through the same
// pipeline and keep whatever canonical form falls out of it.
const (
	FieldPOTCreationDate  = "POT-Creation-Date"
	FieldPORevisionDate   = "PO-Revision-Date"
	FieldProjectIdVersion = "Project-Id-Version"
	FieldXGenerator       = "X-Generator"
	FieldLanguage         = "Language"
	FieldLanguageTeam     = "Language-Team"
	FieldLocale           = "Locale"
	FieldVersion          = "Version"
	FieldCreationDate     = "Creation-Date"
	FieldRevisionDate     = "Revision-Date"
	FieldGenerator        = "Generator"
	FieldTeam             = "Team"
)

// canonicalFields lists every known header field. Reconcile seeds each
// result from this set so the full key set is always present, even if empty.
var canonicalFields = []string{
	FieldPOTCreationDate,
	FieldPORevisionDate,
	FieldProjectIdVersion,
	FieldXGenerator,
	FieldLanguage,
	FieldLanguageTeam,
	FieldLocale,
	FieldVersion,
	FieldCreationDate,
	FieldRevisionDate,
	FieldGenerator,
	FieldTeam,
}

// keySeparatorRe matches the separator runs found in header-name spellings.
var keySeparatorRe = regexp.MustCompile(`[\s_-]+`)

// CanonicalKey maps an arbitrary header-name spelling to its canonical
// form. Separator runs collapse to "-" and each segment is title-cased,
// except that the gettext "POT-"/"PO-" prefixes keep their upper-case
// spelling. The function is idempotent and total; empty or separator-only
// input yields the empty string.
func CanonicalKey(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return ""
	}

	key = keySeparatorRe.ReplaceAllString(key, "-")
	key = strings.Trim(key, "-")
	if key == "" {
		return ""
	}

	prefix := ""
	switch {
	case strings.HasPrefix(key, "pot-"):
		prefix, key = "POT-", key[len("pot-"):]
	case strings.HasPrefix(key, "po-"):
		prefix, key = "PO-", key[len("po-"):]
	}

	segments := strings.Split(key, "-")
	for i, segment := range segments {
		r, size := utf8.DecodeRuneInString(segment)
		segments[i] = string(unicode.ToUpper(r)) + segment[size:]
	}

	return prefix + strings.Join(segments, "-")
}

package tmeta

import (
	"regexp"
	"strings"
)

// localeRe splits a locale code at the last separator run: a lazy language
// prefix followed by a letters-only region suffix.
var localeRe = regexp.MustCompile(`^(.*?)[-_]+([A-Za-z]+)$`)

// NormalizeLocale rewrites locale codes into the lower_UPPER convention
// used by gettext catalog directories: "en-us" and "en_US" both become
// "en_US" while a bare language code comes back lower-cased. Input that
// does not look like a locale code is returned trimmed but otherwise
// unchanged.
func NormalizeLocale(raw string) string {
	locale := strings.TrimSpace(raw)
	if locale == "" {
		return ""
	}

	m := localeRe.FindStringSubmatch(locale)
	if m == nil {
		if isAlpha(locale) {
			return strings.ToLower(locale)
		}
		return locale
	}

	lang := strings.Trim(m[1], "-_")
	if lang == "" {
		return strings.ToLower(m[2])
	}

	return strings.ToLower(lang) + "_" + strings.ToUpper(m[2])
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

package tmeta

import (
	"fmt"
	"strings"
)

// SourceType tags the kind of package a translation belongs to.
type SourceType string

const (
	SourceFile   SourceType = "file"
	SourceTheme  SourceType = "theme"
	SourcePlugin SourceType = "plugin"
)

func (s SourceType) String() string {
	return string(s)
}

// ParseSourceType parses a source type name as found in feeds and on the
// command line.
func ParseSourceType(s string) (SourceType, error) {
	switch SourceType(strings.ToLower(strings.TrimSpace(s))) {
	case SourceFile:
		return SourceFile, nil
	case SourceTheme:
		return SourceTheme, nil
	case SourcePlugin:
		return SourcePlugin, nil
	default:
		return "", fmt.Errorf("unknown source type %q", s)
	}
}

// packageExt is the only artifact suffix allowed in a feed record's
// package field.
const packageExt = ".zip"

// Record is the flattened feed entry derived from one catalog, in the
// shape downstream update feeds consume.
type Record struct {
	Type       SourceType `json:"type"`
	Slug       string     `json:"slug"`
	Language   string     `json:"language"`
	Version    string     `json:"version"`
	Updated    string     `json:"updated"`
	Package    string     `json:"package"`
	Autoupdate bool       `json:"autoupdate"`
}

// NewRecord flattens catalog metadata into a feed entry. The package URL
// is passed through only when it points at a zip artifact; anything else
// is dropped. Autoupdate is taken from the catalog's Autoupdate field.
func NewRecord(typ SourceType, slug, pkg string, meta *Metadata) Record {
	if !strings.HasSuffix(pkg, packageExt) {
		pkg = ""
	}

	return Record{
		Type:       typ,
		Slug:       slug,
		Language:   meta.Language(),
		Version:    meta.Version(),
		Updated:    meta.RevisionDate(),
		Package:    pkg,
		Autoupdate: meta.Get("Autoupdate") == "true",
	}
}

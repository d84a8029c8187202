package tmeta

import (
	"path/filepath"
	"regexp"
	"strings"
)

// catalogExts maps recognized catalog file extensions to their format.
// Template catalogs (.pot) read like regular PO files.
var catalogExts = map[string]Format{
	".mo":   FormatMO,
	".po":   FormatPO,
	".pot":  FormatPO,
	".json": FormatJSON,
}

// compressionExts are the transparent-compression suffixes recognized on
// top of a catalog extension.
var compressionExts = map[string]bool{
	".gz":  true,
	".bz2": true,
	".xz":  true,
	".zst": true,
}

// localeLikeRe matches the locale part of a catalog file name: a two or
// three letter language code, optionally followed by script and region
// subtags joined by underscores, e.g. "de", "de_DE", "zh_Hans_CN".
var localeLikeRe = regexp.MustCompile(`^[A-Za-z]{2,3}(_[A-Za-z]{2,}){0,2}$`)

// CatalogExt returns the catalog extension of path, unwrapping one
// compression suffix: "app-de_DE.mo.gz" yields ".mo" and true. The
// extension is lowercased.
func CatalogExt(path string) (ext string, compressed bool) {
	base := filepath.Base(path)
	ext = strings.ToLower(filepath.Ext(base))
	if compressionExts[ext] {
		base = base[:len(base)-len(ext)]
		return strings.ToLower(filepath.Ext(base)), true
	}
	return ext, false
}

// IsCatalogPath reports whether the file name carries an extension the
// directory scanner picks up.
func IsCatalogPath(path string) bool {
	ext, _ := CatalogExt(path)
	_, ok := catalogExts[ext]
	return ok
}

// SplitCatalogName derives the text domain and locale from a catalog
// file name following the "<domain>-<locale>.<ext>" convention. A name
// that is only a locale, like "de_DE.mo", yields an empty domain; a name
// without a locale part yields an empty locale. The locale is returned
// as spelled in the file name.
func SplitCatalogName(path string) (domain, locale string) {
	name := filepath.Base(path)
	if ext := strings.ToLower(filepath.Ext(name)); compressionExts[ext] {
		name = name[:len(name)-len(ext)]
	}
	if ext := filepath.Ext(name); ext != "" {
		name = name[:len(name)-len(ext)]
	}

	if i := strings.LastIndex(name, "-"); i >= 0 {
		head, tail := name[:i], name[i+1:]
		if localeLikeRe.MatchString(tail) {
			return head, tail
		}
		return name, ""
	}
	if localeLikeRe.MatchString(name) {
		return "", name
	}
	return name, ""
}

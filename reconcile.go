package tmeta

// RawHeader is the unnormalized field mapping produced by the format
// readers: field names exactly as spelled in the catalog, values as
// strings except for JSON catalogs, which may carry booleans.
type RawHeader map[string]any

// synonymPairs lists header fields treated as the same semantic value.
// The first field of each pair wins when both carry a value; after
// reconciliation both sides hold the same value whenever either held one.
var synonymPairs = [...][2]string{
	{FieldProjectIdVersion, FieldVersion},
	{FieldXGenerator, FieldGenerator},
	{FieldLanguage, FieldLocale},
	{FieldLanguageTeam, FieldTeam},
	{FieldPOTCreationDate, FieldCreationDate},
	{FieldPORevisionDate, FieldRevisionDate},
}

// headerDefaults maps every canonical field to the empty string. It is
// built once and copied, never referenced, into each reconciled header.
var headerDefaults = func() Header {
	h := make(Header, len(canonicalFields))
	for _, field := range canonicalFields {
		h[field] = ""
	}
	return h
}()

// Reconcile folds a raw header mapping into its canonical form. Keys are
// canonicalized, boolean values coerced to "true"/"false", synonym fields
// filled in from each other, locale fields rewritten, and the date fields
// collapsed onto the normalized creation date. The result always contains
// every canonical field, possibly empty.
//
// Reconcile is total: malformed fields degrade to the empty string, and
// values that are neither string nor bool are skipped.
func Reconcile(raw RawHeader) Header {
	h := headerDefaults.Clone()

	for key, value := range raw {
		field := CanonicalKey(key)
		if field == "" {
			continue
		}

		var s string
		switch v := value.(type) {
		case string:
			s = v
		case bool:
			if v {
				s = "true"
			} else {
				s = "false"
			}
		default:
			continue
		}

		// An empty value never blanks a field that already has one.
		if s == "" && h[field] != "" {
			continue
		}
		h[field] = s
	}

	for _, pair := range synonymPairs {
		l, r := h[pair[0]], h[pair[1]]
		if l == "" && r != "" {
			l = r
		}
		if l != "" {
			h[pair[0]] = l
			h[pair[1]] = l
		}
	}

	h[FieldLocale] = NormalizeLocale(h[FieldLocale])
	h[FieldLanguage] = NormalizeLocale(h[FieldLanguage])

	// The revision fields collapse onto the creation date. This mirrors
	// the upstream feed behavior that downstream consumers depend on.
	created := NormalizeDate(h[FieldPOTCreationDate])
	h[FieldPOTCreationDate] = created
	h[FieldCreationDate] = created
	h[FieldPORevisionDate] = created
	h[FieldRevisionDate] = created

	return h
}

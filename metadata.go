package tmeta

// Metadata is the read-only view over a reconciled catalog header. The
// underlying header is copied at construction and never mutated, so a
// Metadata is safe to share across goroutines.
type Metadata struct {
	header Header
}

// NewMetadata reconciles a raw header mapping and wraps the result.
func NewMetadata(raw RawHeader) *Metadata {
	return &Metadata{header: Reconcile(raw)}
}

// Get returns the value of the named field. The name is canonicalized
// before lookup, so any spelling of a known field works.
func (m *Metadata) Get(name string) string {
	return m.header.Get(name)
}

// Has reports whether the named field is present, even if empty.
func (m *Metadata) Has(name string) bool {
	return m.header.Has(name)
}

// Keys returns all field names in sorted order.
func (m *Metadata) Keys() []string {
	return m.header.Keys()
}

// Len returns the number of fields.
func (m *Metadata) Len() int {
	return len(m.header)
}

// Header returns a copy of the underlying header.
func (m *Metadata) Header() Header {
	return m.header.Clone()
}

// Version returns the project version, reconciled across the
// Project-Id-Version and Version fields.
func (m *Metadata) Version() string {
	return m.header[FieldVersion]
}

// Generator returns the tool that produced the catalog, reconciled across
// the X-Generator and Generator fields.
func (m *Metadata) Generator() string {
	return m.header[FieldGenerator]
}

// Language returns the normalized locale code of the catalog.
func (m *Metadata) Language() string {
	return m.header[FieldLanguage]
}

// Locale is an alias for Language; the two fields are kept in sync.
func (m *Metadata) Locale() string {
	return m.header[FieldLocale]
}

// Team returns the translation team, reconciled across the Language-Team
// and Team fields.
func (m *Metadata) Team() string {
	return m.header[FieldTeam]
}

// CreationDate returns the normalized template creation date, or the
// empty string when the catalog carried none or it was unparseable.
func (m *Metadata) CreationDate() string {
	return m.header[FieldCreationDate]
}

// RevisionDate returns the normalized revision date. It always equals
// CreationDate; see Reconcile.
func (m *Metadata) RevisionDate() string {
	return m.header[FieldRevisionDate]
}

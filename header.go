package tmeta

import "sort"

// Header stores catalog metadata fields keyed by canonical field name.
// Since header spellings vary wildly across catalog formats and
// generators, the Header methods canonicalize keys on every access, so
// h.Get("pot_creation_date") and h.Get("POT-Creation-Date") agree.
type Header map[string]string

// Set sets the field associated with key to value.
// The key is canonicalized before storage.
func (h Header) Set(key, value string) {
	h[CanonicalKey(key)] = value
}

// Get returns the value associated with the given key.
// The key is canonicalized before lookup.
func (h Header) Get(key string) string {
	return h[CanonicalKey(key)]
}

// Has reports whether the field is present, even with an empty value.
func (h Header) Has(key string) bool {
	_, ok := h[CanonicalKey(key)]
	return ok
}

// Del deletes the value associated with key.
// The key is canonicalized before lookup.
func (h Header) Del(key string) {
	delete(h, CanonicalKey(key))
}

// Keys returns the field names in sorted order.
func (h Header) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns an independent copy of the header.
func (h Header) Clone() Header {
	c := make(Header, len(h))
	for k, v := range h {
		c[k] = v
	}
	return c
}

// NewHeader creates a new catalog header.
func NewHeader() Header {
	return make(map[string]string)
}

package tmeta

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// translationNamespace seeds the deterministic translation identities.
var translationNamespace uuid.UUID

func init() {
	translationNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("traydigita.com/translation-meta/v1"))
}

// TranslationID derives the stable identity of a translation from its
// text domain and locale. The same pair always maps to the same UUID, in
// any process, so identities survive restarts and can be compared across
// machines.
func TranslationID(domain, locale string) uuid.UUID {
	key := strings.ToLower(strings.TrimSpace(domain)) + "\x00" + NormalizeLocale(locale)
	return uuid.NewSHA1(translationNamespace, []byte(key))
}

// Translation is one catalog registered in a Collection.
type Translation struct {
	ID      uuid.UUID
	Domain  string
	Locale  string
	Format  Format
	Path    string
	Meta    *Metadata
	Digest  string
	Size    int64
	ModTime time.Time
}

// NewTranslation builds a translation with its identity derived from the
// domain and normalized locale.
func NewTranslation(domain, locale string, meta *Metadata) *Translation {
	locale = NormalizeLocale(locale)
	return &Translation{
		ID:     TranslationID(domain, locale),
		Domain: domain,
		Locale: locale,
		Meta:   meta,
	}
}

// Collection is a registry of translations keyed by text domain and
// locale. Locales are normalized on every access, so Get("app", "en-us")
// and Get("app", "en_US") agree. A Collection is safe for concurrent
// use.
type Collection struct {
	mu      sync.RWMutex
	domains map[string]map[string]*Translation
}

// NewCollection creates an empty translation registry.
func NewCollection() *Collection {
	return &Collection{domains: make(map[string]map[string]*Translation)}
}

// Add registers a translation, replacing any existing entry for the same
// domain and locale.
func (c *Collection) Add(t *Translation) {
	locale := NormalizeLocale(t.Locale)

	c.mu.Lock()
	defer c.mu.Unlock()

	byLocale, ok := c.domains[t.Domain]
	if !ok {
		byLocale = make(map[string]*Translation)
		c.domains[t.Domain] = byLocale
	}
	byLocale[locale] = t
}

// Get returns the translation registered for the domain and locale, or
// nil if there is none.
func (c *Collection) Get(domain, locale string) *Translation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.domains[domain][NormalizeLocale(locale)]
}

// Remove drops the translation for the domain and locale, reporting
// whether one was registered.
func (c *Collection) Remove(domain, locale string) bool {
	locale = NormalizeLocale(locale)

	c.mu.Lock()
	defer c.mu.Unlock()

	byLocale, ok := c.domains[domain]
	if !ok {
		return false
	}
	if _, ok := byLocale[locale]; !ok {
		return false
	}
	delete(byLocale, locale)
	if len(byLocale) == 0 {
		delete(c.domains, domain)
	}
	return true
}

// Domains returns the registered text domains in sorted order.
func (c *Collection) Domains() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	domains := make([]string, 0, len(c.domains))
	for domain := range c.domains {
		domains = append(domains, domain)
	}
	sort.Strings(domains)
	return domains
}

// Locales returns the locales registered for a domain in sorted order.
func (c *Collection) Locales(domain string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	byLocale := c.domains[domain]
	locales := make([]string, 0, len(byLocale))
	for locale := range byLocale {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	return locales
}

// All returns every registered translation ordered by domain, then
// locale.
func (c *Collection) All() []*Translation {
	c.mu.RLock()
	defer c.mu.RUnlock()

	all := make([]*Translation, 0)
	domains := make([]string, 0, len(c.domains))
	for domain := range c.domains {
		domains = append(domains, domain)
	}
	sort.Strings(domains)

	for _, domain := range domains {
		byLocale := c.domains[domain]
		locales := make([]string, 0, len(byLocale))
		for locale := range byLocale {
			locales = append(locales, locale)
		}
		sort.Strings(locales)
		for _, locale := range locales {
			all = append(all, byLocale[locale])
		}
	}

	return all
}

// Len returns the number of registered translations.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, byLocale := range c.domains {
		n += len(byLocale)
	}
	return n
}

// Merge copies every translation of other into c.
func (c *Collection) Merge(other *Collection) {
	for _, t := range other.All() {
		c.Add(t)
	}
}

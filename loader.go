package tmeta

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/maypok86/otter"
)

// DefaultCacheCapacity bounds the metadata cache when LoaderOptions
// leaves it unset.
const DefaultCacheCapacity = 1024

// LoaderOptions configures a Loader. The zero value gets the defaults
// filled in by NewLoader.
type LoaderOptions struct {
	// CacheCapacity is the maximum number of catalogs whose metadata
	// stays cached in memory. Defaults to DefaultCacheCapacity.
	CacheCapacity int

	// DigestAlgorithm fingerprints the raw catalog bytes on every disk
	// load. Defaults to BLAKE3.
	DigestAlgorithm DigestAlgorithm

	// Logger receives load events. Defaults to a no-op logger.
	Logger LogBackend

	// Stats receives loader metrics. Defaults to an in-process registry.
	Stats StatsRegistry
}

// cacheEntry remembers the file identity a cached translation was read
// from. A hit requires both size and mtime to still match.
type cacheEntry struct {
	size    int64
	modTime time.Time
	trans   *Translation
}

// Loader reads catalog metadata from disk through an in-memory cache
// keyed by path. Cached entries are dropped when the file's size or
// modification time changes. A Loader is safe for concurrent use.
type Loader struct {
	digestAlgo DigestAlgorithm
	cache      *otter.Cache[string, cacheEntry]
	log        LogBackend
	stats      StatsRegistry

	hits      Counter
	misses    Counter
	failures  Counter
	durations Histogram
}

// NewLoader creates a Loader, filling in defaults for any unset option.
func NewLoader(opts LoaderOptions) (*Loader, error) {
	if opts.CacheCapacity <= 0 {
		opts.CacheCapacity = DefaultCacheCapacity
	}
	if opts.Logger == nil {
		opts.Logger = &noopLogger{}
	}
	if opts.Stats == nil {
		opts.Stats = newLocalRegistry()
	}

	cache, err := otter.MustBuilder[string, cacheEntry](opts.CacheCapacity).Build()
	if err != nil {
		return nil, fmt.Errorf("building metadata cache: %w", err)
	}

	return &Loader{
		digestAlgo: opts.DigestAlgorithm,
		cache:      &cache,
		log:        opts.Logger,
		stats:      opts.Stats,
		hits:       opts.Stats.RegisterCounter(catalogCacheHits, catalogCacheHitsHelp),
		misses:     opts.Stats.RegisterCounter(catalogCacheMisses, catalogCacheMissesHelp),
		failures:   opts.Stats.RegisterCounter(catalogLoadErrors, catalogLoadErrorsHelp),
		durations:  opts.Stats.RegisterHistogram(catalogLoadDuration, catalogLoadDurationHelp, nil),
	}, nil
}

// Close releases the cache and its background resources. The loader
// must not be used after Close.
func (l *Loader) Close() {
	l.cache.Close()
}

// Load returns the translation stored at path, reading the file only
// when the cache has no current entry for it.
func (l *Loader) Load(path string) (*Translation, error) {
	info, err := os.Stat(path)
	if err != nil {
		l.failures.Inc()
		return nil, fmt.Errorf("stat catalog: %w", err)
	}

	if entry, ok := l.cache.Get(path); ok && entry.size == info.Size() && entry.modTime.Equal(info.ModTime()) {
		l.hits.Inc()
		l.log.Debug("catalog metadata served from cache", "path", path)
		return entry.trans, nil
	}

	start := time.Now()
	trans, err := l.read(path, info)
	if err != nil {
		l.failures.Inc()
		return nil, err
	}
	l.durations.Observe(time.Since(start).Milliseconds())
	l.misses.Inc()

	l.cache.Set(path, cacheEntry{size: info.Size(), modTime: info.ModTime(), trans: trans})
	return trans, nil
}

func (l *Loader) read(path string, info os.FileInfo) (*Translation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	digest, err := GetDigest(f, l.digestAlgo)
	if err != nil {
		return nil, fmt.Errorf("digest catalog: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind catalog: %w", err)
	}

	raw, format, err := ReadHeader(f)
	switch {
	case errors.Is(err, ErrNoHeader):
		// A catalog without a header entry still yields metadata from
		// its file name.
		raw = RawHeader{}
	case err != nil:
		return nil, err
	}

	domain, fileLocale := SplitCatalogName(path)
	meta := NewMetadata(raw)
	if meta.Locale() == "" && fileLocale != "" {
		raw[FieldLanguage] = fileLocale
		meta = NewMetadata(raw)
	}

	trans := NewTranslation(domain, meta.Locale(), meta)
	trans.Format = format
	trans.Path = path
	trans.Digest = digest
	trans.Size = info.Size()
	trans.ModTime = info.ModTime()

	name, help := makeFormatLoadedMetricName(format)
	l.stats.RegisterCounter(name, help).Inc()

	l.log.Debug("catalog loaded",
		"path", path,
		"domain", domain,
		"locale", trans.Locale,
		"format", format.String(),
		"digest", digest)

	return trans, nil
}

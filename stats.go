package tmeta

import (
	"sync"
	"sync/atomic"
)

const (
	// catalogCacheHits is the name of the metric that tracks loads served from the metadata cache.
	catalogCacheHits     string = "catalog_cache_hits_total"
	catalogCacheHitsHelp string = "Total catalog loads served from the metadata cache"

	// catalogCacheMisses is the name of the metric that tracks loads that had to read the file.
	catalogCacheMisses     string = "catalog_cache_misses_total"
	catalogCacheMissesHelp string = "Total catalog loads that read the file from disk"

	// catalogLoadErrors is the name of the metric that tracks failed catalog loads.
	catalogLoadErrors     string = "catalog_load_errors_total"
	catalogLoadErrorsHelp string = "Total catalog loads that failed"

	// catalogLoadDuration is the name of the metric that tracks how long disk loads take.
	catalogLoadDuration     string = "catalog_load_duration_milliseconds"
	catalogLoadDurationHelp string = "Duration of catalog loads from disk in milliseconds"

	// scannedFilesTotal is the name of the metric that tracks files picked up by directory scans.
	scannedFilesTotal     string = "scanned_files_total"
	scannedFilesTotalHelp string = "Total catalog files picked up by directory scans"

	// scanErrorsTotal is the name of the metric that tracks files a scan failed to load.
	scanErrorsTotal     string = "scan_errors_total"
	scanErrorsTotalHelp string = "Total catalog files a directory scan failed to load"

	// scanPendingFiles is the name of the metric that tracks files queued by the running scan.
	scanPendingFiles     string = "scan_pending_files"
	scanPendingFilesHelp string = "Catalog files discovered by the running scan and not yet loaded"

	formatPrefix       string = "catalog_"
	formatLoadedSuffix string = "_loaded_total"
	formatLoadedHelp   string = "Total catalogs of this format loaded from disk"
)

func makeFormatLoadedMetricName(format Format) (string, string) {
	return formatPrefix + format.String() + formatLoadedSuffix, formatLoadedHelp
}

// Counter represents a monotonically increasing metric.
type Counter interface {
	// Inc increments the counter by 1.
	Inc()
	// Add adds the given value to the counter.
	Add(value int64)
	// Get returns the current value of the counter.
	// This is used to support unit-testing of the metrics.
	Get() int64
}

// Gauge represents a metric that can go up or down.
type Gauge interface {
	// Set sets the gauge to the given value.
	Set(value int64)
	// Inc increments the gauge by 1.
	Inc()
	// Dec decrements the gauge by 1.
	Dec()
	// Add adds the given value to the gauge.
	Add(value int64)
	// Sub subtracts the given value from the gauge.
	Sub(value int64)
	// Get returns the current value of the gauge.
	// This is used to support unit-testing of the metrics.
	Get() int64
}

// Histogram represents a metric for observing distributions of values.
type Histogram interface {
	// Observe adds a single observation to the histogram.
	Observe(value int64)
}

// StatsRegistry provides a registry for external libraries to register and update metrics.
// The StatsRegistry implementation is expected to be thread-safe so that the loader and
// scanner can safely register and update metrics from multiple goroutines.
type StatsRegistry interface {
	// RegisterCounter registers a new counter metric.
	// Returns an existing counter if one with the same name was already registered.
	RegisterCounter(name, help string) Counter

	// RegisterGauge registers a new gauge metric.
	// Returns an existing gauge if one with the same name was already registered.
	RegisterGauge(name, help string) Gauge

	// RegisterHistogram registers a new histogram metric with the given buckets.
	// If buckets is nil, uses Prometheus default buckets.
	// Returns an existing histogram if one with the same name was already registered.
	RegisterHistogram(name, help string, buckets []int64) Histogram
}

// Nil-safe implementations for when no StatsRegistry is provided.
type localCounter struct {
	v atomic.Int64
}

func (n *localCounter) Inc()            { n.v.Add(1) }
func (n *localCounter) Add(value int64) { n.v.Add(value) }
func (n *localCounter) Get() int64      { return n.v.Load() }

type localGauge struct {
	v atomic.Int64
}

func (n *localGauge) Set(value int64) { n.v.Store(value) }
func (n *localGauge) Inc()            { n.v.Add(1) }
func (n *localGauge) Dec()            { n.v.Add(-1) }
func (n *localGauge) Add(value int64) { n.v.Add(value) }
func (n *localGauge) Sub(value int64) { n.v.Add(-value) }
func (n *localGauge) Get() int64      { return n.v.Load() }

type localHistogram struct{}

func (n *localHistogram) Observe(_ int64) {}

type localRegistry struct {
	sync.Mutex
	gauges     map[string]*localGauge
	counters   map[string]*localCounter
	histograms map[string]*localHistogram
}

func newLocalRegistry() *localRegistry {
	return &localRegistry{}
}

func (n *localRegistry) RegisterCounter(name, _ string) Counter {
	n.Lock()
	defer n.Unlock()
	var c *localCounter
	var ok bool
	if n.counters == nil {
		n.counters = make(map[string]*localCounter)
	}
	if c, ok = n.counters[name]; ok {
		return c
	}
	c = &localCounter{}
	n.counters[name] = c
	return c
}

func (n *localRegistry) RegisterGauge(name, _ string) Gauge {
	n.Lock()
	defer n.Unlock()
	var g *localGauge
	var ok bool
	if n.gauges == nil {
		n.gauges = make(map[string]*localGauge)
	}
	if g, ok = n.gauges[name]; ok {
		return g
	}
	g = &localGauge{}
	n.gauges[name] = g
	return g
}

func (n *localRegistry) RegisterHistogram(name, _ string, _ []int64) Histogram {
	n.Lock()
	defer n.Unlock()
	var h *localHistogram
	var ok bool
	if n.histograms == nil {
		n.histograms = make(map[string]*localHistogram)
	}
	if h, ok = n.histograms[name]; ok {
		return h
	}
	h = &localHistogram{}
	n.histograms[name] = h
	return h
}

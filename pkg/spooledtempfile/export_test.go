package spooledtempfile

import "time"

// ResetMemoryCache clears the global memory usage cache so the next
// getCachedMemoryUsage call fetches a fresh value.
func ResetMemoryCache() {
	memoryUsageCache.Lock()
	defer memoryUsageCache.Unlock()
	memoryUsageCache.lastChecked = time.Time{}
	memoryUsageCache.lastFraction = 0
}

package tmeta

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"

	"github.com/remeh/sizedwaitgroup"
	"golang.org/x/sync/errgroup"
)

// ScanOptions configures directory scanning.
type ScanOptions struct {
	// Threads bounds how many catalogs are loaded concurrently.
	// Defaults to runtime.NumCPU().
	Threads int

	// Logger receives per-file warnings. Defaults to a no-op logger.
	Logger LogBackend

	// Stats receives scan metrics. Defaults to an in-process registry.
	Stats StatsRegistry
}

// ScanDir walks root for catalog files and loads each of them through
// loader into a new Collection. A catalog that fails to load is logged
// and counted but does not fail the scan; a failing walk or a canceled
// context does.
func ScanDir(ctx context.Context, root string, loader *Loader, opts ScanOptions) (*Collection, error) {
	threads := opts.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	log := opts.Logger
	if log == nil {
		log = &noopLogger{}
	}
	stats := opts.Stats
	if stats == nil {
		stats = newLocalRegistry()
	}
	scanned := stats.RegisterCounter(scannedFilesTotal, scannedFilesTotalHelp)
	failed := stats.RegisterCounter(scanErrorsTotal, scanErrorsTotalHelp)
	pending := stats.RegisterGauge(scanPendingFiles, scanPendingFilesHelp)

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !IsCatalogPath(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	pending.Set(int64(len(paths)))

	coll := NewCollection()
	swg := sizedwaitgroup.New(threads)

	for _, path := range paths {
		path := path
		if ctx.Err() != nil {
			pending.Dec()
			continue
		}

		swg.Add()
		go func() {
			defer swg.Done()
			defer pending.Dec()

			scanned.Inc()
			trans, err := loader.Load(path)
			if err != nil {
				failed.Inc()
				log.Warn("failed to load catalog", "path", path, "err", err.Error())
				return
			}
			coll.Add(trans)
		}()
	}

	swg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return coll, nil
}

// ScanDirs scans several roots concurrently and merges the results. The
// first root that fails aborts the remaining scans.
func ScanDirs(ctx context.Context, roots []string, loader *Loader, opts ScanOptions) (*Collection, error) {
	merged := NewCollection()

	g, ctx := errgroup.WithContext(ctx)
	for _, root := range roots {
		root := root
		g.Go(func() error {
			coll, err := ScanDir(ctx, root, loader, opts)
			if err != nil {
				return err
			}
			merged.Merge(coll)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return merged, nil
}

package scan

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	tmeta "github.com/TrayDigita/Translation-Meta"
	"github.com/TrayDigita/Translation-Meta/cmd/utils"
	"github.com/spf13/cobra"
)

// Command represents the scan command
var Command = &cobra.Command{
	Use:   "scan",
	Short: "Scan one or many directories for catalogs and report their metadata",
	Long:  `Scan one or many directories for catalogs and report their metadata`,
	Args:  cobra.MinimumNArgs(1),
	Run:   scan,
}

func init() {
	Command.Flags().IntP("threads", "t", runtime.NumCPU(), "Number of threads to use for loading catalogs")
	Command.Flags().Int("cache", tmeta.DefaultCacheCapacity, "Capacity of the metadata cache")
}

func scan(cmd *cobra.Command, roots []string) {
	threads := utils.GetThreadsFlag(cmd)
	cacheCap, _ := cmd.Flags().GetInt("cache")

	loader, err := tmeta.NewLoader(tmeta.LoaderOptions{
		CacheCapacity: cacheCap,
		Logger:        slog.Default(),
	})
	if err != nil {
		slog.Error("failed to build loader", "err", err.Error())
		os.Exit(1)
	}
	defer loader.Close()

	startTime := time.Now()

	coll, err := tmeta.ScanDirs(cmd.Context(), roots, loader, tmeta.ScanOptions{
		Threads: threads,
		Logger:  slog.Default(),
	})
	if err != nil {
		slog.Error("scan failed", "err", err.Error())
		os.Exit(1)
	}

	for _, trans := range coll.All() {
		slog.Info("catalog",
			"domain", trans.Domain,
			"locale", trans.Locale,
			"format", trans.Format.String(),
			"version", trans.Meta.Version(),
			"updated", trans.Meta.RevisionDate(),
			"digest", trans.Digest,
			"path", trans.Path)
	}

	slog.Info(fmt.Sprintf("scanned in %s", time.Since(startTime).String()), "roots", len(roots), "catalogs", coll.Len())
}

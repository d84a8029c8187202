package feed

import (
	"encoding/json"
	"log/slog"
	"os"

	tmeta "github.com/TrayDigita/Translation-Meta"
	"github.com/spf13/cobra"
)

// Command represents the feed command
var Command = &cobra.Command{
	Use:   "feed",
	Short: "Build update feed records from catalog file(s)",
	Long:  `Build update feed records from catalog file(s) and print them as a JSON array`,
	Args:  cobra.MinimumNArgs(1),
	Run:   feed,
}

func init() {
	Command.Flags().StringP("type", "t", "file", "Source type of the records (file, theme or plugin)")
	Command.Flags().StringP("slug", "s", "", "Slug of the records; defaults to each catalog's text domain")
	Command.Flags().StringP("package", "p", "", "Package archive URL to advertise; dropped unless it ends in .zip")
}

func feed(cmd *cobra.Command, files []string) {
	typeFlag, _ := cmd.Flags().GetString("type")
	slugFlag, _ := cmd.Flags().GetString("slug")
	pkg, _ := cmd.Flags().GetString("package")

	sourceType, err := tmeta.ParseSourceType(typeFlag)
	if err != nil {
		slog.Error("invalid source type", "type", typeFlag, "err", err.Error())
		os.Exit(1)
	}

	records := make([]tmeta.Record, 0, len(files))
	failed := false
	for _, path := range files {
		record, err := buildRecord(path, sourceType, slugFlag, pkg)
		if err != nil {
			slog.Error("failed to read catalog", "file", path, "err", err.Error())
			failed = true
			continue
		}
		records = append(records, record)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		slog.Error("failed to encode feed", "err", err.Error())
		os.Exit(1)
	}
	if failed {
		os.Exit(1)
	}
}

func buildRecord(path string, sourceType tmeta.SourceType, slug, pkg string) (tmeta.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return tmeta.Record{}, err
	}
	defer f.Close()

	meta, _, err := tmeta.ReadMetadata(f)
	if err != nil {
		return tmeta.Record{}, err
	}

	if slug == "" {
		slug, _ = tmeta.SplitCatalogName(path)
	}

	return tmeta.NewRecord(sourceType, slug, pkg, meta), nil
}

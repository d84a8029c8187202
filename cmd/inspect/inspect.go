package inspect

import (
	"encoding/json"
	"log/slog"
	"os"

	tmeta "github.com/TrayDigita/Translation-Meta"
	"github.com/spf13/cobra"
)

// Command represents the inspect command
var Command = &cobra.Command{
	Use:   "inspect",
	Short: "Print the reconciled metadata of one or many catalog file(s)",
	Long:  `Print the reconciled metadata of one or many catalog file(s) as JSON, one document per file`,
	Args:  cobra.MinimumNArgs(1),
	Run:   inspect,
}

func init() {
	Command.Flags().Bool("raw", false, "Print the header fields as spelled in the file, without reconciliation")
}

// report is the JSON document printed for each inspected file.
type report struct {
	File   string `json:"file"`
	Format string `json:"format"`
	Fields any    `json:"fields"`
}

func inspect(cmd *cobra.Command, files []string) {
	rawOut, _ := cmd.Flags().GetBool("raw")

	failed := false
	for _, path := range files {
		if err := inspectFile(path, rawOut); err != nil {
			slog.Error("failed to inspect catalog", "file", path, "err", err.Error())
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func inspectFile(path string, rawOut bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	raw, format, err := tmeta.ReadHeader(f)
	if err != nil {
		return err
	}

	var fields any = raw
	if !rawOut {
		fields = tmeta.NewMetadata(raw).Header()
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report{File: path, Format: format.String(), Fields: fields})
}

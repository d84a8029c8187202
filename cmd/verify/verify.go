package verify

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	tmeta "github.com/TrayDigita/Translation-Meta"
	"github.com/spf13/cobra"
)

// Command represents the verify command
var Command = &cobra.Command{
	Use:   "verify",
	Short: "Verify the validity of one or many catalog file(s)",
	Args:  cobra.MinimumNArgs(1),
	Run:   verify,
}

func init() {
	Command.Flags().StringP("digest", "d", "blake3", "Digest algorithm used to fingerprint the files (blake3, sha1, sha256, sha256-base32)")
}

// ValidationResult holds the result of catalog file validation
type ValidationResult struct {
	Valid       bool
	Format      string
	FieldCount  int
	ErrorsCount int
	Digest      string
}

func verify(cmd *cobra.Command, files []string) {
	digestName, _ := cmd.Flags().GetString("digest")
	algo, err := tmeta.ParseDigestAlgorithm(digestName)
	if err != nil {
		slog.Error("invalid digest algorithm", "algorithm", digestName, "err", err.Error())
		os.Exit(1)
	}

	failures := 0
	for _, path := range files {
		startTime := time.Now()

		if !cmd.Root().Flags().Lookup("json").Changed {
			// Output the message if not in --json mode
			slog.Info("verifying", "file", path)
		}

		result, err := ValidateCatalogFile(path, algo)
		if err != nil {
			slog.Error("failed to validate file", "file", path, "error", err)
			failures++
			continue
		}

		// Ensure there is a visible difference when errors are present.
		if result.ErrorsCount > 0 {
			failures++
			slog.Error(fmt.Sprintf("checked in %s", time.Since(startTime).String()), "file", path, "valid", result.Valid, "errors", result.ErrorsCount, "format", result.Format, "digest", result.Digest)
		} else {
			slog.Info(fmt.Sprintf("checked in %s", time.Since(startTime).String()), "file", path, "valid", result.Valid, "fields", result.FieldCount, "format", result.Format, "digest", result.Digest)
		}
	}

	if failures > 0 {
		os.Exit(1)
	}
}

// ValidateCatalogFile validates a single catalog file and returns structured results
func ValidateCatalogFile(path string, algo tmeta.DigestAlgorithm) (ValidationResult, error) {
	validation := ValidationResult{}

	f, err := os.Open(path)
	if err != nil {
		return validation, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	digest, err := tmeta.GetDigest(f, algo)
	if err != nil {
		return validation, fmt.Errorf("failed to digest catalog file: %w", err)
	}
	validation.Digest = digest

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return validation, err
	}

	validation.Valid = true

	raw, format, err := tmeta.ReadHeader(f)
	validation.Format = format.String()
	if err != nil {
		slog.Error("failed to read catalog header", "file", path, "err", err.Error())
		validation.Valid = false
		validation.ErrorsCount++
		return validation, nil
	}

	meta := tmeta.NewMetadata(raw)
	for _, key := range meta.Keys() {
		if meta.Get(key) != "" {
			validation.FieldCount++
		}
	}

	// A creation date that was present but did not survive normalization
	// points at a malformed header worth flagging.
	if meta.CreationDate() == "" && hasRawCreationDate(raw) {
		slog.Error("creation date did not parse", "file", path)
		validation.Valid = false
		validation.ErrorsCount++
	}

	return validation, nil
}

func hasRawCreationDate(raw tmeta.RawHeader) bool {
	for key, value := range raw {
		canonical := tmeta.CanonicalKey(key)
		if canonical != tmeta.FieldPOTCreationDate && canonical != tmeta.FieldCreationDate {
			continue
		}
		if s, ok := value.(string); ok && strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}

package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fincheck-labs/pain001/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate <path>...",
	Short: "Validate pain.001 files (XML or CSV); directory arguments are expanded",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var registry validator.DuplicateRegistry
	if cfg.RegistryDSN != "" {
		sqliteReg, err := validator.NewSQLiteRegistry(cfg.RegistryDSN)
		if err != nil {
			return err
		}
		defer sqliteReg.Close()
		registry = sqliteReg
	}

	v := validator.New(validator.Config{
		SchemaDir:    cfg.SchemaDir,
		ReferenceDir: cfg.ReferenceDir,
		Registry:     registry,
	})

	var resolver validator.ManualResolver
	if cfg.AllowVersionPrompt {
		resolver = promptForVersion
	}
	pipeline := validator.NewPipeline(v, validator.PipelineConfig{
		TemplateDir:         cfg.TemplateDir,
		ReportsDir:          cfg.ReportsDir,
		EnableReferenceDiff: cfg.EnableReferenceDiff,
		EnableAnnotatedView: cfg.EnableAnnotatedView,
		ManualResolver:      resolver,
	})

	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	var passed, failed int
	var skipped []string
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		outcome, err := pipeline.Run(cmd.Context(), path, data)
		if err != nil {
			reason, ok := skipReason(err)
			if !ok {
				return err
			}
			slog.Warn("file skipped", "file", path, "reason", reason)
			skipped = append(skipped, fmt.Sprintf("Skipped file '%s' - Reason: %s", filepath.Base(path), reason))
			continue
		}
		if err := enc.Encode(outcome); err != nil {
			return err
		}
		if outcome.Status == validator.StatusPassed {
			passed++
		} else {
			failed++
		}
	}

	fmt.Fprintf(out, "Summary: %d passed, %d failed, %d skipped\n", passed, failed, len(skipped))
	for _, msg := range skipped {
		fmt.Fprintln(out, "  "+msg)
	}
	if failed > 0 {
		return fmt.Errorf("one or more files failed validation")
	}
	return nil
}

// skipReason classifies input-level faults that skip one file rather than
// abort the batch.
func skipReason(err error) (string, bool) {
	switch {
	case errors.Is(err, validator.ErrUnsupportedFileType):
		return "Unsupported file type.", true
	case errors.Is(err, validator.ErrVersionNotDetected):
		return "Missing version detection.", true
	}
	return "", false
}

// collectFiles expands directory arguments into the regular files they
// contain, one level deep. Plain file arguments pass through unchanged.
func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			files = append(files, filepath.Join(arg, entry.Name()))
		}
	}
	return files, nil
}

// promptForVersion asks the operator for a two-digit version suffix when
// automatic detection fails.
func promptForVersion(filename string) (validator.Version, bool) {
	fmt.Fprintf(os.Stderr, "Could not determine pain.001 version for %s. Enter version (03..09): ", filename)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return "", false
	}
	v, err := validator.ParseVersion(scanner.Text())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return "", false
	}
	return v, true
}

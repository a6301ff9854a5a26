package validator

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// csvReportHeader is the fixed column set of the per-file audit report.
var csvReportHeader = []string{"Filename", "Version", "Type", "ValidationPassed", "Error/Diff Type", "Message"}

// WriteCSVReport writes the per-file audit report into dir and returns the
// report's path. The report carries one summary row followed by one row per
// error finding and one per reference difference. fileType records whether
// the submission arrived as XML or CSV.
func WriteCSVReport(dir string, run *Run, fileType string, diffs []string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(run.Filename), filepath.Ext(run.Filename))
	path := filepath.Join(dir, fmt.Sprintf("%s_%s_validation.csv", base, uuid.NewString()))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create CSV report: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvReportHeader); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}
	summary := []string{
		filepath.Base(run.Filename),
		versionLabel(run.Version),
		fileType,
		strconv.FormatBool(run.Passed()),
		"", "",
	}
	if err := w.Write(summary); err != nil {
		return "", fmt.Errorf("failed to write CSV summary row: %w", err)
	}
	for _, finding := range run.Findings {
		if err := w.Write([]string{"", "", "", "", "Error", finding.String()}); err != nil {
			return "", fmt.Errorf("failed to write CSV error row: %w", err)
		}
	}
	for _, diff := range diffs {
		if err := w.Write([]string{"", "", "", "", "Difference", diff}); err != nil {
			return "", fmt.Errorf("failed to write CSV difference row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV report: %w", err)
	}
	return path, nil
}

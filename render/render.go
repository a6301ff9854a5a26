// Package render turns a CSV payment submission into a pain.001 XML document
// by filling a version-specific template with the first data record.
package render

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"
)

// File renders the template at templatePath with the first record of csvData.
func File(templatePath string, csvData []byte) ([]byte, error) {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	return Render(string(content), csvData)
}

// Render fills a template with the first CSV data record. Template fields are
// addressed by CSV header name, e.g. {{.MsgId}} for a column headed MsgId.
func Render(tmplContent string, csvData []byte) ([]byte, error) {
	record, err := firstRecord(csvData)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New("pain001").Option("missingkey=error").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, record); err != nil {
		return nil, fmt.Errorf("failed to render template: %w", err)
	}
	return buf.Bytes(), nil
}

// firstRecord maps the header row onto the first data row.
func firstRecord(csvData []byte) (map[string]string, error) {
	r := csv.NewReader(bytes.NewReader(csvData))
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	row, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("CSV has no data rows")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV data row: %w", err)
	}

	record := make(map[string]string, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if i < len(row) {
			record[name] = strings.TrimSpace(row[i])
		}
	}
	return record, nil
}

package validator

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type annotatedLine struct {
	No     int
	Text   string
	Errors []string
}

type annotatedPage struct {
	Filename string
	Lines    []annotatedLine
	Summary  string
}

var annotatedTemplate = template.Must(template.New("annotated").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>{{.Filename}}</title>
<style>
body { margin: 0; display: flex; height: 100vh; font-family: 'Courier New', monospace; background: #1e1e1e; color: #d4d4d4; }
.left, .right { flex: 1; overflow: auto; padding: 10px; box-sizing: border-box; }
.line { display: flex; align-items: flex-start; }
.line-number { width: 50px; text-align: right; padding-right: 10px; color: #888; }
.code-line { flex: 1; white-space: pre; border-left: 4px solid transparent; padding: 0 8px; }
.code-line.error { background: #3c1f1f; color: #ff9999; border-left: 4px solid #ff4d4d; }
.inline-error { margin-left: 60px; background: #3c1f1f; color: #ff9999; font-size: 0.9em; padding: 4px 8px; border-left: 4px solid #ff4d4d; margin-bottom: 4px; }
</style></head><body>
<div class="left">
{{- range .Lines}}
<div class="line"><div class="line-number">{{.No}}</div><div class="code-line{{if .Errors}} error{{end}}" id="line-{{.No}}">{{.Text}}</div></div>
{{- range .Errors}}
<div class="inline-error">{{.}}</div>
{{- end}}
{{- end}}
</div>
<div class="right"><pre>{{.Summary}}</pre></div>
</body></html>
`))

// WriteAnnotatedHTML renders the submitted file line by line with error
// annotations attached to their source lines and the run summary alongside.
// It returns the path of the written report.
func WriteAnnotatedHTML(dir string, run *Run, raw []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	byLine := make(map[int][]string)
	for _, f := range run.Findings {
		if f.Line > 0 {
			byLine[f.Line] = append(byLine[f.Line], f.String())
		}
	}

	var page annotatedPage
	page.Filename = filepath.Base(run.Filename)
	page.Summary = Summary(run)
	for i, text := range strings.Split(strings.TrimRight(string(raw), "\n"), "\n") {
		page.Lines = append(page.Lines, annotatedLine{
			No:     i + 1,
			Text:   strings.TrimRight(text, "\r"),
			Errors: byLine[i+1],
		})
	}

	base := strings.TrimSuffix(page.Filename, filepath.Ext(page.Filename))
	path := filepath.Join(dir, fmt.Sprintf("%s_%s_annotated.html", base, uuid.NewString()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create annotated report: %w", err)
	}
	defer f.Close()

	if err := annotatedTemplate.Execute(f, page); err != nil {
		return "", fmt.Errorf("failed to render annotated report: %w", err)
	}
	return path, nil
}

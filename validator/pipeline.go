package validator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/fincheck-labs/pain001/render"
)

// ErrUnsupportedFileType is returned for submissions that are neither XML
// nor CSV.
var ErrUnsupportedFileType = errors.New("only XML or CSV files are supported")

// PipelineConfig controls the per-submission orchestration around the
// validation engine.
type PipelineConfig struct {
	// TemplateDir holds {version}.xml templates for CSV rendering.
	TemplateDir string

	// ReportsDir receives the per-file CSV and annotated HTML reports.
	ReportsDir string

	// EnableReferenceDiff turns on the structural comparison against the
	// version's reference file.
	EnableReferenceDiff bool

	// EnableAnnotatedView turns on the annotated HTML report.
	EnableAnnotatedView bool

	// ManualResolver, when set, supplies a version after automatic
	// detection fails.
	ManualResolver ManualResolver
}

// Pipeline validates one submitted payment file end to end: version
// detection, optional CSV rendering, parsing, schema validation, the rule
// battery, aggregation, and report generation.
type Pipeline struct {
	validator *Validator
	cfg       PipelineConfig
}

func NewPipeline(v *Validator, cfg PipelineConfig) *Pipeline {
	return &Pipeline{validator: v, cfg: cfg}
}

// Run validates a single submission. Input-level faults (unsupported
// extension, undetectable version, missing schema) are returned as errors;
// every fault in the file itself produces a FAILED outcome.
func (p *Pipeline) Run(ctx context.Context, filename string, data []byte) (*Outcome, error) {
	ctx, span := tracer.Start(ctx, "validator.Pipeline.Run")
	defer span.End()
	span.SetAttributes(attribute.String("file.name", filename))

	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".xml" && ext != ".csv" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, filename)
	}
	fileType := "XML"
	if ext == ".csv" {
		fileType = "CSV"
	}

	xmlData := data
	var version Version
	if ext == ".csv" {
		v, err := p.resolveVersion(filename, nil)
		if err != nil {
			return nil, err
		}
		version = v
		rendered, err := render.File(filepath.Join(p.cfg.TemplateDir, version.TemplateFile()), data)
		if err != nil {
			return nil, fmt.Errorf("failed to render XML from CSV: %w", err)
		}
		xmlData = rendered
	}

	doc, err := ParseDocument(filename, xmlData)
	if err != nil {
		// A file that does not parse still yields a deterministic FAILED
		// outcome rather than a raw fault.
		slog.Warn("parse failed", "file", filename, "error", err)
		run := failedParseRun(filename, err)
		return p.report(run, fileType, xmlData, nil)
	}

	if version == "" {
		v, err := p.resolveVersion(filename, doc)
		if err != nil {
			return nil, err
		}
		version = v
	}

	run, err := p.validator.Validate(ctx, doc, version)
	if err != nil {
		return nil, err
	}

	var diffs []string
	if p.cfg.EnableReferenceDiff {
		diffs, err = p.validator.CompareToReference(doc, version)
		if err != nil {
			slog.Warn("reference comparison failed", "file", filename, "error", err)
			diffs = nil
		}
	}
	return p.report(run, fileType, xmlData, diffs)
}

// resolveVersion tries the document namespace, then the filename, then the
// configured manual resolver.
func (p *Pipeline) resolveVersion(filename string, doc *Document) (Version, error) {
	if doc != nil {
		if v, err := ResolveFromDocument(doc); err == nil {
			return v, nil
		}
	}
	if v, err := ResolveFromFilename(filename); err == nil {
		return v, nil
	}
	if p.cfg.ManualResolver != nil {
		if v, ok := p.cfg.ManualResolver(filename); ok {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w for %s", ErrVersionNotDetected, filename)
}

// report writes the configured artifacts and shapes the structured outcome.
func (p *Pipeline) report(run *Run, fileType string, raw []byte, diffs []string) (*Outcome, error) {
	csvPath, err := WriteCSVReport(p.cfg.ReportsDir, run, fileType, diffs)
	if err != nil {
		return nil, err
	}
	var htmlPath string
	if p.cfg.EnableAnnotatedView {
		htmlPath, err = WriteAnnotatedHTML(p.cfg.ReportsDir, run, raw)
		if err != nil {
			return nil, err
		}
	}
	return BuildOutcome(run, htmlPath, csvPath), nil
}

// failedParseRun shapes a parse failure as a completed run with a single
// whole-file finding. Rule checks never ran, so their flags stay true and
// the schema is marked invalid.
func failedParseRun(filename string, parseErr error) *Run {
	run := &Run{
		Filename:     filename,
		SchemaValid:  false,
		Checks:       make(map[string]bool, len(reportedChecks)),
		PaymentDates: map[string]bool{},
		Findings: []Finding{{
			Severity: SeverityError,
			Message:  fmt.Sprintf("Failed to parse XML: %v", parseErr),
			Category: CategorySchema,
		}},
	}
	for name := range reportedChecks {
		run.Checks[name] = true
	}
	return run
}

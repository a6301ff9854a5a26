package validator

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/agentflare-ai/go-xsd"
)

// SchemaValidator validates a document against the XSD for its resolved
// version. Schemas change rarely, so compiled schemas are memoized per
// version for the life of the process.
type SchemaValidator struct {
	dir string

	mu      sync.Mutex
	schemas map[Version]*schemaEntry
}

type schemaEntry struct {
	once   sync.Once
	schema *xsd.Schema
	err    error
}

// NewSchemaValidator creates a validator reading {version}.xsd files from dir.
func NewSchemaValidator(dir string) *SchemaValidator {
	return &SchemaValidator{dir: dir, schemas: make(map[Version]*schemaEntry)}
}

// load returns the memoized compiled schema for a version.
func (sv *SchemaValidator) load(version Version) (*xsd.Schema, error) {
	sv.mu.Lock()
	entry, ok := sv.schemas[version]
	if !ok {
		entry = &schemaEntry{}
		sv.schemas[version] = entry
	}
	sv.mu.Unlock()

	entry.once.Do(func() {
		path := filepath.Join(sv.dir, version.SchemaFile())
		entry.schema, entry.err = xsd.LoadSchema(path)
		if entry.err != nil {
			slog.Warn("schema load failed", "version", string(version), "path", path, "error", entry.err)
		}
	})
	return entry.schema, entry.err
}

// Validate checks the document against the version's schema. It returns
// whether the document is schema-valid plus line-addressed findings for every
// violation. A missing schema file is an input error and is returned as err;
// any other schema engine fault is converted into a finding and the document
// is treated as invalid.
func (sv *SchemaValidator) Validate(doc *Document, version Version) (bool, []Finding, error) {
	schema, err := sv.load(version)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil, fmt.Errorf("schema file for %s not found: %w", version, err)
		}
		return false, []Finding{{
			Severity: SeverityError,
			Message:  fmt.Sprintf("Exception during validation: %v", err),
			Category: CategorySchema,
		}}, nil
	}

	violations := xsd.NewValidator(schema).Validate(doc.DOM())
	if len(violations) == 0 {
		return true, nil, nil
	}

	converter := xsd.NewDiagnosticConverter(doc.Name, string(doc.Raw))
	diags := converter.Convert(violations)

	var findings []Finding
	valid := true
	for _, d := range diags {
		if d.Severity != xsd.SeverityError {
			continue
		}
		valid = false
		if d.Position.Line > 0 {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Line:     d.Position.Line,
				Message:  d.Message,
				Category: CategorySchema,
			})
			continue
		}
		findings = append(findings, normalizeSchemaError(d.Message))
	}
	return valid, findings, nil
}

// schemaErrorPattern matches the file:LINE:COL:ERROR: shape common to schema
// validator error logs.
var schemaErrorPattern = regexp.MustCompile(`file:.+?:(\d+):\d+:ERROR:`)

var linePrefixPattern = regexp.MustCompile(`^Line (\d+)\s*-\s*(.*)$`)

// normalizeSchemaError rewrites a raw schema error string into a
// line-addressed finding. Strings already in "Line N - msg" form keep their
// line; file:LINE:COL:ERROR: shapes are rewritten; anything else passes
// through unattributed and sorts last.
func normalizeSchemaError(raw string) Finding {
	if m := linePrefixPattern.FindStringSubmatch(raw); m != nil {
		line, _ := strconv.Atoi(m[1])
		return Finding{Severity: SeverityError, Line: line, Message: m[2], Category: CategorySchema}
	}
	if m := schemaErrorPattern.FindStringSubmatch(raw); m != nil {
		line, _ := strconv.Atoi(m[1])
		msg := raw
		if i := strings.LastIndex(raw, "ERROR:"); i >= 0 {
			msg = strings.TrimSpace(raw[i+len("ERROR:"):])
		}
		return Finding{Severity: SeverityError, Line: line, Message: msg, Category: CategorySchema}
	}
	return Finding{Severity: SeverityError, Message: raw, Category: CategorySchema}
}

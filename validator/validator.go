package validator

import (
	"strconv"
	"time"
)

// Severity represents the severity level of a finding
type Severity string

const (
	SeverityError Severity = "error"
	SeverityInfo  Severity = "info"
)

// Finding describes a single validation issue found in a payment file.
// Line is the 1-based source line the issue was detected on; 0 means the
// issue could not be attributed to a line and sorts after all line-addressed
// findings.
type Finding struct {
	Severity Severity `json:"severity"`
	Line     int      `json:"line,omitempty"`
	Message  string   `json:"message"`
	Category string   `json:"category"`
}

// String renders the finding in the canonical "Line N - message" shape used
// by the CSV report and the annotated view.
func (f Finding) String() string {
	if f.Line > 0 {
		return "Line " + strconv.Itoa(f.Line) + " - " + f.Message
	}
	return f.Message
}

// CheckResult is returned by every rule check. Findings carry the
// error-level issues, Info carries informational notices (e.g. "no IBANs
// found"), and Flags carries sub-check pass/fail detail for checks that
// report more than one flag (control totals, payment dates).
type CheckResult struct {
	Passed   bool
	Findings []Finding
	Info     []string
	Flags    map[string]bool
}

// Run is the aggregate result of validating one payment file.
type Run struct {
	Filename     string          `json:"filename"`
	Version      Version         `json:"version"`
	SchemaValid  bool            `json:"schema_valid"`
	Findings     []Finding       `json:"findings"`
	Info         []string        `json:"info_messages"`
	Checks       map[string]bool `json:"checks"`
	PaymentDates map[string]bool `json:"payment_dates"`
}

// Passed reports whether the run passed overall: the schema validated and no
// rule check produced an error-level finding.
func (r *Run) Passed() bool {
	return r.SchemaValid && len(r.Findings) == 0
}

// Config controls engine behavior. The zero value is not usable; construct
// through New which fills defaults.
type Config struct {
	// SchemaDir is the directory holding {version}.xsd schema files.
	SchemaDir string

	// ReferenceDir is the directory holding ref_{NN}.xml reference files for
	// the optional structural diff.
	ReferenceDir string

	// Registry tracks message IDs across files. If nil, a process-local
	// in-memory registry is used.
	Registry DuplicateRegistry

	// Rules allows injection of a custom rule battery. If nil,
	// DefaultRuleChecks is used.
	Rules []RuleCheck

	// Now supplies the clock for the payment-date check. Defaults to
	// time.Now. Tests inject a fixed instant.
	Now func() time.Time

	// Calendar decides settlement days for the payment-date check. If nil,
	// the U.S. federal holiday calendar is used.
	Calendar *BusinessCalendar
}

// Validator runs schema validation and the rule battery against a parsed
// payment document.
type Validator struct {
	cfg    Config
	schema *SchemaValidator
}

// New creates a Validator, filling config defaults.
func New(cfg Config) *Validator {
	if cfg.Registry == nil {
		cfg.Registry = NewMemoryRegistry()
	}
	if cfg.Rules == nil {
		cfg.Rules = DefaultRuleChecks()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Calendar == nil {
		cfg.Calendar = USBankCalendar()
	}
	return &Validator{
		cfg:    cfg,
		schema: NewSchemaValidator(cfg.SchemaDir),
	}
}

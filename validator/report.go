package validator

import (
	"regexp"
	"strconv"
	"strings"
)

// LineError is one line-addressed error in the structured response.
type LineError struct {
	LineNo   int    `json:"line_no"`
	LineName string `json:"line_name"`
	Message  string `json:"message"`
	Found    string `json:"found,omitempty"`
}

// ErrorReport buckets findings into line-addressed errors and free-form
// details that carried no line number.
type ErrorReport struct {
	LineErrors             []LineError `json:"line_errors"`
	AdditionalErrorDetails []string    `json:"additional_error_details"`
}

// Outcome is the structured response for one validation run.
type Outcome struct {
	Status       string         `json:"status"`
	Filename     string         `json:"filename"`
	Version      Version        `json:"version"`
	Errors       ErrorReport    `json:"errors"`
	InfoMessages []string       `json:"info_messages"`
	Checks       map[string]any `json:"checks"`
	HTMLReport   string         `json:"html_report,omitempty"`
	CSVReport    string         `json:"csv_report,omitempty"`
}

const (
	StatusPassed = "PASSED"
	StatusFailed = "FAILED"
)

var foundValuePattern = regexp.MustCompile(`Found: ([^.\n]*)`)

// ParseStructuredErrors splits findings into line-addressed errors and
// additional details. A "Found: X" fragment in the message, when present, is
// extracted into the error's Found field.
func ParseStructuredErrors(findings []Finding) ErrorReport {
	report := ErrorReport{
		LineErrors:             []LineError{},
		AdditionalErrorDetails: []string{},
	}
	for _, f := range findings {
		if f.Line <= 0 {
			report.AdditionalErrorDetails = append(report.AdditionalErrorDetails, strings.TrimSpace(f.String()))
			continue
		}
		var found string
		if m := foundValuePattern.FindStringSubmatch(f.Message); m != nil {
			found = strings.TrimSpace(m[1])
		}
		report.LineErrors = append(report.LineErrors, LineError{
			LineNo:   f.Line,
			LineName: "Line " + strconv.Itoa(f.Line),
			Message:  strings.TrimSpace(f.Message),
			Found:    found,
		})
	}
	return report
}

// BuildOutcome shapes a completed run into the structured response. The
// payment-date per-type map is nested under the "Payment Dates" check key.
func BuildOutcome(run *Run, htmlRef, csvRef string) *Outcome {
	status := StatusFailed
	if run.Passed() {
		status = StatusPassed
	}

	checks := make(map[string]any, len(run.Checks))
	for name, ok := range run.Checks {
		checks[name] = ok
	}
	checks[CheckPaymentDates] = run.PaymentDates

	info := run.Info
	if info == nil {
		info = []string{}
	}
	return &Outcome{
		Status:       status,
		Filename:     run.Filename,
		Version:      run.Version,
		Errors:       ParseStructuredErrors(run.Findings),
		InfoMessages: info,
		Checks:       checks,
		HTMLReport:   htmlRef,
		CSVReport:    csvRef,
	}
}

// Summary renders the human-readable run summary used in the annotated
// view's side panel.
func Summary(run *Run) string {
	var b strings.Builder
	b.WriteString("Validation ")
	if run.Passed() {
		b.WriteString(StatusPassed)
	} else {
		b.WriteString(StatusFailed)
	}
	b.WriteString(" for " + run.Filename + " (" + versionLabel(run.Version) + ")\n\n")

	b.WriteString("Checks:\n")
	for _, name := range []string{
		CheckNbOfTxs, CheckCtrlSum, CheckPurposeCode, CheckUTF8,
		CheckCurrencyCode, CheckDuplicateMsgID, CheckIBAN, CheckMemberID,
		CheckCountryCode, CheckDuplicateE2E,
	} {
		b.WriteString("  " + passFail(run.Checks[name]) + " " + name + "\n")
	}
	if len(run.PaymentDates) > 0 {
		b.WriteString("  Payment Dates:\n")
		for _, payType := range []string{PaymentTypeCHK, PaymentTypeWIRE, PaymentTypeRTP, PaymentTypeACH, PaymentTypeOther} {
			if ok, present := run.PaymentDates[payType]; present {
				b.WriteString("    " + passFail(ok) + " " + payType + " payments\n")
			}
		}
	} else {
		b.WriteString("  " + passFail(run.Checks[CheckPaymentDates]) + " " + CheckPaymentDates + "\n")
	}

	if len(run.Findings) > 0 {
		b.WriteString("\nErrors:\n")
		for _, f := range run.Findings {
			b.WriteString("  " + f.String() + "\n")
		}
	}
	if len(run.Info) > 0 {
		b.WriteString("\nInfo:\n")
		for _, msg := range run.Info {
			b.WriteString("  " + msg + "\n")
		}
	}
	return b.String()
}

// versionLabel renders a version for reports; a run that failed before
// version detection carries none.
func versionLabel(v Version) string {
	if v == "" {
		return "unknown"
	}
	return string(v)
}

func passFail(ok bool) string {
	if ok {
		return "[PASS]"
	}
	return "[FAIL]"
}

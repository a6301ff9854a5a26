package validator

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("validator")

// reportedChecks are the check names surfaced in Run.Checks. Checks outside
// this set (the ABA routing probe) contribute findings but no flag.
var reportedChecks = map[string]struct{}{
	CheckNbOfTxs:        {},
	CheckCtrlSum:        {},
	CheckPurposeCode:    {},
	CheckUTF8:           {},
	CheckCurrencyCode:   {},
	CheckDuplicateMsgID: {},
	CheckIBAN:           {},
	CheckMemberID:       {},
	CheckCountryCode:    {},
	CheckDuplicateE2E:   {},
	CheckPaymentDates:   {},
}

// Validate runs schema validation and the full rule battery against doc and
// aggregates the results into a Run. Findings are sorted ascending by source
// line with line-less findings last; relative order is preserved among ties.
// Context cancellation aborts between checks; because the registry-mutating
// duplicate-message-ID check runs last, an aborted run registers nothing.
func (v *Validator) Validate(ctx context.Context, doc *Document, version Version) (*Run, error) {
	ctx, span := tracer.Start(ctx, "validator.Validate")
	defer span.End()
	span.SetAttributes(
		attribute.String("file.name", doc.Name),
		attribute.String("pain001.version", string(version)),
	)

	run := &Run{
		Filename:     doc.Name,
		Version:      version,
		Checks:       make(map[string]bool, len(reportedChecks)),
		PaymentDates: make(map[string]bool),
	}

	schemaValid, schemaFindings, err := v.schema.Validate(doc, version)
	if err != nil {
		return nil, err
	}
	run.SchemaValid = schemaValid
	run.Findings = append(run.Findings, schemaFindings...)

	rc := &RunContext{
		Filename: doc.Name,
		Registry: v.cfg.Registry,
		Now:      v.cfg.Now(),
		Calendar: v.cfg.Calendar,
	}

	for _, check := range v.cfg.Rules {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("validation aborted: %w", err)
		}
		res := check.Check(ctx, doc, rc)
		run.Findings = append(run.Findings, res.Findings...)
		run.Info = append(run.Info, res.Info...)

		switch {
		case check.Name() == CheckPaymentDates:
			run.Checks[check.Name()] = res.Passed
			for payType, ok := range res.Flags {
				run.PaymentDates[payType] = ok
			}
		case res.Flags != nil:
			for name, ok := range res.Flags {
				run.Checks[name] = ok
			}
		default:
			if _, ok := reportedChecks[check.Name()]; ok {
				run.Checks[check.Name()] = res.Passed
			}
		}
	}

	// Checks that never ran (custom battery) still get a flag.
	for name := range reportedChecks {
		if _, ok := run.Checks[name]; !ok {
			run.Checks[name] = true
		}
	}

	sortFindings(run.Findings)

	slog.Info("validation complete",
		"file", doc.Name,
		"version", string(version),
		"schema_valid", run.SchemaValid,
		"findings", len(run.Findings),
		"passed", run.Passed(),
	)
	return run, nil
}

// sortFindings orders findings ascending by line with line-less entries last.
// The sort is stable so emission order breaks ties.
func sortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		li, lj := findings[i].Line, findings[j].Line
		if li == 0 {
			return false
		}
		if lj == 0 {
			return true
		}
		return li < lj
	})
}

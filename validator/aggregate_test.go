package validator

import (
	"context"
	"strings"
	"testing"
	"time"
)

func testValidator() *Validator {
	return New(Config{
		SchemaDir: "testdata/schemas",
		Now:       func() time.Time { return fixedNow },
	})
}

func TestValidate_CleanRun(t *testing.T) {
	run, err := testValidator().Validate(context.Background(), mustParse(t, sampleDoc), V03)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !run.SchemaValid {
		t.Fatalf("expected schema-valid document, findings: %v", run.Findings)
	}
	if !run.Passed() {
		t.Fatalf("expected pass, findings: %v", run.Findings)
	}
	for name, ok := range run.Checks {
		if !ok {
			t.Errorf("check %q unexpectedly failed", name)
		}
	}
	if len(run.Checks) != len(reportedChecks) {
		t.Fatalf("expected %d check flags, got %d", len(reportedChecks), len(run.Checks))
	}
	if ok := run.PaymentDates[PaymentTypeACH]; !ok {
		t.Fatalf("expected ACH payment-date flag, got %v", run.PaymentDates)
	}
}

func TestValidate_SortInvariant(t *testing.T) {
	// Multiple violations across lines plus a line-less IBAN failure.
	xml := strings.Replace(sampleDoc, "<Cd>SALA</Cd>", "<Cd>XXXX</Cd>", 1)
	xml = strings.Replace(xml, `Ccy="EUR"`, `Ccy="XTS"`, 1)
	xml = strings.Replace(xml, "DE89370400440532013000", "DE89370400440532013001", 1)

	run, err := testValidator().Validate(context.Background(), mustParse(t, xml), V03)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.Passed() {
		t.Fatalf("expected failure")
	}

	seenZero := false
	last := 0
	for _, f := range run.Findings {
		if f.Line == 0 {
			seenZero = true
			continue
		}
		if seenZero {
			t.Fatalf("line-addressed finding after line-less one: %v", run.Findings)
		}
		if f.Line < last {
			t.Fatalf("findings not sorted by line: %v", run.Findings)
		}
		last = f.Line
	}
	if !seenZero {
		t.Fatalf("expected a line-less IBAN finding, got %v", run.Findings)
	}
}

func TestValidate_FlagMatchesFindings(t *testing.T) {
	xml := strings.Replace(sampleDoc, "<Cd>SALA</Cd>", "<Cd>XXXX</Cd>", 1)
	run, err := testValidator().Validate(context.Background(), mustParse(t, xml), V03)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.Checks[CheckPurposeCode] {
		t.Fatalf("expected Purpose Code flag false")
	}
	for name, ok := range run.Checks {
		if name != CheckPurposeCode && !ok {
			t.Errorf("unrelated check %q flipped", name)
		}
	}
}

func TestValidate_InfoSeparated(t *testing.T) {
	xml := strings.Replace(sampleDoc, "<DbtrAcct><Id><IBAN>DE89370400440532013000</IBAN></Id></DbtrAcct>", "", 1)
	run, err := testValidator().Validate(context.Background(), mustParse(t, xml), V03)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !run.Passed() {
		t.Fatalf("informational notes must not fail the run: %v", run.Findings)
	}
	found := false
	for _, msg := range run.Info {
		if msg == "No IBANs found for Mod10 check." {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected IBAN note in info, got %v", run.Info)
	}
	for _, f := range run.Findings {
		if strings.Contains(f.Message, "No IBANs found") {
			t.Fatalf("informational note leaked into findings")
		}
	}
}

func TestValidate_SchemaViolation(t *testing.T) {
	// The 04 schema declares a different namespace and structure, so the
	// sample document cannot satisfy it.
	run, err := testValidator().Validate(context.Background(), mustParse(t, sampleDoc), V04)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.SchemaValid {
		t.Fatalf("expected schema violations")
	}
	if run.Passed() {
		t.Fatalf("schema-invalid run must not pass")
	}
	if len(run.Findings) == 0 {
		t.Fatalf("expected schema findings")
	}
}

func TestValidate_MissingSchema(t *testing.T) {
	_, err := testValidator().Validate(context.Background(), mustParse(t, sampleDoc), V09)
	if err == nil {
		t.Fatalf("expected error for missing schema file")
	}
}

func TestValidate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := testValidator().Validate(ctx, mustParse(t, sampleDoc), V03)
	if err == nil {
		t.Fatalf("expected cancellation error")
	}
}

func TestValidate_CancelledDoesNotRegister(t *testing.T) {
	registry := NewMemoryRegistry()
	v := New(Config{
		SchemaDir: "testdata/schemas",
		Registry:  registry,
		Now:       func() time.Time { return fixedNow },
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := v.Validate(ctx, mustParse(t, sampleDoc), V03); err == nil {
		t.Fatalf("expected cancellation error")
	}

	// The aborted run must not have registered MSG-001.
	prior, err := registry.CheckAndRegister("MSG-001", "probe.xml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prior) != 0 {
		t.Fatalf("aborted run registered its message ID: %v", prior)
	}
}

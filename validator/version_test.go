package validator

import (
	"errors"
	"testing"
)

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion("03")
	if err != nil || v != V03 {
		t.Fatalf("got %q, %v", v, err)
	}
	if _, err := ParseVersion("02"); err == nil {
		t.Fatalf("expected rejection of 02")
	}
	if _, err := ParseVersion("10"); err == nil {
		t.Fatalf("expected rejection of 10")
	}
	if _, err := ParseVersion(""); err == nil {
		t.Fatalf("expected rejection of empty suffix")
	}
}

func TestResolveFromFilename(t *testing.T) {
	cases := map[string]Version{
		"payments_pain.001.001.03.xml": V03,
		"PAIN.001.001.09_batch.xml":    V09,
		"upload_v4.csv":                V04,
		"batch_V7_final.xml":           V07,
	}
	for name, want := range cases {
		got, err := ResolveFromFilename(name)
		if err != nil {
			t.Errorf("%s: unexpected error %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("%s: got %s, want %s", name, got, want)
		}
	}

	if _, err := ResolveFromFilename("payments.xml"); !errors.Is(err, ErrVersionNotDetected) {
		t.Fatalf("expected ErrVersionNotDetected, got %v", err)
	}
}

func TestResolveFromFilename_LowestVersionWins(t *testing.T) {
	cases := map[string]Version{
		"batch_v5_pain.001.001.03.xml":      V03,
		"pain.001.001.09_then_v4_later.xml": V04,
	}
	for name, want := range cases {
		got, err := ResolveFromFilename(name)
		if err != nil {
			t.Errorf("%s: unexpected error %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("%s: got %s, want %s", name, got, want)
		}
	}
}

func TestResolveFromDocument(t *testing.T) {
	got, err := ResolveFromDocument(mustParse(t, sampleDoc))
	if err != nil || got != V03 {
		t.Fatalf("got %s, %v", got, err)
	}

	noNS := `<?xml version="1.0"?><Document><CstmrCdtTrfInitn/></Document>`
	if _, err := ResolveFromDocument(mustParse(t, noNS)); !errors.Is(err, ErrVersionNotDetected) {
		t.Fatalf("expected ErrVersionNotDetected, got %v", err)
	}

	wrongNS := `<?xml version="1.0"?><Document xmlns="urn:example:other.format.99"><X/></Document>`
	if _, err := ResolveFromDocument(mustParse(t, wrongNS)); !errors.Is(err, ErrVersionNotDetected) {
		t.Fatalf("expected ErrVersionNotDetected, got %v", err)
	}
}

func TestVersionFilenames(t *testing.T) {
	if got := V03.SchemaFile(); got != "pain.001.001.03.xsd" {
		t.Fatalf("schema file: %s", got)
	}
	if got := V05.TemplateFile(); got != "pain.001.001.05.xml" {
		t.Fatalf("template file: %s", got)
	}
	if got := V09.ReferenceFile(); got != "ref_09.xml" {
		t.Fatalf("reference file: %s", got)
	}
}

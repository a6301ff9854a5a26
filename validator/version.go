package validator

import (
	"errors"
	"fmt"
	"strings"
)

// Version identifies a pain.001 message schema version. Only the closed set
// 03..09 is valid; anything else is rejected at construction.
type Version string

const (
	V03 Version = "pain.001.001.03"
	V04 Version = "pain.001.001.04"
	V05 Version = "pain.001.001.05"
	V06 Version = "pain.001.001.06"
	V07 Version = "pain.001.001.07"
	V08 Version = "pain.001.001.08"
	V09 Version = "pain.001.001.09"
)

// ErrVersionNotDetected is returned when neither the filename nor the
// document namespace yields a schema version.
var ErrVersionNotDetected = errors.New("could not determine pain.001 version")

var versionSuffixes = []string{"03", "04", "05", "06", "07", "08", "09"}

// ParseVersion validates a two-digit suffix ("03".."09") and returns the
// typed version. Used for operator-supplied input.
func ParseVersion(suffix string) (Version, error) {
	suffix = strings.TrimSpace(suffix)
	for _, s := range versionSuffixes {
		if suffix == s {
			return Version("pain.001.001." + s), nil
		}
	}
	return "", fmt.Errorf("invalid pain.001 version %q: expected 03..09", suffix)
}

// Suffix returns the trailing two-digit version component, e.g. "03".
func (v Version) Suffix() string {
	if i := strings.LastIndex(string(v), "."); i >= 0 {
		return string(v)[i+1:]
	}
	return string(v)
}

// SchemaFile returns the schema filename convention {version}.xsd.
func (v Version) SchemaFile() string { return string(v) + ".xsd" }

// TemplateFile returns the CSV template filename convention {version}.xml.
func (v Version) TemplateFile() string { return string(v) + ".xml" }

// ReferenceFile returns the reference filename convention ref_{NN}.xml.
func (v Version) ReferenceFile() string { return "ref_" + v.Suffix() + ".xml" }

// ManualResolver supplies a version when automatic detection fails. A CLI
// caller can prompt the operator; a service caller returns false to fail
// fast.
type ManualResolver func(filename string) (Version, bool)

// ResolveFromFilename scans a filename for a pain.001.001.0{3..9} or
// v{3..9} marker, case-insensitive. Versions are probed in ascending order,
// so a filename carrying several markers resolves to the lowest one.
func ResolveFromFilename(filename string) (Version, error) {
	lower := strings.ToLower(filename)
	for _, s := range versionSuffixes {
		if strings.Contains(lower, "pain.001.001."+s) || strings.Contains(lower, "v"+s[1:]) {
			return Version("pain.001.001." + s), nil
		}
	}
	return "", ErrVersionNotDetected
}

// ResolveFromDocument derives the version from the document's default
// namespace URI: the trailing dot-segment is the version suffix, e.g.
// urn:iso:std:iso:20022:tech:xsd:pain.001.001.03 -> 03.
func ResolveFromDocument(doc *Document) (Version, error) {
	ns := doc.Namespace()
	if ns == "" {
		return "", ErrVersionNotDetected
	}
	i := strings.LastIndex(ns, ".")
	if i < 0 {
		return "", ErrVersionNotDetected
	}
	v, err := ParseVersion(ns[i+1:])
	if err != nil {
		// An unrecognized suffix means the namespace is not a supported
		// pain.001 namespace, which callers treat the same as no detection.
		return "", ErrVersionNotDetected
	}
	return v, nil
}

package validator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/agentflare-ai/go-xmldom"
)

// CompareToReference structurally compares the document against the
// reference file for its version and returns human-readable differences.
// A missing reference file is not an error; the comparison is skipped.
func (v *Validator) CompareToReference(doc *Document, version Version) ([]string, error) {
	path := filepath.Join(v.cfg.ReferenceDir, version.ReferenceFile())
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read reference file: %w", err)
	}
	ref, err := ParseDocument(filepath.Base(path), raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse reference file: %w", err)
	}

	var diffs []string
	diffElements(ref.Root(), doc.Root(), string(ref.Root().LocalName()), &diffs)
	return diffs, nil
}

// diffElements walks both trees in parallel by child index, recording name,
// text, and structure mismatches. Text is only compared on leaf elements;
// attribute values are not compared since reference files carry sample data.
func diffElements(ref, got xmldom.Element, path string, out *[]string) {
	if ref == nil || got == nil {
		return
	}
	refName, gotName := string(ref.LocalName()), string(got.LocalName())
	if refName != gotName {
		*out = append(*out, fmt.Sprintf("%s: expected element <%s>, found <%s>", path, refName, gotName))
		return
	}

	refKids := elementChildren(ref)
	gotKids := elementChildren(got)
	if len(refKids) == 0 && len(gotKids) == 0 {
		return
	}

	n := len(refKids)
	if len(gotKids) < n {
		n = len(gotKids)
	}
	for i := 0; i < n; i++ {
		diffElements(refKids[i], gotKids[i], path+"/"+string(refKids[i].LocalName()), out)
	}
	for _, extra := range refKids[n:] {
		*out = append(*out, fmt.Sprintf("%s: missing element <%s>", path, string(extra.LocalName())))
	}
	for _, extra := range gotKids[n:] {
		*out = append(*out, fmt.Sprintf("%s: unexpected element <%s>", path, string(extra.LocalName())))
	}
}

func elementChildren(elem xmldom.Element) []xmldom.Element {
	var out []xmldom.Element
	children := elem.Children()
	for i := uint(0); i < children.Length(); i++ {
		if child := children.Item(i); child != nil {
			out = append(out, child)
		}
	}
	return out
}

package validator

import (
	"context"
	"fmt"
	"strings"
)

// DuplicateMessageIDCheck rejects a GrpHdr/MsgId already registered by an
// earlier run. The lookup and registration are a single atomic registry call,
// so concurrent runs of two files carrying the same ID cannot both pass.
type DuplicateMessageIDCheck struct{}

func (c *DuplicateMessageIDCheck) Name() string { return CheckDuplicateMsgID }

func (c *DuplicateMessageIDCheck) Check(_ context.Context, doc *Document, rc *RunContext) CheckResult {
	res := CheckResult{Passed: true}

	node := doc.First("GrpHdr/MsgId")
	if node == nil {
		return res
	}
	msgID := elementText(node)
	if msgID == "" {
		return res
	}

	prior, err := rc.Registry.CheckAndRegister(msgID, rc.Filename)
	if err != nil {
		res.Passed = false
		res.Findings = append(res.Findings, Finding{
			Severity: SeverityError,
			Message:  fmt.Sprintf("Error during Duplicate Message ID check: %v", err),
			Category: CategoryDupMsgID,
		})
		return res
	}
	if len(prior) > 0 {
		res.Passed = false
		res.Findings = append(res.Findings, Finding{
			Severity: SeverityError,
			Line:     elementLine(node),
			Message:  fmt.Sprintf("Duplicate Message ID '%s' found. (Already used in files: %s)", msgID, strings.Join(prior, ", ")),
			Category: CategoryDupMsgID,
		})
	}
	return res
}

// DuplicateEndToEndIDCheck requires EndToEndId values to be unique within a
// single file. Each duplicate cites the line of the first occurrence.
type DuplicateEndToEndIDCheck struct{}

func (c *DuplicateEndToEndIDCheck) Name() string { return CheckDuplicateE2E }

func (c *DuplicateEndToEndIDCheck) Check(_ context.Context, doc *Document, _ *RunContext) CheckResult {
	res := CheckResult{Passed: true}

	nodes := doc.FindAll("CdtTrfTxInf/PmtId/EndToEndId")
	if len(nodes) == 0 {
		res.Info = append(res.Info, "No EndToEndId elements found in file.")
		return res
	}

	firstSeen := make(map[string]int, len(nodes))
	for _, node := range nodes {
		id := elementText(node)
		line := elementLine(node)
		if prev, ok := firstSeen[id]; ok {
			res.Findings = append(res.Findings, Finding{
				Severity: SeverityError,
				Line:     line,
				Message:  fmt.Sprintf("Duplicate EndToEndId '%s' found (also at Line %d).", id, prev),
				Category: CategoryDupE2E,
			})
			continue
		}
		firstSeen[id] = line
	}
	res.Passed = len(res.Findings) == 0
	return res
}

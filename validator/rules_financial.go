package validator

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// TotalFileControlCheck cross-checks the declared NbOfTxs and CtrlSum in the
// group header against the instructed amounts actually present, and flags
// non-positive amounts. Absence of a declared field skips that sub-check.
type TotalFileControlCheck struct{}

func (c *TotalFileControlCheck) Name() string { return CheckNbOfTxs }

func (c *TotalFileControlCheck) Check(_ context.Context, doc *Document, _ *RunContext) CheckResult {
	res := CheckResult{
		Passed: true,
		Flags:  map[string]bool{CheckNbOfTxs: true, CheckCtrlSum: true},
	}

	nbOfTxsNode := doc.First("NbOfTxs")
	ctrlSumNode := doc.First("CtrlSum")
	amountNodes := doc.FindAll("CdtTrfTxInf/Amt/InstdAmt")

	sum := decimal.Zero
	for _, node := range amountNodes {
		text := elementText(node)
		amount, err := decimal.NewFromString(text)
		if err != nil {
			res.Findings = append(res.Findings, Finding{
				Severity: SeverityError,
				Message:  "Invalid amount format in one of the <InstdAmt> fields.",
				Category: CategoryControlTotal,
			})
			continue
		}
		if amount.Sign() <= 0 {
			res.Findings = append(res.Findings, Finding{
				Severity: SeverityError,
				Line:     elementLine(node),
				Message:  fmt.Sprintf("InstdAmt must be greater than 0. Found: %s", text),
				Category: CategoryControlTotal,
			})
		}
		sum = sum.Add(amount)
	}

	if declared := elementText(nbOfTxsNode); declared != "" {
		actual := len(amountNodes)
		n, err := strconv.Atoi(declared)
		switch {
		case err != nil:
			res.Flags[CheckNbOfTxs] = false
			res.Findings = append(res.Findings, Finding{
				Severity: SeverityError,
				Line:     elementLine(nbOfTxsNode),
				Message:  fmt.Sprintf("NbOfTxs is not a valid integer. Found: %s", declared),
				Category: CategoryControlTotal,
			})
		case n != actual:
			res.Flags[CheckNbOfTxs] = false
			res.Findings = append(res.Findings, Finding{
				Severity: SeverityError,
				Line:     elementLine(nbOfTxsNode),
				Message:  fmt.Sprintf("NbOfTxs mismatch: Declared %s, Found %d transactions in the file.", declared, actual),
				Category: CategoryControlTotal,
			})
		}
	}

	if declared := elementText(ctrlSumNode); declared != "" {
		declaredSum, err := decimal.NewFromString(declared)
		if err != nil {
			res.Flags[CheckCtrlSum] = false
			res.Findings = append(res.Findings, Finding{
				Severity: SeverityError,
				Line:     elementLine(ctrlSumNode),
				Message:  fmt.Sprintf("CtrlSum is not a valid amount. Found: %s", declared),
				Category: CategoryControlTotal,
			})
		} else {
			if declaredSum.Sign() <= 0 {
				res.Flags[CheckCtrlSum] = false
				res.Findings = append(res.Findings, Finding{
					Severity: SeverityError,
					Line:     elementLine(ctrlSumNode),
					Message:  fmt.Sprintf("CtrlSum must be greater than 0. Found: %s", declared),
					Category: CategoryControlTotal,
				})
			}
			if !declaredSum.Round(2).Equal(sum.Round(2)) {
				res.Flags[CheckCtrlSum] = false
				res.Findings = append(res.Findings, Finding{
					Severity: SeverityError,
					Line:     elementLine(ctrlSumNode),
					Message:  fmt.Sprintf("CtrlSum mismatch: Declared %s, Calculated %s from transaction amounts.", declared, sum.Round(2).String()),
					Category: CategoryControlTotal,
				})
			}
		}
	}

	res.Passed = len(res.Findings) == 0
	return res
}

// IBANChecksumCheck validates every debtor-account IBAN using the ISO 13616
// mod-97 construction.
type IBANChecksumCheck struct{}

func (c *IBANChecksumCheck) Name() string { return CheckIBAN }

func (c *IBANChecksumCheck) Check(_ context.Context, doc *Document, _ *RunContext) CheckResult {
	res := CheckResult{Passed: true}

	nodes := doc.FindAll("DbtrAcct/Id/IBAN")
	if len(nodes) == 0 {
		res.Info = append(res.Info, "No IBANs found for Mod10 check.")
		return res
	}
	for _, node := range nodes {
		iban := elementText(node)
		if !IBANChecksumValid(iban) {
			res.Findings = append(res.Findings, Finding{
				Severity: SeverityError,
				Message:  fmt.Sprintf("Mod10 check failed for IBAN: %s", iban),
				Category: CategoryIBAN,
			})
		}
	}
	res.Passed = len(res.Findings) == 0
	return res
}

// IBANChecksumValid implements the ISO 13616 check: move the first four
// characters to the end, replace letters with two digits (A=10..Z=35), and
// the resulting integer mod 97 must equal 1.
func IBANChecksumValid(iban string) bool {
	if len(iban) < 5 {
		return false
	}
	rearranged := iban[4:] + iban[:4]
	var numeric strings.Builder
	for _, ch := range rearranged {
		switch {
		case ch >= '0' && ch <= '9':
			numeric.WriteRune(ch)
		case ch >= 'a' && ch <= 'z':
			numeric.WriteString(strconv.Itoa(int(ch-'a') + 10))
		case ch >= 'A' && ch <= 'Z':
			numeric.WriteString(strconv.Itoa(int(ch-'A') + 10))
		default:
			return false
		}
	}
	// The number exceeds 64 bits for real IBANs; reduce mod 97 incrementally.
	rem := 0
	for _, ch := range numeric.String() {
		rem = (rem*10 + int(ch-'0')) % 97
	}
	return rem == 1
}

// ABARoutingCheck applies the weighted mod-10 routing checksum to every
// 9-digit numeric BIC-like value found under debtor-agent identifiers.
// Non-9-digit or non-numeric values are not checked under this rule.
type ABARoutingCheck struct{}

func (c *ABARoutingCheck) Name() string { return "ABA Routing" }

func (c *ABARoutingCheck) Check(_ context.Context, doc *Document, _ *RunContext) CheckResult {
	res := CheckResult{Passed: true}

	foundNumeric := false
	for _, node := range doc.FindAll("DbtrAgt/FinInstnId/BIC") {
		bic := elementText(node)
		if len(bic) != 9 || !isDigits(bic) {
			continue
		}
		foundNumeric = true
		if !ABARoutingValid(bic) {
			res.Findings = append(res.Findings, Finding{
				Severity: SeverityError,
				Message:  fmt.Sprintf("ABA Routing Mod10 check failed for BIC: %s", bic),
				Category: CategoryABA,
			})
		}
	}
	if !foundNumeric {
		res.Info = append(res.Info, "No 9-digit BICs found for ABA check.")
	}
	res.Passed = len(res.Findings) == 0
	return res
}

// ABARoutingValid checks a 9-digit routing number with the 3-7-1 weight
// cycle; the weighted digit sum must be divisible by 10.
func ABARoutingValid(value string) bool {
	if len(value) != 9 || !isDigits(value) {
		return false
	}
	weights := [3]int{3, 7, 1}
	total := 0
	for i, ch := range value {
		total += int(ch-'0') * weights[i%3]
	}
	return total%10 == 0
}

// MemberIDCheck requires every clearing-system member ID to be purely
// numeric.
type MemberIDCheck struct{}

func (c *MemberIDCheck) Name() string { return CheckMemberID }

func (c *MemberIDCheck) Check(_ context.Context, doc *Document, _ *RunContext) CheckResult {
	res := CheckResult{Passed: true}

	nodes := doc.FindAll("DbtrAgt/FinInstnId/ClrSysMmbId/MmbId")
	if len(nodes) == 0 {
		res.Info = append(res.Info, "No Member IDs (MmbId) found.")
		return res
	}
	for _, node := range nodes {
		mmbid := elementText(node)
		if !isDigits(mmbid) {
			res.Findings = append(res.Findings, Finding{
				Severity: SeverityError,
				Line:     elementLine(node),
				Message:  fmt.Sprintf("Member ID (MmbId) is not numeric: %s", mmbid),
				Category: CategoryMemberID,
			})
		}
	}
	res.Passed = len(res.Findings) == 0
	return res
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

package validator

import (
	"context"
	"fmt"
	"time"

	"github.com/agentflare-ai/go-xmldom"
	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

// Payment type labels produced by classifyPayment.
const (
	PaymentTypeCHK   = "CHK"
	PaymentTypeWIRE  = "WIRE"
	PaymentTypeRTP   = "RTP"
	PaymentTypeACH   = "ACH"
	PaymentTypeOther = "OTHER"
)

// timestampLayout is the human-facing timestamp used in date findings.
const timestampLayout = "Monday, 2006-01-02 at 15:04:05 UTC"

// BusinessCalendar answers settlement-day questions for payment-date checks.
type BusinessCalendar struct {
	cal *cal.BusinessCalendar
}

// USBankCalendar returns a calendar observing U.S. federal holidays.
func USBankCalendar() *BusinessCalendar {
	c := cal.NewBusinessCalendar()
	c.AddHoliday(us.Holidays...)
	return &BusinessCalendar{cal: c}
}

// Holiday reports whether t falls on a holiday (actual or observed) and the
// holiday's name.
func (b *BusinessCalendar) Holiday(t time.Time) (bool, string) {
	actual, observed, h := b.cal.IsHoliday(t)
	if (actual || observed) && h != nil {
		return true, h.Name
	}
	return false, ""
}

// NextBusinessDay returns the first day at or after from that is neither a
// weekend nor a holiday.
func (b *BusinessCalendar) NextBusinessDay(from time.Time) time.Time {
	d := from
	for {
		hol, _ := b.Holiday(d)
		if !isWeekend(d) && !hol {
			return d
		}
		d = d.AddDate(0, 0, 1)
	}
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// PaymentDateCheck validates ReqdExctnDt per payment instruction, with rules
// that depend on how the instruction settles: CHK may be up to three days in
// the past, WIRE and RTP must execute today within the 09:00-17:00 UTC
// submission window, ACH must be today or a future settlement day. Unknown
// types are held to the ACH rules.
type PaymentDateCheck struct{}

func (c *PaymentDateCheck) Name() string { return CheckPaymentDates }

func (c *PaymentDateCheck) Check(_ context.Context, doc *Document, rc *RunContext) CheckResult {
	res := CheckResult{Passed: true, Flags: map[string]bool{}}

	now := rc.Now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	stamp := now.Format(timestampLayout)

	// CreDtTm is parsed once; it gates the WIRE/RTP submission window.
	var creDtTm time.Time
	var haveCreDtTm bool
	if node := doc.First("GrpHdr/CreDtTm"); node != nil {
		text := elementText(node)
		parsed, err := parseCreationTime(text)
		if err != nil {
			res.Findings = append(res.Findings, Finding{
				Severity: SeverityError,
				Message:  fmt.Sprintf("Could not parse CreDtTm ('%s'): %v. Skipping business hours check.", text, err),
				Category: CategoryPaymentDate,
			})
		} else {
			creDtTm = parsed.UTC()
			haveCreDtTm = true
		}
	}

	suggestBusinessDay := func() string {
		d := rc.Calendar.NextBusinessDay(today)
		return time.Date(d.Year(), d.Month(), d.Day(), 9, 0, 0, 0, time.UTC).Format(timestampLayout)
	}
	attempted := Finding{
		Severity: SeverityError,
		Message:  fmt.Sprintf("    Validation attempted on %s.", stamp),
		Category: CategoryPaymentDate,
	}
	fail := func(payType string, f Finding, followups ...Finding) {
		res.Flags[payType] = false
		res.Findings = append(res.Findings, f, attempted)
		res.Findings = append(res.Findings, followups...)
	}

	for _, pmtInf := range doc.FindAll("PmtInf") {
		payType := classifyPayment(pmtInf)

		dtNode := childFirst(pmtInf, "ReqdExctnDt")
		if dtNode == nil {
			res.Findings = append(res.Findings, Finding{
				Severity: SeverityError,
				Message:  "PaymentInfo missing ReqdExctnDt.",
				Category: CategoryPaymentDate,
			})
			continue
		}
		line := elementLine(dtNode)

		dt, err := time.ParseInLocation("2006-01-02", elementText(dtNode), time.UTC)
		if err != nil {
			res.Findings = append(res.Findings,
				Finding{
					Severity: SeverityError,
					Line:     line,
					Message:  "Invalid ReqdExctnDt format (should be YYYY-MM-DD).",
					Category: CategoryPaymentDate,
				},
				attempted,
			)
			continue
		}

		if _, seen := res.Flags[payType]; !seen {
			res.Flags[payType] = true
		}
		foundDate := dt.Format("2006-01-02")

		switch payType {
		case PaymentTypeCHK:
			if dt.Before(today.AddDate(0, 0, -3)) || dt.After(today) {
				fail(payType, Finding{
					Severity: SeverityError,
					Line:     line,
					Message:  fmt.Sprintf("CHK payment must have execution date within past 3 days. Found: %s", foundDate),
					Category: CategoryPaymentDate,
				})
			}

		case PaymentTypeWIRE, PaymentTypeRTP:
			hol, holName := rc.Calendar.Holiday(dt)
			switch {
			case !dt.Equal(today):
				fail(payType, Finding{
					Severity: SeverityError,
					Line:     line,
					Message:  fmt.Sprintf("%s payment must have execution date as today. Found: %s", payType, foundDate),
					Category: CategoryPaymentDate,
				}, Finding{
					Severity: SeverityError,
					Message: fmt.Sprintf("    Suggested next valid execution: %s (today)",
						time.Date(now.Year(), now.Month(), now.Day(), 9, 0, 0, 0, time.UTC).Format(timestampLayout)),
					Category: CategoryPaymentDate,
				})
			case isWeekend(dt):
				fail(payType, Finding{
					Severity: SeverityError,
					Line:     line,
					Message:  fmt.Sprintf("%s payment falls on a weekend (%s) which is non-settlement day.", payType, dt.Weekday()),
					Category: CategoryPaymentDate,
				}, Finding{
					Severity: SeverityError,
					Message:  fmt.Sprintf("    Suggested next valid execution: %s (not a weekend/holiday)", suggestBusinessDay()),
					Category: CategoryPaymentDate,
				})
			case hol:
				fail(payType, Finding{
					Severity: SeverityError,
					Line:     line,
					Message:  fmt.Sprintf("%s payment cannot be processed on U.S. federal holiday: %s.", payType, holName),
					Category: CategoryPaymentDate,
				}, Finding{
					Severity: SeverityError,
					Message:  fmt.Sprintf("    Suggested next valid execution: %s (not a weekend/holiday)", suggestBusinessDay()),
					Category: CategoryPaymentDate,
				})
			case haveCreDtTm:
				h := creDtTm.Hour()
				if h < 9 || h >= 17 {
					fail(payType, Finding{
						Severity: SeverityError,
						Line:     line,
						Message: fmt.Sprintf("%s submission time %s UTC is outside allowed window (09:00-17:00 UTC).",
							payType, creDtTm.Format("15:04:05")),
						Category: CategoryPaymentDate,
					}, Finding{
						Severity: SeverityError,
						Message: fmt.Sprintf("    Suggested next valid submission time: 09:00:00 UTC on %s",
							creDtTm.Format("Monday, 2006-01-02")),
						Category: CategoryPaymentDate,
					})
				}
			}

		case PaymentTypeACH:
			hol, holName := rc.Calendar.Holiday(dt)
			switch {
			case dt.Before(today):
				fail(payType, Finding{
					Severity: SeverityError,
					Line:     line,
					Message:  fmt.Sprintf("ACH payment must have execution date today or in the future. Found: %s", foundDate),
					Category: CategoryPaymentDate,
				}, Finding{
					Severity: SeverityError,
					Message:  fmt.Sprintf("    Suggested next valid execution: %s (next business day)", suggestBusinessDay()),
					Category: CategoryPaymentDate,
				})
			case isWeekend(dt):
				fail(payType, Finding{
					Severity: SeverityError,
					Line:     line,
					Message:  fmt.Sprintf("ACH payment falls on a weekend (%s) which is non-settlement day.", dt.Weekday()),
					Category: CategoryPaymentDate,
				}, Finding{
					Severity: SeverityError,
					Message:  fmt.Sprintf("    Suggested next valid execution: %s (not a weekend/holiday)", suggestBusinessDay()),
					Category: CategoryPaymentDate,
				})
			case hol:
				fail(payType, Finding{
					Severity: SeverityError,
					Line:     line,
					Message:  fmt.Sprintf("ACH payment cannot be scheduled on U.S. federal holiday: %s.", holName),
					Category: CategoryPaymentDate,
				}, Finding{
					Severity: SeverityError,
					Message:  fmt.Sprintf("    Suggested next valid execution: %s (not a weekend/holiday)", suggestBusinessDay()),
					Category: CategoryPaymentDate,
				})
			}

		default:
			hol, holName := rc.Calendar.Holiday(dt)
			switch {
			case dt.Before(today):
				fail(payType, Finding{
					Severity: SeverityError,
					Line:     line,
					Message:  fmt.Sprintf("Unknown payment type treated as ACH. Execution date must be today or future. Found: %s", foundDate),
					Category: CategoryPaymentDate,
				}, Finding{
					Severity: SeverityError,
					Message:  fmt.Sprintf("    Suggested next valid execution: %s (next business day)", suggestBusinessDay()),
					Category: CategoryPaymentDate,
				})
			case isWeekend(dt):
				fail(payType, Finding{
					Severity: SeverityError,
					Line:     line,
					Message:  fmt.Sprintf("Unknown payment type treated as ACH. Execution date falls on weekend (%s).", dt.Weekday()),
					Category: CategoryPaymentDate,
				}, Finding{
					Severity: SeverityError,
					Message:  fmt.Sprintf("    Suggested next valid execution: %s (not a weekend/holiday)", suggestBusinessDay()),
					Category: CategoryPaymentDate,
				})
			case hol:
				fail(payType, Finding{
					Severity: SeverityError,
					Line:     line,
					Message:  fmt.Sprintf("Unknown payment type treated as ACH. Execution date is a U.S. federal holiday (%s).", holName),
					Category: CategoryPaymentDate,
				}, Finding{
					Severity: SeverityError,
					Message:  fmt.Sprintf("    Suggested next valid execution: %s (not a weekend/holiday)", suggestBusinessDay()),
					Category: CategoryPaymentDate,
				})
			}
		}
	}

	res.Passed = len(res.Findings) == 0
	return res
}

// classifyPayment maps a PmtInf block's method and type codes to a settlement
// class. TRF splits on LclInstrm and SvcLvl; anything unrecognized is OTHER.
func classifyPayment(pmtInf xmldom.Element) string {
	method := elementText(childFirst(pmtInf, "PmtMtd"))
	svcLvl := elementText(nestedFirst(pmtInf, "PmtTpInf", "SvcLvl", "Cd"))
	lclInstrm := elementText(nestedFirst(pmtInf, "PmtTpInf", "LclInstrm", "Cd"))

	switch method {
	case "CHK":
		return PaymentTypeCHK
	case "TRF":
		if lclInstrm == "RTP" {
			return PaymentTypeRTP
		}
		switch svcLvl {
		case "URGP", "SDVA":
			return PaymentTypeWIRE
		default:
			return PaymentTypeACH
		}
	default:
		return PaymentTypeOther
	}
}

// parseCreationTime accepts the ISO 8601 shapes seen in GrpHdr/CreDtTm,
// with or without fractional seconds, and with or without a zone offset.
func parseCreationTime(s string) (time.Time, error) {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
	}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

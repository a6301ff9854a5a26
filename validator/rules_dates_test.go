package validator

import (
	"strings"
	"testing"
	"time"
)

func withPaymentType(xml, svcLvl, lclInstrm string) string {
	var b strings.Builder
	if svcLvl != "" {
		b.WriteString("<SvcLvl><Cd>" + svcLvl + "</Cd></SvcLvl>")
	}
	if lclInstrm != "" {
		b.WriteString("<LclInstrm><Cd>" + lclInstrm + "</Cd></LclInstrm>")
	}
	return strings.Replace(xml, "<PmtMtd>TRF</PmtMtd>",
		"<PmtMtd>TRF</PmtMtd><PmtTpInf>"+b.String()+"</PmtTpInf>", 1)
}

func TestClassifyPayment(t *testing.T) {
	cases := []struct {
		method, svcLvl, lclInstrm, want string
	}{
		{"CHK", "", "", PaymentTypeCHK},
		{"TRF", "", "RTP", PaymentTypeRTP},
		{"TRF", "URGP", "", PaymentTypeWIRE},
		{"TRF", "SDVA", "", PaymentTypeWIRE},
		{"TRF", "CUST", "", PaymentTypeACH},
		{"TRF", "", "", PaymentTypeACH},
		{"XYZ", "", "", PaymentTypeOther},
		{"", "", "", PaymentTypeOther},
	}
	for _, tc := range cases {
		xml := strings.Replace(sampleDoc, "<PmtMtd>TRF</PmtMtd>", "<PmtMtd>"+tc.method+"</PmtMtd>", 1)
		xml = withPaymentType(xml, tc.svcLvl, tc.lclInstrm)
		xml = strings.Replace(xml, "<PmtMtd></PmtMtd>", "", 1)
		doc := mustParse(t, xml)
		pmtInf := doc.First("PmtInf")
		if got := classifyPayment(pmtInf); got != tc.want {
			t.Errorf("method=%q svcLvl=%q lclInstrm=%q: got %s, want %s",
				tc.method, tc.svcLvl, tc.lclInstrm, got, tc.want)
		}
	}
}

func TestPaymentDates_ACHToday(t *testing.T) {
	res := runCheck(t, &PaymentDateCheck{}, sampleDoc)
	if !res.Passed {
		t.Fatalf("expected pass, got %v", res.Findings)
	}
	if ok, present := res.Flags[PaymentTypeACH]; !present || !ok {
		t.Fatalf("expected ACH flag true, got %v", res.Flags)
	}
}

func TestPaymentDates_ACHPast(t *testing.T) {
	xml := strings.Replace(sampleDoc, "<ReqdExctnDt>2026-01-07</ReqdExctnDt>", "<ReqdExctnDt>2026-01-06</ReqdExctnDt>", 1)
	res := runCheck(t, &PaymentDateCheck{}, xml)
	if res.Passed {
		t.Fatalf("expected failure")
	}
	if res.Flags[PaymentTypeACH] {
		t.Fatalf("expected ACH flag false")
	}
	first := res.Findings[0]
	if first.Message != "ACH payment must have execution date today or in the future. Found: 2026-01-06" {
		t.Fatalf("unexpected message: %q", first.Message)
	}
	if len(res.Findings) != 3 {
		t.Fatalf("expected finding plus two follow-ups, got %v", res.Findings)
	}
	if !strings.HasPrefix(res.Findings[1].Message, "    Validation attempted on Wednesday, 2026-01-07 at 10:00:00 UTC") {
		t.Fatalf("unexpected follow-up: %q", res.Findings[1].Message)
	}
	if !strings.Contains(res.Findings[2].Message, "Suggested next valid execution: Wednesday, 2026-01-07 at 09:00:00 UTC (next business day)") {
		t.Fatalf("unexpected suggestion: %q", res.Findings[2].Message)
	}
}

func TestPaymentDates_ACHWeekend(t *testing.T) {
	// 2026-01-10 is a Saturday.
	xml := strings.Replace(sampleDoc, "<ReqdExctnDt>2026-01-07</ReqdExctnDt>", "<ReqdExctnDt>2026-01-10</ReqdExctnDt>", 1)
	res := runCheck(t, &PaymentDateCheck{}, xml)
	if res.Passed {
		t.Fatalf("expected failure")
	}
	if res.Findings[0].Message != "ACH payment falls on a weekend (Saturday) which is non-settlement day." {
		t.Fatalf("unexpected message: %q", res.Findings[0].Message)
	}
}

func TestPaymentDates_ACHHoliday(t *testing.T) {
	// 2026-01-19 is Martin Luther King Jr. Day, a Monday.
	xml := strings.Replace(sampleDoc, "<ReqdExctnDt>2026-01-07</ReqdExctnDt>", "<ReqdExctnDt>2026-01-19</ReqdExctnDt>", 1)
	res := runCheck(t, &PaymentDateCheck{}, xml)
	if res.Passed {
		t.Fatalf("expected failure")
	}
	if !strings.HasPrefix(res.Findings[0].Message, "ACH payment cannot be scheduled on U.S. federal holiday:") {
		t.Fatalf("unexpected message: %q", res.Findings[0].Message)
	}
}

func TestPaymentDates_WireTomorrowFails(t *testing.T) {
	xml := withPaymentType(sampleDoc, "URGP", "")
	xml = strings.Replace(xml, "<ReqdExctnDt>2026-01-07</ReqdExctnDt>", "<ReqdExctnDt>2026-01-08</ReqdExctnDt>", 1)
	res := runCheck(t, &PaymentDateCheck{}, xml)
	if res.Passed {
		t.Fatalf("expected failure")
	}
	if res.Flags[PaymentTypeWIRE] {
		t.Fatalf("expected WIRE flag false")
	}
	if res.Findings[0].Message != "WIRE payment must have execution date as today. Found: 2026-01-08" {
		t.Fatalf("unexpected message: %q", res.Findings[0].Message)
	}
	if !strings.Contains(res.Findings[2].Message, "Suggested next valid execution: Wednesday, 2026-01-07 at 09:00:00 UTC (today)") {
		t.Fatalf("unexpected suggestion: %q", res.Findings[2].Message)
	}
}

func TestPaymentDates_WireOutsideWindow(t *testing.T) {
	xml := withPaymentType(sampleDoc, "URGP", "")
	xml = strings.Replace(xml, "<CreDtTm>2026-01-07T10:00:00Z</CreDtTm>", "<CreDtTm>2026-01-07T18:30:00Z</CreDtTm>", 1)
	res := runCheck(t, &PaymentDateCheck{}, xml)
	if res.Passed {
		t.Fatalf("expected failure")
	}
	if res.Findings[0].Message != "WIRE submission time 18:30:00 UTC is outside allowed window (09:00-17:00 UTC)." {
		t.Fatalf("unexpected message: %q", res.Findings[0].Message)
	}
}

func TestPaymentDates_RTPTodayPasses(t *testing.T) {
	xml := withPaymentType(sampleDoc, "", "RTP")
	res := runCheck(t, &PaymentDateCheck{}, xml)
	if !res.Passed {
		t.Fatalf("expected pass, got %v", res.Findings)
	}
	if ok := res.Flags[PaymentTypeRTP]; !ok {
		t.Fatalf("expected RTP flag true, got %v", res.Flags)
	}
}

func TestPaymentDates_CHKWindow(t *testing.T) {
	chk := strings.Replace(sampleDoc, "<PmtMtd>TRF</PmtMtd>", "<PmtMtd>CHK</PmtMtd>", 1)

	// Two days back is inside the three-day window.
	xml := strings.Replace(chk, "<ReqdExctnDt>2026-01-07</ReqdExctnDt>", "<ReqdExctnDt>2026-01-05</ReqdExctnDt>", 1)
	res := runCheck(t, &PaymentDateCheck{}, xml)
	if !res.Passed {
		t.Fatalf("expected pass, got %v", res.Findings)
	}

	// Four days back is outside.
	xml = strings.Replace(chk, "<ReqdExctnDt>2026-01-07</ReqdExctnDt>", "<ReqdExctnDt>2026-01-03</ReqdExctnDt>", 1)
	res = runCheck(t, &PaymentDateCheck{}, xml)
	if res.Passed {
		t.Fatalf("expected failure")
	}
	if res.Findings[0].Message != "CHK payment must have execution date within past 3 days. Found: 2026-01-03" {
		t.Fatalf("unexpected message: %q", res.Findings[0].Message)
	}
}

func TestPaymentDates_MissingAndMalformed(t *testing.T) {
	xml := strings.Replace(sampleDoc, "<ReqdExctnDt>2026-01-07</ReqdExctnDt>", "", 1)
	res := runCheck(t, &PaymentDateCheck{}, xml)
	if res.Passed || res.Findings[0].Message != "PaymentInfo missing ReqdExctnDt." {
		t.Fatalf("expected missing-date finding, got %v", res.Findings)
	}

	xml = strings.Replace(sampleDoc, "<ReqdExctnDt>2026-01-07</ReqdExctnDt>", "<ReqdExctnDt>07/01/2026</ReqdExctnDt>", 1)
	res = runCheck(t, &PaymentDateCheck{}, xml)
	if res.Passed || res.Findings[0].Message != "Invalid ReqdExctnDt format (should be YYYY-MM-DD)." {
		t.Fatalf("expected format finding, got %v", res.Findings)
	}
}

func TestBusinessCalendar(t *testing.T) {
	calendar := USBankCalendar()

	// Independence Day 2026 falls on Saturday July 4; observed Friday July 3.
	hol, name := calendar.Holiday(time.Date(2026, 7, 3, 0, 0, 0, 0, time.UTC))
	if !hol {
		t.Fatalf("expected observed holiday on 2026-07-03")
	}
	if name == "" {
		t.Fatalf("expected holiday name")
	}

	// From Saturday 2026-01-10 the next business day is Monday 2026-01-12.
	next := calendar.NextBusinessDay(time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	if next.Weekday() != time.Monday || next.Day() != 12 {
		t.Fatalf("unexpected next business day: %v", next)
	}

	// A business day maps to itself.
	wed := time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC)
	if got := calendar.NextBusinessDay(wed); !got.Equal(wed) {
		t.Fatalf("expected same day, got %v", got)
	}
}

package validator

import (
	"context"
	"testing"
	"time"
)

// fixedNow is a Wednesday, not a U.S. federal holiday.
var fixedNow = time.Date(2026, 1, 7, 10, 0, 0, 0, time.UTC)

const sampleDoc = `<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:pain.001.001.03">
  <CstmrCdtTrfInitn>
    <GrpHdr>
      <MsgId>MSG-001</MsgId>
      <CreDtTm>2026-01-07T10:00:00Z</CreDtTm>
      <NbOfTxs>2</NbOfTxs>
      <CtrlSum>300.00</CtrlSum>
    </GrpHdr>
    <PmtInf>
      <PmtMtd>TRF</PmtMtd>
      <ReqdExctnDt>2026-01-07</ReqdExctnDt>
      <Dbtr>
        <Nm>Acme Corp</Nm>
        <PstlAdr><Ctry>US</Ctry></PstlAdr>
      </Dbtr>
      <DbtrAcct><Id><IBAN>DE89370400440532013000</IBAN></Id></DbtrAcct>
      <DbtrAgt>
        <FinInstnId>
          <BIC>021000021</BIC>
          <ClrSysMmbId><MmbId>123456</MmbId></ClrSysMmbId>
        </FinInstnId>
      </DbtrAgt>
      <CdtTrfTxInf>
        <PmtId><EndToEndId>E2E-1</EndToEndId></PmtId>
        <Amt><InstdAmt Ccy="USD">100.00</InstdAmt></Amt>
        <Purp><Cd>SALA</Cd></Purp>
      </CdtTrfTxInf>
      <CdtTrfTxInf>
        <PmtId><EndToEndId>E2E-2</EndToEndId></PmtId>
        <Amt><InstdAmt Ccy="EUR">200.00</InstdAmt></Amt>
      </CdtTrfTxInf>
    </PmtInf>
  </CstmrCdtTrfInitn>
</Document>`

func mustParse(t *testing.T, xml string) *Document {
	t.Helper()
	doc, err := ParseDocument("test.xml", []byte(xml))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return doc
}

func testRunContext() *RunContext {
	return &RunContext{
		Filename: "test.xml",
		Registry: NewMemoryRegistry(),
		Now:      fixedNow,
		Calendar: USBankCalendar(),
	}
}

func runCheck(t *testing.T, check RuleCheck, xml string) CheckResult {
	t.Helper()
	return check.Check(context.Background(), mustParse(t, xml), testRunContext())
}

package validator

import (
	"context"
	"time"
)

// Display names for the per-check pass/fail map exposed to callers.
const (
	CheckNbOfTxs        = "NbOfTxs"
	CheckCtrlSum        = "CtrlSum"
	CheckPurposeCode    = "Purpose Code"
	CheckUTF8           = "UTF-8 Encoding"
	CheckCurrencyCode   = "Currency Code"
	CheckDuplicateMsgID = "Duplicate Message ID"
	CheckIBAN           = "IBAN checksum"
	CheckMemberID       = "MmbId"
	CheckCountryCode    = "Country Code"
	CheckDuplicateE2E   = "Duplicate EndToEndId"
	CheckPaymentDates   = "Payment Dates"
)

// Finding categories, one per producer.
const (
	CategorySchema       = "schema"
	CategoryControlTotal = "control-total"
	CategoryIBAN         = "iban"
	CategoryABA          = "aba-routing"
	CategoryMemberID     = "member-id"
	CategoryPurposeCode  = "purpose-code"
	CategoryUTF8         = "utf8-encoding"
	CategoryCurrencyCode = "currency-code"
	CategoryDupMsgID     = "duplicate-msgid"
	CategoryPaymentDate  = "payment-date"
	CategoryCountryCode  = "country-code"
	CategoryDupE2E       = "duplicate-e2e"
)

// RunContext carries per-invocation state into rule checks.
type RunContext struct {
	Filename string
	Registry DuplicateRegistry
	Now      time.Time
	Calendar *BusinessCalendar
}

// RuleCheck is one member of the rule battery. Checks are independent and
// must not assume execution order; a check that encounters malformed data
// returns a finding describing the fault rather than an error, so the rest
// of the battery always runs.
type RuleCheck interface {
	// Name returns the display name used in the per-check pass/fail map.
	Name() string

	// Check inspects the parsed document and reports findings.
	Check(ctx context.Context, doc *Document, rc *RunContext) CheckResult
}

// DefaultRuleChecks returns the standard pain.001 rule battery. The
// duplicate-message-ID check is the only check that mutates shared state
// (the registry); it is placed last so an aborted run never registers a
// message ID for a file whose other checks did not complete.
func DefaultRuleChecks() []RuleCheck {
	return []RuleCheck{
		&TotalFileControlCheck{},
		&IBANChecksumCheck{},
		&ABARoutingCheck{},
		&MemberIDCheck{},
		&PurposeCodeCheck{},
		&UTF8EncodingCheck{},
		&CurrencyCodeCheck{},
		&PaymentDateCheck{},
		&CountryCodeCheck{},
		&DuplicateEndToEndIDCheck{},
		&DuplicateMessageIDCheck{},
	}
}

package validator

import (
	"context"
	"fmt"
	"unicode"
	"unicode/utf8"
)

// validPurposeCodes is the closed set of ISO purpose codes accepted in
// Purp/Cd elements.
var validPurposeCodes = map[string]struct{}{
	"SALA": {}, "PENS": {}, "TAXS": {}, "INTE": {}, "DIVI": {},
	"CASH": {}, "GOVT": {}, "SUPP": {}, "INSM": {}, "CBTV": {},
	"RLWY": {}, "GASB": {}, "ELEC": {}, "WTER": {}, "TELB": {},
	"INFR": {}, "HSPC": {}, "CHAR": {}, "TRAD": {}, "GDSV": {},
}

// validCurrencyCodes is the closed set of ISO 4217 codes accepted in the
// Ccy attribute of instructed amounts.
var validCurrencyCodes = map[string]struct{}{
	"USD": {}, "EUR": {}, "GBP": {}, "INR": {}, "JPY": {}, "AUD": {},
	"CAD": {}, "CHF": {}, "CNY": {}, "SEK": {}, "NZD": {}, "SGD": {},
	"HKD": {}, "NOK": {}, "KRW": {}, "TRY": {}, "RUB": {}, "BRL": {},
	"ZAR": {},
}

// validCountryCodes is the ISO 3166-1 alpha-2 set accepted in Ctry elements.
var validCountryCodes = map[string]struct{}{
	"AD": {}, "AE": {}, "AF": {}, "AG": {}, "AI": {}, "AL": {}, "AM": {}, "AO": {},
	"AQ": {}, "AR": {}, "AS": {}, "AT": {}, "AU": {}, "AW": {}, "AX": {}, "AZ": {},
	"BA": {}, "BB": {}, "BD": {}, "BE": {}, "BF": {}, "BG": {}, "BH": {}, "BI": {},
	"BJ": {}, "BL": {}, "BM": {}, "BN": {}, "BO": {}, "BQ": {}, "BR": {}, "BS": {},
	"BT": {}, "BV": {}, "BW": {}, "BY": {}, "BZ": {}, "CA": {}, "CC": {}, "CD": {},
	"CF": {}, "CG": {}, "CH": {}, "CI": {}, "CK": {}, "CL": {}, "CM": {}, "CN": {},
	"CO": {}, "CR": {}, "CU": {}, "CV": {}, "CW": {}, "CX": {}, "CY": {}, "CZ": {},
	"DE": {}, "DJ": {}, "DK": {}, "DM": {}, "DO": {}, "DZ": {}, "EC": {}, "EE": {},
	"EG": {}, "EH": {}, "ER": {}, "ES": {}, "ET": {}, "FI": {}, "FJ": {}, "FM": {},
	"FO": {}, "FR": {}, "GA": {}, "GB": {}, "GD": {}, "GE": {}, "GF": {}, "GG": {},
	"GH": {}, "GI": {}, "GL": {}, "GM": {}, "GN": {}, "GP": {}, "GQ": {}, "GR": {},
	"GT": {}, "GU": {}, "GW": {}, "GY": {}, "HK": {}, "HM": {}, "HN": {}, "HR": {},
	"HT": {}, "HU": {}, "ID": {}, "IE": {}, "IL": {}, "IM": {}, "IN": {}, "IO": {},
	"IQ": {}, "IR": {}, "IS": {}, "IT": {}, "JE": {}, "JM": {}, "JO": {}, "JP": {},
	"KE": {}, "KG": {}, "KH": {}, "KI": {}, "KM": {}, "KN": {}, "KP": {}, "KR": {},
	"KW": {}, "KY": {}, "KZ": {}, "LA": {}, "LB": {}, "LC": {}, "LI": {}, "LK": {},
	"LR": {}, "LS": {}, "LT": {}, "LU": {}, "LV": {}, "LY": {}, "MA": {}, "MC": {},
	"MD": {}, "ME": {}, "MF": {}, "MG": {}, "MH": {}, "MK": {}, "ML": {}, "MM": {},
	"MN": {}, "MO": {}, "MP": {}, "MQ": {}, "MR": {}, "MS": {}, "MT": {}, "MU": {},
	"MV": {}, "MW": {}, "MX": {}, "MY": {}, "MZ": {}, "NA": {}, "NC": {}, "NE": {},
	"NF": {}, "NG": {}, "NI": {}, "NL": {}, "NO": {}, "NP": {}, "NR": {}, "NU": {},
	"NZ": {}, "OM": {}, "PA": {}, "PE": {}, "PF": {}, "PG": {}, "PH": {}, "PK": {},
	"PL": {}, "PM": {}, "PN": {}, "PR": {}, "PT": {}, "PW": {}, "PY": {}, "QA": {},
	"RE": {}, "RO": {}, "RS": {}, "RU": {}, "RW": {}, "SA": {}, "SB": {}, "SC": {},
	"SD": {}, "SE": {}, "SG": {}, "SH": {}, "SI": {}, "SJ": {}, "SK": {}, "SL": {},
	"SM": {}, "SN": {}, "SO": {}, "SR": {}, "SS": {}, "ST": {}, "SV": {}, "SX": {},
	"SY": {}, "SZ": {}, "TC": {}, "TD": {}, "TF": {}, "TG": {}, "TH": {}, "TJ": {},
	"TK": {}, "TL": {}, "TM": {}, "TN": {}, "TO": {}, "TR": {}, "TT": {}, "TV": {},
	"TZ": {}, "UA": {}, "UG": {}, "UM": {}, "US": {}, "UY": {}, "UZ": {}, "VA": {},
	"VC": {}, "VE": {}, "VG": {}, "VI": {}, "VN": {}, "VU": {}, "WF": {}, "WS": {},
	"YE": {}, "YT": {}, "ZA": {}, "ZM": {}, "ZW": {},
}

// PurposeCodeCheck requires every Purp/Cd value to belong to the closed
// purpose-code set.
type PurposeCodeCheck struct{}

func (c *PurposeCodeCheck) Name() string { return CheckPurposeCode }

func (c *PurposeCodeCheck) Check(_ context.Context, doc *Document, _ *RunContext) CheckResult {
	res := CheckResult{Passed: true}
	for _, node := range doc.FindAll("Purp/Cd") {
		code := elementText(node)
		if _, ok := validPurposeCodes[code]; !ok {
			res.Findings = append(res.Findings, Finding{
				Severity: SeverityError,
				Line:     elementLine(node),
				Message:  fmt.Sprintf("Invalid Purpose Code found: %s", code),
				Category: CategoryPurposeCode,
			})
		}
	}
	res.Passed = len(res.Findings) == 0
	return res
}

// UTF8EncodingCheck requires the raw file bytes to decode as valid UTF-8.
// The failure is a single whole-file finding with no line number.
type UTF8EncodingCheck struct{}

func (c *UTF8EncodingCheck) Name() string { return CheckUTF8 }

func (c *UTF8EncodingCheck) Check(_ context.Context, doc *Document, _ *RunContext) CheckResult {
	res := CheckResult{Passed: true}
	if !utf8.Valid(doc.Raw) {
		res.Passed = false
		res.Findings = append(res.Findings, Finding{
			Severity: SeverityError,
			Message:  "File is not properly UTF-8 encoded.",
			Category: CategoryUTF8,
		})
	}
	return res
}

// CurrencyCodeCheck requires every instructed amount's Ccy attribute to
// belong to the closed currency set. Amounts without a Ccy attribute are not
// flagged by this rule.
type CurrencyCodeCheck struct{}

func (c *CurrencyCodeCheck) Name() string { return CheckCurrencyCode }

func (c *CurrencyCodeCheck) Check(_ context.Context, doc *Document, _ *RunContext) CheckResult {
	res := CheckResult{Passed: true}
	for _, node := range doc.FindAll("InstdAmt") {
		ccy := string(node.GetAttribute("Ccy"))
		if ccy == "" {
			continue
		}
		if _, ok := validCurrencyCodes[ccy]; !ok {
			res.Findings = append(res.Findings, Finding{
				Severity: SeverityError,
				Line:     elementLine(node),
				Message:  fmt.Sprintf("Invalid Currency Code found: %s", ccy),
				Category: CategoryCurrencyCode,
			})
		}
	}
	res.Passed = len(res.Findings) == 0
	return res
}

// CountryCodeCheck requires every Ctry value to be exactly two letters and a
// member of the ISO 3166-1 alpha-2 set.
type CountryCodeCheck struct{}

func (c *CountryCodeCheck) Name() string { return CheckCountryCode }

func (c *CountryCodeCheck) Check(_ context.Context, doc *Document, _ *RunContext) CheckResult {
	res := CheckResult{Passed: true}
	for _, node := range doc.FindAll("Ctry") {
		country := elementText(node)
		if !countryCodeValid(country) {
			res.Findings = append(res.Findings, Finding{
				Severity: SeverityError,
				Line:     elementLine(node),
				Message:  fmt.Sprintf("Invalid Country Code: %s", country),
				Category: CategoryCountryCode,
			})
		}
	}
	res.Passed = len(res.Findings) == 0
	return res
}

func countryCodeValid(code string) bool {
	if len(code) != 2 {
		return false
	}
	for _, ch := range code {
		if !unicode.IsLetter(ch) {
			return false
		}
	}
	upper := string([]rune{unicode.ToUpper(rune(code[0])), unicode.ToUpper(rune(code[1]))})
	_, ok := validCountryCodes[upper]
	return ok
}

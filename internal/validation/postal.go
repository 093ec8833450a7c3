package validation

import "regexp"

// postalPatterns is the per-country postal-code format table, keyed by
// ISO-3166 alpha-2 code. A country absent from the table is validated as
// non-empty only.
var postalPatterns = map[string]*regexp.Regexp{
	"LT": regexp.MustCompile(`^(LT-)?\d{5}$`),
	"LV": regexp.MustCompile(`^LV-\d{4}$`),
	"EE": regexp.MustCompile(`^\d{5}$`),
	"PL": regexp.MustCompile(`^\d{2}-\d{3}$`),
	"NL": regexp.MustCompile(`^\d{4} ?[A-Z]{2}$`),
	"DE": regexp.MustCompile(`^\d{5}$`),
	"FR": regexp.MustCompile(`^\d{5}$`),
	"ES": regexp.MustCompile(`^\d{5}$`),
	"IT": regexp.MustCompile(`^\d{5}$`),
	"FI": regexp.MustCompile(`^\d{5}$`),
	"SE": regexp.MustCompile(`^\d{3} ?\d{2}$`),
	"DK": regexp.MustCompile(`^\d{4}$`),
}

// ValidPostalCode checks code against the destination country's pattern.
// Countries without a configured pattern only require a non-empty value.
func ValidPostalCode(country, code string) bool {
	if code == "" {
		return false
	}
	re, ok := postalPatterns[country]
	if !ok {
		return true
	}
	return re.MatchString(code)
}

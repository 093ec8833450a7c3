package i18n

import "strings"

// Translator maps a message key to a display string, falling back to the
// provided default when the key is unknown. Params are interpolated into
// {placeholder} slots. Implementations never fail; the fallback always
// produces a usable string.
type Translator func(key, fallback string, params map[string]string) string

// Fallback ignores the key and interpolates params into the fallback text.
// Used when no translation catalog is wired in.
func Fallback(_, fallback string, params map[string]string) string {
	return Interpolate(fallback, params)
}

// Interpolate replaces {name} placeholders with their param values.
func Interpolate(s string, params map[string]string) string {
	for k, v := range params {
		s = strings.ReplaceAll(s, "{"+k+"}", v)
	}
	return s
}

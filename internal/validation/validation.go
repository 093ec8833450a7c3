package validation

// FieldErrors maps a field name to a user-facing message. Validation never
// fails with a Go error for user mistakes; callers inspect the map and decide
// whether to block step advancement.
type FieldErrors map[string]string

// HasErrors reports whether any field carries a message.
func HasErrors(fe FieldErrors) bool {
	return len(fe) > 0
}

// Merge folds other into fe and returns fe.
func (fe FieldErrors) Merge(other FieldErrors) FieldErrors {
	for k, v := range other {
		fe[k] = v
	}
	return fe
}

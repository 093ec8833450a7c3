package validation

import "github.com/nyaruka/phonenumbers"

// PhoneChecker renders a validity verdict for a phone number against a
// numbering-plan region. The validator only owns the "required and a verdict
// was returned" contract; the plan rules live behind this interface.
type PhoneChecker interface {
	Valid(number, region string) bool
}

// LibPhoneChecker validates numbers against Google's numbering-plan metadata.
type LibPhoneChecker struct{}

func (LibPhoneChecker) Valid(number, region string) bool {
	parsed, err := phonenumbers.Parse(number, region)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(parsed)
}

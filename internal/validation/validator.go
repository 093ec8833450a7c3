package validation

import (
	"regexp"
	"strings"

	"github.com/blekas10/shopnatural-checkout/internal/domain"
	"github.com/blekas10/shopnatural-checkout/internal/i18n"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validator checks contact and address fields. It is stateless; every call
// returns a fresh FieldErrors map and never panics or returns a Go error.
type Validator struct {
	phone       PhoneChecker
	translate   i18n.Translator
	homeCountry string
}

func NewValidator(phone PhoneChecker, translate i18n.Translator, homeCountry string) *Validator {
	if translate == nil {
		translate = i18n.Fallback
	}
	return &Validator{phone: phone, translate: translate, homeCountry: homeCountry}
}

// ValidateContact checks full name, email and phone. The phone verdict comes
// from the numbering-plan checker for the destination region (country of the
// shipping address when known, home country otherwise).
func (v *Validator) ValidateContact(c domain.ContactInformation, region string) FieldErrors {
	fe := FieldErrors{}

	if strings.TrimSpace(c.FullName) == "" {
		fe["fullName"] = v.msg("checkout.errors.full_name_required", "Full name is required")
	}

	email := strings.TrimSpace(c.Email)
	if email == "" {
		fe["email"] = v.msg("checkout.errors.email_required", "Email is required")
	} else if !emailPattern.MatchString(email) {
		fe["email"] = v.msg("checkout.errors.email_invalid", "Enter a valid email address")
	}

	phone := strings.TrimSpace(c.Phone)
	if phone == "" {
		fe["phone"] = v.msg("checkout.errors.phone_required", "Phone number is required")
	} else {
		if region == "" {
			region = v.homeCountry
		}
		if v.phone != nil && !v.phone.Valid(phone, region) {
			fe["phone"] = v.msg("checkout.errors.phone_invalid", "Enter a valid phone number")
		}
	}

	return fe
}

// ValidateAddress checks the required address fields and the postal code
// against the destination country's format table.
func (v *Validator) ValidateAddress(a domain.ShippingAddress) FieldErrors {
	return v.validateAddressPrefixed(a, "")
}

// ValidateBillingAddress is ValidateAddress with billing-prefixed field keys,
// so shipping and billing errors can live in one map without colliding.
func (v *Validator) ValidateBillingAddress(a domain.ShippingAddress) FieldErrors {
	return v.validateAddressPrefixed(a, "billing.")
}

func (v *Validator) validateAddressPrefixed(a domain.ShippingAddress, prefix string) FieldErrors {
	fe := FieldErrors{}

	if strings.TrimSpace(a.AddressLine1) == "" {
		fe[prefix+"addressLine1"] = v.msg("checkout.errors.address_required", "Address is required")
	}
	if strings.TrimSpace(a.City) == "" {
		fe[prefix+"city"] = v.msg("checkout.errors.city_required", "City is required")
	}
	if strings.TrimSpace(a.Country) == "" {
		fe[prefix+"country"] = v.msg("checkout.errors.country_required", "Country is required")
	}

	postal := strings.TrimSpace(a.PostalCode)
	switch {
	case postal == "":
		fe[prefix+"postalCode"] = v.msg("checkout.errors.postal_code_required", "Postal code is required")
	case !ValidPostalCode(a.Country, postal):
		fe[prefix+"postalCode"] = v.msg("checkout.errors.postal_code_invalid", "Enter a valid postal code for {country}",
			map[string]string{"country": a.Country})
	}

	return fe
}

func (v *Validator) msg(key, fallback string, params ...map[string]string) string {
	var p map[string]string
	if len(params) > 0 {
		p = params[0]
	}
	return v.translate(key, fallback, p)
}

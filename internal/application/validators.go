package application

import (
	"regexp"
	"strings"

	"github.com/adhcode/estate-backend/internal/domain"
)

// Validator holds field-level validation rules shared by the visit and
// household member services.
type Validator struct{}

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?\d{7,15}$`)
)

// ValidateEmail validates the format of an email address.
func (v *Validator) ValidateEmail(email string) error {
	if email == "" {
		return domain.NewValidationError("the email is required")
	}
	if !emailRegex.MatchString(email) {
		return domain.NewValidationError("the email '%s' is not valid", email)
	}
	return nil
}

// ValidatePhone validates a phone number, ignoring spaces, dashes and
// parentheses.
func (v *Validator) ValidatePhone(phone string) error {
	if phone == "" {
		return domain.NewValidationError("the phone number is required")
	}

	clean := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
	if !phoneRegex.MatchString(clean) {
		return domain.NewValidationError("the phone number '%s' must have between 7 and 15 digits", phone)
	}
	return nil
}

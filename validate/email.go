package validate

import (
	"net/mail"
	"regexp"
)

const maxEmailLength = 254

var emailRule = regexp.MustCompile(`^[a-zA-Z0-9._%+'-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks that email is a bare, syntactically valid address.
func ValidateEmail(email string) bool {
	if len(email) > maxEmailLength {
		return false
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return false
	}
	return emailRule.MatchString(email)
}

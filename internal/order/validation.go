package order

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateBuyer checks the checkout form: the required fields, then the
// email shape, then the terms. Fields are trimmed in place.
func ValidateBuyer(form *BuyerForm) error {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.Address = strings.TrimSpace(form.Address)

	if form.Name == "" || form.Email == "" || form.Address == "" {
		return &ValidationError{Title: "Complete your details"}
	}
	if !emailRegex.MatchString(form.Email) {
		return &ValidationError{Title: "Invalid email"}
	}
	if !form.TermsAccepted {
		return &ValidationError{
			Title: "Accept the terms",
			Text:  "You must accept the terms and conditions to continue.",
		}
	}
	return nil
}

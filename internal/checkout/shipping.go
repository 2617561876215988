// Package checkout drives the two-phase purchase flow as an explicit
// state machine with guarded transitions, replacing the web client's
// unguarded numeric step flag.
package checkout

import (
	"regexp"
	"sort"
	"strings"

	"storefront/internal/orders"
)

// Shipping is the checkout shipping form: the order address plus the
// contact email.
type Shipping struct {
	Email string
	orders.Address
}

// FieldErrors maps form fields to their validation messages.
type FieldErrors map[string][]string

func (fe FieldErrors) add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// Fields returns the failing field names in stable order.
func (fe FieldErrors) Fields() []string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// Validate checks the shipping form. An empty result means the form may
// advance to payment.
func (s Shipping) Validate() FieldErrors {
	fe := FieldErrors{}

	if strings.TrimSpace(s.Email) == "" {
		fe.add("email", "email is required")
	} else if !emailPattern.MatchString(s.Email) {
		fe.add("email", "please enter a valid email address")
	}

	required := []struct {
		field, value, msg string
	}{
		{"first_name", s.FirstName, "first name is required"},
		{"last_name", s.LastName, "last name is required"},
		{"address_line_1", s.AddressLine1, "address is required"},
		{"city", s.City, "city is required"},
		{"state", s.State, "state is required"},
		{"postal_code", s.PostalCode, "postal code is required"},
		{"country", s.Country, "country is required"},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			fe.add(r.field, r.msg)
		}
	}

	if countDigits(s.Phone) < 10 {
		fe.add("phone", "phone number is required")
	}

	if len(fe) == 0 {
		return nil
	}
	return fe
}

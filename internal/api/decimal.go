package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Decimal is a server-supplied monetary amount kept as its wire text.
// The server owns all money arithmetic; the client only formats amounts
// and converts the checkout total to provider cents.
type Decimal string

// UnmarshalJSON accepts both `"19.99"` and `19.99`; the API serializes
// decimals as strings but older payloads used bare numbers.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = Decimal(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("failed to decode decimal %s: %w", data, err)
	}
	*d = Decimal(n.String())
	return nil
}

// MarshalJSON writes the amount back as a string.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(d))
}

func (d Decimal) String() string { return string(d) }

// IsZero reports whether the amount is zero or absent.
func (d Decimal) IsZero() bool {
	s := strings.TrimLeft(string(d), "-")
	if s == "" {
		return true
	}
	for _, r := range s {
		if r != '0' && r != '.' {
			return false
		}
	}
	return true
}

// Cents converts the amount to integer cents for the payment provider.
// This is a unit conversion of a server-computed total, not local price
// arithmetic. Amounts with more than two fractional digits are rejected.
func (d Decimal) Cents() (int64, error) {
	s := strings.TrimSpace(string(d))
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("amount %q has sub-cent precision", d)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	whole = strings.TrimLeft(whole, "0")
	if whole == "" {
		whole = "0"
	}
	// 18 significant digits is the most that fits in int64 cents.
	if len(whole)+len(frac) > 18 {
		return 0, fmt.Errorf("amount %q is out of range", d)
	}

	var cents int64
	for _, r := range whole + frac {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid amount %q", d)
		}
		cents = cents*10 + int64(r-'0')
	}
	if neg {
		cents = -cents
	}
	return cents, nil
}

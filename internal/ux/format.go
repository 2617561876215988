package ux

import (
	"strings"
	"time"

	"storefront/internal/api"
	"storefront/internal/orders"
)

// currencySymbols covers the currencies the shop is configured for.
var currencySymbols = map[string]string{
	"usd": "$",
	"eur": "€",
	"gbp": "£",
}

// FormatPrice pretty-prints a server-supplied amount. This is display
// formatting of wire text, never arithmetic.
func FormatPrice(d api.Decimal, currency string) string {
	symbol, ok := currencySymbols[strings.ToLower(currency)]
	if !ok {
		symbol = strings.ToUpper(currency) + " "
	}

	s := string(d)
	if s == "" {
		s = "0.00"
	}
	if !strings.Contains(s, ".") {
		s += ".00"
	}
	return symbol + s
}

// FormatDate renders timestamps the way the order history shows them.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Local().Format("Jan 2, 2006")
}

// StatusBadge renders an order status with its semantic color.
func (s Styles) StatusBadge(st orders.Status) string {
	label := strings.ToUpper(string(st))
	switch st {
	case orders.StatusDelivered:
		return s.Success.Render(label)
	case orders.StatusCancelled, orders.StatusRefunded:
		return s.Error.Render(label)
	case orders.StatusPending:
		return s.Warning.Render(label)
	default:
		return s.Selected.Render(label)
	}
}

// truncate shortens a string to width runes with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}

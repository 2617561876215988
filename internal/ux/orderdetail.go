package ux

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"storefront/internal/orders"
)

// OrderDetailModel shows one order: lines, totals, status and the
// shipping address it was placed with.
type OrderDetailModel struct {
	svc    *Services
	styles Styles

	width  int
	height int

	order  orders.Order
	loaded bool
}

// NewOrderDetailModel creates the order detail page.
func NewOrderDetailModel(svc *Services, styles Styles) OrderDetailModel {
	return OrderDetailModel{svc: svc, styles: styles}
}

// SetSize updates the size.
func (m *OrderDetailModel) SetSize(w, h int) {
	m.width, m.height = w, h
}

// Update handles messages.
func (m OrderDetailModel) Update(msg tea.Msg) (OrderDetailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case orderLoadedMsg:
		m.order = msg.order
		m.loaded = true
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return m, func() tea.Msg { return goToOrdersMsg{} }
		}
	}
	return m, nil
}

// View renders the page.
func (m OrderDetailModel) View() string {
	if !m.loaded {
		return m.styles.Muted.Render("  No order selected.")
	}

	var b strings.Builder
	o := m.order

	b.WriteString(m.styles.Title.Render("  Order " + o.Number))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s   placed %s\n\n",
		m.styles.StatusBadge(o.Status), FormatDate(o.CreatedAt)))

	for _, it := range o.Items {
		name := it.Product.Name
		if it.Variant != nil {
			name += " (" + it.Variant.Name + ")"
		}
		b.WriteString(fmt.Sprintf("    %-44s ×%-3d %10s\n",
			truncate(name, 44), it.Quantity, FormatPrice(it.Total, m.svc.Currency)))
	}

	b.WriteString("\n")
	row := func(label, value string) {
		b.WriteString(fmt.Sprintf("  %-16s %12s\n", label, value))
	}
	row("Subtotal", FormatPrice(o.Subtotal, m.svc.Currency))
	if !o.DiscountAmount.IsZero() {
		row("Discount", "-"+FormatPrice(o.DiscountAmount, m.svc.Currency))
	}
	row("Tax", FormatPrice(o.TaxAmount, m.svc.Currency))
	row("Shipping", FormatPrice(o.ShippingAmount, m.svc.Currency))
	b.WriteString(m.styles.Bold.Render(
		fmt.Sprintf("  %-16s %12s", "Total", FormatPrice(o.TotalAmount, m.svc.Currency))) + "\n\n")

	a := o.ShippingAddress
	b.WriteString(m.styles.Bold.Render("  Shipping to") + "\n")
	b.WriteString(fmt.Sprintf("    %s %s\n", a.FirstName, a.LastName))
	b.WriteString("    " + a.AddressLine1 + "\n")
	if a.AddressLine2 != "" {
		b.WriteString("    " + a.AddressLine2 + "\n")
	}
	b.WriteString(fmt.Sprintf("    %s, %s %s, %s\n", a.City, a.State, a.PostalCode, a.Country))

	if o.Notes != "" {
		b.WriteString("\n" + m.styles.Muted.Render("  Note: "+o.Notes) + "\n")
	}

	b.WriteString("\n" + m.styles.Muted.Render("  esc back to orders"))
	return b.String()
}

package ux

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"storefront/internal/cart"
)

// CartModel is the cart page. It renders whatever the cart service last
// received from the server; every figure on screen is server-supplied.
type CartModel struct {
	svc    *Services
	styles Styles

	width  int
	height int

	row int
}

// NewCartModel creates the cart page.
func NewCartModel(svc *Services, styles Styles) CartModel {
	return CartModel{svc: svc, styles: styles}
}

// SetSize updates the size.
func (m *CartModel) SetSize(w, h int) {
	m.width, m.height = w, h
}

func (m *CartModel) clampRow(snap *cart.Cart) {
	if snap == nil || len(snap.Items) == 0 {
		m.row = 0
		return
	}
	if m.row >= len(snap.Items) {
		m.row = len(snap.Items) - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

// Update handles messages.
func (m CartModel) Update(msg tea.Msg) (CartModel, tea.Cmd) {
	snap := m.svc.Cart.Snapshot()

	switch msg := msg.(type) {
	case cartUpdatedMsg:
		m.clampRow(m.svc.Cart.Snapshot())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			m.row--
			m.clampRow(snap)
		case "down", "j":
			m.row++
			m.clampRow(snap)
		case "+", "=":
			if it, ok := m.selectedItem(snap); ok {
				return m, m.svc.updateQuantityCmd(it.ID, it.Quantity+1)
			}
		case "-":
			if it, ok := m.selectedItem(snap); ok {
				// quantity 1 minus one removes the line
				return m, m.svc.updateQuantityCmd(it.ID, it.Quantity-1)
			}
		case "x", "d", "backspace":
			if it, ok := m.selectedItem(snap); ok {
				return m, m.svc.removeFromCartCmd(it.ID)
			}
		case "X":
			if !snap.IsEmpty() {
				return m, m.svc.clearCartCmd()
			}
		case "r":
			return m, m.svc.refreshCartCmd()
		case "c", "enter":
			if !snap.IsEmpty() {
				return m, func() tea.Msg { return goToCheckoutMsg{} }
			}
		}
	}
	return m, nil
}

func (m CartModel) selectedItem(snap *cart.Cart) (cart.Item, bool) {
	if snap == nil || m.row < 0 || m.row >= len(snap.Items) {
		return cart.Item{}, false
	}
	return snap.Items[m.row], true
}

// View renders the page.
func (m CartModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("  Your cart"))
	b.WriteString("\n")

	snap := m.svc.Cart.Snapshot()

	if !m.svc.Auth.IsAuthenticated() {
		b.WriteString(m.styles.Muted.Render("  Log in to use the cart (storefront login).") + "\n")
		return b.String()
	}
	if snap.IsEmpty() {
		b.WriteString(m.styles.Muted.Render("  Your cart is empty. Browse [P]roducts to add something.") + "\n")
		return b.String()
	}

	for i, it := range snap.Items {
		name := it.Product.Name
		if it.Variant != nil {
			name += " (" + it.Variant.Name + ")"
		}
		line := fmt.Sprintf("%-44s ×%-3d %10s",
			truncate(name, 44), it.Quantity, FormatPrice(it.Price, m.svc.Currency))
		if i == m.row {
			b.WriteString(m.styles.Selected.Render("  > "+line) + "\n")
			continue
		}
		b.WriteString("    " + m.styles.Body.Render(line) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderTotals(snap))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("  +/- quantity   [x] remove   [X] empty cart   [c] checkout"))
	return b.String()
}

func (m CartModel) renderTotals(snap *cart.Cart) string {
	row := func(label string, value string) string {
		return fmt.Sprintf("  %-16s %12s\n", label, value)
	}

	var b strings.Builder
	b.WriteString(row("Subtotal", FormatPrice(snap.Subtotal, m.svc.Currency)))
	if !snap.DiscountAmount.IsZero() {
		b.WriteString(row("Discount", "-"+FormatPrice(snap.DiscountAmount, m.svc.Currency)))
	}
	b.WriteString(row("Tax", FormatPrice(snap.TaxAmount, m.svc.Currency)))
	b.WriteString(row("Shipping", FormatPrice(snap.ShippingAmount, m.svc.Currency)))
	b.WriteString(m.styles.Bold.Render(
		strings.TrimRight(row("Total", FormatPrice(snap.TotalAmount, m.svc.Currency)), "\n")) + "\n")
	return b.String()
}

package ux

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"storefront/internal/catalog"
)

// ProductModel is the product detail page: description, variant picker
// and quantity selector. The add action is disabled whenever the chosen
// variant (or the whole product) has no stock.
type ProductModel struct {
	svc    *Services
	styles Styles

	width  int
	height int

	product  catalog.Product
	loaded   bool
	variant  int // index into product.Variants
	quantity int

	description string
}

// NewProductModel creates the product detail page.
func NewProductModel(svc *Services, styles Styles) ProductModel {
	return ProductModel{svc: svc, styles: styles, quantity: 1}
}

// SetSize updates the size.
func (m *ProductModel) SetSize(w, h int) {
	m.width, m.height = w, h
	if m.loaded {
		m.description = m.renderDescription()
	}
}

// canAdd reports whether the current selection is purchasable.
func (m ProductModel) canAdd() bool {
	if !m.loaded || !m.product.IsInStock {
		return false
	}
	if v, ok := m.selectedVariant(); ok {
		return v.InStock()
	}
	return true
}

func (m ProductModel) selectedVariant() (catalog.ProductVariant, bool) {
	if m.variant < 0 || m.variant >= len(m.product.Variants) {
		return catalog.ProductVariant{}, false
	}
	return m.product.Variants[m.variant], true
}

// Update handles messages.
func (m ProductModel) Update(msg tea.Msg) (ProductModel, tea.Cmd) {
	switch msg := msg.(type) {
	case productLoadedMsg:
		m.product = msg.product
		m.loaded = true
		m.quantity = 1
		m.variant = 0
		if dv, ok := m.product.DefaultVariant(); ok {
			for i, v := range m.product.Variants {
				if v.ID == dv.ID {
					m.variant = i
					break
				}
			}
		}
		m.description = m.renderDescription()
		return m, nil

	case tea.KeyMsg:
		if !m.loaded {
			return m, nil
		}
		switch msg.String() {
		case "up", "k":
			if m.variant > 0 {
				m.variant--
			}
		case "down", "j":
			if m.variant < len(m.product.Variants)-1 {
				m.variant++
			}
		case "+", "=", "right", "l":
			m.quantity++
		case "-", "left", "h":
			if m.quantity > 1 {
				m.quantity--
			}
		case "a", "enter":
			if !m.canAdd() {
				return m, func() tea.Msg {
					return noticeMsg{text: "This item is out of stock."}
				}
			}
			var variantID *int64
			if v, ok := m.selectedVariant(); ok {
				id := v.ID
				variantID = &id
			}
			note := fmt.Sprintf("Added %d × %s to cart.", m.quantity, m.product.Name)
			return m, m.svc.addToCartCmd(m.product.ID, variantID, m.quantity, note)
		}
	}
	return m, nil
}

// renderDescription renders the markdown description through glamour,
// falling back to the raw text if rendering fails.
func (m ProductModel) renderDescription() string {
	text := m.product.Description
	if text == "" {
		text = m.product.ShortDescription
	}
	if text == "" {
		return ""
	}

	width := m.width - 6
	if width < 20 || width > 100 {
		width = 72
	}

	style := "dark"
	if !m.styles.Theme.IsDark {
		style = "light"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// View renders the page.
func (m ProductModel) View() string {
	if !m.loaded {
		return m.styles.Muted.Render("  No product selected.")
	}

	var b strings.Builder
	p := m.product

	b.WriteString(m.styles.Title.Render("  " + p.Name))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render(
		fmt.Sprintf("  %s · %s · SKU %s", p.Brand.Name, p.Category.Name, p.SKU)))
	b.WriteString("\n\n")

	price := FormatPrice(p.MinPrice, m.svc.Currency)
	if v, ok := m.selectedVariant(); ok {
		price = FormatPrice(v.Price, m.svc.Currency)
	} else if string(p.MaxPrice) != "" && p.MaxPrice != p.MinPrice {
		price += " – " + FormatPrice(p.MaxPrice, m.svc.Currency)
	}
	b.WriteString("  " + m.styles.Price.Render(price))
	if p.ReviewCount > 0 {
		b.WriteString(m.styles.Muted.Render(
			fmt.Sprintf("   ★ %.1f (%d reviews)", p.AverageRating, p.ReviewCount)))
	}
	b.WriteString("\n\n")

	if m.description != "" {
		b.WriteString(m.description + "\n\n")
	}

	if len(p.Variants) > 0 {
		b.WriteString(m.styles.Bold.Render("  Options") + "\n")
		for i, v := range p.Variants {
			line := fmt.Sprintf("%s  %s", truncate(v.Name, 30), FormatPrice(v.Price, m.svc.Currency))
			if !v.InStock() {
				line = fmt.Sprintf("%s  %s", truncate(v.Name, 30), "out of stock")
			}
			switch {
			case i == m.variant && v.InStock():
				b.WriteString(m.styles.Selected.Render("  > "+line) + "\n")
			case i == m.variant:
				b.WriteString(m.styles.Disabled.Render("  > "+line) + "\n")
			case !v.InStock():
				b.WriteString("    " + m.styles.Disabled.Render(line) + "\n")
			default:
				b.WriteString("    " + m.styles.Body.Render(line) + "\n")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("  Quantity: %s\n\n", m.styles.Bold.Render(fmt.Sprintf("%d", m.quantity))))

	action := m.styles.Badge.Render(" [a] add to cart ")
	if !m.canAdd() {
		action = m.styles.Disabled.Render(" out of stock ")
	}
	b.WriteString("  " + action + "\n\n")
	b.WriteString(m.styles.Muted.Render("  ↑/↓ option   +/- quantity   [a] add"))
	return b.String()
}

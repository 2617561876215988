package ux

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"storefront/internal/catalog"
)

// HomeModel shows the featured and new-arrival collections side by side
// with a movable selection.
type HomeModel struct {
	svc    *Services
	styles Styles

	width  int
	height int

	featured []catalog.Product
	newest   []catalog.Product

	// selection: 0 = featured column, 1 = new arrivals column
	column int
	row    int
}

// NewHomeModel creates the home page.
func NewHomeModel(svc *Services, styles Styles) HomeModel {
	return HomeModel{svc: svc, styles: styles}
}

// SetSize updates the size.
func (m *HomeModel) SetSize(w, h int) {
	m.width, m.height = w, h
}

func (m HomeModel) selected() (catalog.Product, bool) {
	list := m.featured
	if m.column == 1 {
		list = m.newest
	}
	if m.row < 0 || m.row >= len(list) {
		return catalog.Product{}, false
	}
	return list[m.row], true
}

func (m *HomeModel) clampRow() {
	max := len(m.featured)
	if m.column == 1 {
		max = len(m.newest)
	}
	if max == 0 {
		m.row = 0
		return
	}
	if m.row >= max {
		m.row = max - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

// Update handles messages.
func (m HomeModel) Update(msg tea.Msg) (HomeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case homeLoadedMsg:
		m.featured = msg.featured
		m.newest = msg.newest
		m.clampRow()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			m.row--
			m.clampRow()
		case "down", "j":
			m.row++
			m.clampRow()
		case "left", "h", "right", "l", "tab":
			m.column = 1 - m.column
			m.clampRow()
		case "enter":
			if p, ok := m.selected(); ok {
				return m, func() tea.Msg { return goToProductMsg{slug: p.Slug} }
			}
		}
	}
	return m, nil
}

// View renders the page.
func (m HomeModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("  Welcome to the shop"))
	b.WriteString("\n\n")

	b.WriteString(m.renderColumn("Featured", m.featured, 0))
	b.WriteString("\n")
	b.WriteString(m.renderColumn("New arrivals", m.newest, 1))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("  ↑/↓ select   tab switch list   enter view product"))
	return b.String()
}

func (m HomeModel) renderColumn(title string, products []catalog.Product, column int) string {
	var b strings.Builder

	header := m.styles.Bold.Render("  " + title)
	if m.column == column {
		header = m.styles.Selected.Render("  ▸ " + title)
	}
	b.WriteString(header + "\n")

	if len(products) == 0 {
		b.WriteString(m.styles.Muted.Render("    nothing here yet") + "\n")
		return b.String()
	}

	for i, p := range products {
		cursor := "    "
		line := fmt.Sprintf("%s  %s", truncate(p.Name, 40), FormatPrice(p.MinPrice, m.svc.Currency))
		if !p.IsInStock {
			line += "  " + m.styles.Disabled.Render("out of stock")
		}
		if m.column == column && m.row == i {
			b.WriteString(m.styles.Selected.Render("  > "+line) + "\n")
			continue
		}
		b.WriteString(cursor + m.styles.Body.Render(line) + "\n")
	}
	return b.String()
}

package ux

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"storefront/internal/api"
	"storefront/internal/catalog"
)

// orderings cycles through the sort keys the server accepts.
var orderings = []struct {
	key   string
	label string
}{
	{"-created_at", "newest"},
	{"name", "name"},
	{"price", "price ↑"},
	{"-price", "price ↓"},
	{"-average_rating", "rating"},
}

// ProductsModel is the product listing page: a searchable, sortable,
// paginated table. Each distinct search/sort/page combination is one
// cache key, so revisiting a recent listing does not refetch.
type ProductsModel struct {
	svc    *Services
	styles Styles

	width  int
	height int

	table    table.Model
	search   textinput.Model
	typing   bool
	ordering int

	opts catalog.ListOptions
	page api.Page[catalog.Product]
}

// NewProductsModel creates the product listing page.
func NewProductsModel(svc *Services, styles Styles) ProductsModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Product", Width: 36},
			{Title: "Brand", Width: 14},
			{Title: "Category", Width: 14},
			{Title: "Price", Width: 10},
			{Title: "Stock", Width: 12},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	si := textinput.New()
	si.Placeholder = "Search products…"
	si.CharLimit = 80
	si.Width = 40

	return ProductsModel{
		svc:    svc,
		styles: styles,
		table:  t,
		search: si,
		opts:   catalog.ListOptions{Ordering: orderings[0].key, PageSize: svc.PageSize},
	}
}

// Options returns the current filter/sort/pagination state.
func (m ProductsModel) Options() catalog.ListOptions { return m.opts }

// Typing reports whether the search input has focus.
func (m ProductsModel) Typing() bool { return m.typing }

// SetSize updates the size.
func (m *ProductsModel) SetSize(w, h int) {
	m.width, m.height = w, h
	if h > 10 {
		m.table.SetHeight(h - 8)
	}
}

// Update handles messages.
func (m ProductsModel) Update(msg tea.Msg) (ProductsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case productsLoadedMsg:
		m.page = msg.page
		m.opts = msg.opts
		m.refreshRows()
		return m, nil

	case tea.KeyMsg:
		if m.typing {
			switch msg.String() {
			case "enter":
				m.typing = false
				m.search.Blur()
				m.opts.Search = strings.TrimSpace(m.search.Value())
				m.opts.Page = 1
				return m, m.svc.loadProductsCmd(m.opts)
			case "esc":
				m.typing = false
				m.search.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "/":
			m.typing = true
			m.search.Focus()
			return m, textinput.Blink
		case "s":
			m.ordering = (m.ordering + 1) % len(orderings)
			m.opts.Ordering = orderings[m.ordering].key
			m.opts.Page = 1
			return m, m.svc.loadProductsCmd(m.opts)
		case "f":
			m.opts.InStock = !m.opts.InStock
			m.opts.Page = 1
			return m, m.svc.loadProductsCmd(m.opts)
		case "]", "n":
			if m.page.HasNext() {
				m.opts.Page++
				if m.opts.Page < 2 {
					m.opts.Page = 2
				}
				return m, m.svc.loadProductsCmd(m.opts)
			}
		case "[", "p":
			if m.page.HasPrevious() && m.opts.Page > 1 {
				m.opts.Page--
				return m, m.svc.loadProductsCmd(m.opts)
			}
		case "enter":
			if i := m.table.Cursor(); i >= 0 && i < len(m.page.Results) {
				slug := m.page.Results[i].Slug
				return m, func() tea.Msg { return goToProductMsg{slug: slug} }
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *ProductsModel) refreshRows() {
	rows := make([]table.Row, 0, len(m.page.Results))
	for _, p := range m.page.Results {
		stock := "in stock"
		if !p.IsInStock {
			stock = "out of stock"
		}
		rows = append(rows, table.Row{
			truncate(p.Name, 36),
			truncate(p.Brand.Name, 14),
			truncate(p.Category.Name, 14),
			FormatPrice(p.MinPrice, m.svc.Currency),
			stock,
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(0)
	}
}

// View renders the page.
func (m ProductsModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("  Products"))
	b.WriteString("\n")

	searchStyle := m.styles.Input
	if m.typing {
		searchStyle = searchStyle.BorderForeground(m.styles.Theme.Primary)
	}
	b.WriteString("  " + searchStyle.Render(m.search.View()))

	sort := orderings[m.ordering].label
	filters := fmt.Sprintf("  sort: %s", sort)
	if m.opts.InStock {
		filters += "  |  in stock only"
	}
	if m.opts.Search != "" {
		filters += fmt.Sprintf("  |  %q", m.opts.Search)
	}
	b.WriteString(m.styles.Muted.Render(filters))
	b.WriteString("\n\n")

	if len(m.page.Results) == 0 {
		b.WriteString(m.styles.Muted.Render("  No products match.") + "\n")
	} else {
		b.WriteString(m.table.View() + "\n")
		pageNo := m.opts.Page
		if pageNo < 1 {
			pageNo = 1
		}
		b.WriteString(m.styles.Muted.Render(
			fmt.Sprintf("  %d products  ·  page %d", m.page.Count, pageNo)) + "\n")
	}

	b.WriteString(m.styles.Muted.Render("  [/] search  [s]ort  [f] in-stock  [[/]] page  enter view"))
	return b.String()
}

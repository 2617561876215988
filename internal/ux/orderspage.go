package ux

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"storefront/internal/api"
	"storefront/internal/orders"
)

// OrdersModel is the paginated order history table.
type OrdersModel struct {
	svc    *Services
	styles Styles

	width  int
	height int

	table   table.Model
	page    api.Page[orders.Order]
	pageNum int
}

// NewOrdersModel creates the order history page.
func NewOrdersModel(svc *Services, styles Styles) OrdersModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Order", Width: 18},
			{Title: "Date", Width: 14},
			{Title: "Items", Width: 6},
			{Title: "Total", Width: 12},
			{Title: "Status", Width: 12},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	return OrdersModel{svc: svc, styles: styles, table: t, pageNum: 1}
}

// SetSize updates the size.
func (m *OrdersModel) SetSize(w, h int) {
	m.width, m.height = w, h
	if h > 10 {
		m.table.SetHeight(h - 6)
	}
}

// Update handles messages.
func (m OrdersModel) Update(msg tea.Msg) (OrdersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case ordersLoadedMsg:
		m.page = msg.page
		if msg.num > 0 {
			m.pageNum = msg.num
		}
		m.refreshRows()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "]", "n":
			if m.page.HasNext() {
				m.pageNum++
				return m, m.svc.loadOrdersCmd(m.pageNum)
			}
		case "[", "p":
			if m.page.HasPrevious() && m.pageNum > 1 {
				m.pageNum--
				return m, m.svc.loadOrdersCmd(m.pageNum)
			}
		case "enter":
			if i := m.table.Cursor(); i >= 0 && i < len(m.page.Results) {
				id := m.page.Results[i].ID
				return m, func() tea.Msg { return goToOrderMsg{id: id} }
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *OrdersModel) refreshRows() {
	rows := make([]table.Row, 0, len(m.page.Results))
	for _, o := range m.page.Results {
		rows = append(rows, table.Row{
			o.Number,
			FormatDate(o.CreatedAt),
			fmt.Sprintf("%d", len(o.Items)),
			FormatPrice(o.TotalAmount, m.svc.Currency),
			string(o.Status),
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(0)
	}
}

// View renders the page.
func (m OrdersModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("  Your orders"))
	b.WriteString("\n")

	if !m.svc.Auth.IsAuthenticated() {
		b.WriteString(m.styles.Muted.Render("  Log in to see your order history.") + "\n")
		return b.String()
	}
	if len(m.page.Results) == 0 {
		b.WriteString(m.styles.Muted.Render("  No orders yet.") + "\n")
		return b.String()
	}

	b.WriteString(m.table.View() + "\n")
	b.WriteString(m.styles.Muted.Render(
		fmt.Sprintf("  %d orders  ·  page %d", m.page.Count, m.pageNum)) + "\n")
	b.WriteString(m.styles.Muted.Render("  [[/]] page   enter view order"))
	return b.String()
}

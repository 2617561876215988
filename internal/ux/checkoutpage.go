package ux

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"storefront/internal/checkout"
	"storefront/internal/payments"
)

// Shipping form field indexes. Order matches the rendered form.
const (
	fieldEmail = iota
	fieldFirstName
	fieldLastName
	fieldAddress1
	fieldAddress2
	fieldCity
	fieldState
	fieldPostal
	fieldCountry
	fieldPhone
	shippingFieldCount
)

// Card form field indexes.
const (
	cardName = iota
	cardNumber
	cardExpMonth
	cardExpYear
	cardCVC
	cardFieldCount
)

var shippingLabels = [shippingFieldCount]struct {
	label string
	key   string
}{
	{"Email", "email"},
	{"First name", "first_name"},
	{"Last name", "last_name"},
	{"Address", "address_line_1"},
	{"Address (line 2)", "address_line_2"},
	{"City", "city"},
	{"State", "state"},
	{"Postal code", "postal_code"},
	{"Country", "country"},
	{"Phone", "phone"},
}

var cardLabels = [cardFieldCount]string{
	"Name on card", "Card number", "Expiry month", "Expiry year", "CVC",
}

// CheckoutModel walks the user through the purchase: shipping form, card
// form, then the submission outcome. All transition rules live in the
// checkout flow; the page only renders its current state.
type CheckoutModel struct {
	svc    *Services
	styles Styles

	width  int
	height int

	flow *checkout.Flow

	shipping [shippingFieldCount]textinput.Model
	card     [cardFieldCount]textinput.Model
	focus    int

	fieldErrs checkout.FieldErrors
	cardErr   string
}

// NewCheckoutModel creates an idle checkout page. Start arms it.
func NewCheckoutModel(svc *Services, styles Styles) CheckoutModel {
	return CheckoutModel{svc: svc, styles: styles}
}

// Start begins a fresh checkout for the current cart. It fails when the
// cart is empty; the caller surfaces the error and stays put.
func (m CheckoutModel) Start() (CheckoutModel, tea.Cmd, error) {
	flow, err := checkout.NewFlow(
		m.svc.Cart, m.svc.Intents, m.svc.Provider, m.svc.Orders, m.svc.Currency,
		checkout.WithLogger(m.svc.Logger),
		checkout.WithCache(m.svc.Cache),
	)
	if err != nil {
		return m, nil, err
	}

	m.flow = flow
	m.fieldErrs = nil
	m.cardErr = ""
	m.focus = 0

	for i := range m.shipping {
		in := textinput.New()
		in.Placeholder = shippingLabels[i].label
		in.CharLimit = 120
		in.Width = 36
		m.shipping[i] = in
	}
	if user, ok := m.svc.Auth.CurrentUser(); ok {
		m.shipping[fieldEmail].SetValue(user.Email)
		m.shipping[fieldFirstName].SetValue(user.FirstName)
		m.shipping[fieldLastName].SetValue(user.LastName)
		m.shipping[fieldPhone].SetValue(user.Phone)
	}

	for i := range m.card {
		in := textinput.New()
		in.Placeholder = cardLabels[i]
		in.CharLimit = 40
		in.Width = 24
		m.card[i] = in
	}
	m.card[cardNumber].EchoMode = textinput.EchoPassword
	m.card[cardCVC].EchoMode = textinput.EchoPassword

	m.shipping[0].Focus()
	return m, textinput.Blink, nil
}

// Typing reports whether the page is capturing text input.
func (m CheckoutModel) Typing() bool {
	if m.flow == nil {
		return false
	}
	switch m.flow.State() {
	case checkout.StateCollectingShipping, checkout.StateCollectingPayment:
		return true
	}
	return false
}

// SetSize updates the size.
func (m *CheckoutModel) SetSize(w, h int) {
	m.width, m.height = w, h
}

// Update handles messages.
func (m CheckoutModel) Update(msg tea.Msg) (CheckoutModel, tea.Cmd) {
	if m.flow == nil {
		return m, nil
	}

	switch msg := msg.(type) {
	case checkoutFinishedMsg:
		// The flow already holds the outcome; View reads it directly.
		return m, nil

	case tea.KeyMsg:
		switch m.flow.State() {
		case checkout.StateCollectingShipping:
			return m.updateShipping(msg)
		case checkout.StateCollectingPayment:
			return m.updatePayment(msg)
		case checkout.StateFailed:
			return m.updateFailed(msg)
		case checkout.StateSucceeded:
			if msg.String() == "enter" || msg.String() == "o" {
				if result, ok := m.flow.Result(); ok {
					id := result.Order.ID
					return m, func() tea.Msg { return goToOrderMsg{id: id} }
				}
			}
		}
	}
	return m, nil
}

func (m CheckoutModel) updateShipping(msg tea.KeyMsg) (CheckoutModel, tea.Cmd) {
	switch msg.String() {
	case "tab", "down", "enter":
		if msg.String() == "enter" && m.focus == shippingFieldCount-1 {
			return m.submitShipping()
		}
		return m.moveFocus(m.shipping[:], 1)
	case "shift+tab", "up":
		return m.moveFocus(m.shipping[:], -1)
	case "ctrl+s":
		return m.submitShipping()
	}

	var cmd tea.Cmd
	m.shipping[m.focus], cmd = m.shipping[m.focus].Update(msg)
	return m, cmd
}

func (m CheckoutModel) submitShipping() (CheckoutModel, tea.Cmd) {
	s := checkout.Shipping{Email: strings.TrimSpace(m.shipping[fieldEmail].Value())}
	s.FirstName = strings.TrimSpace(m.shipping[fieldFirstName].Value())
	s.LastName = strings.TrimSpace(m.shipping[fieldLastName].Value())
	s.AddressLine1 = strings.TrimSpace(m.shipping[fieldAddress1].Value())
	s.AddressLine2 = strings.TrimSpace(m.shipping[fieldAddress2].Value())
	s.City = strings.TrimSpace(m.shipping[fieldCity].Value())
	s.State = strings.TrimSpace(m.shipping[fieldState].Value())
	s.PostalCode = strings.TrimSpace(m.shipping[fieldPostal].Value())
	s.Country = strings.TrimSpace(m.shipping[fieldCountry].Value())
	s.Phone = strings.TrimSpace(m.shipping[fieldPhone].Value())

	fe, err := m.flow.SubmitShipping(s)
	if err != nil {
		m.fieldErrs = fe
		return m, nil
	}

	m.fieldErrs = nil
	m.focus = 0
	for i := range m.shipping {
		m.shipping[i].Blur()
	}
	m.card[0].Focus()
	return m, textinput.Blink
}

func (m CheckoutModel) updatePayment(msg tea.KeyMsg) (CheckoutModel, tea.Cmd) {
	switch msg.String() {
	case "tab", "down", "enter":
		if msg.String() == "enter" && m.focus == cardFieldCount-1 {
			return m.submitPayment()
		}
		return m.moveFocus(m.card[:], 1)
	case "shift+tab", "up":
		return m.moveFocus(m.card[:], -1)
	case "ctrl+s":
		return m.submitPayment()
	case "esc":
		if err := m.flow.Back(); err == nil {
			m.cardErr = ""
			m.focus = 0
			for i := range m.card {
				m.card[i].Blur()
			}
			m.shipping[0].Focus()
			return m, textinput.Blink
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.card[m.focus], cmd = m.card[m.focus].Update(msg)
	return m, cmd
}

func (m CheckoutModel) submitPayment() (CheckoutModel, tea.Cmd) {
	card, err := m.buildCard()
	if err != nil {
		m.cardErr = err.Error()
		return m, nil
	}
	m.cardErr = ""
	for i := range m.card {
		m.card[i].Blur()
	}
	return m, submitPaymentCmd(m.flow, card)
}

func (m CheckoutModel) buildCard() (payments.Card, error) {
	card := payments.Card{
		Name:   strings.TrimSpace(m.card[cardName].Value()),
		Number: strings.TrimSpace(m.card[cardNumber].Value()),
		CVC:    strings.TrimSpace(m.card[cardCVC].Value()),
	}

	month, err := strconv.Atoi(strings.TrimSpace(m.card[cardExpMonth].Value()))
	if err != nil {
		return payments.Card{}, fmt.Errorf("expiry month must be a number")
	}
	year, err := strconv.Atoi(strings.TrimSpace(m.card[cardExpYear].Value()))
	if err != nil {
		return payments.Card{}, fmt.Errorf("expiry year must be a number")
	}
	card.ExpMonth, card.ExpYear = month, year

	if err := card.Validate(); err != nil {
		return payments.Card{}, err
	}
	return card, nil
}

func (m CheckoutModel) updateFailed(msg tea.KeyMsg) (CheckoutModel, tea.Cmd) {
	switch msg.String() {
	case "r":
		if err := m.flow.Retry(); err != nil {
			return m, nil
		}
		m.focus = 0
		m.card[0].Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m CheckoutModel) moveFocus(inputs []textinput.Model, delta int) (CheckoutModel, tea.Cmd) {
	inputs[m.focus].Blur()
	m.focus += delta
	if m.focus < 0 {
		m.focus = len(inputs) - 1
	}
	if m.focus >= len(inputs) {
		m.focus = 0
	}
	inputs[m.focus].Focus()
	return m, textinput.Blink
}

// View renders the page.
func (m CheckoutModel) View() string {
	if m.flow == nil {
		return m.styles.Muted.Render("  Nothing to check out.")
	}

	switch m.flow.State() {
	case checkout.StateCollectingShipping:
		return m.viewShipping()
	case checkout.StateCollectingPayment:
		return m.viewPayment()
	case checkout.StateSubmitting:
		return m.styles.Title.Render("  Checkout") + "\n" +
			m.styles.Muted.Render("  Processing payment, do not close…")
	case checkout.StateSucceeded:
		return m.viewSucceeded()
	case checkout.StateFailed:
		return m.viewFailed()
	}
	return ""
}

func (m CheckoutModel) viewShipping() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("  Checkout · Shipping"))
	b.WriteString("\n")

	for i := range m.shipping {
		label := fmt.Sprintf("  %-18s", shippingLabels[i].label)
		b.WriteString(m.styles.Muted.Render(label) + m.shipping[i].View() + "\n")
		if msgs, ok := m.fieldErrs[shippingLabels[i].key]; ok {
			for _, msg := range msgs {
				b.WriteString("                      " + m.styles.Error.Render(msg) + "\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("  tab next field   ctrl+s continue to payment"))
	return b.String()
}

func (m CheckoutModel) viewPayment() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("  Checkout · Payment"))
	b.WriteString("\n")

	if snap := m.svc.Cart.Snapshot(); snap != nil {
		b.WriteString("  " + m.styles.Bold.Render(
			"Total due: "+FormatPrice(snap.TotalAmount, m.svc.Currency)) + "\n\n")
	}

	for i := range m.card {
		label := fmt.Sprintf("  %-18s", cardLabels[i])
		b.WriteString(m.styles.Muted.Render(label) + m.card[i].View() + "\n")
	}
	if m.cardErr != "" {
		b.WriteString("\n  " + m.styles.Error.Render(m.cardErr) + "\n")
	}

	ship := m.flow.Shipping()
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  Ship to: %s %s, %s, %s",
		ship.FirstName, ship.LastName, ship.AddressLine1, ship.City)) + "\n\n")
	b.WriteString(m.styles.Muted.Render("  tab next field   ctrl+s pay now   esc edit shipping"))
	return b.String()
}

func (m CheckoutModel) viewSucceeded() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("  Order placed"))
	b.WriteString("\n")

	if result, ok := m.flow.Result(); ok {
		b.WriteString("  " + m.styles.Success.Render("✓ Thank you for your purchase!") + "\n\n")
		b.WriteString(fmt.Sprintf("  Order number:  %s\n", m.styles.Bold.Render(result.Order.Number)))
		b.WriteString(fmt.Sprintf("  Total charged: %s\n",
			FormatPrice(result.Order.TotalAmount, m.svc.Currency)))
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render("  enter view order   [O]rders history"))
	}
	return b.String()
}

func (m CheckoutModel) viewFailed() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("  Checkout failed"))
	b.WriteString("\n")

	err := m.flow.Err()
	b.WriteString("  " + m.styles.Error.Render(userFacing(err)) + "\n\n")

	if errors.Is(err, checkout.ErrOrderCreation) {
		if result, ok := m.flow.Result(); ok && result.PaymentRef != "" {
			b.WriteString(m.styles.Warning.Render(
				"  Your payment went through but the order could not be recorded.") + "\n")
			b.WriteString(fmt.Sprintf("  Keep this payment reference: %s\n",
				m.styles.Bold.Render(result.PaymentRef)))
			b.WriteString(m.styles.Muted.Render("  Your cart has been kept as it was.") + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("  [r] try again   [C]art"))
	return b.String()
}

package ux

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"storefront/internal/auth"
	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/orders"
	"storefront/internal/payments"
	"storefront/internal/query"
)

// Services bundles everything the pages need. It is passed explicitly;
// there is no package-level state.
type Services struct {
	Auth     *auth.Manager
	Catalog  *catalog.Service
	Cart     *cart.Service
	Orders   *orders.Service
	Intents  *payments.Service
	Provider payments.Provider
	Cache    *query.Cache
	Currency string
	PageSize int
	Logger   *zap.Logger
}

type page int

const (
	pageHome page = iota
	pageProducts
	pageProduct
	pageCart
	pageCheckout
	pageOrders
	pageOrderDetail
)

// App is the root model: it routes between pages, owns the header and
// footer, and surfaces transient notifications.
type App struct {
	svc    *Services
	styles Styles

	width  int
	height int

	page    page
	loading bool
	spin    spinner.Model

	notice    string
	noticeErr bool

	home        HomeModel
	products    ProductsModel
	product     ProductModel
	cartPage    CartModel
	checkout    CheckoutModel
	ordersPage  OrdersModel
	orderDetail OrderDetailModel
}

// NewApp builds the storefront UI.
func NewApp(svc *Services, styles Styles) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Selected

	return App{
		svc:         svc,
		styles:      styles,
		page:        pageHome,
		loading:     true,
		spin:        sp,
		home:        NewHomeModel(svc, styles),
		products:    NewProductsModel(svc, styles),
		product:     NewProductModel(svc, styles),
		cartPage:    NewCartModel(svc, styles),
		checkout:    NewCheckoutModel(svc, styles),
		ordersPage:  NewOrdersModel(svc, styles),
		orderDetail: NewOrderDetailModel(svc, styles),
	}
}

// Init loads the home page and, for a logged-in user, the cart badge.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.spin.Tick, a.svc.loadHomeCmd()}
	if a.svc.Auth.IsAuthenticated() {
		cmds = append(cmds, a.svc.refreshCartCmd())
	}
	return tea.Batch(cmds...)
}

// Update handles global keys and routes everything else to the current
// page.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.setPageSizes()
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case errMsg:
		a.loading = false
		a.notice = userFacing(msg.err)
		a.noticeErr = true
		return a, nil

	case noticeMsg:
		a.notice = msg.text
		a.noticeErr = false
		return a, nil

	case cartUpdatedMsg:
		if msg.note != "" {
			a.notice = msg.note
			a.noticeErr = false
		}
		return a.routeToPage(msg)

	case goToProductMsg:
		a.page = pageProduct
		a.loading = true
		a.clearNotice()
		return a, a.svc.loadProductCmd(msg.slug)

	case goToCheckoutMsg:
		model, cmd, err := a.checkout.Start()
		if err != nil {
			a.notice = userFacing(err)
			a.noticeErr = true
			return a, nil
		}
		a.checkout = model
		a.page = pageCheckout
		a.clearNotice()
		return a, cmd

	case goToOrdersMsg:
		a.page = pageOrders
		a.loading = true
		a.clearNotice()
		return a, a.svc.loadOrdersCmd(1)

	case goToOrderMsg:
		a.page = pageOrderDetail
		a.loading = true
		a.clearNotice()
		return a, a.svc.loadOrderCmd(msg.id)

	case tea.KeyMsg:
		if model, cmd, handled := a.handleGlobalKey(msg); handled {
			return model, cmd
		}
	}

	return a.routeToPage(msg)
}

func (a App) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	// Pages with focused text inputs swallow plain keys; only handle
	// navigation chords that no input uses.
	if a.typingInProgress() {
		if msg.String() == "ctrl+c" {
			return a, tea.Quit, true
		}
		return a, nil, false
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return a, tea.Quit, true
	case "H":
		a.page = pageHome
		a.loading = true
		a.clearNotice()
		return a, a.svc.loadHomeCmd(), true
	case "P":
		a.page = pageProducts
		a.loading = true
		a.clearNotice()
		return a, a.svc.loadProductsCmd(a.products.Options()), true
	case "C":
		a.page = pageCart
		a.loading = true
		a.clearNotice()
		return a, a.svc.refreshCartCmd(), true
	case "O":
		a.page = pageOrders
		a.loading = true
		a.clearNotice()
		return a, a.svc.loadOrdersCmd(1), true
	}
	return a, nil, false
}

// typingInProgress reports whether the focused page is capturing text.
func (a App) typingInProgress() bool {
	switch a.page {
	case pageProducts:
		return a.products.Typing()
	case pageCheckout:
		return a.checkout.Typing()
	}
	return false
}

func (a App) routeToPage(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch a.page {
	case pageHome:
		a.home, cmd = a.home.Update(msg)
	case pageProducts:
		a.products, cmd = a.products.Update(msg)
	case pageProduct:
		a.product, cmd = a.product.Update(msg)
	case pageCart:
		a.cartPage, cmd = a.cartPage.Update(msg)
	case pageCheckout:
		a.checkout, cmd = a.checkout.Update(msg)
	case pageOrders:
		a.ordersPage, cmd = a.ordersPage.Update(msg)
	case pageOrderDetail:
		a.orderDetail, cmd = a.orderDetail.Update(msg)
	}

	// Data arrival ends the page-level loading state.
	switch msg.(type) {
	case homeLoadedMsg, productsLoadedMsg, productLoadedMsg,
		cartUpdatedMsg, ordersLoadedMsg, orderLoadedMsg, checkoutFinishedMsg:
		a.loading = false
	}

	return a, cmd
}

func (a *App) clearNotice() {
	a.notice = ""
	a.noticeErr = false
}

func (a *App) setPageSizes() {
	w, h := a.width, a.height-4 // header + footer + notice line
	a.home.SetSize(w, h)
	a.products.SetSize(w, h)
	a.product.SetSize(w, h)
	a.cartPage.SetSize(w, h)
	a.checkout.SetSize(w, h)
	a.ordersPage.SetSize(w, h)
	a.orderDetail.SetSize(w, h)
}

// View renders header, current page, notice line and footer.
func (a App) View() string {
	var b strings.Builder

	b.WriteString(a.renderHeader())
	b.WriteString("\n")

	if a.loading {
		b.WriteString("\n  " + a.spin.View() + " loading…\n")
	} else {
		switch a.page {
		case pageHome:
			b.WriteString(a.home.View())
		case pageProducts:
			b.WriteString(a.products.View())
		case pageProduct:
			b.WriteString(a.product.View())
		case pageCart:
			b.WriteString(a.cartPage.View())
		case pageCheckout:
			b.WriteString(a.checkout.View())
		case pageOrders:
			b.WriteString(a.ordersPage.View())
		case pageOrderDetail:
			b.WriteString(a.orderDetail.View())
		}
	}

	b.WriteString("\n")
	if a.notice != "" {
		style := a.styles.Success
		if a.noticeErr {
			style = a.styles.Error
		}
		b.WriteString(style.Render("  "+a.notice) + "\n")
	}
	b.WriteString(a.renderFooter())
	return b.String()
}

func (a App) renderHeader() string {
	left := " STOREFRONT "

	who := "guest"
	if user, ok := a.svc.Auth.CurrentUser(); ok {
		who = user.FullName()
	}

	badge := ""
	if snap := a.svc.Cart.Snapshot(); snap != nil && snap.TotalItems > 0 {
		badge = fmt.Sprintf("  cart:%d", snap.TotalItems)
	}

	return a.styles.Header.Render(left) + a.styles.Muted.Render("  "+who+badge)
}

func (a App) renderFooter() string {
	return a.styles.Footer.Render("[H]ome  [P]roducts  [C]art  [O]rders  [q]uit")
}

// userFacing flattens an error into the transient notification line.
func userFacing(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

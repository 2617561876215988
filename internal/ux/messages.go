package ux

import (
	"storefront/internal/api"
	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/orders"
)

// Messages delivered by async commands. Every page renders a loading
// branch while its command is in flight and an error branch on errMsg.

type errMsg struct{ err error }

type noticeMsg struct{ text string }

type homeLoadedMsg struct {
	featured []catalog.Product
	newest   []catalog.Product
}

type productsLoadedMsg struct {
	page api.Page[catalog.Product]
	opts catalog.ListOptions
}

type productLoadedMsg struct {
	product catalog.Product
}

// cartUpdatedMsg follows any successful cart mutation or refresh; the
// cart page re-reads the service snapshot when it arrives. A non-empty
// note is shown as a confirmation, so it is only set on success paths.
type cartUpdatedMsg struct {
	note string
}

type ordersLoadedMsg struct {
	page api.Page[orders.Order]
	num  int
}

type orderLoadedMsg struct {
	order orders.Order
}

type checkoutFinishedMsg struct {
	result checkout.Result
	err    error
}

// Navigation requests emitted by pages.

type goToProductMsg struct{ slug string }

type goToCheckoutMsg struct{}

type goToOrderMsg struct{ id int64 }

type goToOrdersMsg struct{}

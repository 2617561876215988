package ux

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/payments"
)

// Commands wrap service calls as tea.Cmds. Each resolves to exactly one
// message: the loaded data or errMsg.

func (s *Services) loadHomeCmd() tea.Cmd {
	return func() tea.Msg {
		var featured, newest []catalog.Product
		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error {
			var err error
			featured, err = s.Catalog.Featured(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			newest, err = s.Catalog.New(ctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return errMsg{err}
		}
		return homeLoadedMsg{featured: featured, newest: newest}
	}
}

func (s *Services) loadProductsCmd(opts catalog.ListOptions) tea.Cmd {
	return func() tea.Msg {
		page, err := s.Catalog.Products(context.Background(), opts)
		if err != nil {
			return errMsg{err}
		}
		return productsLoadedMsg{page: page, opts: opts}
	}
}

func (s *Services) loadProductCmd(slug string) tea.Cmd {
	return func() tea.Msg {
		p, err := s.Catalog.Product(context.Background(), slug)
		if err != nil {
			return errMsg{err}
		}
		return productLoadedMsg{product: p}
	}
}

func (s *Services) refreshCartCmd() tea.Cmd {
	return func() tea.Msg {
		if err := s.Cart.Refresh(context.Background()); err != nil {
			return errMsg{err}
		}
		return cartUpdatedMsg{}
	}
}

func (s *Services) addToCartCmd(productID int64, variantID *int64, quantity int, note string) tea.Cmd {
	return func() tea.Msg {
		if err := s.Cart.Add(context.Background(), productID, variantID, quantity); err != nil {
			return errMsg{err}
		}
		return cartUpdatedMsg{note: note}
	}
}

func (s *Services) updateQuantityCmd(itemID int64, quantity int) tea.Cmd {
	return func() tea.Msg {
		if err := s.Cart.UpdateQuantity(context.Background(), itemID, quantity); err != nil {
			return errMsg{err}
		}
		return cartUpdatedMsg{}
	}
}

func (s *Services) removeFromCartCmd(itemID int64) tea.Cmd {
	return func() tea.Msg {
		if err := s.Cart.Remove(context.Background(), itemID); err != nil {
			return errMsg{err}
		}
		return cartUpdatedMsg{}
	}
}

func (s *Services) clearCartCmd() tea.Cmd {
	return func() tea.Msg {
		if err := s.Cart.Clear(context.Background()); err != nil {
			return errMsg{err}
		}
		return cartUpdatedMsg{}
	}
}

func (s *Services) loadOrdersCmd(page int) tea.Cmd {
	return func() tea.Msg {
		out, err := s.Orders.List(context.Background(), page)
		if err != nil {
			return errMsg{err}
		}
		return ordersLoadedMsg{page: out, num: page}
	}
}

func (s *Services) loadOrderCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		o, err := s.Orders.Get(context.Background(), id)
		if err != nil {
			return errMsg{err}
		}
		return orderLoadedMsg{order: o}
	}
}

func submitPaymentCmd(flow *checkout.Flow, card payments.Card) tea.Cmd {
	return func() tea.Msg {
		result, err := flow.ConfirmPayment(context.Background(), card)
		return checkoutFinishedMsg{result: result, err: err}
	}
}

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"storefront/internal/checkout"
	"storefront/internal/payments"
)

var (
	shipEmail    string
	shipFirst    string
	shipLast     string
	shipAddress1 string
	shipAddress2 string
	shipCity     string
	shipState    string
	shipPostal   string
	shipCountry  string
	shipPhone    string

	cardNumberFlag string
	cardExpFlag    string
	cardCVCFlag    string
	cardNameFlag   string
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Place an order for the current cart",
	Long: `Places an order for the current cart: the card is charged for the
server-computed total, then the order is created and the cart emptied.

All shipping fields and card details are taken from flags, which makes
the command scriptable. For the guided version, run the interactive
storefront instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.Cart.Refresh(cmd.Context()); err != nil {
			return err
		}

		flow, err := checkout.NewFlow(
			app.Cart, app.Payments, app.Provider, app.Orders, cfg.Payments.Currency,
			checkout.WithLogger(logger),
			checkout.WithCache(app.Cache),
		)
		if err != nil {
			return err
		}

		shipping := checkout.Shipping{Email: shipEmail}
		shipping.FirstName = shipFirst
		shipping.LastName = shipLast
		shipping.AddressLine1 = shipAddress1
		shipping.AddressLine2 = shipAddress2
		shipping.City = shipCity
		shipping.State = shipState
		shipping.PostalCode = shipPostal
		shipping.Country = shipCountry
		shipping.Phone = shipPhone

		if fieldErrs, err := flow.SubmitShipping(shipping); err != nil {
			for _, field := range fieldErrs.Fields() {
				for _, msg := range fieldErrs[field] {
					fmt.Printf("  --%s: %s\n", strings.ReplaceAll(field, "_", "-"), msg)
				}
			}
			return err
		}

		card, err := parseCardFlags()
		if err != nil {
			return err
		}

		result, err := flow.ConfirmPayment(cmd.Context(), card)
		if err != nil {
			if errors.Is(err, checkout.ErrOrderCreation) && result.PaymentRef != "" {
				fmt.Printf("Payment went through but the order could not be recorded.\n")
				fmt.Printf("Payment reference: %s\n", result.PaymentRef)
				fmt.Println("Your cart has been kept as it was.")
			}
			return err
		}

		fmt.Printf("Order placed: %s\n", result.Order.Number)
		fmt.Printf("Total charged: %s\n", result.Order.TotalAmount)
		return nil
	},
}

// parseCardFlags builds the card from --card-* flags. Expiry is MM/YY or
// MM/YYYY.
func parseCardFlags() (payments.Card, error) {
	card := payments.Card{
		Number: cardNumberFlag,
		CVC:    cardCVCFlag,
		Name:   cardNameFlag,
	}

	parts := strings.SplitN(cardExpFlag, "/", 2)
	if len(parts) != 2 {
		return payments.Card{}, fmt.Errorf("--card-exp must be MM/YY or MM/YYYY")
	}
	if _, err := fmt.Sscanf(parts[0], "%d", &card.ExpMonth); err != nil {
		return payments.Card{}, fmt.Errorf("--card-exp must be MM/YY or MM/YYYY")
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &card.ExpYear); err != nil {
		return payments.Card{}, fmt.Errorf("--card-exp must be MM/YY or MM/YYYY")
	}
	if card.ExpYear < 100 {
		card.ExpYear += 2000
	}

	if err := card.Validate(); err != nil {
		return payments.Card{}, err
	}
	return card, nil
}

func init() {
	f := checkoutCmd.Flags()
	f.StringVar(&shipEmail, "email", "", "contact email")
	f.StringVar(&shipFirst, "first-name", "", "first name")
	f.StringVar(&shipLast, "last-name", "", "last name")
	f.StringVar(&shipAddress1, "address-line-1", "", "street address")
	f.StringVar(&shipAddress2, "address-line-2", "", "street address, second line")
	f.StringVar(&shipCity, "city", "", "city")
	f.StringVar(&shipState, "state", "", "state or province")
	f.StringVar(&shipPostal, "postal-code", "", "postal code")
	f.StringVar(&shipCountry, "country", "", "country")
	f.StringVar(&shipPhone, "phone", "", "phone number")

	f.StringVar(&cardNumberFlag, "card-number", "", "card number")
	f.StringVar(&cardExpFlag, "card-exp", "", "card expiry, MM/YY")
	f.StringVar(&cardCVCFlag, "card-cvc", "", "card security code")
	f.StringVar(&cardNameFlag, "card-name", "", "name on card")
}

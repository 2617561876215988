package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show and edit the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showCart(cmd)
	},
}

var (
	cartAddVariant  int64
	cartAddQuantity int
)

var cartAddCmd = &cobra.Command{
	Use:   "add [product-id]",
	Short: "Add a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		productID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[0])
		}
		var variantID *int64
		if cartAddVariant > 0 {
			variantID = &cartAddVariant
		}
		if err := app.Cart.Add(cmd.Context(), productID, variantID, cartAddQuantity); err != nil {
			return err
		}
		return showCart(cmd)
	},
}

var cartSetCmd = &cobra.Command{
	Use:   "set [item-id] [quantity]",
	Short: "Set the quantity of a cart line (0 removes it)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid item id %q", args[0])
		}
		qty, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[1])
		}
		if err := app.Cart.UpdateQuantity(cmd.Context(), itemID, qty); err != nil {
			return err
		}
		return showCart(cmd)
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove [item-id]",
	Short: "Remove a line from the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid item id %q", args[0])
		}
		if err := app.Cart.Remove(cmd.Context(), itemID); err != nil {
			return err
		}
		return showCart(cmd)
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.Cart.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Cart emptied.")
		return nil
	},
}

func showCart(cmd *cobra.Command) error {
	if !app.Auth.IsAuthenticated() {
		fmt.Println("Not logged in; the cart is empty.")
		return nil
	}
	if err := app.Cart.Refresh(cmd.Context()); err != nil {
		return err
	}

	snap := app.Cart.Snapshot()
	if snap.IsEmpty() {
		fmt.Println("Your cart is empty.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tPRODUCT\tQTY\tPRICE")
	for _, it := range snap.Items {
		name := it.Product.Name
		if it.Variant != nil {
			name += " (" + it.Variant.Name + ")"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", it.ID, name, it.Quantity, it.Price)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nSubtotal  %s\n", snap.Subtotal)
	if !snap.DiscountAmount.IsZero() {
		fmt.Printf("Discount  -%s\n", snap.DiscountAmount)
	}
	fmt.Printf("Tax       %s\n", snap.TaxAmount)
	fmt.Printf("Shipping  %s\n", snap.ShippingAmount)
	fmt.Printf("Total     %s\n", snap.TotalAmount)
	return nil
}

func init() {
	cartAddCmd.Flags().Int64Var(&cartAddVariant, "variant", 0, "variant id")
	cartAddCmd.Flags().IntVarP(&cartAddQuantity, "quantity", "n", 1, "quantity")

	cartCmd.AddCommand(cartAddCmd, cartSetCmd, cartRemoveCmd, cartClearCmd)
}

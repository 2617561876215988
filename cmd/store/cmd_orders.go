package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var ordersPage int

var ordersCmd = &cobra.Command{
	Use:   "orders [id]",
	Short: "List your orders, or show one by id",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid order id %q", args[0])
			}
			return showOrder(cmd, id)
		}

		page, err := app.Orders.List(cmd.Context(), ordersPage)
		if err != nil {
			return err
		}
		if len(page.Results) == 0 {
			fmt.Println("No orders yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tORDER\tDATE\tTOTAL\tSTATUS")
		for _, o := range page.Results {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
				o.ID, o.Number, o.CreatedAt.Local().Format("2006-01-02"), o.TotalAmount, o.Status)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		if page.HasNext() {
			fmt.Printf("\nMore on --page %d\n", ordersPage+1)
		}
		return nil
	},
}

func showOrder(cmd *cobra.Command, id int64) error {
	o, err := app.Orders.Get(cmd.Context(), id)
	if err != nil {
		return err
	}

	fmt.Printf("Order %s  (%s)\n", o.Number, o.Status)
	fmt.Printf("Placed %s\n\n", o.CreatedAt.Local().Format("2006-01-02 15:04"))

	for _, it := range o.Items {
		name := it.Product.Name
		if it.Variant != nil {
			name += " (" + it.Variant.Name + ")"
		}
		fmt.Printf("  %s  ×%d  %s\n", name, it.Quantity, it.Total)
	}

	fmt.Printf("\nSubtotal  %s\n", o.Subtotal)
	if !o.DiscountAmount.IsZero() {
		fmt.Printf("Discount  -%s\n", o.DiscountAmount)
	}
	fmt.Printf("Tax       %s\n", o.TaxAmount)
	fmt.Printf("Shipping  %s\n", o.ShippingAmount)
	fmt.Printf("Total     %s\n", o.TotalAmount)

	a := o.ShippingAddress
	fmt.Printf("\nShipping to %s %s, %s, %s %s %s, %s\n",
		a.FirstName, a.LastName, a.AddressLine1, a.City, a.State, a.PostalCode, a.Country)
	return nil
}

func init() {
	ordersCmd.Flags().IntVar(&ordersPage, "page", 1, "result page")
}

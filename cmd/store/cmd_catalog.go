package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"storefront/internal/catalog"
)

var (
	productsSearch   string
	productsCategory int64
	productsBrand    int64
	productsMinPrice string
	productsMaxPrice string
	productsInStock  bool
	productsOrdering string
	productsPage     int
)

var productsCmd = &cobra.Command{
	Use:   "products [slug]",
	Short: "List products, or show one by slug",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return showProduct(cmd, args[0])
		}

		page, err := app.Catalog.Products(cmd.Context(), catalog.ListOptions{
			Search:   productsSearch,
			Category: productsCategory,
			Brand:    productsBrand,
			MinPrice: productsMinPrice,
			MaxPrice: productsMaxPrice,
			InStock:  productsInStock,
			Ordering: productsOrdering,
			Page:     productsPage,
			PageSize: cfg.UX.PageSize,
		})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SLUG\tNAME\tBRAND\tPRICE\tSTOCK")
		for _, p := range page.Results {
			stock := "in stock"
			if !p.IsInStock {
				stock = "out of stock"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				p.Slug, p.Name, p.Brand.Name, p.MinPrice, stock)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("\n%d products", page.Count)
		if page.HasNext() {
			fmt.Printf(" (more on --page %d)", productsPage+1)
		}
		fmt.Println()
		return nil
	},
}

func showProduct(cmd *cobra.Command, slug string) error {
	p, err := app.Catalog.Product(cmd.Context(), slug)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", p.Name)
	fmt.Printf("%s · %s · SKU %s\n", p.Brand.Name, p.Category.Name, p.SKU)
	fmt.Printf("Price: %s", p.MinPrice)
	if p.MaxPrice != p.MinPrice && string(p.MaxPrice) != "" {
		fmt.Printf(" - %s", p.MaxPrice)
	}
	fmt.Println()
	if !p.IsInStock {
		fmt.Println("Out of stock")
	}
	if p.ShortDescription != "" {
		fmt.Printf("\n%s\n", p.ShortDescription)
	}
	if len(p.Variants) > 0 {
		fmt.Println("\nOptions:")
		for _, v := range p.Variants {
			note := ""
			if !v.InStock() {
				note = "  (out of stock)"
			}
			fmt.Printf("  [%d] %s  %s%s\n", v.ID, v.Name, v.Price, note)
		}
	}
	return nil
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List product categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		cats, err := app.Catalog.Categories(cmd.Context())
		if err != nil {
			return err
		}
		for _, c := range cats {
			fmt.Printf("%s\t%s\n", c.Slug, c.Name)
			for _, child := range c.Children {
				fmt.Printf("  %s\t%s\n", child.Slug, child.Name)
			}
		}
		return nil
	},
}

var brandsCmd = &cobra.Command{
	Use:   "brands",
	Short: "List brands",
	RunE: func(cmd *cobra.Command, args []string) error {
		brands, err := app.Catalog.Brands(cmd.Context())
		if err != nil {
			return err
		}
		for _, b := range brands {
			fmt.Printf("%s\t%s\n", b.Slug, b.Name)
		}
		return nil
	},
}

func init() {
	productsCmd.Flags().StringVarP(&productsSearch, "search", "s", "", "search term")
	productsCmd.Flags().Int64Var(&productsCategory, "category", 0, "category id")
	productsCmd.Flags().Int64Var(&productsBrand, "brand", 0, "brand id")
	productsCmd.Flags().StringVar(&productsMinPrice, "min-price", "", "minimum price")
	productsCmd.Flags().StringVar(&productsMaxPrice, "max-price", "", "maximum price")
	productsCmd.Flags().BoolVar(&productsInStock, "in-stock", false, "only in-stock products")
	productsCmd.Flags().StringVar(&productsOrdering, "sort", "", "sort key (name, price, -price, -created_at)")
	productsCmd.Flags().IntVar(&productsPage, "page", 1, "result page")
}

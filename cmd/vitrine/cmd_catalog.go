package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/vitrine/pkg/api"
	"github.com/shashiranjanraj/vitrine/pkg/collection"
)

var (
	productsPage    int
	productsLimit   int
	productsInStock bool
)

func init() {
	productsCmd.Flags().IntVar(&productsPage, "page", 1, "catalog page")
	productsCmd.Flags().IntVar(&productsLimit, "limit", 100, "products per page")
	productsCmd.Flags().BoolVar(&productsInStock, "in-stock", false, "only show products with stock")
}

// vitrine products — list the catalog. Works anonymously.
var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List catalog products",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession()
		products, err := s.api.Products(cmd.Context(), productsPage, productsLimit)
		if err != nil {
			return err
		}

		if productsInStock {
			products = collection.Filter(products, func(p api.Product) bool { return p.StockQuantity > 0 })
		}
		if len(products) == 0 {
			fmt.Println("No products found.")
			return nil
		}

		products = collection.SortBy(products, func(p api.Product) int { return p.ID })

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK")
		fmt.Fprintln(w, "--\t----\t-----\t-----")
		for _, p := range products {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", p.ID, p.Name, p.Price.StringFixed(2), p.StockQuantity)
		}
		return w.Flush()
	},
}

// vitrine product <id> — show one product.
var productCmd = &cobra.Command{
	Use:   "product <id>",
	Short: "Show a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("product ID must be a number, got %q", args[0])
		}

		s := newSession()
		p, err := s.api.Product(cmd.Context(), id)
		if err != nil {
			return err
		}

		fmt.Printf("%s (#%d)\n\n", p.Name, p.ID)
		fmt.Printf("Price:    %s\n", p.Price.StringFixed(2))
		fmt.Printf("In stock: %d\n", p.StockQuantity)
		fmt.Printf("Category: %d\n", p.CategoryID)
		if p.ImageURL != "" {
			fmt.Printf("Image:    %s\n", p.ImageURL)
		}
		if p.Description != "" {
			fmt.Printf("\n%s\n", p.Description)
		}
		return nil
	},
}

// vitrine categories — list product categories.
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List product categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession()
		categories, err := s.api.Categories(cmd.Context())
		if err != nil {
			return err
		}

		if len(categories) == 0 {
			fmt.Println("No categories found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
		fmt.Fprintln(w, "--\t----\t-----------")
		for _, c := range categories {
			fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.Name, c.Description)
		}
		return w.Flush()
	},
}

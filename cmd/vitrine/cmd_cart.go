package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func intDecimal(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }

func init() {
	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartUpdateCmd)
	cartCmd.AddCommand(cartRemoveCmd)
}

// vitrine cart — show the cart with derived totals. Restoring the session
// fires the login event, which loads the cart mirror; this command only
// renders it.
var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show your cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession()
		if err := s.requireAuth(cmd.Context()); err != nil {
			return err
		}

		items := s.cart.Items()
		if len(items) == 0 {
			fmt.Println("Your cart is empty.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ITEM\tPRODUCT\tQTY\tPRICE\tSUBTOTAL")
		fmt.Fprintln(w, "----\t-------\t---\t-----\t--------")
		for _, it := range items {
			name := fmt.Sprintf("#%d", it.ProductID)
			price, subtotal := "-", "-"
			if it.Product != nil {
				name = it.Product.Name
				price = it.Product.Price.StringFixed(2)
				subtotal = it.Product.Price.Mul(intDecimal(it.Quantity)).StringFixed(2)
			}
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", it.ID, name, it.Quantity, price, subtotal)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Printf("\nItems: %d   Total: %s\n", s.cart.TotalItems(), s.cart.TotalPrice().StringFixed(2))
		return nil
	},
}

// vitrine cart add <product-id> [quantity]
var cartAddCmd = &cobra.Command{
	Use:   "add <product-id> [quantity]",
	Short: "Add a product to your cart",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		productID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("product ID must be a number, got %q", args[0])
		}
		quantity := 1
		if len(args) == 2 {
			if quantity, err = strconv.Atoi(args[1]); err != nil || quantity < 1 {
				return fmt.Errorf("quantity must be a positive number, got %q", args[1])
			}
		}

		s := newSession()
		if err := s.requireAuth(cmd.Context()); err != nil {
			return err
		}
		return s.cart.Add(cmd.Context(), productID, quantity)
	},
}

// vitrine cart update <item-id> <quantity>
var cartUpdateCmd = &cobra.Command{
	Use:   "update <item-id> <quantity>",
	Short: "Change the quantity of a cart item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("item ID must be a number, got %q", args[0])
		}
		quantity, err := strconv.Atoi(args[1])
		if err != nil || quantity < 1 {
			return fmt.Errorf("quantity must be a positive number, got %q", args[1])
		}

		s := newSession()
		if err := s.requireAuth(cmd.Context()); err != nil {
			return err
		}
		if err := s.cart.UpdateQuantity(cmd.Context(), itemID, quantity); err != nil {
			return err
		}

		fmt.Printf("Item %d set to quantity %d\n", itemID, quantity)
		return nil
	},
}

// vitrine cart remove <item-id>
var cartRemoveCmd = &cobra.Command{
	Use:   "remove <item-id>",
	Short: "Remove an item from your cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("item ID must be a number, got %q", args[0])
		}

		s := newSession()
		if err := s.requireAuth(cmd.Context()); err != nil {
			return err
		}
		return s.cart.Remove(cmd.Context(), itemID)
	},
}

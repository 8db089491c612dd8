package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// vitrine orders — list placed orders.
var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List your orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession()
		if err := s.requireAuth(cmd.Context()); err != nil {
			return err
		}

		orders, err := s.api.Orders(cmd.Context())
		if err != nil {
			return err
		}
		if len(orders) == 0 {
			fmt.Println("No orders yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATUS\tTOTAL\tPLACED")
		fmt.Fprintln(w, "--\t------\t-----\t------")
		for _, o := range orders {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", o.ID, o.Status, o.TotalAmount.StringFixed(2), o.CreatedAt)
		}
		return w.Flush()
	},
}

// vitrine order <id> — show one order with its line items.
var orderCmd = &cobra.Command{
	Use:   "order <id>",
	Short: "Show an order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("order ID must be a number, got %q", args[0])
		}

		s := newSession()
		if err := s.requireAuth(cmd.Context()); err != nil {
			return err
		}

		o, err := s.api.Order(cmd.Context(), id)
		if err != nil {
			return err
		}

		fmt.Printf("Order #%d — %s\n", o.ID, o.Status)
		fmt.Printf("Placed: %s\n\n", o.CreatedAt)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "PRODUCT\tQTY\tPRICE\tSUBTOTAL")
		fmt.Fprintln(w, "-------\t---\t-----\t--------")
		for _, it := range o.Items {
			name := fmt.Sprintf("#%d", it.ProductID)
			if it.Product != nil {
				name = it.Product.Name
			}
			subtotal := it.Price.Mul(intDecimal(it.Quantity))
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", name, it.Quantity, it.Price.StringFixed(2), subtotal.StringFixed(2))
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Printf("\nTotal: %s\n", o.TotalAmount.StringFixed(2))
		return nil
	},
}

// vitrine checkout — place an order from the current cart.
var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Place an order from your cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession()
		if err := s.requireAuth(cmd.Context()); err != nil {
			return err
		}

		if s.cart.TotalItems() == 0 {
			return fmt.Errorf("your cart is empty — nothing to order")
		}

		o, err := s.api.CreateOrder(cmd.Context())
		if err != nil {
			return err
		}

		// The backend consumed the cart; resync the mirror.
		s.cart.Refresh(cmd.Context())

		fmt.Printf("Order #%d placed — total %s\n", o.ID, o.TotalAmount.StringFixed(2))
		return nil
	},
}

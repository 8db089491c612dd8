package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "vitrine",
	Short: "Vitrine — storefront client CLI",
	Long: "Vitrine is the command-line storefront for the Vitrine e-commerce backend:\n" +
		"browse products, manage your cart, and place orders from the terminal.",
}

func init() {
	// Auth
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(authCmd)

	// Catalog
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(productCmd)
	rootCmd.AddCommand(categoriesCmd)

	// Cart
	rootCmd.AddCommand(cartCmd)

	// Orders
	rootCmd.AddCommand(ordersCmd)
	rootCmd.AddCommand(orderCmd)
	rootCmd.AddCommand(checkoutCmd)

	// Diagnostics
	rootCmd.AddCommand(metricsCmd)
}

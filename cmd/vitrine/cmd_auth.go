package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/vitrine/pkg/collection"
	"github.com/shashiranjanraj/vitrine/pkg/creds"
	"github.com/shashiranjanraj/vitrine/pkg/validate"
)

var (
	loginEmail    string
	loginPassword string

	registerEmail    string
	registerUsername string
	registerPassword string
)

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password (prompted when omitted)")

	registerCmd.Flags().StringVar(&registerEmail, "email", "", "account email")
	registerCmd.Flags().StringVar(&registerUsername, "username", "", "display name")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "account password (prompted when omitted)")

	authCmd.AddCommand(authStatusCmd)
}

type loginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Username string `json:"username" validate:"required,min=2,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

// vitrine login — authenticate and persist the session token.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := loginInput{Email: loginEmail, Password: loginPassword}
		if in.Email == "" {
			in.Email = prompt("Email", "")
		}
		if in.Password == "" {
			in.Password = prompt("Password", "")
		}

		if errs := validate.Struct(in); validate.HasErrors(errs) {
			return validationError(errs)
		}

		s := newSession()
		if err := s.auth.Login(cmd.Context(), in.Email, in.Password); err != nil {
			return fmt.Errorf("login: %w", err)
		}

		if user, ok := s.auth.User(); ok {
			fmt.Printf("Logged in as %s <%s>\n", user.Username, user.Email)
		}
		return nil
	},
}

// vitrine register — create an account and log straight in.
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a store account",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := registerInput{Email: registerEmail, Username: registerUsername, Password: registerPassword}
		if in.Email == "" {
			in.Email = prompt("Email", "")
		}
		if in.Username == "" {
			in.Username = prompt("Username", "")
		}
		if in.Password == "" {
			in.Password = prompt("Password", "")
		}

		if errs := validate.Struct(in); validate.HasErrors(errs) {
			return validationError(errs)
		}

		s := newSession()
		if err := s.auth.Register(cmd.Context(), in.Email, in.Username, in.Password); err != nil {
			return fmt.Errorf("register: %w", err)
		}

		fmt.Printf("Account created for %s\n", in.Email)
		return nil
	},
}

// vitrine logout — clear the stored session.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the stored session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession()
		s.auth.Logout()
		return nil
	},
}

// vitrine whoami — show the identity behind the stored session.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the currently logged-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession()
		if err := s.requireAuth(cmd.Context()); err != nil {
			return err
		}

		user, _ := s.auth.User()
		fmt.Printf("ID:       %d\n", user.ID)
		fmt.Printf("Username: %s\n", user.Username)
		fmt.Printf("Email:    %s\n", user.Email)
		if user.IsAdmin {
			fmt.Println("Role:     admin")
		}
		return nil
	},
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Inspect the authentication session",
}

// vitrine auth status — local view of the stored token, no backend call.
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored session token details",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession()

		token, err := s.store.Load()
		if err != nil {
			fmt.Println("No stored session.")
			return nil
		}

		fmt.Printf("Credentials: %s\n", s.store.Path())
		if exp, ok := creds.ExpiresAt(token); ok {
			fmt.Printf("Expires:     %s\n", exp.Local().Format(time.RFC1123))
			if creds.Expired(token) {
				fmt.Println("Status:      expired")
				return nil
			}
		}
		fmt.Println("Status:      present (validity decided by the backend)")
		return nil
	},
}

func validationError(errs map[string]string) error {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := collection.Map(fields, func(f string) string { return f + " " + errs[f] })
	return errors.New(strings.Join(parts, "; "))
}

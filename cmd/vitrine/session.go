package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shashiranjanraj/vitrine/config"
	"github.com/shashiranjanraj/vitrine/pkg/api"
	"github.com/shashiranjanraj/vitrine/pkg/auth"
	"github.com/shashiranjanraj/vitrine/pkg/cart"
	"github.com/shashiranjanraj/vitrine/pkg/creds"
	"github.com/shashiranjanraj/vitrine/pkg/event"
	"github.com/shashiranjanraj/vitrine/pkg/httpx"
	"github.com/shashiranjanraj/vitrine/pkg/notify"
)

// errNotLoggedIn is returned by commands that need an authenticated session.
var errNotLoggedIn = errors.New("not logged in — run 'vitrine login' first")

// session wires one storefront session: token store, API client, auth and
// cart managers sharing an event bus. Every command builds a fresh session;
// only the token survives between invocations.
type session struct {
	store *creds.Store
	api   *api.Client
	auth  *auth.Manager
	cart  *cart.Manager
}

func newSession() *session {
	store := creds.NewStore(config.CredentialsPath())
	client := api.New(config.StoreAPIURL(), httpx.New(config.HTTPTimeout()), store)
	bus := event.NewBus()

	var notifier notify.Notifier = notify.NewTerminal(os.Stderr)
	if url := config.NotifyWebhookURL(); url != "" {
		notifier = notify.Multi{notifier, notify.NewWebhook(url)}
	}

	authMgr := auth.NewManager(client, store, bus, notifier)
	cartMgr := cart.NewManager(client, authMgr, bus, notifier)

	return &session{store: store, api: client, auth: authMgr, cart: cartMgr}
}

// restore resolves the stored session. Commands that work anonymously call
// this and carry on either way.
func (s *session) restore(ctx context.Context) {
	s.auth.Restore(ctx)
}

// requireAuth resolves the stored session and fails when it is anonymous.
func (s *session) requireAuth(ctx context.Context) error {
	s.auth.Restore(ctx)
	if !s.auth.IsAuthenticated() {
		return errNotLoggedIn
	}
	return nil
}

// prompt reads one line interactively, with an optional default.
func prompt(label, fallback string) string {
	if fallback != "" {
		fmt.Printf("%s [%s]: ", label, fallback)
	} else {
		fmt.Printf("%s: ", label)
	}

	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return fallback
	}
	return line
}

package handlers

import (
	"pickle/core"
	"pickle/messaging"
)

// Config wires the domain services into the handler layer. Set once at
// startup via Configure; tests inject fakes the same way.
type Config struct {
	Notes        *core.NoteService
	Auth         *core.AuthService
	Orchestrator *core.Orchestrator
	Drafts       *core.DraftStore
	Dispatcher   *messaging.Dispatcher
	Assets       *core.AssetStore
	Fetcher      *core.PageMetaFetcher

	CookieName        string
	AllowTokenInQuery bool
}

var cfg Config

func Configure(c Config) {
	if c.CookieName == "" {
		c.CookieName = "pickle_session"
	}
	cfg = c
}

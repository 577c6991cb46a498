package api

import (
	"context"
	"log"

	"github.com/SherClockHolmes/webpush-go"

	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/auth"
	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/snapshot"
	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store     store.Store
	holder    *snapshot.Holder
	tokens    *auth.TokenIssuer
	passwords *auth.PasswordHasher
	webpush   *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, tokens *auth.TokenIssuer, passwords *auth.PasswordHasher, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:     s,
		holder:    snapshot.NewHolder(),
		tokens:    tokens,
		passwords: passwords,
		webpush:   webpushOptions,
	}
}

// reloadSnapshot refreshes the derived-view snapshot after a mutation.
// A failed reload keeps the previous snapshot; the views tolerate staleness.
func (h *Handler) reloadSnapshot(ctx context.Context) {
	if err := h.holder.Load(ctx, h.store); err != nil {
		log.Printf("snapshot reload failed: %v", err)
	}
}

package server

import (
	"log/slog"
	"net/http"

	"github.com/garrettladley/revhook/internal/server/handler"
	servermw "github.com/garrettladley/revhook/internal/server/middleware"
	"github.com/garrettladley/revhook/internal/storage"
	"github.com/garrettladley/revhook/internal/webhook"
	"github.com/garrettladley/revhook/internal/xhttp/middleware"
)

type Deps struct {
	Logger  *slog.Logger
	Backend storage.Backend
	Secrets *webhook.Store
}

// NewHandler wires the routes and the middleware chain.
func NewHandler(d Deps) http.Handler {
	webhookHandler := handler.NewWebhook(webhook.NewAuthenticator(d.Secrets))
	healthHandler := handler.NewHealth(d.Backend, d.Secrets)

	mux := http.NewServeMux()

	// provider-facing route - protected by IP rate limiter
	webhookMux := http.NewServeMux()
	webhookMux.HandleFunc("POST "+WebhookPath, webhookHandler.HandleWebhook)
	mux.Handle(WebhookPath, middleware.Chain(webhookMux,
		servermw.RateLimitWithBackend(d.Backend),
	))

	mux.HandleFunc("GET /health", healthHandler.HandleHealth)
	mux.HandleFunc("GET /ready", healthHandler.HandleReady)

	return middleware.Chain(mux,
		middleware.Recovery,
		middleware.Logging,
		middleware.RequestID(),
		middleware.Logger(d.Logger),
		middleware.SecurityHeaders,
	)
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/garrettladley/revhook/internal/xerrors"
	"github.com/garrettladley/revhook/internal/xhttp"
	"github.com/garrettladley/revhook/internal/xslog"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type ReadinessChecker interface {
	Ready() bool
}

type Health struct {
	backend Pinger
	secrets ReadinessChecker
}

func NewHealth(backend Pinger, secrets ReadinessChecker) *Health {
	return &Health{backend: backend, secrets: secrets}
}

type statusResponse struct {
	Status string `json:"status"`
}

// HandleHealth handles GET /health requests.
func (h *Health) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.backend.Ping(ctx); err != nil {
		xslog.FromContext(ctx).ErrorContext(ctx, "health check failed", xslog.Error(err))
		xerrors.WriteError(r.Context(), w, xerrors.ServiceUnavailable(
			xerrors.WithCode("backend_unavailable"),
			xerrors.WithMessage("rate limit backend unavailable"),
		))
		return
	}

	xhttp.WriteOK(w, statusResponse{Status: "ok"})
}

// HandleReady handles GET /ready requests.
func (h *Health) HandleReady(w http.ResponseWriter, r *http.Request) {
	if !h.secrets.Ready() {
		xerrors.WriteError(r.Context(), w, xerrors.ServiceUnavailable(
			xerrors.WithCode("secret_unavailable"),
			xerrors.WithMessage("webhook signing secret not provisioned"),
		))
		return
	}

	xhttp.WriteOK(w, statusResponse{Status: "ready"})
}

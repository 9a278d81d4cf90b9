package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/garrettladley/revhook/internal/webhook"
	"github.com/garrettladley/revhook/internal/xerrors"
	"github.com/garrettladley/revhook/internal/xhttp"
	"github.com/garrettladley/revhook/internal/xslog"
)

// MaxBodyBytes caps webhook payloads. Revolut notifications are a few hundred bytes.
const MaxBodyBytes = 1 << 20

type Authenticator interface {
	Authenticate(ctx context.Context, n webhook.Notification) webhook.Outcome
}

type Webhook struct {
	auth Authenticator
	now  func() time.Time
}

func NewWebhook(auth Authenticator) *Webhook {
	return &Webhook{auth: auth, now: time.Now}
}

// HandleWebhook handles POST /webhooks/revolut requests.
func (h *Webhook) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			xerrors.WriteError(ctx, w, xerrors.RequestEntityTooLarge(
				xerrors.WithCode("payload_too_large"),
				xerrors.WithMessage("request body too large"),
			))
			return
		}
		xerrors.WriteError(ctx, w, xerrors.BadRequest(
			xerrors.WithCode("unreadable_body"),
			xerrors.WithMessage("failed to read request body"),
			xerrors.WithCause(err),
		))
		return
	}

	outcome := h.auth.Authenticate(ctx, webhook.Notification{
		Header:     r.Header,
		Body:       body,
		ReceivedAt: h.now(),
	})
	ctx = xslog.WithAttrs(ctx, xslog.Outcome(outcome.Code()))
	logger := xslog.FromContext(ctx)
	if !outcome.IsAccepted() {
		xerrors.WriteError(ctx, w, xerrors.New(outcome.StatusCode(),
			xerrors.WithCode(outcome.Code()),
			xerrors.WithMessage(outcome.Message()),
		))
		return
	}

	event, err := webhook.ParseEvent(body)
	if err != nil {
		// acknowledge so Revolut stops redelivering an event we will never handle
		if errors.Is(err, webhook.ErrUnknownEventType) {
			logger.WarnContext(ctx, "unknown webhook event", xslog.EventType(string(event.Type)))
			xhttp.WriteNoContent(w)
			return
		}
		xerrors.WriteError(ctx, w, xerrors.BadRequest(
			xerrors.WithCode("invalid_payload"),
			xerrors.WithMessage("invalid webhook payload"),
			xerrors.WithCause(err),
		))
		return
	}

	logger.InfoContext(ctx, "webhook received",
		xslog.EventType(string(event.Type)),
		xslog.OrderID(event.OrderID),
	)
	xhttp.WriteNoContent(w)
}

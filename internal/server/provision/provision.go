// Package provision publishes the webhook signing secret into a store,
// either from static configuration or by registering with Revolut.
package provision

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/garrettladley/revhook/internal/client/revolut"
	"github.com/garrettladley/revhook/internal/webhook"
	"github.com/garrettladley/revhook/internal/xslog"
)

type SecretSetter interface {
	Set(secret webhook.Secret)
}

// Static publishes a configured secret.
func Static(ctx context.Context, store SecretSetter, secret webhook.Secret) {
	store.Set(secret)
	xslog.FromContext(ctx).InfoContext(ctx, "webhook signing secret loaded from config",
		xslog.SecretFingerprint(secret.Fingerprint()),
	)
}

type Config struct {
	URL    string
	Events []webhook.EventType
	// RotateEvery of zero disables rotation.
	RotateEvery   time.Duration
	RotationGrace time.Duration
	MinBackoff    time.Duration
	MaxBackoff    time.Duration
}

type Registrar struct {
	store    SecretSetter
	webhooks revolut.WebhookService
	cfg      Config
	logger   *slog.Logger
}

func NewRegistrar(store SecretSetter, webhooks revolut.WebhookService, cfg Config, logger *slog.Logger) *Registrar {
	if len(cfg.Events) == 0 {
		cfg.Events = webhook.DefaultEvents
	}
	if cfg.MinBackoff <= 0 {
		cfg.MinBackoff = time.Second
	}
	if cfg.MaxBackoff < cfg.MinBackoff {
		cfg.MaxBackoff = time.Minute
	}
	return &Registrar{store: store, webhooks: webhooks, cfg: cfg, logger: logger}
}

// Run registers the webhook, retrying until it succeeds, then rotates the
// signing secret on schedule. It returns nil once ctx is done.
func (r *Registrar) Run(ctx context.Context) error {
	id, ok := r.registerWithRetry(ctx)
	if !ok || r.cfg.RotateEvery <= 0 {
		return nil
	}

	ticker := time.NewTicker(r.cfg.RotateEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := r.rotate(ctx, id); err != nil {
				r.logger.ErrorContext(ctx, "failed to rotate webhook signing secret",
					xslog.WebhookID(id),
					xslog.Error(err),
				)
			}
		}
	}
}

func (r *Registrar) registerWithRetry(ctx context.Context) (string, bool) {
	backoff := r.cfg.MinBackoff
	for attempt := 1; ; attempt++ {
		id, err := r.Register(ctx)
		if err == nil {
			return id, true
		}

		r.logger.WarnContext(ctx, "webhook registration failed, retrying",
			xslog.Attempt(attempt),
			xslog.URL(r.cfg.URL),
			xslog.Backoff(backoff),
			xslog.Error(err),
		)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", false
		case <-timer.C:
		}
		backoff = min(backoff*2, r.cfg.MaxBackoff)
	}
}

// Register subscribes the configured URL, reusing an existing subscription for
// the same URL so restarts do not pile up duplicates, and publishes its
// signing secret.
func (r *Registrar) Register(ctx context.Context) (string, error) {
	wh, err := r.findOrCreate(ctx)
	if err != nil {
		return "", err
	}
	if wh.SigningSecret == "" {
		return "", fmt.Errorf("webhook %s returned no signing secret", wh.ID)
	}

	r.store.Set(wh.SigningSecret)
	r.logger.InfoContext(ctx, "webhook registered",
		xslog.WebhookID(wh.ID),
		xslog.URL(wh.URL),
		xslog.SecretFingerprint(wh.SigningSecret.Fingerprint()),
	)
	return wh.ID, nil
}

func (r *Registrar) findOrCreate(ctx context.Context) (*revolut.Webhook, error) {
	hooks, err := r.webhooks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list webhooks: %w", err)
	}
	for _, h := range hooks {
		if h.URL != r.cfg.URL {
			continue
		}
		// list responses omit the secret
		wh, err := r.webhooks.Get(ctx, h.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get webhook %s: %w", h.ID, err)
		}
		return wh, nil
	}

	wh, err := r.webhooks.Create(ctx, revolut.CreateWebhookRequest{
		URL:    r.cfg.URL,
		Events: r.cfg.Events,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook: %w", err)
	}
	return wh, nil
}

func (r *Registrar) rotate(ctx context.Context, id string) error {
	wh, err := r.webhooks.RotateSigningSecret(ctx, id, revolut.RotateSigningSecretRequest{
		ExpirationPeriod: isoDuration(r.cfg.RotationGrace),
	})
	if err != nil {
		return err
	}
	if wh.SigningSecret == "" {
		return fmt.Errorf("rotation of webhook %s returned no signing secret", id)
	}

	r.store.Set(wh.SigningSecret)
	r.logger.InfoContext(ctx, "webhook signing secret rotated",
		xslog.WebhookID(id),
		xslog.SecretFingerprint(wh.SigningSecret.Fingerprint()),
	)
	return nil
}

// isoDuration renders d as an ISO 8601 duration in whole seconds.
func isoDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	if secs <= 0 {
		return ""
	}
	return fmt.Sprintf("PT%dS", secs)
}

package revolut

import "context"

type OrderService interface {
	Create(ctx context.Context, req CreateOrderRequest) (*Order, error)
	Get(ctx context.Context, id string) (*Order, error)
}

type WebhookService interface {
	Create(ctx context.Context, req CreateWebhookRequest) (*Webhook, error)
	List(ctx context.Context) ([]Webhook, error)
	Get(ctx context.Context, id string) (*Webhook, error)
	Delete(ctx context.Context, id string) error
	RotateSigningSecret(ctx context.Context, id string, req RotateSigningSecretRequest) (*Webhook, error)
}

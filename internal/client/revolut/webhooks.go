package revolut

import (
	"context"
	"net/http"
	"net/url"
)

const webhooksRoute = "/api/1.0/webhooks"

type webhookService struct {
	client *Client
}

func (s *webhookService) Create(ctx context.Context, req CreateWebhookRequest) (*Webhook, error) {
	var wh Webhook
	if err := s.client.do(ctx, request{
		method: http.MethodPost,
		path:   webhooksRoute,
		body:   req,
	}, &wh); err != nil {
		return nil, err
	}
	return &wh, nil
}

func (s *webhookService) List(ctx context.Context) ([]Webhook, error) {
	var hooks []Webhook
	if err := s.client.do(ctx, request{
		method: http.MethodGet,
		path:   webhooksRoute,
	}, &hooks); err != nil {
		return nil, err
	}
	return hooks, nil
}

func (s *webhookService) Get(ctx context.Context, id string) (*Webhook, error) {
	var wh Webhook
	if err := s.client.do(ctx, request{
		method: http.MethodGet,
		path:   webhooksRoute + "/" + url.PathEscape(id),
	}, &wh); err != nil {
		return nil, err
	}
	return &wh, nil
}

func (s *webhookService) Delete(ctx context.Context, id string) error {
	return s.client.do(ctx, request{
		method: http.MethodDelete,
		path:   webhooksRoute + "/" + url.PathEscape(id),
	}, nil)
}

func (s *webhookService) RotateSigningSecret(ctx context.Context, id string, req RotateSigningSecretRequest) (*Webhook, error) {
	var wh Webhook
	if err := s.client.do(ctx, request{
		method: http.MethodPost,
		path:   webhooksRoute + "/" + url.PathEscape(id) + "/rotate-signing-secret",
		body:   req,
	}, &wh); err != nil {
		return nil, err
	}
	return &wh, nil
}

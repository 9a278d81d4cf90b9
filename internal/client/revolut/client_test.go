package revolut

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/garrettladley/revhook/internal/webhook"
	go_json "github.com/goccy/go-json"
)

type recordedRequest struct {
	Method     string
	Path       string
	Auth       string
	APIVersion string
	Body       string
}

func newTestClient(t *testing.T, status int, response string) (*Client, *recordedRequest) {
	t.Helper()

	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*rec = recordedRequest{
			Method:     r.Method,
			Path:       r.URL.Path,
			Auth:       r.Header.Get("Authorization"),
			APIVersion: r.Header.Get(headerAPIVersion),
			Body:       string(body),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)

	c := New(StaticSecret("sk_test"), WithBaseURL(srv.URL+"/"), WithAPIVersion("2024-09-01"))
	return c, rec
}

func TestOrdersCreate(t *testing.T) {
	t.Parallel()

	c, rec := newTestClient(t, http.StatusCreated, `{
		"id": "6516e61c-d279-a454-a837-bc52ce55ed49",
		"token": "0adc0e3c-ab44-4f33-bcc0-534ded7354ce",
		"state": "pending",
		"amount": 1000,
		"currency": "GBP",
		"checkout_url": "https://checkout.revolut.com/payment-link/0adc0e3c"
	}`)

	order, err := c.Orders.Create(t.Context(), CreateOrderRequest{Amount: 1000, Currency: "GBP"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	wantReq := recordedRequest{
		Method:     http.MethodPost,
		Path:       "/api/orders",
		Auth:       "Bearer sk_test",
		APIVersion: "2024-09-01",
		Body:       `{"amount":1000,"currency":"GBP"}`,
	}
	if diff := cmp.Diff(wantReq, *rec); diff != "" {
		t.Errorf("request mismatch (-want +got):\n%s", diff)
	}

	want := &Order{
		ID:          "6516e61c-d279-a454-a837-bc52ce55ed49",
		Token:       "0adc0e3c-ab44-4f33-bcc0-534ded7354ce",
		State:       OrderStatePending,
		Amount:      1000,
		Currency:    "GBP",
		CheckoutURL: "https://checkout.revolut.com/payment-link/0adc0e3c",
	}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestOrdersCreateRequiresCreated(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.StatusOK, `{"id":"x"}`)

	_, err := c.Orders.Create(t.Context(), CreateOrderRequest{Amount: 1000, Currency: "GBP"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Create() error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, http.StatusOK)
	}
}

func TestWebhooksCreate(t *testing.T) {
	t.Parallel()

	c, rec := newTestClient(t, http.StatusOK, `{
		"id": "c6ec7ee6-4f7b-4d1b-9d2b-2c3a1d0e1f00",
		"url": "https://example.com/webhooks/revolut",
		"events": ["ORDER_COMPLETED", "ORDER_AUTHORISED"],
		"signing_secret": "wsk_abc"
	}`)

	wh, err := c.Webhooks.Create(t.Context(), CreateWebhookRequest{
		URL:    "https://example.com/webhooks/revolut",
		Events: webhook.DefaultEvents,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if rec.Path != "/api/1.0/webhooks" || rec.Method != http.MethodPost {
		t.Errorf("request = %s %s, want POST /api/1.0/webhooks", rec.Method, rec.Path)
	}
	if rec.APIVersion != "" {
		t.Errorf("Revolut-Api-Version = %q, want unset on 1.0 endpoints", rec.APIVersion)
	}

	var sent CreateWebhookRequest
	if err := go_json.Unmarshal([]byte(rec.Body), &sent); err != nil {
		t.Fatalf("failed to decode sent body: %v", err)
	}
	if diff := cmp.Diff(webhook.DefaultEvents, sent.Events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}

	if wh.SigningSecret != "wsk_abc" {
		t.Errorf("SigningSecret = %q, want wsk_abc", wh.SigningSecret)
	}
}

func TestWebhooksList(t *testing.T) {
	t.Parallel()

	c, rec := newTestClient(t, http.StatusOK, `[
		{"id": "a", "url": "https://one.example", "events": ["ORDER_COMPLETED"]},
		{"id": "b", "url": "https://two.example", "events": ["ORDER_AUTHORISED"]}
	]`)

	hooks, err := c.Webhooks.List(t.Context())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if rec.Method != http.MethodGet {
		t.Errorf("method = %s, want GET", rec.Method)
	}

	want := []Webhook{
		{ID: "a", URL: "https://one.example", Events: []webhook.EventType{webhook.EventOrderCompleted}},
		{ID: "b", URL: "https://two.example", Events: []webhook.EventType{webhook.EventOrderAuthorised}},
	}
	if diff := cmp.Diff(want, hooks); diff != "" {
		t.Errorf("webhooks mismatch (-want +got):\n%s", diff)
	}
}

func TestWebhooksDelete(t *testing.T) {
	t.Parallel()

	c, rec := newTestClient(t, http.StatusNoContent, "")

	if err := c.Webhooks.Delete(t.Context(), "abc"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if rec.Method != http.MethodDelete || rec.Path != "/api/1.0/webhooks/abc" {
		t.Errorf("request = %s %s, want DELETE /api/1.0/webhooks/abc", rec.Method, rec.Path)
	}
}

func TestWebhooksRotateSigningSecret(t *testing.T) {
	t.Parallel()

	c, rec := newTestClient(t, http.StatusOK, `{"id":"abc","url":"https://x.example","events":[],"signing_secret":"wsk_new"}`)

	wh, err := c.Webhooks.RotateSigningSecret(t.Context(), "abc", RotateSigningSecretRequest{ExpirationPeriod: "PT1H"})
	if err != nil {
		t.Fatalf("RotateSigningSecret() error = %v", err)
	}
	if rec.Path != "/api/1.0/webhooks/abc/rotate-signing-secret" {
		t.Errorf("path = %s", rec.Path)
	}
	if rec.Body != `{"expiration_period":"PT1H"}` {
		t.Errorf("body = %s", rec.Body)
	}
	if wh.SigningSecret != "wsk_new" {
		t.Errorf("SigningSecret = %q, want wsk_new", wh.SigningSecret)
	}
}

func TestAPIError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		status       int
		body         string
		want         *APIError
		wantNotFound bool
	}{
		{
			name:   "structured",
			status: http.StatusUnauthorized,
			body:   `{"code":"unauthenticated","message":"Authentication failed"}`,
			want:   &APIError{StatusCode: http.StatusUnauthorized, Code: "unauthenticated", Message: "Authentication failed"},
		},
		{
			name:   "plain text",
			status: http.StatusBadGateway,
			body:   "upstream down",
			want:   &APIError{StatusCode: http.StatusBadGateway, Message: "upstream down"},
		},
		{
			name:         "not found",
			status:       http.StatusNotFound,
			body:         `{"code":"not_found","message":"Webhook not found"}`,
			want:         &APIError{StatusCode: http.StatusNotFound, Code: "not_found", Message: "Webhook not found"},
			wantNotFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, _ := newTestClient(t, tt.status, tt.body)
			_, err := c.Webhooks.Get(t.Context(), "missing")

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("Get() error = %v, want *APIError", err)
			}
			if diff := cmp.Diff(tt.want, apiErr); diff != "" {
				t.Errorf("APIError mismatch (-want +got):\n%s", diff)
			}
			if got := IsNotFound(err); got != tt.wantNotFound {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.wantNotFound)
			}
		})
	}
}

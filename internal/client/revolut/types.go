package revolut

import (
	"time"

	"github.com/garrettladley/revhook/internal/webhook"
)

type OrderState string

const (
	OrderStatePending    OrderState = "pending"
	OrderStateProcessing OrderState = "processing"
	OrderStateAuthorised OrderState = "authorised"
	OrderStateCompleted  OrderState = "completed"
	OrderStateCancelled  OrderState = "cancelled"
	OrderStateFailed     OrderState = "failed"
)

// CreateOrderRequest amounts are in minor units (1000 GBP = £10.00).
type CreateOrderRequest struct {
	Amount              int64  `json:"amount"`
	Currency            string `json:"currency"`
	Description         string `json:"description,omitempty"`
	MerchantOrderExtRef string `json:"merchant_order_ext_ref,omitempty"`
}

type Order struct {
	ID                string     `json:"id"`
	Token             string     `json:"token"`
	Type              string     `json:"type"`
	State             OrderState `json:"state"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	Amount            int64      `json:"amount"`
	Currency          string     `json:"currency"`
	OutstandingAmount int64      `json:"outstanding_amount"`
	CaptureMode       string     `json:"capture_mode"`
	CheckoutURL       string     `json:"checkout_url"`
	Description       string     `json:"description,omitempty"`
}

type CreateWebhookRequest struct {
	URL    string              `json:"url"`
	Events []webhook.EventType `json:"events"`
}

type Webhook struct {
	ID     string              `json:"id"`
	URL    string              `json:"url"`
	Events []webhook.EventType `json:"events"`
	// SigningSecret is only returned by create, get and rotate.
	SigningSecret webhook.Secret `json:"signing_secret,omitempty"`
}

// RotateSigningSecretRequest.ExpirationPeriod is an ISO 8601 duration such as
// "PT1H" for how long the old secret keeps being used. Empty expires it now.
type RotateSigningSecretRequest struct {
	ExpirationPeriod string `json:"expiration_period,omitempty"`
}

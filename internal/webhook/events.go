package webhook

import (
	"errors"
	"fmt"

	go_json "github.com/goccy/go-json"
)

var ErrUnknownEventType = errors.New("unknown event type")

type EventType string

const (
	EventOrderCompleted            EventType = "ORDER_COMPLETED"
	EventOrderAuthorised           EventType = "ORDER_AUTHORISED"
	EventOrderCancelled            EventType = "ORDER_CANCELLED"
	EventOrderPaymentAuthenticated EventType = "ORDER_PAYMENT_AUTHENTICATED"
	EventOrderPaymentDeclined      EventType = "ORDER_PAYMENT_DECLINED"
	EventOrderPaymentFailed        EventType = "ORDER_PAYMENT_FAILED"
	EventPayoutInitiated           EventType = "PAYOUT_INITIATED"
	EventPayoutCompleted           EventType = "PAYOUT_COMPLETED"
	EventPayoutFailed              EventType = "PAYOUT_FAILED"
)

// DefaultEvents are the events registered by the server at startup.
var DefaultEvents = []EventType{EventOrderCompleted, EventOrderAuthorised}

var knownEvents = map[EventType]struct{}{
	EventOrderCompleted:            {},
	EventOrderAuthorised:           {},
	EventOrderCancelled:            {},
	EventOrderPaymentAuthenticated: {},
	EventOrderPaymentDeclined:      {},
	EventOrderPaymentFailed:        {},
	EventPayoutInitiated:           {},
	EventPayoutCompleted:           {},
	EventPayoutFailed:              {},
}

type Event struct {
	Type                EventType `json:"event"`
	OrderID             string    `json:"order_id"`
	MerchantOrderExtRef string    `json:"merchant_order_ext_ref,omitempty"`
	PayoutID            string    `json:"payout_id,omitempty"`
}

// ParseEvent decodes an authenticated body. The event is returned alongside
// ErrUnknownEventType for types this service does not know.
func ParseEvent(data []byte) (Event, error) {
	var e Event
	if err := go_json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("failed to parse webhook: %w", err)
	}
	if _, ok := knownEvents[e.Type]; !ok {
		return e, fmt.Errorf("%w: %q", ErrUnknownEventType, e.Type)
	}
	return e, nil
}

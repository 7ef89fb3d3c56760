package network

import (
	"context"

	"github.com/PriyanshuKSG/22b2165-krafton-game-assignment/logging"
)

const (
	// EventMessageDiscarded is emitted when an inbound message fails to
	// decode and is dropped without a reply.
	EventMessageDiscarded logging.EventType = "network.message_discarded"
	// EventDeliveryDropped is emitted when a lagged send fires after its
	// session already disconnected.
	EventDeliveryDropped logging.EventType = "network.delivery_dropped"
)

// MessageDiscardedPayload describes the discarded inbound message.
type MessageDiscardedPayload struct {
	SessionID string `json:"sessionId"`
	Reason    string `json:"reason"`
}

// DeliveryDroppedPayload describes the abandoned lagged delivery.
type DeliveryDroppedPayload struct {
	SessionID string `json:"sessionId"`
	Kind      string `json:"kind"`
}

// MessageDiscarded publishes a malformed-message event.
func MessageDiscarded(ctx context.Context, pub logging.Publisher, tick uint64, payload MessageDiscardedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventMessageDiscarded,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: payload.SessionID, Kind: logging.EntityKindSession},
		Severity: logging.SeverityWarn,
		Category: logging.CategoryNetwork,
		Payload:  payload,
		Extra:    extra,
	})
}

// DeliveryDropped publishes a dropped lagged-delivery event.
func DeliveryDropped(ctx context.Context, pub logging.Publisher, tick uint64, payload DeliveryDroppedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventDeliveryDropped,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: payload.SessionID, Kind: logging.EntityKindSession},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryNetwork,
		Payload:  payload,
		Extra:    extra,
	})
}

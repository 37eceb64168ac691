package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
)

const (
	CartCheckedOutEventName    = "CartCheckedOut"
	CartCheckedOutEventVersion = 1
	CartCheckedOutSchemaPath   = "contracts/events/cart/CartCheckedOut.v1.enveloped.schema.json"
)

type CartCheckedOutItem struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type CartCheckedOutPayload struct {
	OrderID     string               `json:"orderId"`
	CartKey     string               `json:"cartKey"`
	Items       []CartCheckedOutItem `json:"items"`
	TotalAmount decimal.Decimal      `json:"totalAmount"`
	Timestamp   time.Time            `json:"timestamp"`
}

type CartCheckedOut = Envelope[CartCheckedOutPayload]

type EnvelopeOptions struct {
	CorrelationID string
	EventID       string
	OccurredAt    time.Time
}

// BuildCartCheckedOut describes a cart that the server accepted as an
// order. The order id is the partition key.
func BuildCartCheckedOut(orderID, cartKey string, items []cart.LineItem, total decimal.Decimal, opts EnvelopeOptions) CartCheckedOut {
	eventID := opts.EventID
	if eventID == "" {
		eventID = uuid.NewString()
	}
	occurredAt := opts.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	payload := CartCheckedOutPayload{
		OrderID:     orderID,
		CartKey:     cartKey,
		Items:       make([]CartCheckedOutItem, 0, len(items)),
		TotalAmount: total,
		Timestamp:   occurredAt,
	}
	for _, it := range items {
		payload.Items = append(payload.Items, CartCheckedOutItem{
			ProductID: it.ID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.UnitPrice,
		})
	}

	return CartCheckedOut{
		EventName:     CartCheckedOutEventName,
		EventVersion:  CartCheckedOutEventVersion,
		EventID:       eventID,
		CorrelationID: opts.CorrelationID,
		Producer:      StorefrontProducer,
		PartitionKey:  orderID,
		OccurredAt:    occurredAt,
		Schema:        CartCheckedOutSchemaPath,
		Payload:       payload,
	}
}

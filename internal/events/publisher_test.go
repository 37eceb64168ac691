package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
)

type publishedMsg struct {
	exchange, key string
	msg           amqp.Publishing
}

type fakeChannel struct {
	declared  []string
	published []publishedMsg
	closed    bool
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	f.declared = append(f.declared, name+":"+kind)
	return nil
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.published = append(f.published, publishedMsg{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func sampleEvent() CartCheckedOut {
	items := []cart.LineItem{
		{ID: 1, Name: "Manzana", UnitPrice: decimal.RequireFromString("10"), Quantity: 2},
		{ID: 2, Name: "Pera", UnitPrice: decimal.RequireFromString("5"), Quantity: 1},
	}
	return BuildCartCheckedOut("42", "carrito", items, decimal.RequireFromString("25"), EnvelopeOptions{
		CorrelationID: "53b0fd3e-8d6b-49af-8c1f-12cf4182c2f7",
		EventID:       "73b0fd3e-8d6b-49af-8c1f-12cf4182c2f7",
		OccurredAt:    time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC),
	})
}

func TestBuildCartCheckedOut(t *testing.T) {
	ev := sampleEvent()

	require.NoError(t, ev.Validate(CartCheckedOutEventName, CartCheckedOutEventVersion))
	assert.Equal(t, "42", ev.PartitionKey)
	assert.Equal(t, StorefrontProducer, ev.Producer)
	require.Len(t, ev.Payload.Items, 2)
	assert.Equal(t, int64(2), ev.Payload.Items[1].ProductID)
	assert.True(t, decimal.RequireFromString("25").Equal(ev.Payload.TotalAmount))

	ev.EventName = "WrongName"
	assert.Error(t, ev.Validate(CartCheckedOutEventName, CartCheckedOutEventVersion))
}

func TestBuildCartCheckedOut_Defaults(t *testing.T) {
	ev := BuildCartCheckedOut("7", "carrito", nil, decimal.Zero, EnvelopeOptions{})
	assert.NotEmpty(t, ev.EventID)
	assert.False(t, ev.OccurredAt.IsZero())
	assert.NotNil(t, ev.Payload.Items)
}

func TestRabbitPublisher(t *testing.T) {
	ch := &fakeChannel{}
	p, err := newRabbitPublisher(ch)
	require.NoError(t, err)
	assert.Equal(t, []string{"ecommerce.events:topic"}, ch.declared)

	ev := sampleEvent()
	require.NoError(t, p.PublishCartCheckedOut(context.Background(), ev))
	require.Len(t, ch.published, 1)

	got := ch.published[0]
	assert.Equal(t, EventsExchange, got.exchange)
	assert.Equal(t, CartCheckedOutRoutingKey, got.key)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)
	assert.Equal(t, ev.EventID, got.msg.MessageId)

	var decoded CartCheckedOut
	require.NoError(t, json.Unmarshal(got.msg.Body, &decoded))
	assert.Equal(t, "42", decoded.Payload.OrderID)
	assert.Equal(t, 2, decoded.Payload.Items[0].Quantity)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestRabbitPublisher_RejectsInvalidEnvelope(t *testing.T) {
	ch := &fakeChannel{}
	p, err := newRabbitPublisher(ch)
	require.NoError(t, err)

	ev := sampleEvent()
	ev.PartitionKey = ""
	require.Error(t, p.PublishCartCheckedOut(context.Background(), ev))
	assert.Empty(t, ch.published)
}

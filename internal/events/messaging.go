package events

const (
	EventsExchange           = "ecommerce.events"
	CartCheckedOutRoutingKey = "cart.checkedout.v1"
	StorefrontProducer       = "storefront-go"
)

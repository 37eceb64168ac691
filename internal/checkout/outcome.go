package checkout

import "fmt"

type State int32

const (
	Idle State = iota
	CheckingAuth
	Submitting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case CheckingAuth:
		return "checking_auth"
	case Submitting:
		return "submitting"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

type Kind int

const (
	// EmptyCart: nothing to buy, no request was made.
	EmptyCart Kind = iota
	// CommunicationError: the session check failed or returned garbage.
	CommunicationError
	// LoginRequired: the session is not authenticated.
	LoginRequired
	// ProcessingError: the order request failed or its reply was unusable.
	ProcessingError
	// OrderRejected: the server answered with a JSON error.
	OrderRejected
	// Completed: the server created the order and the cart was emptied.
	Completed
	// Busy: another purchase is in flight.
	Busy
)

func (k Kind) String() string {
	switch k {
	case EmptyCart:
		return "empty_cart"
	case CommunicationError:
		return "communication_error"
	case LoginRequired:
		return "login_required"
	case ProcessingError:
		return "processing_error"
	case OrderRejected:
		return "order_rejected"
	case Completed:
		return "completed"
	case Busy:
		return "busy"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Outcome is the result of one purchase attempt. Message is what the user
// should see; Err keeps the underlying failure for logs.
type Outcome struct {
	Kind     Kind
	Message  string
	OrderID  string
	Redirect string
	Err      error
}

func (o Outcome) Success() bool { return o.Kind == Completed }

// CartUnchanged reports whether this outcome guarantees the cart was left
// as it was. Only Completed clears it.
func (o Outcome) CartUnchanged() bool { return o.Kind != Completed }

const (
	msgEmptyCart     = "Your cart is empty. Add products before buying."
	msgSessionFailed = "There was a problem talking to the server while checking your session. Please try again."
	msgLoginRequired = "You need to log in or register to complete your purchase."
	msgUnexpected    = "Unexpected server response while processing your purchase."
	msgUnreachable   = "Could not reach the server to process your purchase. Please try again later."
	msgBusy          = "Your purchase is already being processed."
)

func serverErrorFallback(status int) string {
	return fmt.Sprintf("Server error: %d.", status)
}

func completedMessage(serverMessage, orderID string) string {
	if serverMessage == "" {
		return fmt.Sprintf("Order ID: %s", orderID)
	}
	return fmt.Sprintf("%s Order ID: %s", serverMessage, orderID)
}

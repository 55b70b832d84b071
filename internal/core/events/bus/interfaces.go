package bus

import "time"

// Bus is an in-process pub/sub bus for engine lifecycle events.
//
// Handlers subscribe by event type, or to every type with Wildcard. Delivery
// is synchronous in the publisher's goroutine and follows subscription order.
// Handler errors are joined and returned from Publish. The bus itself is safe
// for concurrent use; what handlers touch is their own concern.
type Bus interface {
	// Publish delivers the event to every active subscriber of its type and to
	// wildcard subscribers.
	Publish(event Event) error
	// Subscribe registers handler for eventType and returns a handle that
	// cancels it.
	Subscribe(eventType string, handler Handler) Subscription
	// Unsubscribe cancels sub. A nil sub is ignored.
	Unsubscribe(sub Subscription)
	// Metrics returns a snapshot of delivery counters.
	Metrics() Metrics
}

// Wildcard subscribes to every event type.
const Wildcard = "*"

// Event is an immutable message carried by the Bus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

type Handler func(event Event) error

// Subscription is a registered handler bound to an event type.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel removes the handler. Repeated calls are safe.
	Cancel()
}

type Metrics struct {
	Published   uint64
	Delivered   uint64
	Errors      uint64
	Subscribers int
}

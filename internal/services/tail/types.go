package tailsvc

import "context"

// Item is one delivered entry: a rendered line with its sequence number,
// or an eviction gap notice when Lost is set.
type Item struct {
	Seq  uint64 `json:"seq"`
	Line string `json:"line,omitempty"`
	Lost bool   `json:"lost,omitempty"`
}

// Sink is implemented by transports to receive streamed items.
type Sink interface {
	Send(Item) error
	Context() context.Context
	Flush() error
}

// TailOptions controls one subscription.
type TailOptions struct {
	// FromOldest starts at the oldest surviving record instead of the
	// live edge.
	FromOldest bool
	// Filter is an optional CEL expression evaluated per event. When
	// empty, every event is delivered.
	Filter string
	// Limit stops the stream after this many delivered lines. Zero means
	// no limit. Gap notices do not count.
	Limit int
}

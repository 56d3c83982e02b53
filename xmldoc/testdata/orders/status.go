package orders

// Status is the lifecycle state of an order.
type Status int

const (
	// StatusActive marks an order that is being processed.
	StatusActive Status = iota
	StatusInactive // StatusInactive marks a paused order.
	StatusArchived
)

// Priority orders the fulfilment queue.
type Priority int

// PriorityHigh jumps the queue.
const PriorityHigh Priority = 10

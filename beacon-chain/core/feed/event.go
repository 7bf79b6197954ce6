// Package feed defines the event envelope shared by the operation and state
// feeds of the node.
package feed

// EventType defines the type of event.
type EventType int

// Event is the value sent on every feed.
type Event struct {
	// Type is the type of event.
	Type EventType
	// Data is event-specific data.
	Data interface{}
}

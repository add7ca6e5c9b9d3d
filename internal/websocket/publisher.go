package websocket

// EventPublisher defines the interface for publishing events to listeners
type EventPublisher interface {
	// Publish delivers an event to every listener
	Publish(event Event)
}

// Ensure Hub implements EventPublisher
var _ EventPublisher = (*Hub)(nil)

// Publish implements EventPublisher by broadcasting the event to all clients
func (h *Hub) Publish(event Event) {
	h.Broadcast(event)
}

// NoOpPublisher is a publisher that does nothing (for testing or when live updates are disabled)
type NoOpPublisher struct{}

// Publish does nothing
func (n *NoOpPublisher) Publish(event Event) {}

// MultiPublisher fans an event out to several publishers in order
type MultiPublisher []EventPublisher

// Publish forwards the event to every non-nil publisher
func (m MultiPublisher) Publish(event Event) {
	for _, p := range m {
		if p != nil {
			p.Publish(event)
		}
	}
}

package relay

// Client is the interface for one relay connection. It abstracts the
// underlying transport so the Manager can be tested without real
// WebSockets.
type Client interface {
	// ConnID returns the unique identifier for this connection.
	ConnID() string

	// Send queues a protocol frame for delivery. It never blocks: when the
	// outbound queue is full it returns false, and the Manager drops the
	// connection rather than stalling fan-out for everyone else.
	Send(frame []byte) bool

	// Run starts the client's read and write pumps.
	Run()

	// Close shuts down the client's connection and outbound queue.
	Close()
}

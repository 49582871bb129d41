package relay_test

import "sync"

// MockClient records every frame it is sent so tests can assert on the
// outbound protocol traffic without a real WebSocket.
type MockClient struct {
	id     string
	reject bool

	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func newMockClient(id string) *MockClient {
	return &MockClient{id: id}
}

func (c *MockClient) ConnID() string { return c.id }

func (c *MockClient) Send(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reject {
		return false
	}
	c.frames = append(c.frames, frame)
	return true
}

func (c *MockClient) Run() {}

func (c *MockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *MockClient) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Frames returns a snapshot of everything sent so far.
func (c *MockClient) Frames() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.frames))
	copy(out, c.frames)
	return out
}

// Reject makes every subsequent Send fail, simulating a full outbound
// queue on a slow consumer.
func (c *MockClient) Reject() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reject = true
}

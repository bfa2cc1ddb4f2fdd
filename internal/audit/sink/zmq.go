package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/concave-dev/ledger/internal/audit"
	"github.com/go-zeromq/zmq4"
)

// DefaultZMQTopic prefixes every published submission frame.
const DefaultZMQTopic = "audit.submission"

// ZMQ publishes submissions on a ZeroMQ PUB socket as two-frame messages:
// topic, then the JSON wire shape. Subscribers that are not connected when a
// submission is published do not receive it.
type ZMQ struct {
	mu       sync.Mutex
	endpoint string
	topic    []byte
	pub      zmq4.Socket
	closed   bool
}

// NewZMQ binds a PUB socket on endpoint (for example "tcp://*:5556"). The
// socket lives until Close or until ctx is cancelled.
func NewZMQ(ctx context.Context, endpoint, topic string) (*ZMQ, error) {
	if topic == "" {
		topic = DefaultZMQTopic
	}

	pub := zmq4.NewPub(ctx)
	if err := pub.Listen(endpoint); err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("failed to bind audit publisher on %s: %w", endpoint, err)
	}

	return &ZMQ{endpoint: endpoint, topic: []byte(topic), pub: pub}, nil
}

// Addr returns the bound address, which resolves wildcard ports.
func (z *ZMQ) Addr() string {
	if addr := z.pub.Addr(); addr != nil {
		return addr.String()
	}
	return z.endpoint
}

// Handle publishes the submission.
func (z *ZMQ) Handle(_ context.Context, s audit.Submission) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode submission: %w", err)
	}

	z.mu.Lock()
	defer z.mu.Unlock()

	if z.closed {
		return fmt.Errorf("audit publisher %s is closed", z.endpoint)
	}
	if err := z.pub.Send(zmq4.NewMsgFrom(z.topic, data)); err != nil {
		return fmt.Errorf("failed to publish submission %s: %w", s.ID, err)
	}
	return nil
}

// Close closes the PUB socket. Safe to call more than once.
func (z *ZMQ) Close() error {
	z.mu.Lock()
	defer z.mu.Unlock()

	if z.closed {
		return nil
	}
	z.closed = true
	return z.pub.Close()
}

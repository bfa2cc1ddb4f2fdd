package sink

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/concave-dev/ledger/internal/audit"
)

// Multi delivers each submission to every wrapped sink in order. Delivery
// continues past a failing sink; all failures are joined into one error.
type Multi struct {
	names []string
	sinks []audit.Sink
}

// NewMulti creates an empty fan-out sink.
func NewMulti() *Multi {
	return &Multi{}
}

// Add appends a named sink.
func (m *Multi) Add(name string, s audit.Sink) {
	m.names = append(m.names, name)
	m.sinks = append(m.sinks, s)
}

// Names returns the configured sink names in delivery order.
func (m *Multi) Names() []string {
	return append([]string(nil), m.names...)
}

// Len returns the number of wrapped sinks.
func (m *Multi) Len() int {
	return len(m.sinks)
}

// Handle delivers to every sink.
func (m *Multi) Handle(ctx context.Context, s audit.Submission) error {
	var errs []error
	for i, target := range m.sinks {
		if err := target.Handle(ctx, s); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", m.names[i], err))
		}
	}
	return errors.Join(errs...)
}

// Close closes every wrapped sink that holds resources, in reverse order.
func (m *Multi) Close() error {
	var errs []error
	for i := len(m.sinks) - 1; i >= 0; i-- {
		if c, ok := m.sinks[i].(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", m.names[i], err))
			}
		}
	}
	return errors.Join(errs...)
}

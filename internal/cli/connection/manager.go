package connection

import (
	"context"
	"errors"
	"time"
)

// ErrNotConnected is returned when no server is selected.
var ErrNotConnected = errors.New("connection: not connected")

// Manager owns the REPL's current connection and redials it after the
// server drops it.
type Manager struct {
	timeout time.Duration
	addr    string
	current *Client
}

// NewManager creates a manager whose connections use timeout.
func NewManager(timeout time.Duration) *Manager {
	return &Manager{timeout: timeout}
}

// Connect dials addr and makes it current, closing any previous connection.
func (m *Manager) Connect(ctx context.Context, addr string) error {
	c, err := Dial(ctx, addr, m.timeout)
	if err != nil {
		return err
	}
	m.Disconnect()
	m.addr = addr
	m.current = c
	return nil
}

// Disconnect closes the current connection.
func (m *Manager) Disconnect() {
	if m.current != nil {
		_ = m.current.Close()
	}
	m.current = nil
	m.addr = ""
}

// Addr returns the current server address.
func (m *Manager) Addr() string {
	return m.addr
}

// IsConnected reports whether a server is selected.
func (m *Manager) IsConnected() bool {
	return m.addr != ""
}

// Client returns the live client, redialing if the last one was closed.
func (m *Manager) Client(ctx context.Context) (*Client, error) {
	if m.addr == "" {
		return nil, ErrNotConnected
	}
	if m.current == nil || m.current.Closed() {
		c, err := Dial(ctx, m.addr, m.timeout)
		if err != nil {
			return nil, err
		}
		m.current = c
	}
	return m.current, nil
}

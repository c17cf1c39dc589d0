package connection

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/yndnr/respkv/pkg/resp"
)

// ErrClosed is returned by a Client after Close.
var ErrClosed = errors.New("connection: client closed")

// Client is a RESP connection to one server. It is not safe for concurrent
// use.
type Client struct {
	addr    string
	timeout time.Duration
	conn    net.Conn
	rd      *resp.Reader
	bw      *bufio.Writer
	buf     []byte
}

// Dial connects to addr. timeout bounds the dial and later round trips;
// zero means no limit.
func Dial(ctx context.Context, addr string, timeout time.Duration) (*Client, error) {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return &Client{
		addr:    addr,
		timeout: timeout,
		conn:    conn,
		rd:      resp.NewReader(conn),
		bw:      bufio.NewWriter(conn),
	}, nil
}

// Addr returns the server address.
func (c *Client) Addr() string {
	return c.addr
}

// Do sends one command as an array of bulk strings and returns the reply.
// Error replies are returned as resp.SimpleError frames, not Go errors.
func (c *Client) Do(ctx context.Context, args ...string) (resp.Frame, error) {
	replies, err := c.Pipeline(ctx, [][]string{args})
	if err != nil {
		return nil, err
	}
	return replies[0], nil
}

// Pipeline writes every command before reading any reply and returns the
// replies in order.
func (c *Client) Pipeline(ctx context.Context, cmds [][]string) ([]resp.Frame, error) {
	if c.conn == nil {
		return nil, ErrClosed
	}
	if len(cmds) == 0 {
		return nil, nil
	}

	if err := c.setDeadline(ctx); err != nil {
		return nil, err
	}
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetDeadline(time.Now())
	})
	defer stop()

	for _, args := range cmds {
		if len(args) == 0 {
			return nil, errors.New("connection: empty command")
		}
		c.buf = resp.AppendFrame(c.buf[:0], resp.BulkStrings(args...))
		if _, err := c.bw.Write(c.buf); err != nil {
			return nil, c.fail(ctx, err)
		}
	}
	if err := c.bw.Flush(); err != nil {
		return nil, c.fail(ctx, err)
	}

	replies := make([]resp.Frame, 0, len(cmds))
	for range cmds {
		f, err := c.rd.ReadFrame()
		if err != nil {
			return nil, c.fail(ctx, err)
		}
		replies = append(replies, f)
	}
	return replies, nil
}

func (c *Client) setDeadline(ctx context.Context) error {
	var deadline time.Time
	if c.timeout > 0 {
		deadline = time.Now().Add(c.timeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}
	return c.conn.SetDeadline(deadline)
}

// fail closes the connection after an I/O error, since the stream position
// is unknown, and prefers the context's error when it caused the failure.
func (c *Client) fail(ctx context.Context, err error) error {
	_ = c.Close()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

// Closed reports whether the connection has been closed.
func (c *Client) Closed() bool {
	return c.conn == nil
}

// Close closes the connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

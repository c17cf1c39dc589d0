package redisserver

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
	"github.com/yndnr/respkv/pkg/resp"
)

// conn is one client connection.
type conn struct {
	id      string
	netConn net.Conn
	rd      *resp.Reader
	bw      *bufio.Writer
	scratch []byte

	// limiter is nil when rate limiting is disabled.
	limiter *rate.Limiter

	closed atomic.Bool
}

func newConn(nc net.Conn, rateLimit int) *conn {
	c := &conn{
		id:      ulid.Make().String(),
		netConn: nc,
		bw:      bufio.NewWriter(nc),
	}
	if rateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(rateLimit), rateLimit)
	}
	return c
}

func (c *conn) close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}

// deadlineReader applies the idle timeout while waiting for a new frame and
// the read timeout while a frame is partially buffered.
type deadlineReader struct {
	c           *conn
	idleTimeout time.Duration
	readTimeout time.Duration
}

func (r *deadlineReader) Read(p []byte) (int, error) {
	timeout := r.idleTimeout
	if r.c.rd.Buffered() > 0 {
		timeout = r.readTimeout
	}
	if err := r.c.netConn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return 0, err
	}
	return r.c.netConn.Read(p)
}

// writeReply buffers one encoded reply.
func (c *conn) writeReply(f resp.Frame) error {
	c.scratch = resp.AppendFrame(c.scratch[:0], f)
	_, err := c.bw.Write(c.scratch)
	return err
}

func (c *conn) flush(timeout time.Duration) error {
	if c.bw.Buffered() == 0 {
		return nil
	}
	if err := c.netConn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	return c.bw.Flush()
}

func (s *Server) serveConn(ctx context.Context, c *conn) {
	defer c.close()

	ctx = logger.WithLogger(ctx, s.logger)
	ctx = logger.WithConnID(ctx, c.id)
	log := logger.L(ctx).With("remote", c.netConn.RemoteAddr().String())

	c.rd = resp.NewReader(&deadlineReader{
		c:           c,
		idleTimeout: s.cfg.IdleTimeout,
		readTimeout: s.cfg.ReadTimeout,
	})

	log.Debug("connection opened")
	defer log.Debug("connection closed")

	for {
		f, err := c.rd.ReadFrame()
		if err != nil {
			s.handleReadError(c, log, err)
			return
		}

		reply, quit := s.handle(c, log, f)
		if err := c.writeReply(reply); err != nil {
			return
		}

		if quit || !c.rd.HasFrame() {
			if err := c.flush(s.cfg.WriteTimeout); err != nil {
				log.Debug("write failed", "error", err)
				return
			}
		}
		if quit {
			return
		}
	}
}

func (s *Server) handleReadError(c *conn, log logger.Logger, err error) {
	var netErr net.Error
	switch {
	case errors.Is(err, io.EOF):
		return
	case errors.Is(err, io.ErrUnexpectedEOF):
		log.Debug("connection closed mid-frame", "buffered", c.rd.Buffered())
		return
	case errors.Is(err, net.ErrClosed):
		return
	case errors.As(err, &netErr) && netErr.Timeout():
		log.Debug("connection timed out")
		return
	case errors.Is(err, resp.ErrLimitExceeded):
		s.metrics.ProtocolErrors.WithLabelValues(metric.ErrorKindLimit).Inc()
		log.Warn("protocol limit exceeded", "error", err)
		_ = c.writeReply(resp.SimpleError("ERR protocol limit exceeded"))
	case isFrameError(err):
		s.metrics.ProtocolErrors.WithLabelValues(metric.ErrorKindFrame).Inc()
		log.Warn("protocol error", "error", err)
		_ = c.writeReply(resp.SimpleError("ERR protocol error: " + err.Error()))
	default:
		log.Debug("connection read error", "error", err)
		return
	}
	_ = c.flush(s.cfg.WriteTimeout)
}

func isFrameError(err error) bool {
	return errors.Is(err, resp.ErrInvalidFrame) ||
		errors.Is(err, resp.ErrInvalidFrameType) ||
		errors.Is(err, resp.ErrInvalidFrameLength)
}

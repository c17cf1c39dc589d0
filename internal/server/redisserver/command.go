package redisserver

import (
	"time"

	"github.com/yndnr/respkv/internal/core/command"
	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
	"github.com/yndnr/respkv/pkg/resp"
)

var errRateLimited = resp.SimpleError("ERR rate limit exceeded")

// handle turns one decoded frame into its reply. quit reports whether the
// connection must be closed after the reply is flushed.
func (s *Server) handle(c *conn, log logger.Logger, f resp.Frame) (reply resp.Frame, quit bool) {
	if c.limiter != nil && !c.limiter.Allow() {
		s.metrics.ProtocolErrors.WithLabelValues(metric.ErrorKindRateLimited).Inc()
		return errRateLimited, false
	}

	cmd, err := command.FromFrame(f)
	if err != nil {
		s.metrics.ProtocolErrors.WithLabelValues(metric.ErrorKindCommand).Inc()
		log.Debug("invalid command", "error", err)
		return command.Reply(err), false
	}

	name := cmd.Name()
	if u, ok := cmd.(command.Unrecognized); ok {
		log.Debug("unrecognized command", "args", u.Keyword)
	}

	start := time.Now()
	reply = command.Execute(cmd, s.backend)
	s.metrics.CommandDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	s.metrics.CommandsTotal.WithLabelValues(name).Inc()

	_, quit = cmd.(command.Quit)
	return reply, quit
}

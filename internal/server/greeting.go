package server

import (
	"context"
	"net"
	"time"
)

// sendGreeting writes the configured greeting line before any decoded output.
func (s *Server) sendGreeting(ctx context.Context, conn net.Conn) error {
	if s.greeting == "" {
		return nil
	}
	deadline := time.Now().Add(s.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)
	defer func() { _ = conn.SetWriteDeadline(time.Time{}) }()
	_, err := conn.Write([]byte(s.greeting + "\n"))
	return err
}

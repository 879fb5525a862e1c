package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"

	"github.com/kstaniek/go-canerrdump/internal/hub"
	"github.com/kstaniek/go-canerrdump/internal/metrics"
)

// startReader discards anything the client sends and closes the client when
// the peer goes away, so disconnects are noticed without waiting for a write.
func (s *Server) startReader(ctxDone <-chan struct{}, conn net.Conn, cl *hub.Client, logger *slog.Logger) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cl.Close()
		buf := make([]byte, 256)
		for {
			if _, err := conn.Read(buf); err != nil {
				select {
				case <-ctxDone:
					return
				case <-cl.Closed:
					return
				default:
				}
				if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
					return
				}
				wrap := fmt.Errorf("%w: %v", ErrConnRead, err)
				metrics.IncError(mapErrToMetric(wrap))
				s.setError(wrap)
				logger.Debug("client_read_error", "error", wrap)
				return
			}
		}
	}()
}

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// TimeoutConfig represents timeout middleware configuration
type TimeoutConfig struct {
	Duration time.Duration
}

// DefaultTimeoutConfig returns default timeout configuration
func DefaultTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{
		Duration: 30 * time.Second,
	}
}

// timeoutWriter serializes access to the response. Once the deadline
// response has been sent, writes from the still-running handler goroutine
// are discarded instead of interleaving with it.
type timeoutWriter struct {
	gin.ResponseWriter
	mu       sync.Mutex
	timedOut bool
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut {
		return
	}
	tw.ResponseWriter.WriteHeader(code)
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut {
		return len(b), nil
	}
	return tw.ResponseWriter.Write(b)
}

func (tw *timeoutWriter) WriteString(s string) (int, error) {
	return tw.Write([]byte(s))
}

// expire sends the deadline response unless the handler already answered.
func (tw *timeoutWriter) expire(status int, body interface{}) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut || tw.ResponseWriter.Written() {
		return
	}
	tw.timedOut = true

	payload, err := json.Marshal(body)
	if err != nil {
		tw.ResponseWriter.WriteHeader(status)
		return
	}
	tw.ResponseWriter.Header().Set("Content-Type", "application/json; charset=utf-8")
	tw.ResponseWriter.WriteHeader(status)
	tw.ResponseWriter.Write(payload)
}

// Timeout bounds request handling. The handler runs in its own goroutine;
// when the deadline passes first, the client gets a 504 and whatever the
// handler writes afterwards is dropped.
func Timeout(config TimeoutConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), config.Duration)
		defer cancel()

		tw := &timeoutWriter{ResponseWriter: c.Writer}
		c.Writer = tw
		c.Request = c.Request.WithContext(ctx)

		// Snapshot before the handler goroutine starts; the context keys
		// are not safe for concurrent access.
		rid := c.GetString(ContextRequestID)
		path := c.Request.URL.Path

		done := make(chan struct{})
		go func() {
			defer func() {
				if r := recover(); r != nil {
					log.Error().
						Interface("error", r).
						Str("path", path).
						Str("request_id", rid).
						Msg("request panic recovered")
					tw.expire(http.StatusInternalServerError, ErrorResponse{
						Code:    http.StatusInternalServerError,
						Message: "internal server error",
						TraceID: rid,
					})
				}
				close(done)
			}()
			c.Next()
		}()

		select {
		case <-done:
		case <-ctx.Done():
			if ctx.Err() != context.DeadlineExceeded {
				return
			}
			tw.expire(http.StatusGatewayTimeout, ErrorResponse{
				Code:    http.StatusGatewayTimeout,
				Message: "request timed out",
				TraceID: rid,
			})
		}
	}
}

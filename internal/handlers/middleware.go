package handlers

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Keoroanthony/go-storefront/internal/cart"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an id and logs it once it is served.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Set("request_id", id)

		c.Next()

		attrs := []any{
			"request_id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "err", c.Errors.String())
		}

		switch {
		case c.Writer.Status() >= 500:
			log.Error("request served", attrs...)
		case c.Writer.Status() >= 400:
			log.Warn("request served", attrs...)
		default:
			log.Info("request served", attrs...)
		}
	}
}

// SerializeSession runs the requests that carry the same session cookie one
// after another. It must be mounted before anything reads the session: the
// session is loaded once per request and never re-read. Requests without a
// cookie have no cart to race on and pass straight through.
func SerializeSession(name string, locks *cart.Locker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ck, err := c.Request.Cookie(name)
		if err != nil || ck.Value == "" {
			c.Next()
			return
		}

		unlock := locks.Lock(ck.Value)
		defer unlock()
		c.Next()
	}
}

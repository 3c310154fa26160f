package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/appointment-booking/pkg/httputil"
)

const (
	HeaderIdempotencyKey    = "Idempotency-Key"
	HeaderIdempotentReplay  = "Idempotent-Replay"
	idempotencyInFlightMark = "in-flight"
)

type IdempotencyConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

type storedResponse struct {
	status      int
	contentType string
	body        []byte
}

// responseWriter keeps a copy of everything written to the client.
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the stored response of a successful request carrying
// the same Idempotency-Key. Requests without the header pass through.
type Idempotency struct {
	responses *cache.Cache
}

func NewIdempotency(config IdempotencyConfig) *Idempotency {
	return &Idempotency{
		responses: cache.New(config.TTL, config.CleanupInterval),
	}
}

func (i *Idempotency) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		cacheKey := c.Request.Method + " " + c.FullPath() + " " + key

		if err := i.responses.Add(cacheKey, idempotencyInFlightMark, cache.DefaultExpiration); err != nil {
			cached, found := i.responses.Get(cacheKey)
			if stored, ok := cached.(*storedResponse); found && ok {
				c.Header(HeaderIdempotentReplay, "true")
				c.Data(stored.status, stored.contentType, stored.body)
				c.Abort()
				return
			}
			httputil.AbortWithError(c, http.StatusConflict, "a request with this idempotency key is in progress")
			return
		}

		w := &responseWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = w

		// Unless a success is stored, the key is released so the request can
		// be retried. This also runs when the handler panics.
		stored := false
		defer func() {
			if !stored {
				i.responses.Delete(cacheKey)
			}
		}()

		c.Next()

		status := w.Status()
		if status < 200 || status >= 300 {
			return
		}
		i.responses.Set(cacheKey, &storedResponse{
			status:      status,
			contentType: w.Header().Get("Content-Type"),
			body:        w.body.Bytes(),
		}, cache.DefaultExpiration)
		stored = true
	}
}

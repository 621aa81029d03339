package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/skinsync/pkg/helpers"
	"github.com/oksasatya/skinsync/pkg/response"
)

func clientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func routeOf(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyFunc names the window a request is counted in.
type KeyFunc func(c *gin.Context) string

// AllowFunc returns true for requests that are never counted.
type AllowFunc func(*gin.Context) bool

func KeyByIP() KeyFunc {
	return func(c *gin.Context) string { return "rl:ip:" + clientIP(c) }
}

// KeyByIPAndPath gives each credential route its own window per client.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string { return "rl:path:" + routeOf(c) + ":ip:" + clientIP(c) }
}

// KeyByUserID counts signed-in callers per user and anonymous ones per IP.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		if uid := c.GetString(CtxUserIDKey); uid != "" {
			return "rl:user:" + uid
		}
		return "rl:user:anon:ip:" + clientIP(c)
	}
}

// KeyByUserAndRoute counts writes per user and route, so report submits
// and usage toggles do not share a budget.
func KeyByUserAndRoute() KeyFunc {
	base := KeyByUserID()
	return func(c *gin.Context) string {
		return base(c) + ":" + c.Request.Method + ":" + routeOf(c)
	}
}

// Limit is one fixed window: at most Max counted requests per Window.
type Limit struct {
	Max     int
	Window  time.Duration
	Key     KeyFunc
	Allow   AllowFunc
	Message string
}

// RateLimit enforces l using counter. A nil counter or an incomplete limit
// turns it into a pass-through. Counter errors let the request through.
func RateLimit(counter helpers.WindowCounter, l Limit) gin.HandlerFunc {
	if counter == nil || l.Max <= 0 || l.Window <= 0 || l.Key == nil {
		return func(c *gin.Context) { c.Next() }
	}
	msg := l.Message
	if msg == "" {
		msg = "Too many requests, please slow down"
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (l.Allow != nil && l.Allow(c)) {
			c.Next()
			return
		}

		hits, resetIn, err := counter.Hit(c.Request.Context(), l.Key(c), l.Window)
		if err != nil {
			c.Next()
			return
		}

		reset := int(math.Ceil(resetIn.Seconds()))
		remaining := int64(l.Max) - hits
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(l.Max))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.Itoa(reset))

		if hits > int64(l.Max) {
			c.Header("Retry-After", strconv.Itoa(reset))
			response.Error(c, http.StatusTooManyRequests, msg, map[string]any{"retry_after_seconds": reset})
			return
		}
		c.Next()
	}
}

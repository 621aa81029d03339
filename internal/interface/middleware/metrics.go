package middleware

import (
	"expvar"
	"strconv"

	"github.com/gin-gonic/gin"
)

var (
	httpRequests = expvar.NewMap("http_requests")
	httpStatuses = expvar.NewMap("http_statuses")
)

// Metrics counts requests per route and per status code on /debug/vars.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.Add(c.Request.Method+" "+route, 1)
		httpStatuses.Add(strconv.Itoa(c.Writer.Status()), 1)
	}
}

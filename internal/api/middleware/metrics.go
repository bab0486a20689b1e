package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/khaifmono/memberbase/pkg/metrics"
)

// Metrics 记录请求计数与耗时；未匹配路由统一记为 "unmatched"
func Metrics(mt *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		mt.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

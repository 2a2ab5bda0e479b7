package middleware

import (
	"net"
	"strings"

	"github.com/kranthikiran885366/time-table-app/config"

	"github.com/gin-gonic/gin"
)

// clientIP resolves the caller's address for rate-limit bucketing. Forwarded
// headers are honored only when TRUST_PROXY_HEADERS is set: without a proxy
// in front, those headers are caller-controlled and would let one client
// spread its requests across arbitrary buckets.
func clientIP(c *gin.Context) string {
	if config.AppConfig.TrustProxyHeaders {
		if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
			// First hop in the list is the originating client.
			first := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
			if net.ParseIP(first) != nil {
				return first
			}
		}
		if xri := strings.TrimSpace(c.GetHeader("X-Real-IP")); xri != "" && net.ParseIP(xri) != nil {
			return xri
		}
	}

	if host, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil {
		return host
	}
	return c.Request.RemoteAddr
}

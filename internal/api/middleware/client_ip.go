package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

const ctxKeyClientIP = "client_ip"

// ClientIP resolves the caller's IP from proxy headers and stores it on the
// gin context. Precedence follows the upstream proxy chain:
// X-Forwarded-For (first hop), then X-Real-IP, then the socket address.
//
// The resolved value is only ever hashed before storage or logging.
func ClientIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxKeyClientIP, resolveClientIP(c))
		c.Next()
	}
}

// GetClientIP returns the IP resolved by ClientIP, "unknown" when absent.
func GetClientIP(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyClientIP); ok {
		if ip, ok := v.(string); ok && ip != "" {
			return ip
		}
	}
	return "unknown"
}

func resolveClientIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		// First address is the originating client.
		if first, _, found := strings.Cut(fwd, ","); found || first != "" {
			return strings.TrimSpace(first)
		}
	}
	if real := strings.TrimSpace(c.GetHeader("X-Real-IP")); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil || host == "" {
		return "unknown"
	}
	return host
}

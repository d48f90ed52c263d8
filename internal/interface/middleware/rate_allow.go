package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// AllowPrivateIP bypasses the limiter for loopback and private-range clients.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		parsed := net.ParseIP(ipFromCtx(c))
		if parsed == nil {
			return false
		}
		return parsed.IsLoopback() || parsed.IsPrivate()
	}
}

// AllowSafeMethods bypasses the limiter for reads.
func AllowSafeMethods() AllowFunc {
	return func(c *gin.Context) bool {
		switch strings.ToUpper(c.Request.Method) {
		case "GET", "HEAD":
			return true
		}
		return false
	}
}

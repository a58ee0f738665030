package auth

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/bookstock/internal/logger"
)

// DenyFunc writes the rejection response and aborts the request.
type DenyFunc func(c *gin.Context, status int, message string)

// TokenGuard requires a bearer token on mutating requests. Safe methods
// (GET, HEAD, OPTIONS) pass through untouched.
type TokenGuard struct {
	hash    string
	limiter *RateLimiter
	deny    DenyFunc
}

// NewTokenGuard creates a guard checking tokens against a bcrypt hash.
// limiter may be nil to disable throttling.
func NewTokenGuard(hash string, limiter *RateLimiter, deny DenyFunc) *TokenGuard {
	if deny == nil {
		deny = func(c *gin.Context, status int, message string) {
			c.AbortWithStatusJSON(status, gin.H{"error": message})
		}
	}
	return &TokenGuard{hash: hash, limiter: limiter, deny: deny}
}

// Handler returns the gin middleware.
func (g *TokenGuard) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if g.limiter != nil {
			if allowed, retryAfter := g.limiter.Allow(ip); !allowed {
				c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
				g.deny(c, http.StatusTooManyRequests, "Too many failed authentication attempts")
				return
			}
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			g.deny(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		if err := CheckToken(token, g.hash); err != nil {
			logger.Log.WithFields(logrus.Fields{
				"ip":     ip,
				"method": c.Request.Method,
				"path":   c.Request.URL.Path,
			}).Warn("Rejected API token")
			if g.limiter != nil {
				g.limiter.RecordFailure(ip)
			}
			g.deny(c, http.StatusUnauthorized, "Invalid API token")
			return
		}

		if g.limiter != nil {
			g.limiter.RecordSuccess(ip)
		}
		c.Next()
	}
}

// bearerToken extracts the token from "Bearer <token>".
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

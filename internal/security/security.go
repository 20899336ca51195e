package security

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// SecurityConfig holds security configuration
type SecurityConfig struct {
	MaxBodyBytes      int64         `json:"max_body_bytes"`
	MaxRequestsPerMin int           `json:"max_requests_per_min"`
	AllowedOrigins    []string      `json:"allowed_origins"`
	TrustedProxies    []string      `json:"trusted_proxies"`
	RequestTimeout    time.Duration `json:"request_timeout"`
}

// DefaultSecurityConfig returns secure defaults. A full five-category
// credit payload is well under 64KiB.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		MaxBodyBytes:      64 * 1024,
		MaxRequestsPerMin: 120,
		AllowedOrigins:    []string{"http://localhost:3000", "http://localhost:5173"},
		TrustedProxies:    []string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"},
		RequestTimeout:    10 * time.Second,
	}
}

// SecurityMiddleware provides request hardening for the scoring API
type SecurityMiddleware struct {
	config     SecurityConfig
	ipLimiters map[string]*rate.Limiter
	mu         sync.Mutex
}

// NewSecurityMiddleware creates a new security middleware instance
func NewSecurityMiddleware(config SecurityConfig) *SecurityMiddleware {
	return &SecurityMiddleware{
		config:     config,
		ipLimiters: make(map[string]*rate.Limiter),
	}
}

// SecurityHeaders adds security headers to responses
func (sm *SecurityMiddleware) SecurityHeaders(c *gin.Context) {
	// Prevent MIME type sniffing
	c.Header("X-Content-Type-Options", "nosniff")

	// Prevent clickjacking
	c.Header("X-Frame-Options", "DENY")

	// XSS protection
	c.Header("X-XSS-Protection", "1; mode=block")

	// HSTS only over TLS
	if c.Request.TLS != nil {
		c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
	}

	c.Header("Content-Security-Policy", "default-src 'self'")
	c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

	// Score responses must never be cached by intermediaries
	c.Header("Cache-Control", "no-store")

	c.Next()
}

// ValidateContentType requires JSON bodies on mutating requests
func (sm *SecurityMiddleware) ValidateContentType(c *gin.Context) {
	if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut {
		c.Next()
		return
	}

	contentType := c.GetHeader("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "application/json") {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{
			"error": "unsupported content type",
		})
		c.Abort()
		return
	}

	c.Next()
}

// BodyLimit caps the request body size
func (sm *SecurityMiddleware) BodyLimit(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, sm.config.MaxBodyBytes)
	c.Next()
}

// RequestTimeout enforces request timeout
func (sm *SecurityMiddleware) RequestTimeout(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), sm.config.RequestTimeout)
	defer cancel()

	c.Request = c.Request.WithContext(ctx)
	c.Header("X-Timeout", strconv.Itoa(int(sm.config.RequestTimeout.Seconds())))

	c.Next()
}

// RateLimitByIP implements per-IP rate limiting
func (sm *SecurityMiddleware) RateLimitByIP(c *gin.Context) {
	clientIP := c.ClientIP()

	sm.mu.Lock()
	limiter, exists := sm.ipLimiters[clientIP]
	if !exists {
		rps := rate.Limit(float64(sm.config.MaxRequestsPerMin) / 60.0)
		burst := sm.config.MaxRequestsPerMin / 2
		if burst < 5 {
			burst = 5
		}
		limiter = rate.NewLimiter(rps, burst)
		sm.ipLimiters[clientIP] = limiter
	}
	sm.mu.Unlock()

	if !limiter.Allow() {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":       "rate limit exceeded for IP",
			"retry_after": "60",
		})
		c.Abort()
		return
	}

	c.Next()
}

package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"shiine-academy-backend/internal/config"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitManager keeps per-IP limiters with background cleanup of idle
// entries. One instance serves both the general limiter and the stricter
// per-operation limiters on sensitive endpoints.
type RateLimitManager struct {
	visitorsMu sync.Mutex
	visitors   map[string]*visitor

	criticalMu sync.Mutex
	critical   map[string]*visitor

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRateLimitManager(ctx context.Context) *RateLimitManager {
	managerCtx, cancel := context.WithCancel(ctx)

	m := &RateLimitManager{
		visitors: make(map[string]*visitor),
		critical: make(map[string]*visitor),
		ctx:      managerCtx,
		cancel:   cancel,
	}

	m.wg.Add(1)
	go m.cleanupLoop()

	return m
}

func (m *RateLimitManager) getVisitor(ip string, requestsPerWindow, windowSeconds, burst int) *rate.Limiter {
	m.visitorsMu.Lock()
	defer m.visitorsMu.Unlock()

	if requestsPerWindow <= 0 {
		return nil
	}

	v, exists := m.visitors[ip]
	if !exists {
		if windowSeconds <= 0 {
			windowSeconds = 60
		}
		if burst < requestsPerWindow {
			burst = requestsPerWindow
		}

		limiter := rate.NewLimiter(rate.Limit(float64(requestsPerWindow)/float64(windowSeconds)), burst)
		m.visitors[ip] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func (m *RateLimitManager) getCriticalLimiter(key string, requestsPerWindow, windowSeconds int) *rate.Limiter {
	m.criticalMu.Lock()
	defer m.criticalMu.Unlock()

	if requestsPerWindow <= 0 {
		return nil
	}

	v, exists := m.critical[key]
	if !exists {
		if windowSeconds <= 0 {
			windowSeconds = 60
		}

		limiter := rate.NewLimiter(rate.Limit(float64(requestsPerWindow)/float64(windowSeconds)), requestsPerWindow)
		m.critical[key] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func (m *RateLimitManager) cleanupLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.cleanup()
		}
	}
}

func (m *RateLimitManager) cleanup() {
	m.visitorsMu.Lock()
	for ip, v := range m.visitors {
		if time.Since(v.lastSeen) > 3*time.Minute {
			delete(m.visitors, ip)
		}
	}
	m.visitorsMu.Unlock()

	m.criticalMu.Lock()
	for key, v := range m.critical {
		if time.Since(v.lastSeen) > 10*time.Minute {
			delete(m.critical, key)
		}
	}
	m.criticalMu.Unlock()
}

func (m *RateLimitManager) Shutdown() error {
	m.cancel()
	m.wg.Wait()
	return nil
}

// RateLimitMiddleware limits request rate per client IP. Static assets and
// uploads bypass it.
func RateLimitMiddleware(manager *RateLimitManager, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if manager == nil || shouldBypassRateLimit(c.Request) {
			c.Next()
			return
		}

		limiter := manager.getVisitor(
			c.ClientIP(),
			cfg.RateLimitRequests,
			cfg.RateLimitWindowSeconds,
			cfg.RateLimitBurst,
		)
		if limiter == nil {
			c.Next()
			return
		}

		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests, please try again later",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CriticalRateLimit guards expensive or abusable operations (verification
// codes, wallet charges) with a much tighter per-IP budget.
func CriticalRateLimit(manager *RateLimitManager, operation string, requestsPerWindow, windowSeconds int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if manager == nil {
			c.Next()
			return
		}

		limiter := manager.getCriticalLimiter(
			operation+":"+c.ClientIP(),
			requestsPerWindow,
			windowSeconds,
		)
		if limiter == nil {
			c.Next()
			return
		}

		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "too many attempts, please wait before retrying",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func shouldBypassRateLimit(r *http.Request) bool {
	if r == nil || r.URL == nil {
		return false
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}

	path := r.URL.Path
	if strings.HasPrefix(path, "/uploads/") || strings.HasPrefix(path, "/static/") {
		return true
	}
	return path == "/favicon.ico"
}

package middleware

import (
	"net/http"
	"newsjam-server/internal/config"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type IPRateLimiter struct {
	ips sync.Map
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	i := &IPRateLimiter{
		r: r,
		b: b,
	}

	go i.cleanupLoop()

	return i
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	if v, ok := i.ips.Load(ip); ok {
		c := v.(*client)
		c.lastSeen = time.Now()
		return c.limiter
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	// Double check
	if v, ok := i.ips.Load(ip); ok {
		c := v.(*client)
		c.lastSeen = time.Now()
		return c.limiter
	}

	limiter := rate.NewLimiter(i.r, i.b)
	i.ips.Store(ip, &client{limiter: limiter, lastSeen: time.Now()})

	return limiter
}

func (i *IPRateLimiter) cleanupLoop() {
	for {
		time.Sleep(1 * time.Minute)
		i.ips.Range(func(key, value interface{}) bool {
			client := value.(*client)
			if time.Since(client.lastSeen) > 3*time.Minute {
				i.ips.Delete(key)
			}
			return true
		})
	}
}

// RateLimitMiddleware 创建一个按 IP 限流的中间件。
// rps/burst 通过取值函数读取，配置热更新后无需重建中间件。
func RateLimitMiddleware(limits func() (float64, int)) gin.HandlerFunc {
	var limiter *IPRateLimiter
	var once sync.Once

	return func(c *gin.Context) {
		// 检查总开关
		if !config.Get().RateLimit.Enabled {
			c.Next()
			return
		}

		currentRPS, currentBurst := limits()

		// 初始化 Limiter
		once.Do(func() {
			limiter = NewIPRateLimiter(rate.Limit(currentRPS), currentBurst)
		})

		// 获取 IP 对应的 limiter
		ip := c.ClientIP()
		l := limiter.getLimiter(ip)

		// 动态更新 limit 和 burst (如果配置发生变更)
		if l.Limit() != rate.Limit(currentRPS) {
			l.SetLimit(rate.Limit(currentRPS))
		}
		if l.Burst() != currentBurst {
			l.SetBurst(currentBurst)
		}

		if !l.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "请求过于频繁，请稍后再试"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// AuthRateLimits 认证接口的限流配置取值。
func AuthRateLimits() (float64, int) {
	cfg := config.Get().RateLimit
	return cfg.AuthRPS, cfg.AuthBurst
}

// UploadRateLimits 上传接口的限流配置取值。
func UploadRateLimits() (float64, int) {
	cfg := config.Get().RateLimit
	return cfg.UploadRPS, cfg.UploadBurst
}

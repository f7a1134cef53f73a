package service

import (
	"context"
	"log"
	"newsjam-server/internal/config"
	"strconv"
	"sync"
	"time"
)

// PendingService 跟踪尚未关联到帖子的临时上传文件。
// 上传时登记，重命名完成时销账；超过 TTL 仍未销账的孤儿文件由后台清扫删除。
// Redis 可用时登记在 Redis（多实例共享），否则退回进程内存。
type PendingService struct {
	local sync.Map // storedName -> time.Time
}

func NewPendingService() *PendingService {
	return &PendingService{}
}

// Track 登记一个刚写入的临时文件。
func (s *PendingService) Track(storedName string) {
	now := time.Now()
	if client := GetRedisClient(); client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		key := RedisKey("pending_upload", storedName)
		if err := client.Set(ctx, key, strconv.FormatInt(now.Unix(), 10), pendingKeyExpiry()).Err(); err == nil {
			return
		}
		// Redis 写入失败时退回内存登记，避免漏账
	}
	s.local.Store(storedName, now)
}

// Resolve 在文件完成重命名（或已被清理）后销账。
func (s *PendingService) Resolve(storedName string) {
	s.local.Delete(storedName)
	if client := GetRedisClient(); client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = client.Del(ctx, RedisKey("pending_upload", storedName)).Err()
	}
}

// Sweep 删除超过 TTL 的孤儿临时文件及其登记。
func (s *PendingService) Sweep() {
	ttl := pendingTTL()
	cutoff := time.Now().Add(-ttl)

	s.local.Range(func(key, value interface{}) bool {
		name, okName := key.(string)
		created, okTime := value.(time.Time)
		if !okName || !okTime {
			return true
		}
		if created.Before(cutoff) {
			DeleteMedia(mediaURLPrefix() + name)
			s.local.Delete(name)
			log.Printf("🧹 已清理过期临时上传: %s", name)
		}
		return true
	})

	client := GetRedisClient()
	if client == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	prefix := RedisKey("pending_upload") + ":"
	iter := client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		val, err := client.Get(ctx, key).Result()
		if err != nil {
			continue
		}
		ts, err := strconv.ParseInt(val, 10, 64)
		if err != nil || time.Unix(ts, 0).Before(cutoff) {
			name := key[len(prefix):]
			DeleteMedia(mediaURLPrefix() + name)
			_ = client.Del(ctx, key).Err()
			log.Printf("🧹 已清理过期临时上传: %s", name)
		}
	}
	if err := iter.Err(); err != nil {
		log.Printf("⚠️ 清扫临时上传登记失败: %v", err)
	}
}

// StartSweepLoop 启动后台清扫，ctx 取消时退出。
func (s *PendingService) StartSweepLoop(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}

func pendingTTL() time.Duration {
	minutes := config.Get().Upload.PendingTTLMinutes
	if minutes <= 0 {
		minutes = 60
	}
	return time.Duration(minutes) * time.Minute
}

// pendingKeyExpiry 是 Redis 登记键的过期时间。
// 比 TTL 多留一轮清扫余量，进程挂掉也不会留下永久键。
func pendingKeyExpiry() time.Duration {
	return pendingTTL() + time.Minute
}

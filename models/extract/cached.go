package extract

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"time"

	"github.com/laoyouxiaoyue/AI-Travel-Planner/infrastructures/cache"
	"github.com/laoyouxiaoyue/AI-Travel-Planner/infrastructures/dates"
	"github.com/laoyouxiaoyue/AI-Travel-Planner/infrastructures/log"

	"github.com/pkg/errors"
)

const cacheKeyPrefix = "aitravel:extract:"

// ResultStore 远程结果缓存，infrastructures/cache.Cache 实现了该接口
type ResultStore interface {
	Fetch(key string, dest any) error
	Store(key string, val any, timeout time.Duration) error
}

// CachedResolver 缓存远程推理结果。
// 键包含参考日期，相同的话在不同日期里相对日期会不同。
type CachedResolver struct {
	next  RemoteResolver
	store ResultStore
	ttl   time.Duration
}

// NewCachedResolver store 为 nil 时直接返回 next
func NewCachedResolver(next RemoteResolver, store ResultStore, ttl time.Duration) RemoteResolver {
	if store == nil || next == nil {
		return next
	}
	return &CachedResolver{next: next, store: store, ttl: ttl}
}

// Resolve 先查缓存，未命中再调用远程并回写非空结果
func (c *CachedResolver) Resolve(ctx context.Context, utterance string) (*Fields, error) {
	key := resultCacheKey(ctx, utterance)

	var cached Fields
	err := c.store.Fetch(key, &cached)
	switch {
	case err == nil && !cached.IsEmpty():
		ReportCache("hit")
		return &cached, nil
	case err == nil, errors.Is(err, cache.ErrKeyNotFound):
		ReportCache("miss")
	default:
		ReportCache("error")
		log.Warnf("fetch extract cache failed: %v", err)
	}

	fields, err := c.next.Resolve(ctx, utterance)
	if err != nil || fields.IsEmpty() {
		return fields, err
	}
	if err := c.store.Store(key, fields, c.ttl); err != nil {
		log.Warnf("store extract cache failed: %v", err)
	}
	return fields, nil
}

func resultCacheKey(ctx context.Context, utterance string) string {
	ref, ok := ReferenceFrom(ctx)
	if !ok {
		ref = time.Now()
	}
	sum := sha1.Sum([]byte(dates.Format(ref) + "|" + utterance))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

package vectorizer

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"time"

	"github.com/chaos-io/vecmask/util"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache 矢量化结果缓存，命中时 ok 为 true
type Cache interface {
	Get(ctx context.Context, key string) (*Result, bool, error)
	Set(ctx context.Context, key string, result *Result) error
}

// Cached 给 Vectorizer 加一层缓存，相同图片和参数不重复调用远程接口
type Cached struct {
	next  Vectorizer
	cache Cache
}

func NewCached(next Vectorizer, cache Cache) Vectorizer {
	if cache == nil {
		return next
	}
	return &Cached{next: next, cache: cache}
}

func (c *Cached) Vectorize(ctx context.Context, img image.Image, opts Options) (*Result, error) {
	key, err := cacheKey(img, opts)
	if err != nil {
		return nil, err
	}

	if res, ok, err := c.cache.Get(ctx, key); err != nil {
		util.Logger.Warn("vectorize cache get failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		util.Logger.Debug("vectorize cache hit", zap.String("key", key))
		return res, nil
	}

	res, err := c.next.Vectorize(ctx, img, opts)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, res); err != nil {
		util.Logger.Warn("vectorize cache set failed", zap.String("key", key), zap.Error(err))
	}
	return res, nil
}

func cacheKey(img image.Image, opts Options) (string, error) {
	data, err := util.EncodePNG(img)
	if err != nil {
		return "", err
	}
	o, err := json.Marshal(opts)
	if err != nil {
		return "", err
	}
	return "vectorize:" + util.BytesMD5(data, o), nil
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisCache 基于 redis 的结果缓存
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(cfg RedisConfig) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisCache{
		client: client,
		ttl:    cfg.TTL,
	}
}

func (s *RedisCache) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisCache) Get(ctx context.Context, key string) (*Result, bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false, err
	}
	return &result, true, nil
}

func (s *RedisCache) Set(ctx context.Context, key string, result *Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, s.ttl).Err()
}

func (s *RedisCache) Close() error {
	return s.client.Close()
}

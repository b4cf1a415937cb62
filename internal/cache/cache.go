// Package cache provides a Redis-backed cache for tool results.
//
// Graceful fallback: if Redis is unavailable, operations silently return
// misses instead of blocking the tool call.
package cache

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key prefixes.
const (
	KeyWikipedia = "wiki:"   // Wikipedia lookups
	KeySearch    = "search:" // Web search results
)

// DefaultTTL is used when Config.TTL is zero.
const DefaultTTL = 24 * time.Hour

// Config holds Redis connection settings.
type Config struct {
	URL      string // redis://host:port
	Password string
	DB       int
	TTL      time.Duration
}

// Store is a string cache. The zero value and a Store whose connection
// failed are valid and behave as an always-missing cache.
type Store struct {
	mu     sync.RWMutex
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis. It never fails: a missing URL or an unreachable
// server yields a Store that reports IsAvailable() == false.
func New(ctx context.Context, cfg Config) *Store {
	s := &Store{ttl: cfg.TTL}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}

	if cfg.URL == "" {
		return s
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		log.Printf("[Cache] invalid Redis URL: %v", err)
		return s
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}
	opts.DialTimeout = 2 * time.Second
	opts.ReadTimeout = time.Second
	opts.WriteTimeout = time.Second
	opts.MaxRetries = 1

	c := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx).Err(); err != nil {
		log.Printf("[Cache] Redis unavailable, caching disabled: %v", err)
		c.Close()
		return s
	}

	s.client = c
	log.Printf("[Cache] connected to %s", opts.Addr)
	return s
}

// IsAvailable reports whether the Redis connection is up.
func (s *Store) IsAvailable() bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client != nil
}

func (s *Store) redisClient() *redis.Client {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}

// Get returns the cached value for key and whether it was found.
func (s *Store) Get(ctx context.Context, key string) (string, bool) {
	c := s.redisClient()
	if c == nil {
		return "", false
	}
	val, err := c.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[Cache] get failed (%s): %v", key, err)
		}
		return "", false
	}
	return val, true
}

// Set stores value under key with the store TTL. Returns false on failure.
func (s *Store) Set(ctx context.Context, key, value string) bool {
	c := s.redisClient()
	if c == nil {
		return false
	}
	if err := c.Set(ctx, key, value, s.ttl).Err(); err != nil {
		log.Printf("[Cache] set failed (%s): %v", key, err)
		return false
	}
	return true
}

// Close closes the Redis connection.
func (s *Store) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		s.client.Close()
		s.client = nil
		log.Println("[Cache] connection closed")
	}
}

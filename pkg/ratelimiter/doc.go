// Package ratelimiter implements token bucket rate limiting for HTTP handlers.
//
// A Bucket pairs a Config with a Store. MemoryStore serves a single process;
// RedisStore shares buckets between processes through a Lua script, so every
// refill and take is atomic per key.
//
//	store := ratelimiter.NewRedisStore(client)
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       20,
//		RefillRate:     5,
//		RefillInterval: time.Second,
//	})
//	if err != nil {
//		return err
//	}
//	r.Use(ratelimiter.Middleware(limiter, func(r *http.Request) string {
//		return clientip.FromContext(r.Context())
//	}, nil))
//
// Rejected requests do not consume tokens. Responses carry X-RateLimit-Limit,
// X-RateLimit-Remaining and X-RateLimit-Reset, plus Retry-After on 429.
package ratelimiter

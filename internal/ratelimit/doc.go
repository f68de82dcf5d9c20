// Package ratelimit counts requests per client in fixed windows.
//
// A Bucket names one policy (threshold and window). The Limiter asks a Store to
// count a hit for (bucket, client) and turns the count into a Decision; Middleware
// applies a Decision to a gin route, answering 429 when the bucket is exhausted.
//
// Two stores exist: MemoryStore for a single process and RedisStore when several
// replicas must share counters.
package ratelimit

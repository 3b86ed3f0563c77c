package dedup

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduplicator tracks already-seen provider message ids so webhook retries
// don't produce duplicate replies. Backed by Redis SET NX with a TTL.
type Deduplicator struct {
	client *redis.Client
	ttl    time.Duration
}

const defaultTTL = 24 * time.Hour

// New connects to Redis and returns a deduplicator. An empty URL disables
// deduplication: the returned nil deduplicator is safe to call.
func New(redisURL string) (*Deduplicator, error) {
	if redisURL == "" {
		log.Println("⚠️ REDIS_URL not set, message deduplication disabled")
		return nil, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	log.Println("✅ Redis connected for message deduplication")
	return &Deduplicator{client: client, ttl: defaultTTL}, nil
}

// Seen marks a message id as processed and reports whether it was already
// seen. When deduplication is disabled every message counts as new.
func (d *Deduplicator) Seen(ctx context.Context, messageID string) (bool, error) {
	if d == nil || messageID == "" {
		return false, nil
	}

	ok, err := d.client.SetNX(ctx, "dedup:msg:"+messageID, 1, d.ttl).Result()
	if err != nil {
		// Redis being down should not stop message processing.
		log.Printf("⚠️ Dedup check failed for %s: %v", messageID, err)
		return false, nil
	}

	return !ok, nil
}

// Close releases the Redis connection.
func (d *Deduplicator) Close() error {
	if d == nil {
		return nil
	}
	return d.client.Close()
}

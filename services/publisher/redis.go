package publisher

import (
	"context"
	"encoding/base64"

	"github.com/redis/go-redis/v9"

	"brkicks/importworker/logger"
)

// FieldCandidate is the stream field holding the encoded candidate
const FieldCandidate = "candidate"

// RedisPublisher implements Publisher using a Redis stream
type RedisPublisher struct {
	client       *redis.Client
	stream       string
	streamMaxLen int64
	log          *logger.Logger
}

// NewRedisPublisher creates a new Redis stream publisher
func NewRedisPublisher(addr string, db int, stream string, streamMaxLen int64) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisPublisher{
		client:       client,
		stream:       stream,
		streamMaxLen: streamMaxLen,
		log:          logger.ForPublisher(),
	}
}

// Publish adds an encoded candidate to the stream.
// The message is base64 encoded before publishing.
func (p *RedisPublisher) Publish(ctx context.Context, message []byte) error {
	encodedMessage := base64.StdEncoding.EncodeToString(message)

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			FieldCandidate: encodedMessage,
		},
	}).Err()
}

// Trim trims the stream to the configured maximum length
func (p *RedisPublisher) Trim(ctx context.Context) error {
	if p.streamMaxLen <= 0 {
		return nil
	}
	if err := p.client.XTrimMaxLen(ctx, p.stream, p.streamMaxLen).Err(); err != nil {
		return err
	}
	p.log.Debug().
		Str("stream", p.stream).
		Int64("maxlen", p.streamMaxLen).
		Msg("Stream trimmed")
	return nil
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

package publisher

import "context"

// Publisher represents a service for publishing import candidates
type Publisher interface {
	// Publish publishes an encoded candidate to the stream
	Publish(ctx context.Context, message []byte) error

	// Trim trims the stream to the configured maximum length
	Trim(ctx context.Context) error

	// Close closes the publisher connection
	Close() error
}

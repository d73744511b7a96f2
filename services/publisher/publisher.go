package publisher

// Publisher defines the interface for publishing normalized ads
type Publisher interface {
	// Publish publishes a message under a key
	Publish(key string, message []byte) error

	// TrimStreams trims the underlying streams to their configured maximum
	// length
	TrimStreams() error

	// Close closes the publisher
	Close() error
}

package interfaces

import "context"

// Uploader mirrors a stored artifact to an external store. Implementations
// are best-effort; the local file remains the source of truth.
type Uploader interface {
	UploadBytes(ctx context.Context, folder string, filename string, b []byte) (string, error)
}

// ProducerHandler publishes a message to the decision-event topic.
type ProducerHandler interface {
	PublishMessage(key, value []byte) error
}

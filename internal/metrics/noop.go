package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncEntityCreated is a no-op.
func (n *NoopRecorder) IncEntityCreated(kind string) {}

// IncEntityUpdated is a no-op.
func (n *NoopRecorder) IncEntityUpdated(kind string) {}

// IncEntityDeleted is a no-op.
func (n *NoopRecorder) IncEntityDeleted(kind string) {}

// AddCascadeDeleted is a no-op.
func (n *NoopRecorder) AddCascadeDeleted(devices int) {}

// IncCredentialCheck is a no-op.
func (n *NoopRecorder) IncCredentialCheck(result string) {}

// ObserveImageSize is a no-op.
func (n *NoopRecorder) ObserveImageSize(kind string, bytes int) {}

// IncBlobFailure is a no-op.
func (n *NoopRecorder) IncBlobFailure(op string) {}

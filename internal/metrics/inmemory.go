package metrics

import (
	"sync"
	"sync/atomic"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Created          map[string]uint64
	Updated          map[string]uint64
	Deleted          map[string]uint64
	CascadeDeleted   uint64
	CredentialChecks map[string]uint64
	ImageBytes       map[string]uint64
	BlobFailures     map[string]uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu               sync.Mutex
	created          map[string]uint64
	updated          map[string]uint64
	deleted          map[string]uint64
	credentialChecks map[string]uint64
	imageBytes       map[string]uint64
	blobFailures     map[string]uint64
	cascadeDeleted   uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		created:          make(map[string]uint64),
		updated:          make(map[string]uint64),
		deleted:          make(map[string]uint64),
		credentialChecks: make(map[string]uint64),
		imageBytes:       make(map[string]uint64),
		blobFailures:     make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		Created:          copyCounts(m.created),
		Updated:          copyCounts(m.updated),
		Deleted:          copyCounts(m.deleted),
		CascadeDeleted:   atomic.LoadUint64(&m.cascadeDeleted),
		CredentialChecks: copyCounts(m.credentialChecks),
		ImageBytes:       copyCounts(m.imageBytes),
		BlobFailures:     copyCounts(m.blobFailures),
	}
}

func copyCounts(src map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func (m *InMemoryRecorder) add(counts map[string]uint64, key string, n uint64) {
	m.mu.Lock()
	counts[key] += n
	m.mu.Unlock()
}

// IncEntityCreated increments the created counter for kind.
func (m *InMemoryRecorder) IncEntityCreated(kind string) { m.add(m.created, kind, 1) }

// IncEntityUpdated increments the updated counter for kind.
func (m *InMemoryRecorder) IncEntityUpdated(kind string) { m.add(m.updated, kind, 1) }

// IncEntityDeleted increments the deleted counter for kind.
func (m *InMemoryRecorder) IncEntityDeleted(kind string) { m.add(m.deleted, kind, 1) }

// AddCascadeDeleted adds devices removed by brand deletion.
func (m *InMemoryRecorder) AddCascadeDeleted(devices int) {
	if devices > 0 {
		atomic.AddUint64(&m.cascadeDeleted, uint64(devices))
	}
}

// IncCredentialCheck increments the credential check counter for result.
func (m *InMemoryRecorder) IncCredentialCheck(result string) {
	m.add(m.credentialChecks, result, 1)
}

// ObserveImageSize accumulates stored image bytes per kind.
func (m *InMemoryRecorder) ObserveImageSize(kind string, bytes int) {
	if bytes > 0 {
		m.add(m.imageBytes, kind, uint64(bytes))
	}
}

// IncBlobFailure increments the blob failure counter for op.
func (m *InMemoryRecorder) IncBlobFailure(op string) { m.add(m.blobFailures, op, 1) }

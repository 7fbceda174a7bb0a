// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Entity kinds used as metric labels.
const (
	KindUser   = "user"
	KindBrand  = "brand"
	KindDevice = "device"
)

// Credential check outcomes used as metric labels.
const (
	CredentialValid   = "valid"
	CredentialInvalid = "invalid"
	CredentialUnknown = "unknown_login"
)

// Recorder captures metric events for the application.
type Recorder interface {
	// Entity lifecycle
	IncEntityCreated(kind string)
	IncEntityUpdated(kind string)
	IncEntityDeleted(kind string)
	AddCascadeDeleted(devices int)

	// Credentials
	IncCredentialCheck(result string)

	// Images
	ObserveImageSize(kind string, bytes int)
	IncBlobFailure(op string)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}

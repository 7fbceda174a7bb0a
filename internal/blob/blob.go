// Package blob defines the binary object store used for user images and the
// backends that implement it.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Driver identifies a concrete blob storage backend implementation.
type Driver string

const (
	DriverFilesystem Driver = "fs"     // local filesystem (default)
	DriverMemory     Driver = "memory" // in-memory (tests, ephemeral runs)
	DriverMinio      Driver = "minio"  // MinIO via minio-go
	DriverS3         Driver = "s3"     // S3 compatible via aws-sdk-go-v2
)

// ImageName is the object name every image is stored under, per owner ID.
const ImageName = "image.png"

// ContentType is the media type recorded for stored images.
const ContentType = "image/png"

// ErrUnknownDriver is returned when a configured driver name is not supported.
var ErrUnknownDriver = errors.New("blob: unknown driver")

// Store saves, reads and deletes one binary object per ID.
// Save overwrites any existing object for the same ID. Read reports a
// missing object with ok=false. Delete of a missing object is not an error.
type Store interface {
	Save(ctx context.Context, id uuid.UUID, r io.Reader) error
	Read(ctx context.Context, id uuid.UUID) (data []byte, ok bool, err error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ObjectKey returns the storage key for id: "<id>/image.png".
func ObjectKey(id uuid.UUID) string {
	return id.String() + "/" + ImageName
}

// ParseDriver validates a driver name. Empty selects DriverFilesystem.
func ParseDriver(s string) (Driver, error) {
	switch d := Driver(s); d {
	case "":
		return DriverFilesystem, nil
	case DriverFilesystem, DriverMemory, DriverMinio, DriverS3:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDriver, s)
	}
}

package blob

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("81e1c2a9-7f57-439b-b53d-6db88b071e4e")
	assert.Equal(t, "81e1c2a9-7f57-439b-b53d-6db88b071e4e/image.png", ObjectKey(id))
}

func TestParseDriver(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Driver
		wantErr bool
	}{
		{"", DriverFilesystem, false},
		{"fs", DriverFilesystem, false},
		{"memory", DriverMemory, false},
		{"minio", DriverMinio, false},
		{"s3", DriverS3, false},
		{"gcs", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDriver(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownDriver)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// Brand represents a device manufacturer.
type Brand struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	EstablishedAt time.Time `json:"established_at"`
}

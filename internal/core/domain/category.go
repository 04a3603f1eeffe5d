package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products for browsing and filtering.
type Category struct {
	ID        uuid.UUID
	Slug      string
	Name      string
	CreatedAt time.Time
}

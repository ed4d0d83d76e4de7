package repositories

import (
	"context"

	"tripdash/internal/domain/models"
)

// TripSource produces the trip table. Key identifies the source across loads and
// Fingerprint changes whenever the underlying data does.
type TripSource interface {
	Key() string
	Fingerprint(ctx context.Context) (string, error)
	Load(ctx context.Context) (*models.TripTable, error)
}

package interfaces

import (
	"context"

	"routebook/internal/models"
)

type RouteRepository interface {
	// Save stores a computed route for ownerID and returns the record id.
	Save(ctx context.Context, route *models.ComputedRoute, ownerID string) (string, error)
	// LoadAll returns the owner's routes, newest first. Corrupt records are skipped.
	LoadAll(ctx context.Context, ownerID string) ([]models.LoadedRoute, error)
	// Delete removes a record after checking requesterID owns it.
	Delete(ctx context.Context, recordID, requesterID string) error
}

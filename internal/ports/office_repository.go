package ports

import (
	"context"
	"office-locator-service/internal/domain"
)

// Port: a boundary for persisting and retrieving the office table.
type OfficeRepository interface {
	// Retrieve all offices in load order.
	ListOffices(ctx context.Context) ([]domain.OfficeRecord, error)
}

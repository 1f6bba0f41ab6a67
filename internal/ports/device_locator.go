package ports

import (
	"context"
	"office-locator-service/internal/domain"
)

// Host-environment location capability. One-shot per call.
type DeviceLocator interface {
	// Fails with domain.ErrLocationUnavailable when denied or unsupported.
	CurrentPosition(ctx context.Context) (domain.Coordinate, error)
}

// DeviceLocatorFunc adapts a function to DeviceLocator.
type DeviceLocatorFunc func(ctx context.Context) (domain.Coordinate, error)

func (f DeviceLocatorFunc) CurrentPosition(ctx context.Context) (domain.Coordinate, error) {
	return f(ctx)
}

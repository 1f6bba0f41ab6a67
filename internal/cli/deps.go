package cli

import (
	"office-locator-service/internal/config"
	"office-locator-service/internal/ports"
)

// Dependencies overrides the adapters built from configuration.
// Zero values mean "build from config".
type Dependencies struct {
	Config   *config.Config
	Geocoder ports.Geocoder
}

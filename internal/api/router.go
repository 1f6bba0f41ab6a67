package api

import (
	"net/http"
	"office-locator-service/internal/api/handlers"
	"office-locator-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(engine *services.Engine, provider *services.LocationProvider, load handlers.DatasetLoader) http.Handler {
	mux := http.NewServeMux()

	officeHandler := &handlers.OfficeHandler{Engine: engine, Load: load}
	locationHandler := &handlers.LocationHandler{Engine: engine, Provider: provider}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/offices", officeHandler.List)
	mux.HandleFunc("/offices/reload", officeHandler.Reload)
	mux.HandleFunc("/offices/{id}/focus", officeHandler.Focus)
	mux.HandleFunc("/recenter", officeHandler.Recenter)
	mux.HandleFunc("/location/lookup", locationHandler.Lookup)
	mux.HandleFunc("/location/device", locationHandler.Device)

	return requestIDMiddleware(loggingMiddleware(mux))
}

package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"office-locator-service/internal/domain"
	"office-locator-service/internal/platform/obs"

	"github.com/goccy/go-json"
)

const defaultORSBaseURL = "https://api.openrouteservice.org"

type orsResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// ORSGeocoder resolves queries with the OpenRouteService /geocode/search endpoint.
type ORSGeocoder struct {
	requester
	apiKey  string
	baseURL string
	country string
}

// NewORSGeocoder creates an ORS geocoder. country restricts results
// (boundary.country) when non-empty.
func NewORSGeocoder(apiKey, country string, session *http.Client) (*ORSGeocoder, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	return &ORSGeocoder{
		requester: newRequester(session),
		apiKey:    apiKey,
		baseURL:   defaultORSBaseURL,
		country:   country,
	}, nil
}

func (o *ORSGeocoder) newRequest(ctx context.Context, query string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/geocode/search", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", o.apiKey)
	req.Header.Set("Accept", "application/json")

	q := req.URL.Query()
	q.Set("text", query)
	q.Set("size", "1")
	if o.country != "" {
		q.Set("boundary.country", o.country)
	}
	req.URL.RawQuery = q.Encode()
	return req, nil
}

func (o *ORSGeocoder) Geocode(ctx context.Context, query string) (_ domain.Coordinate, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, query)
	})
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("ors geocode: %w: %v", domain.ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	var decoded orsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinate{}, fmt.Errorf("ors geocode: %w: decode response: %v", domain.ErrLookupFailed, err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinate{}, fmt.Errorf("ors geocode %q: %w", query, domain.ErrNoMatchFound)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) < 2 {
		return domain.Coordinate{}, fmt.Errorf("ors geocode %q: %w: invalid coordinate format", query, domain.ErrLookupFailed)
	}

	return domain.Coordinate{Lon: coords[0], Lat: coords[1]}, nil
}

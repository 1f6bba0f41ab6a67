package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"office-locator-service/internal/domain"
	"office-locator-service/internal/platform/obs"

	"github.com/goccy/go-json"
)

const defaultMapboxBaseURL = "https://api.mapbox.com"

type mapboxResponse struct {
	Features []struct {
		Center []float64 `json:"center"`
	} `json:"features"`
}

// MapboxGeocoder resolves queries with the Mapbox places geocoding API.
type MapboxGeocoder struct {
	requester
	accessToken string
	baseURL     string
}

func NewMapboxGeocoder(accessToken string, session *http.Client) (*MapboxGeocoder, error) {
	if accessToken == "" {
		return nil, errors.New("mapbox access token is empty")
	}
	return &MapboxGeocoder{
		requester:   newRequester(session),
		accessToken: accessToken,
		baseURL:     defaultMapboxBaseURL,
	}, nil
}

func (m *MapboxGeocoder) newRequest(ctx context.Context, query string) (*http.Request, error) {
	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json", m.baseURL, url.PathEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	q := req.URL.Query()
	q.Set("access_token", m.accessToken)
	q.Set("limit", "1")
	req.URL.RawQuery = q.Encode()
	return req, nil
}

func (m *MapboxGeocoder) Geocode(ctx context.Context, query string) (_ domain.Coordinate, err error) {
	defer obs.Time(ctx, "mapbox.Geocode")(&err)

	resp, err := m.doWithRetry(ctx, func() (*http.Request, error) {
		return m.newRequest(ctx, query)
	})
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("mapbox geocode: %w: %v", domain.ErrLookupFailed, redact(err, m.accessToken))
	}
	defer resp.Body.Close()

	var decoded mapboxResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinate{}, fmt.Errorf("mapbox geocode: %w: decode response: %v", domain.ErrLookupFailed, err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinate{}, fmt.Errorf("mapbox geocode %q: %w", query, domain.ErrNoMatchFound)
	}

	center := decoded.Features[0].Center
	if len(center) < 2 {
		return domain.Coordinate{}, fmt.Errorf("mapbox geocode %q: %w: invalid center format", query, domain.ErrLookupFailed)
	}

	return domain.Coordinate{Lon: center[0], Lat: center[1]}, nil
}

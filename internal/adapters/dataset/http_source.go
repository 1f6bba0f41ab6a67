package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"office-locator-service/internal/platform/obs"
	"time"
)

// Upper bound on a fetched dataset body.
var maxDatasetBytes int64 = 32 << 20

var ErrDatasetTooLarge = errors.New("dataset exceeds size limit")

// readDataset reads r in full, failing rather than truncating when the
// body is larger than maxDatasetBytes.
func readDataset(r io.Reader) (string, error) {
	b, err := io.ReadAll(io.LimitReader(r, maxDatasetBytes+1))
	if err != nil {
		return "", err
	}
	if int64(len(b)) > maxDatasetBytes {
		return "", fmt.Errorf("%w of %d bytes", ErrDatasetTooLarge, maxDatasetBytes)
	}
	return string(b), nil
}

// HTTPSource fetches the dataset from an http(s) URL.
type HTTPSource struct {
	URL     string
	Session *http.Client
}

func NewHTTPSource(url string, session *http.Client) *HTTPSource {
	if session == nil {
		session = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPSource{URL: url, Session: session}
}

func (h *HTTPSource) FetchRawDataset(ctx context.Context) (_ string, err error) {
	defer obs.Time(ctx, "dataset.http.Fetch")(&err)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return "", fmt.Errorf("fetch dataset: build request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")

	resp, err := h.Session.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("fetch dataset: status=%d body=%q", resp.StatusCode, string(snippet))
	}

	raw, err := readDataset(resp.Body)
	if err != nil {
		return "", fmt.Errorf("fetch dataset: read body: %w", err)
	}
	return raw, nil
}

package dataset

import (
	"context"
	"errors"
	"fmt"
	"office-locator-service/internal/ports"
	"slices"
	"strconv"
)

// RepositorySource renders the stored office table as dataset text.
type RepositorySource struct {
	Repo ports.OfficeRepository
}

func (r RepositorySource) FetchRawDataset(ctx context.Context) (string, error) {
	if r.Repo == nil {
		return "", errors.New("fetch dataset: office repository is nil")
	}

	offices, err := r.Repo.ListOffices(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch dataset: %w", err)
	}

	var extra []string
	for _, o := range offices {
		for k := range o.Metadata {
			if !slices.Contains(extra, k) {
				extra = append(extra, k)
			}
		}
	}
	slices.Sort(extra)

	header := append([]string{"id", "name", "longitude", "latitude", "url"}, extra...)
	rows := make([][]string, 0, len(offices)+1)
	rows = append(rows, header)

	for _, o := range offices {
		row := []string{
			o.ID,
			o.Name,
			strconv.FormatFloat(o.Coordinate.Lon, 'f', -1, 64),
			strconv.FormatFloat(o.Coordinate.Lat, 'f', -1, 64),
			o.URL,
		}
		for _, k := range extra {
			row = append(row, o.Metadata[k])
		}
		rows = append(rows, row)
	}

	return encodeCSV(rows)
}

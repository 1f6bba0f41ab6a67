package dataset

import (
	"context"
	"errors"
	"net/http"
	"office-locator-service/internal/ports"
	"path/filepath"
	"strings"
)

// Options carries the collaborators some sources need.
type Options struct {
	Sheet     string
	AWSRegion string
	Repo      ports.OfficeRepository
	Session   *http.Client
}

// Open picks a DatasetSource for location:
// http(s) URLs, s3://bucket/key, "sql" for the stored office table,
// .xlsx workbooks, otherwise a local CSV path.
func Open(ctx context.Context, location string, opts Options) (ports.DatasetSource, error) {
	location = strings.TrimSpace(location)
	lower := strings.ToLower(location)

	switch {
	case location == "":
		return nil, errors.New("open dataset: location is required")
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return NewHTTPSource(location, opts.Session), nil
	case strings.HasPrefix(lower, "s3://"):
		return NewS3Source(ctx, location, opts.AWSRegion)
	case lower == "sql":
		if opts.Repo == nil {
			return nil, errors.New("open dataset: sql source needs a database")
		}
		return RepositorySource{Repo: opts.Repo}, nil
	case filepath.Ext(lower) == ".xlsx":
		return XLSXSource{Path: location, Sheet: opts.Sheet}, nil
	default:
		return FileSource{Path: location}, nil
	}
}

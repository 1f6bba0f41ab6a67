package ports

import "context"

// Port: a fetchable tabular office dataset (header row + rows).
type DatasetSource interface {
	// Return the raw dataset text. Errors mean the resource itself could not be read.
	FetchRawDataset(ctx context.Context) (string, error)
}

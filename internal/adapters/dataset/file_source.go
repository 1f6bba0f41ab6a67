package dataset

import (
	"context"
	"fmt"
	"os"
)

// FileSource reads the dataset from a local CSV file.
type FileSource struct {
	Path string
}

func (f FileSource) FetchRawDataset(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	b, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("read dataset %q: %w", f.Path, err)
	}
	return string(b), nil
}

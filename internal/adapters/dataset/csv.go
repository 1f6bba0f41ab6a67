package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Render rows as CSV text so tabular sources feed the same loader as files.
func encodeCSV(rows [][]string) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("encode dataset csv: %w", err)
	}
	return buf.String(), nil
}

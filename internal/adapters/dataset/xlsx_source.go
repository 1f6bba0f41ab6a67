package dataset

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXSource reads one worksheet of a spreadsheet as the dataset table.
// An empty Sheet selects the first worksheet.
type XLSXSource struct {
	Path  string
	Sheet string
}

func (x XLSXSource) FetchRawDataset(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := excelize.OpenFile(x.Path)
	if err != nil {
		return "", fmt.Errorf("open workbook %q: %w", x.Path, err)
	}
	defer f.Close()

	sheet := x.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return "", fmt.Errorf("read sheet %q of %q: %w", sheet, x.Path, err)
	}

	// GetRows trims trailing empty cells, so pad rows to the header width.
	if len(rows) > 0 {
		width := len(rows[0])
		for i, row := range rows {
			for len(row) < width {
				row = append(row, "")
			}
			rows[i] = row
		}
	}

	return encodeCSV(rows)
}

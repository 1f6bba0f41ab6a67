package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"office-locator-service/internal/domain"
	"office-locator-service/internal/platform/obs"
	"office-locator-service/internal/ports"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// LoadOptions controls how malformed rows are handled.
//
// By default parsing is lenient: an unparsable, missing or out-of-range
// coordinate becomes 0.0 and the row is kept. This silently places the
// office at (0, 0); callers that cannot tolerate that should set Strict,
// which drops such rows instead. Rows with a cell spanning several lines
// (the usual result of an unbalanced quote) are dropped under Strict too.
// Both modes report a RowDiagnostic.
type LoadOptions struct {
	Strict bool
}

// RowDiagnostic describes a field that could not be used as-is.
// Defaulted is set when the value was replaced by 0.
type RowDiagnostic struct {
	Line      int
	Field     string
	Value     string
	Reason    string
	Defaulted bool
	Excluded  bool
}

func (d RowDiagnostic) String() string {
	action := "value kept"
	switch {
	case d.Excluded:
		action = "row excluded"
	case d.Defaulted:
		action = "defaulted to 0"
	}
	return fmt.Sprintf("line %d: %s %q %s (%s)", d.Line, d.Field, d.Value, d.Reason, action)
}

// DatasetLoad is the outcome of parsing a dataset.
type DatasetLoad struct {
	Offices     []domain.OfficeRecord
	Diagnostics []RowDiagnostic
}

const (
	colID        = "id"
	colName      = "name"
	colLongitude = "longitude"
	colLatitude  = "latitude"
	colURL       = "url"
)

// LoadDataset fetches the raw dataset from source and parses it.
// Only a failed fetch (or an unreadable table) is an error; row-level
// problems are absorbed per opts.
func LoadDataset(
	ctx context.Context,
	source ports.DatasetSource,
	opts LoadOptions,
) (_ DatasetLoad, err error) {
	defer obs.Time(ctx, "dataset.Load")(&err)

	if source == nil {
		return DatasetLoad{}, fmt.Errorf("load dataset: %w: source is nil", domain.ErrDatasetUnavailable)
	}

	raw, err := source.FetchRawDataset(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrDatasetUnavailable) {
			return DatasetLoad{}, fmt.Errorf("load dataset: %w", err)
		}
		return DatasetLoad{}, fmt.Errorf("load dataset: %w: %v", domain.ErrDatasetUnavailable, err)
	}

	load, err := ParseOffices(raw, opts)
	if err != nil {
		return DatasetLoad{}, fmt.Errorf("load dataset: %w", err)
	}

	for _, d := range load.Diagnostics {
		slog.WarnContext(ctx, "office dataset row issue",
			slog.Int("line", d.Line),
			slog.String("field", d.Field),
			slog.String("value", d.Value),
			slog.String("reason", d.Reason),
			slog.Bool("defaulted", d.Defaulted),
			slog.Bool("excluded", d.Excluded),
		)
	}
	slog.InfoContext(ctx, "office dataset loaded",
		slog.Int("offices", len(load.Offices)),
		slog.Int("diagnostics", len(load.Diagnostics)),
		slog.Bool("strict", opts.Strict),
	)

	return load, nil
}

// ParseOffices parses tabular text (header row + rows) into office records.
// Output order follows input row order.
func ParseOffices(raw string, opts LoadOptions) (DatasetLoad, error) {
	raw = strings.TrimPrefix(raw, "\ufeff")

	r := csv.NewReader(strings.NewReader(raw))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return DatasetLoad{Offices: []domain.OfficeRecord{}}, nil
	}
	if err != nil {
		return DatasetLoad{}, fmt.Errorf("parse offices: %w: read header: %v", domain.ErrDatasetUnavailable, err)
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if key == "" {
			continue
		}
		if _, ok := columns[key]; !ok {
			columns[key] = i
		}
	}

	field := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := DatasetLoad{Offices: make([]domain.OfficeRecord, 0, 16)}
	ids := make(map[string]int)

	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return DatasetLoad{}, fmt.Errorf("parse offices: %w: %v", domain.ErrDatasetUnavailable, err)
		}
		if isBlankRow(row) {
			continue
		}

		line, _ := r.FieldPos(0)

		name := field(row, colName)
		if name == "" {
			name = domain.UnknownOfficeName
		}

		url := field(row, colURL)
		if url == "" {
			url = domain.PlaceholderURL
		}

		lonRaw := field(row, colLongitude)
		latRaw := field(row, colLatitude)
		lon, lonReason, lonOK := parseCoord(lonRaw, 180)
		lat, latReason, latOK := parseCoord(latRaw, 90)

		var rowDiags []RowDiagnostic
		reject := false
		if i, ok := multilineCell(row); ok {
			rowDiags = append(rowDiags, RowDiagnostic{
				Line:   line,
				Field:  columnLabel(header, i),
				Value:  strings.TrimSpace(row[i]),
				Reason: "contains a line break (unbalanced quote?)",
			})
			reject = true
		}
		if lonReason != "" {
			rowDiags = append(rowDiags, RowDiagnostic{Line: line, Field: colLongitude, Value: lonRaw, Reason: lonReason, Defaulted: !lonOK})
			reject = reject || !lonOK
		}
		if latReason != "" {
			rowDiags = append(rowDiags, RowDiagnostic{Line: line, Field: colLatitude, Value: latRaw, Reason: latReason, Defaulted: !latOK})
			reject = reject || !latOK
		}

		if opts.Strict && reject {
			for i := range rowDiags {
				rowDiags[i].Excluded = true
			}
			out.Diagnostics = append(out.Diagnostics, rowDiags...)
			continue
		}
		out.Diagnostics = append(out.Diagnostics, rowDiags...)

		id := field(row, colID)
		if id == "" {
			id = slugify(name)
		}
		id = uniqueID(ids, id)

		out.Offices = append(out.Offices, domain.OfficeRecord{
			ID:         id,
			Name:       name,
			Coordinate: domain.Coordinate{Lon: lon, Lat: lat},
			URL:        url,
			Metadata:   metadata(header, row),
			Position:   len(out.Offices),
		})
	}

	return out, nil
}

var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// parseCoord reads the longest leading decimal number of s, so "12abc"
// yields 12. ok is false when the value was replaced by 0; reason is
// non-empty whenever s was not a clean number.
func parseCoord(s string, limit float64) (v float64, reason string, ok bool) {
	if s == "" {
		return 0, "missing", false
	}
	num := numericPrefix.FindString(s)
	if num == "" {
		return 0, "not a number", false
	}
	v, err := strconv.ParseFloat(num, 64)
	if (err != nil && !errors.Is(err, strconv.ErrRange)) || math.IsNaN(v) {
		return 0, "not a number", false
	}
	if math.IsInf(v, 0) || v < -limit || v > limit {
		return 0, fmt.Sprintf("outside [-%v, %v]", limit, limit), false
	}
	if num != s {
		return v, fmt.Sprintf("trailing text %q ignored", s[len(num):]), true
	}
	return v, "", true
}

// multilineCell reports the first cell holding a line break.
func multilineCell(row []string) (int, bool) {
	for i, f := range row {
		if strings.ContainsAny(f, "\r\n") {
			return i, true
		}
	}
	return 0, false
}

func columnLabel(header []string, i int) string {
	if i < len(header) {
		if key := strings.ToLower(strings.TrimSpace(header[i])); key != "" {
			return key
		}
	}
	return fmt.Sprintf("column %d", i+1)
}

func isBlankRow(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func metadata(header, row []string) map[string]string {
	var m map[string]string
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		switch key {
		case "", colID, colName, colLongitude, colLatitude, colURL:
			continue
		}
		if i >= len(row) {
			continue
		}
		v := strings.TrimSpace(row[i])
		if v == "" {
			continue
		}
		if m == nil {
			m = make(map[string]string)
		}
		m[key] = v
	}
	return m
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if b.Len() > 0 && !dash {
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "office"
	}
	return slug
}

// uniqueID appends -2, -3, ... to repeated ids.
func uniqueID(seen map[string]int, id string) string {
	n := seen[id]
	seen[id] = n + 1
	if n == 0 {
		return id
	}
	for {
		n++
		candidate := fmt.Sprintf("%s-%d", id, n)
		if _, taken := seen[candidate]; !taken {
			seen[candidate] = 1
			seen[id] = n
			return candidate
		}
	}
}

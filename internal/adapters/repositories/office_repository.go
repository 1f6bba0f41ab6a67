package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"office-locator-service/internal/domain"
	"office-locator-service/internal/platform/obs"

	"github.com/goccy/go-json"
)

// SQL-backed implementation of the OfficeRepository port.
type SQLOfficeRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLOfficeRepository(db *sql.DB, d Dialect) *SQLOfficeRepository {
	return &SQLOfficeRepository{DB: db, Dialect: d}
}

// Return all offices stored in the database, in load order.
func (s *SQLOfficeRepository) ListOffices(ctx context.Context) (_ []domain.OfficeRecord, err error) {
	defer obs.Time(ctx, "offices.List")(&err)

	if s.DB == nil {
		return nil, errors.New("office repository: DB is nil")
	}

	query := `
	SELECT
		id,
		position,
		name,
		lon,
		lat,
		url,
		metadata
	FROM offices
	ORDER BY position, id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list offices: query offices table: %w", err)
	}
	defer rows.Close()

	offices := make([]domain.OfficeRecord, 0, 64)
	for rows.Next() {
		var o domain.OfficeRecord
		var meta string
		err := rows.Scan(&o.ID, &o.Position, &o.Name, &o.Coordinate.Lon, &o.Coordinate.Lat, &o.URL, &meta)
		if err != nil {
			return nil, fmt.Errorf("list offices: scan row: %w", err)
		}
		if meta != "" && meta != "{}" {
			if err := json.Unmarshal([]byte(meta), &o.Metadata); err != nil {
				return nil, fmt.Errorf("list offices: decode metadata id=%s: %w", o.ID, err)
			}
		}
		offices = append(offices, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list offices: row iteration: %w", err)
	}

	return offices, nil
}

// Replace the stored office table with offices in one transaction.
func (s *SQLOfficeRepository) ReplaceOffices(ctx context.Context, offices []domain.OfficeRecord) error {
	if s.DB == nil {
		return errors.New("office repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed offices: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM offices;`); err != nil {
		return fmt.Errorf("seed offices: clear table: %w", err)
	}

	p := s.Dialect.Placeholder
	query := fmt.Sprintf(`
	INSERT INTO offices (
		id,
		position,
		name,
		lon,
		lat,
		url,
		metadata
	)
	VALUES (%s, %s, %s, %s, %s, %s, %s);
	`, p(1), p(2), p(3), p(4), p(5), p(6), p(7))

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed offices: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range offices {
		meta := []byte("{}")
		if len(o.Metadata) > 0 {
			if meta, err = json.Marshal(o.Metadata); err != nil {
				return fmt.Errorf("seed offices: encode metadata id=%s: %w", o.ID, err)
			}
		}

		_, err := stmt.ExecContext(ctx, o.ID, o.Position, o.Name, o.Coordinate.Lon, o.Coordinate.Lat, o.URL, string(meta))
		if err != nil {
			return fmt.Errorf("seed offices: insert id=%s: %w", o.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed offices: commit tx: %w", err)
	}

	return nil
}

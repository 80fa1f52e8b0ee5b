package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fhuszti/conversions-ms-go/internal/logger"
	"github.com/fhuszti/conversions-ms-go/internal/model"
	"github.com/fhuszti/conversions-ms-go/internal/port"
	"github.com/go-sql-driver/mysql"
)

const errDuplicateEntry = 1062

type HistoryRepository struct {
	db *sql.DB
}

// compile-time check: *HistoryRepository must satisfy port.HistoryRepository
var _ port.HistoryRepository = (*HistoryRepository)(nil)

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Create inserts rec. Inserting the same id twice is a no-op so that
// redelivered tasks stay harmless.
func (r *HistoryRepository) Create(ctx context.Context, rec *model.ConversionRecord) error {
	logger.Debugf(ctx, "recording conversion #%s of %q to %s...", rec.ID, rec.OriginalFilename, rec.TargetFormat)

	const query = `
      INSERT INTO conversions
        (id, identity, original_filename, source_format, target_format, original_size, output_size, success, error_code, metadata, created_at)
      VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	var metadata any
	if rec.Metadata != nil {
		metadata = *rec.Metadata
	}
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Identity, rec.OriginalFilename,
		rec.SourceFormat, rec.TargetFormat,
		rec.OriginalSize, rec.OutputSize,
		rec.Success, rec.ErrorCode, metadata, rec.CreatedAt,
	)
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == errDuplicateEntry {
		logger.Warnf(ctx, "⚠️  conversion #%s already recorded", rec.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("insert conversion #%s: %w", rec.ID, err)
	}
	return nil
}

// ListByIdentity returns the newest records of identity first.
func (r *HistoryRepository) ListByIdentity(ctx context.Context, identity string, limit int) ([]model.ConversionRecord, error) {
	const query = `
      SELECT id, identity, original_filename, source_format, target_format, original_size, output_size, success, error_code, metadata, created_at
      FROM conversions
      WHERE identity = ?
      ORDER BY created_at DESC
      LIMIT ?
    `
	rows, err := r.db.QueryContext(ctx, query, identity, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []model.ConversionRecord
	for rows.Next() {
		var rec model.ConversionRecord
		var metadata []byte
		if err := rows.Scan(
			&rec.ID, &rec.Identity, &rec.OriginalFilename,
			&rec.SourceFormat, &rec.TargetFormat,
			&rec.OriginalSize, &rec.OutputSize,
			&rec.Success, &rec.ErrorCode, &metadata, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		if metadata != nil {
			var m model.OutputMetadata
			if err := m.Scan(metadata); err != nil {
				return nil, err
			}
			rec.Metadata = &m
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

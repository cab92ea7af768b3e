package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/selcuk/alumnihub/internal/app/models/dto"
	"github.com/selcuk/alumnihub/internal/app/normalize"
	"github.com/selcuk/alumnihub/internal/app/repositories"
	"github.com/selcuk/alumnihub/internal/pkg/apperrors"
	"github.com/selcuk/alumnihub/internal/pkg/logger"
	"github.com/selcuk/alumnihub/internal/sheets"
)

// SheetService imports alumni rows from the external spreadsheet source into
// the primary store.
type SheetService struct {
	client     sheets.Client
	relational RelationalStore

	mu sync.Mutex
}

// NewSheetService creates a new sheet import service. A nil client means no
// source is configured and imports fail with ErrStoreUnavailable.
func NewSheetService(client sheets.Client, relational RelationalStore) *SheetService {
	return &SheetService{
		client:     client,
		relational: relational,
	}
}

// Import fetches the sheet and upserts each row by email. Rows use the legacy
// feed convention (snake_case keys, MM/DD/YYYY dates). All row writes share
// one transaction; rows that fail normalization are counted and skipped.
func (s *SheetService) Import(ctx context.Context) (*dto.SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return nil, fmt.Errorf("%w: no spreadsheet source configured", apperrors.ErrStoreUnavailable)
	}

	rows, err := s.client.FetchRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spreadsheet rows: %w", err)
	}

	tx, err := s.relational.BeginSync(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	synced := 0
	errorCount := 0

	for i, row := range rows {
		record, err := normalize.Alumni(row, normalize.ConventionFeed)
		if err != nil {
			logger.Warn().Err(err).Int("row", i+1).Msg("Skipping malformed spreadsheet row")
			errorCount++
			continue
		}
		if record.Email == "" {
			logger.Warn().Int("row", i+1).Msg("Skipping spreadsheet row without email")
			errorCount++
			continue
		}

		existing, err := tx.GetByEmail(ctx, record.Email)
		switch {
		case err == nil:
			if err := tx.UpdateFields(ctx, existing.ID, syncFields(record)); err != nil {
				return nil, fmt.Errorf("failed to update record %s: %w", record.Email, err)
			}
		case errors.Is(err, repositories.ErrAlumniNotFound):
			if err := tx.Insert(ctx, record); err != nil {
				return nil, fmt.Errorf("failed to insert record %s: %w", record.Email, err)
			}
		default:
			return nil, fmt.Errorf("failed to look up record %s: %w", record.Email, err)
		}
		synced++
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: sheet import commit failed: %v", apperrors.ErrStoreUnavailable, err)
	}

	logger.Info().Int("synced", synced).Int("errors", errorCount).Msg("Sheet import completed")
	return &dto.SyncResult{SyncedCount: synced, ErrorCount: errorCount}, nil
}

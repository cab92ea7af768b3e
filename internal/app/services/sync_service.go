package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/selcuk/alumnihub/internal/app/models"
	"github.com/selcuk/alumnihub/internal/app/models/dto"
	"github.com/selcuk/alumnihub/internal/app/normalize"
	"github.com/selcuk/alumnihub/internal/app/repositories"
	"github.com/selcuk/alumnihub/internal/docstore"
	"github.com/selcuk/alumnihub/internal/pkg/apperrors"
	"github.com/selcuk/alumnihub/internal/pkg/logger"
)

// DefaultSearchField is the field prefix searches run against when the caller
// does not name one.
const DefaultSearchField = "first_name"

// recentStatsLimit caps the recent-record list in mirror statistics.
const recentStatsLimit = 5

// RelationalStore is the primary-store surface the synchronizer needs: the
// full record set for outbound runs and a transaction for inbound runs.
type RelationalStore interface {
	GetAll(ctx context.Context) ([]*models.Alumni, error)
	BeginSync(ctx context.Context) (AlumniTx, error)
}

// AlumniTx is one inbound sync pass over the primary store. Every row write
// of the pass shares it; nothing is visible until Commit.
type AlumniTx interface {
	GetByEmail(ctx context.Context, email string) (*models.Alumni, error)
	Insert(ctx context.Context, alumni *models.Alumni) error
	UpdateFields(ctx context.Context, id int64, fields map[string]any) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// PgRelationalStore adapts the pgx-backed alumni repository to the
// synchronizer's store contract.
type PgRelationalStore struct {
	repo *repositories.AlumniRepository
}

// NewPgRelationalStore creates the adapter over an alumni repository.
func NewPgRelationalStore(repo *repositories.AlumniRepository) *PgRelationalStore {
	return &PgRelationalStore{repo: repo}
}

func (s *PgRelationalStore) GetAll(ctx context.Context) ([]*models.Alumni, error) {
	return s.repo.GetAll(ctx)
}

func (s *PgRelationalStore) BeginSync(ctx context.Context) (AlumniTx, error) {
	return s.repo.BeginSync(ctx)
}

// SyncService reconciles alumni records between the relational store and the
// document-store mirror. Both stores are injected; the service holds no
// global state beyond its own locks.
type SyncService struct {
	store      docstore.Store
	relational RelationalStore
	collection string

	// One in-flight run per direction. A second caller blocks until the
	// current run finishes rather than racing it.
	toMu   sync.Mutex
	fromMu sync.Mutex
}

// NewSyncService creates a new sync service over the two stores.
func NewSyncService(store docstore.Store, relational RelationalStore, collection string) *SyncService {
	return &SyncService{
		store:      store,
		relational: relational,
		collection: collection,
	}
}

// SyncToSecondary pushes every relational record into the document-store
// mirror. Records are matched by email: an existing document is merge-updated
// in place, a missing one is added. All writes are staged into a single batch
// and applied atomically; a rejected batch means zero records were synced.
//
// Per-record failures (blank email, existence-query error) are counted and
// skipped without failing the run.
func (s *SyncService) SyncToSecondary(ctx context.Context) (*dto.SyncResult, error) {
	s.toMu.Lock()
	defer s.toMu.Unlock()

	records, err := s.relational.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load alumni records: %w", err)
	}

	batch := s.store.Batch(s.collection)
	staged := 0
	errorCount := 0

	for _, record := range records {
		if record.Email == "" {
			logger.Warn().Int64("id", record.ID).Msg("Skipping record without email during outbound sync")
			errorCount++
			continue
		}

		existing, err := s.store.FindWhere(ctx, s.collection,
			docstore.Condition{Field: "email", Op: docstore.OpEqual, Value: record.Email})
		if err != nil {
			logger.Error().Err(err).Str("email", record.Email).Msg("Failed to check mirror for record")
			errorCount++
			continue
		}

		if len(existing) > 0 {
			batch.Set(existing[0].ID, record.Document(), true)
		} else {
			batch.Add(record.Document())
		}
		staged++
	}

	if err := batch.Commit(ctx); err != nil {
		logger.Error().Err(err).Int("staged", staged).Msg("Outbound sync batch rejected")
		return nil, err
	}

	logger.Info().Int("synced", staged).Int("errors", errorCount).Msg("Outbound sync completed")
	return &dto.SyncResult{SyncedCount: staged, ErrorCount: errorCount}, nil
}

// SyncFromSecondary pulls every mirror document into the relational store,
// upserting by email. All row writes share one transaction: records that fail
// normalization are counted and skipped, but a failed row write or a failed
// commit aborts the transaction and the whole run reports zero progress.
func (s *SyncService) SyncFromSecondary(ctx context.Context) (*dto.SyncResult, error) {
	s.fromMu.Lock()
	defer s.fromMu.Unlock()

	docs, err := s.store.ListAll(ctx, s.collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list mirror documents: %w", err)
	}

	tx, err := s.relational.BeginSync(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	synced := 0
	errorCount := 0

	for _, doc := range docs {
		record, err := normalize.Alumni(doc.Data, normalize.ConventionForm)
		if err != nil {
			logger.Warn().Err(err).Str("doc_id", doc.ID).Msg("Skipping malformed mirror document")
			errorCount++
			continue
		}
		if record.Email == "" {
			logger.Warn().Str("doc_id", doc.ID).Msg("Skipping mirror document without email")
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
		return nil, fmt.Errorf("%w: inbound sync commit failed: %v", apperrors.ErrStoreUnavailable, err)
	}

	logger.Info().Int("synced", synced).Int("errors", errorCount).Msg("Inbound sync completed")
	return &dto.SyncResult{SyncedCount: synced, ErrorCount: errorCount}, nil
}

// Search runs an anchored, case-sensitive prefix query against the mirror.
// An empty field defaults to first_name.
func (s *SyncService) Search(ctx context.Context, field, prefix string) ([]docstore.Document, error) {
	if field == "" {
		field = DefaultSearchField
	}
	docs, err := s.store.FindWhere(ctx, s.collection, docstore.PrefixRange(field, prefix)...)
	if err != nil {
		return nil, fmt.Errorf("failed to search mirror: %w", err)
	}
	return docs, nil
}

// SecondaryStats reports the mirror's record count and its most recently
// created documents.
func (s *SyncService) SecondaryStats(ctx context.Context) (*dto.SecondaryStats, error) {
	docs, err := s.store.ListAll(ctx, s.collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list mirror documents: %w", err)
	}

	sort.Slice(docs, func(i, j int) bool {
		return docTime(docs[i], docstore.FieldCreatedAt).After(docTime(docs[j], docstore.FieldCreatedAt))
	})

	recent := make([]map[string]interface{}, 0, recentStatsLimit)
	for _, doc := range docs {
		if len(recent) == recentStatsLimit {
			break
		}
		data := make(map[string]interface{}, len(doc.Data)+1)
		data["id"] = doc.ID
		for k, v := range doc.Data {
			data[k] = v
		}
		recent = append(recent, data)
	}

	return &dto.SecondaryStats{TotalCount: len(docs), Recent: recent}, nil
}

// ListDocuments returns every document in the mirror collection.
func (s *SyncService) ListDocuments(ctx context.Context) ([]docstore.Document, error) {
	return s.store.ListAll(ctx, s.collection)
}

// GetDocument returns one mirror document by id.
func (s *SyncService) GetDocument(ctx context.Context, id string) (*docstore.Document, error) {
	docs, err := s.store.ListAll(ctx, s.collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list mirror documents: %w", err)
	}
	for i := range docs {
		if docs[i].ID == id {
			return &docs[i], nil
		}
	}
	return nil, apperrors.ErrDocumentNotFound
}

// AddDocument inserts a raw document into the mirror and returns its id.
func (s *SyncService) AddDocument(ctx context.Context, data map[string]any) (string, error) {
	return s.store.Add(ctx, s.collection, data)
}

// UpdateDocument merge-updates a mirror document by id. Set upserts, so a
// missing id is rejected first to keep update and create distinct.
func (s *SyncService) UpdateDocument(ctx context.Context, id string, data map[string]any) error {
	if _, err := s.GetDocument(ctx, id); err != nil {
		return err
	}
	return s.store.Set(ctx, s.collection, id, data, true)
}

// DeleteDocument removes a mirror document by id.
func (s *SyncService) DeleteDocument(ctx context.Context, id string) error {
	return s.store.Delete(ctx, s.collection, id)
}

// syncFields renders a normalized record as the column map an inbound upsert
// writes. Nullable columns are written as nil when absent so a cleared field
// in the mirror clears the row too.
func syncFields(record *models.Alumni) map[string]any {
	fields := map[string]any{
		"first_name":        record.FirstName,
		"last_name":         record.LastName,
		"email":             record.Email,
		"phone":             record.Phone,
		"gender":            record.Gender,
		"degree":            record.Degree,
		"department":        record.Department,
		"graduation_year":   record.GraduationYear,
		"student_id":        record.StudentID,
		"current_employer":  record.CurrentEmployer,
		"job_title":         record.JobTitle,
		"industry":          record.Industry,
		"linkedin":          record.LinkedIn,
		"current_city":      record.CurrentCity,
		"state":             record.State,
		"country":           record.Country,
		"technical_skills":  record.TechnicalSkills,
		"languages_known":   record.LanguagesKnown,
		"areas_of_interest": record.AreasOfInterest,
	}
	if record.DateOfBirth != nil {
		fields["date_of_birth"] = *record.DateOfBirth
	} else {
		fields["date_of_birth"] = nil
	}
	if record.YearsOfExperience != nil {
		fields["years_of_experience"] = *record.YearsOfExperience
	} else {
		fields["years_of_experience"] = nil
	}
	return fields
}

// docTime reads a timestamp field off a document, tolerating the string form
// older documents may carry. The zero time sorts such documents last.
func docTime(doc docstore.Document, field string) time.Time {
	switch v := doc.Data[field].(type) {
	case time.Time:
		return v
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

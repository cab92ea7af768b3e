package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/selcuk/alumnihub/internal/app/models"
	"github.com/selcuk/alumnihub/internal/app/models/dto"
	"github.com/selcuk/alumnihub/internal/app/normalize"
	"github.com/selcuk/alumnihub/internal/app/repositories"
	"github.com/selcuk/alumnihub/internal/pkg/apperrors"
)

// dashboardRecentLimit caps the recent-record list on the admin dashboard.
const dashboardRecentLimit = 5

// AlumniStore is the primary-store surface the alumni service needs.
// *repositories.AlumniRepository satisfies it.
type AlumniStore interface {
	Create(ctx context.Context, alumni *models.Alumni) error
	GetByID(ctx context.Context, id int64) (*models.Alumni, error)
	GetAll(ctx context.Context) ([]*models.Alumni, error)
	GetByDepartment(ctx context.Context, department string) ([]*models.Alumni, error)
	GetRecent(ctx context.Context, limit int) ([]*models.Alumni, error)
	Count(ctx context.Context) (int64, error)
	CountByGraduationYear(ctx context.Context) ([]repositories.GroupCount, error)
	CountByDepartment(ctx context.Context) ([]repositories.GroupCount, error)
	Update(ctx context.Context, alumni *models.Alumni) error
	Delete(ctx context.Context, id int64) error
}

// AlumniService implements operations on alumni records in the primary store.
type AlumniService struct {
	alumniRepo AlumniStore
}

// NewAlumniService creates a new alumni service
func NewAlumniService(alumniRepo AlumniStore) *AlumniService {
	return &AlumniService{
		alumniRepo: alumniRepo,
	}
}

// Register normalizes a raw submission payload under the given convention and
// stores the resulting record.
func (s *AlumniService) Register(ctx context.Context, payload map[string]any, conv normalize.Convention) (*models.Alumni, error) {
	record, err := normalize.Alumni(payload, conv)
	if err != nil {
		return nil, err
	}
	if record.Email == "" {
		return nil, &normalize.ValidationError{Field: "email", Reason: "is required"}
	}

	if err := s.alumniRepo.Create(ctx, record); err != nil {
		return nil, mapAlumniError(err)
	}
	return record, nil
}

// GetByID returns one alumni record
func (s *AlumniService) GetByID(ctx context.Context, id int64) (*models.Alumni, error) {
	record, err := s.alumniRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapAlumniError(err)
	}
	return record, nil
}

// GetAll returns every alumni record ordered by last name
func (s *AlumniService) GetAll(ctx context.Context) ([]*models.Alumni, error) {
	return s.alumniRepo.GetAll(ctx)
}

// GetByDepartment returns the records of one department
func (s *AlumniService) GetByDepartment(ctx context.Context, department string) ([]*models.Alumni, error) {
	if department == "" {
		return nil, apperrors.NewValidationError("department is required")
	}
	return s.alumniRepo.GetByDepartment(ctx, department)
}

// Update normalizes an edit payload and overwrites the stored record. The
// record keeps its id and timestamps; every data column takes the payload's
// value.
func (s *AlumniService) Update(ctx context.Context, id int64, payload map[string]any, conv normalize.Convention) (*models.Alumni, error) {
	record, err := normalize.Alumni(payload, conv)
	if err != nil {
		return nil, err
	}
	if record.Email == "" {
		return nil, &normalize.ValidationError{Field: "email", Reason: "is required"}
	}
	record.ID = id

	if err := s.alumniRepo.Update(ctx, record); err != nil {
		return nil, mapAlumniError(err)
	}
	return s.alumniRepo.GetByID(ctx, id)
}

// Delete removes an alumni record
func (s *AlumniService) Delete(ctx context.Context, id int64) error {
	if err := s.alumniRepo.Delete(ctx, id); err != nil {
		return mapAlumniError(err)
	}
	return nil
}

// DashboardStats aggregates the primary store for the admin dashboard: total
// count, most recent records, and counts per graduation year and department.
func (s *AlumniService) DashboardStats(ctx context.Context) (*dto.DashboardStats, error) {
	total, err := s.alumniRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count alumni: %w", err)
	}

	recent, err := s.alumniRepo.GetRecent(ctx, dashboardRecentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent alumni: %w", err)
	}

	byYear, err := s.alumniRepo.CountByGraduationYear(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by graduation year: %w", err)
	}

	byDepartment, err := s.alumniRepo.CountByDepartment(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by department: %w", err)
	}

	return &dto.DashboardStats{
		TotalCount:       total,
		Recent:           recent,
		ByGraduationYear: groupCounts(byYear),
		ByDepartment:     groupCounts(byDepartment),
	}, nil
}

func groupCounts(counts []repositories.GroupCount) []dto.GroupCount {
	out := make([]dto.GroupCount, len(counts))
	for i, gc := range counts {
		out[i] = dto.GroupCount{Key: gc.Key, Count: gc.Count}
	}
	return out
}

// mapAlumniError translates repository sentinels to service-level errors.
func mapAlumniError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrAlumniNotFound):
		return apperrors.ErrAlumniNotFound
	case errors.Is(err, repositories.ErrAlumniAlreadyExists):
		return apperrors.ErrAlumniAlreadyExists
	default:
		return err
	}
}

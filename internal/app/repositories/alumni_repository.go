package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/selcuk/alumnihub/internal/app/models"
	"github.com/selcuk/alumnihub/internal/pkg/apperrors"
	"github.com/selcuk/alumnihub/internal/pkg/dberrors"
)

// Alumni error types
var (
	ErrAlumniNotFound      = errors.New("alumni record not found")
	ErrAlumniAlreadyExists = errors.New("alumni record with this email already exists")
)

const alumniColumns = `
	id, first_name, last_name, email, phone, date_of_birth, gender,
	degree, department, graduation_year, student_id,
	current_employer, job_title, industry, years_of_experience, linkedin,
	current_city, state, country,
	technical_skills, languages_known, areas_of_interest,
	created_at, updated_at`

// syncableColumns is the set of columns inbound synchronization may write.
// Identity and timestamp columns are deliberately absent.
var syncableColumns = map[string]bool{
	"first_name":          true,
	"last_name":           true,
	"email":               true,
	"phone":               true,
	"date_of_birth":       true,
	"gender":              true,
	"degree":              true,
	"department":          true,
	"graduation_year":     true,
	"student_id":          true,
	"current_employer":    true,
	"job_title":           true,
	"industry":            true,
	"years_of_experience": true,
	"linkedin":            true,
	"current_city":        true,
	"state":               true,
	"country":             true,
	"technical_skills":    true,
	"languages_known":     true,
	"areas_of_interest":   true,
}

// AlumniRepository handles database operations for alumni records
type AlumniRepository struct {
	db *pgxpool.Pool
}

// NewAlumniRepository creates a new alumni repository
func NewAlumniRepository(db *pgxpool.Pool) *AlumniRepository {
	return &AlumniRepository{
		db: db,
	}
}

// Create inserts a new alumni record
func (r *AlumniRepository) Create(ctx context.Context, alumni *models.Alumni) error {
	return createAlumni(ctx, r.db, alumni)
}

// GetByID retrieves an alumni record by ID
func (r *AlumniRepository) GetByID(ctx context.Context, id int64) (*models.Alumni, error) {
	query := fmt.Sprintf(`SELECT %s FROM alumni WHERE id = $1`, alumniColumns)

	alumni, err := scanAlumni(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAlumniNotFound
		}
		return nil, fmt.Errorf("error retrieving alumni record: %w", err)
	}
	return alumni, nil
}

// GetByEmail retrieves an alumni record by its email natural key
func (r *AlumniRepository) GetByEmail(ctx context.Context, email string) (*models.Alumni, error) {
	return getAlumniByEmail(ctx, r.db, email)
}

// GetAll retrieves all alumni records ordered by last name
func (r *AlumniRepository) GetAll(ctx context.Context) ([]*models.Alumni, error) {
	query := fmt.Sprintf(`SELECT %s FROM alumni ORDER BY last_name, first_name`, alumniColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAlumni(rows)
}

// GetByDepartment retrieves all alumni records for a department, ordered by last name
func (r *AlumniRepository) GetByDepartment(ctx context.Context, department string) ([]*models.Alumni, error) {
	query := fmt.Sprintf(`SELECT %s FROM alumni WHERE department = $1 ORDER BY last_name, first_name`, alumniColumns)

	rows, err := r.db.Query(ctx, query, department)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAlumni(rows)
}

// GetRecent retrieves the most recently created records
func (r *AlumniRepository) GetRecent(ctx context.Context, limit int) ([]*models.Alumni, error) {
	query := fmt.Sprintf(`SELECT %s FROM alumni ORDER BY created_at DESC LIMIT $1`, alumniColumns)

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAlumni(rows)
}

// Count returns the total number of alumni records
func (r *AlumniRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM alumni`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting alumni: %w", err)
	}
	return count, nil
}

// GroupCount is one aggregation bucket (per graduation year or department).
type GroupCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// CountByGraduationYear returns record counts grouped by graduation year
func (r *AlumniRepository) CountByGraduationYear(ctx context.Context) ([]GroupCount, error) {
	query := `
		SELECT graduation_year::text, COUNT(id)
		FROM alumni
		GROUP BY graduation_year
		ORDER BY graduation_year
	`
	return r.groupCounts(ctx, query)
}

// CountByDepartment returns record counts grouped by department
func (r *AlumniRepository) CountByDepartment(ctx context.Context) ([]GroupCount, error) {
	query := `
		SELECT department, COUNT(id)
		FROM alumni
		GROUP BY department
		ORDER BY department
	`
	return r.groupCounts(ctx, query)
}

func (r *AlumniRepository) groupCounts(ctx context.Context, query string) ([]GroupCount, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []GroupCount
	for rows.Next() {
		var gc GroupCount
		if err := rows.Scan(&gc.Key, &gc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, gc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// Update overwrites every writable column of an existing record
func (r *AlumniRepository) Update(ctx context.Context, alumni *models.Alumni) error {
	query := `
		UPDATE alumni SET
			first_name = $1, last_name = $2, email = $3, phone = $4,
			date_of_birth = $5, gender = $6,
			degree = $7, department = $8, graduation_year = $9, student_id = $10,
			current_employer = $11, job_title = $12, industry = $13,
			years_of_experience = $14, linkedin = $15,
			current_city = $16, state = $17, country = $18,
			technical_skills = $19, languages_known = $20, areas_of_interest = $21,
			updated_at = NOW()
		WHERE id = $22
	`

	cmdTag, err := r.db.Exec(ctx, query,
		alumni.FirstName, alumni.LastName, alumni.Email, alumni.Phone,
		alumni.DateOfBirth, alumni.Gender,
		alumni.Degree, alumni.Department, alumni.GraduationYear, alumni.StudentID,
		alumni.CurrentEmployer, alumni.JobTitle, alumni.Industry,
		alumni.YearsOfExperience, alumni.LinkedIn,
		alumni.CurrentCity, alumni.State, alumni.Country,
		alumni.TechnicalSkills, alumni.LanguagesKnown, alumni.AreasOfInterest,
		alumni.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return ErrAlumniAlreadyExists
		}
		return fmt.Errorf("error updating alumni record: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrAlumniNotFound
	}
	return nil
}

// Delete deletes an alumni record by ID
func (r *AlumniRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM alumni WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting alumni record: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrAlumniNotFound
	}
	return nil
}

// BeginSync opens the request-scoped transaction used by inbound
// synchronization. All row writes of one sync pass share it.
func (r *AlumniRepository) BeginSync(ctx context.Context) (*AlumniTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}
	return &AlumniTx{tx: tx}, nil
}

// AlumniTx is the transactional view of the alumni table handed to the
// synchronizer: find-by-email, insert, field-wise update, then one commit.
type AlumniTx struct {
	tx pgx.Tx
}

// GetByEmail retrieves a record within the transaction
func (t *AlumniTx) GetByEmail(ctx context.Context, email string) (*models.Alumni, error) {
	return getAlumniByEmail(ctx, t.tx, email)
}

// Insert creates a record within the transaction
func (t *AlumniTx) Insert(ctx context.Context, alumni *models.Alumni) error {
	return createAlumni(ctx, t.tx, alumni)
}

// UpdateFields updates only the named columns of a row, skipping anything
// outside the syncable set (id and timestamps stay protected).
func (t *AlumniTx) UpdateFields(ctx context.Context, id int64, fields map[string]any) error {
	assignments := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+1)

	for column, value := range fields {
		if !syncableColumns[column] {
			continue
		}
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if len(assignments) == 0 {
		return nil
	}
	assignments = append(assignments, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf("UPDATE alumni SET %s WHERE id = $%d", strings.Join(assignments, ", "), len(args))

	cmdTag, err := t.tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error updating alumni fields: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrAlumniNotFound
	}
	return nil
}

// Commit commits the sync transaction
func (t *AlumniTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback discards every row change made in the sync transaction
func (t *AlumniTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// rowQuerier is the querying surface shared by *pgxpool.Pool and pgx.Tx, so
// the same statement helpers serve direct calls and the sync transaction.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getAlumniByEmail(ctx context.Context, q rowQuerier, email string) (*models.Alumni, error) {
	query := fmt.Sprintf(`SELECT %s FROM alumni WHERE email = $1`, alumniColumns)

	alumni, err := scanAlumni(q.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAlumniNotFound
		}
		return nil, fmt.Errorf("error retrieving alumni record: %w", err)
	}
	return alumni, nil
}

func createAlumni(ctx context.Context, q rowQuerier, alumni *models.Alumni) error {
	query := `
		INSERT INTO alumni (
			first_name, last_name, email, phone, date_of_birth, gender,
			degree, department, graduation_year, student_id,
			current_employer, job_title, industry, years_of_experience, linkedin,
			current_city, state, country,
			technical_skills, languages_known, areas_of_interest
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12, $13, $14, $15,
			$16, $17, $18,
			$19, $20, $21
		)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		alumni.FirstName, alumni.LastName, alumni.Email, alumni.Phone,
		alumni.DateOfBirth, alumni.Gender,
		alumni.Degree, alumni.Department, alumni.GraduationYear, alumni.StudentID,
		alumni.CurrentEmployer, alumni.JobTitle, alumni.Industry,
		alumni.YearsOfExperience, alumni.LinkedIn,
		alumni.CurrentCity, alumni.State, alumni.Country,
		alumni.TechnicalSkills, alumni.LanguagesKnown, alumni.AreasOfInterest,
	).Scan(&alumni.ID, &alumni.CreatedAt, &alumni.UpdatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return ErrAlumniAlreadyExists
		}
		return fmt.Errorf("error inserting alumni record: %w", err)
	}
	return nil
}

func scanAlumni(row pgx.Row) (*models.Alumni, error) {
	var alumni models.Alumni
	err := row.Scan(
		&alumni.ID, &alumni.FirstName, &alumni.LastName, &alumni.Email,
		&alumni.Phone, &alumni.DateOfBirth, &alumni.Gender,
		&alumni.Degree, &alumni.Department, &alumni.GraduationYear, &alumni.StudentID,
		&alumni.CurrentEmployer, &alumni.JobTitle, &alumni.Industry,
		&alumni.YearsOfExperience, &alumni.LinkedIn,
		&alumni.CurrentCity, &alumni.State, &alumni.Country,
		&alumni.TechnicalSkills, &alumni.LanguagesKnown, &alumni.AreasOfInterest,
		&alumni.CreatedAt, &alumni.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &alumni, nil
}

func collectAlumni(rows pgx.Rows) ([]*models.Alumni, error) {
	var records []*models.Alumni
	for rows.Next() {
		alumni, err := scanAlumni(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, alumni)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selcuk/alumnihub/internal/app/models"
	"github.com/selcuk/alumnihub/internal/app/repositories"
	"github.com/selcuk/alumnihub/internal/docstore"
	"github.com/selcuk/alumnihub/internal/pkg/apperrors"
)

const testCollection = "alumni"

// fakeRelationalStore is an in-memory RelationalStore. Transactions stage a
// copy of the record set and publish it on Commit.
type fakeRelationalStore struct {
	mu      sync.Mutex
	records map[string]*models.Alumni
	nextID  int64

	beginErr  error
	commitErr error
}

func newFakeRelationalStore() *fakeRelationalStore {
	return &fakeRelationalStore{records: map[string]*models.Alumni{}}
}

func (s *fakeRelationalStore) seed(records ...*models.Alumni) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.nextID++
		r.ID = s.nextID
		s.records[r.Email] = r
	}
}

func (s *fakeRelationalStore) GetAll(context.Context) ([]*models.Alumni, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Alumni, 0, len(s.records))
	for _, r := range s.records {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeRelationalStore) BeginSync(context.Context) (AlumniTx, error) {
	if s.beginErr != nil {
		return nil, s.beginErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	staged := make(map[string]*models.Alumni, len(s.records))
	for email, r := range s.records {
		cp := *r
		staged[email] = &cp
	}
	return &fakeTx{store: s, staged: staged}, nil
}

func (s *fakeRelationalStore) byEmail(email string) *models.Alumni {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[email]
}

func (s *fakeRelationalStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

type fakeTx struct {
	store  *fakeRelationalStore
	staged map[string]*models.Alumni
	done   bool
}

func (t *fakeTx) GetByEmail(_ context.Context, email string) (*models.Alumni, error) {
	if r, ok := t.staged[email]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, repositories.ErrAlumniNotFound
}

func (t *fakeTx) Insert(_ context.Context, alumni *models.Alumni) error {
	t.store.mu.Lock()
	t.store.nextID++
	alumni.ID = t.store.nextID
	t.store.mu.Unlock()

	cp := *alumni
	t.staged[alumni.Email] = &cp
	return nil
}

func (t *fakeTx) UpdateFields(_ context.Context, id int64, fields map[string]any) error {
	for _, r := range t.staged {
		if r.ID != id {
			continue
		}
		applyFields(r, fields)
		return nil
	}
	return repositories.ErrAlumniNotFound
}

func (t *fakeTx) Commit(context.Context) error {
	if t.store.commitErr != nil {
		return t.store.commitErr
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.records = t.staged
	t.done = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	t.done = true
	return nil
}

// applyFields mirrors the column map produced by syncFields back onto the
// record.
func applyFields(r *models.Alumni, fields map[string]any) {
	for column, value := range fields {
		switch column {
		case "first_name":
			r.FirstName = value.(string)
		case "last_name":
			r.LastName = value.(string)
		case "email":
			r.Email = value.(string)
		case "phone":
			r.Phone = value.(string)
		case "gender":
			r.Gender = value.(string)
		case "degree":
			r.Degree = value.(string)
		case "department":
			r.Department = value.(string)
		case "graduation_year":
			r.GraduationYear = value.(int)
		case "student_id":
			r.StudentID = value.(string)
		case "current_employer":
			r.CurrentEmployer = value.(string)
		case "job_title":
			r.JobTitle = value.(string)
		case "industry":
			r.Industry = value.(string)
		case "linkedin":
			r.LinkedIn = value.(string)
		case "current_city":
			r.CurrentCity = value.(string)
		case "state":
			r.State = value.(string)
		case "country":
			r.Country = value.(string)
		case "technical_skills":
			r.TechnicalSkills = value.(string)
		case "languages_known":
			r.LanguagesKnown = value.(string)
		case "areas_of_interest":
			r.AreasOfInterest = value.(string)
		case "date_of_birth":
			if value == nil {
				r.DateOfBirth = nil
			} else {
				dob := value.(time.Time)
				r.DateOfBirth = &dob
			}
		case "years_of_experience":
			if value == nil {
				r.YearsOfExperience = nil
			} else {
				yoe := value.(int)
				r.YearsOfExperience = &yoe
			}
		}
	}
}

func testRecord(email string) *models.Alumni {
	dob := time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC)
	yoe := 8
	return &models.Alumni{
		FirstName:         "John",
		LastName:          "Doe",
		Email:             email,
		Phone:             "+1 555 000 0000",
		DateOfBirth:       &dob,
		Gender:            "male",
		Degree:            "BSc",
		Department:        "Computer Science",
		GraduationYear:    2012,
		StudentID:         "CS-2012-042",
		CurrentEmployer:   "Acme Corp",
		JobTitle:          "Engineer",
		Industry:          "Software",
		YearsOfExperience: &yoe,
		LinkedIn:          "linkedin.com/in/johndoe",
		CurrentCity:       "Austin",
		State:             "TX",
		Country:           "USA",
		TechnicalSkills:   "Go, SQL",
		LanguagesKnown:    "English",
		AreasOfInterest:   "Distributed systems",
	}
}

func TestSyncToSecondary(t *testing.T) {
	relational := newFakeRelationalStore()
	relational.seed(testRecord("a@example.com"), testRecord("b@example.com"))
	store := docstore.NewMemStore()
	svc := NewSyncService(store, relational, testCollection)

	result, err := svc.SyncToSecondary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.SyncedCount)
	assert.Equal(t, 0, result.ErrorCount)
	assert.Equal(t, 2, store.Count(testCollection))
}

func TestSyncToSecondaryIsIdempotent(t *testing.T) {
	relational := newFakeRelationalStore()
	relational.seed(testRecord("a@example.com"), testRecord("b@example.com"))
	store := docstore.NewMemStore()
	svc := NewSyncService(store, relational, testCollection)

	for i := 0; i < 3; i++ {
		result, err := svc.SyncToSecondary(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, result.SyncedCount)
	}
	assert.Equal(t, 2, store.Count(testCollection))
}

func TestSyncToSecondarySkipsRecordsWithoutEmail(t *testing.T) {
	relational := newFakeRelationalStore()
	relational.seed(testRecord("a@example.com"), testRecord(""))
	store := docstore.NewMemStore()
	svc := NewSyncService(store, relational, testCollection)

	result, err := svc.SyncToSecondary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.SyncedCount)
	assert.Equal(t, 1, result.ErrorCount)
	assert.Equal(t, 1, store.Count(testCollection))
}

func TestSyncToSecondaryCountsQueryFailures(t *testing.T) {
	relational := newFakeRelationalStore()
	relational.seed(testRecord("good@example.com"), testRecord("bad@example.com"))
	store := docstore.NewMemStore()
	store.FindErr = func(_ string, conds []docstore.Condition) error {
		for _, c := range conds {
			if c.Field == "email" && c.Value == "bad@example.com" {
				return fmt.Errorf("query failed")
			}
		}
		return nil
	}
	svc := NewSyncService(store, relational, testCollection)

	result, err := svc.SyncToSecondary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.SyncedCount)
	assert.Equal(t, 1, result.ErrorCount)
	assert.Equal(t, 1, store.Count(testCollection))
}

func TestSyncToSecondaryBatchRejectionSyncsNothing(t *testing.T) {
	relational := newFakeRelationalStore()
	relational.seed(testRecord("a@example.com"), testRecord("b@example.com"))
	store := docstore.NewMemStore()
	store.CommitErr = fmt.Errorf("quota exceeded")
	svc := NewSyncService(store, relational, testCollection)

	_, err := svc.SyncToSecondary(context.Background())
	require.ErrorIs(t, err, apperrors.ErrBatchRejected)
	assert.Equal(t, 0, store.Count(testCollection))
}

func TestSyncFromSecondary(t *testing.T) {
	store := docstore.NewMemStore()
	ctx := context.Background()
	_, err := store.Add(ctx, testCollection, testRecord("a@example.com").Document())
	require.NoError(t, err)
	_, err = store.Add(ctx, testCollection, testRecord("b@example.com").Document())
	require.NoError(t, err)

	relational := newFakeRelationalStore()
	svc := NewSyncService(store, relational, testCollection)

	result, err := svc.SyncFromSecondary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.SyncedCount)
	assert.Equal(t, 0, result.ErrorCount)
	assert.Equal(t, 2, relational.count())
}

func TestSyncFromSecondaryUpdatesExisting(t *testing.T) {
	store := docstore.NewMemStore()
	ctx := context.Background()

	doc := testRecord("a@example.com").Document()
	doc["job_title"] = "Principal Engineer"
	_, err := store.Add(ctx, testCollection, doc)
	require.NoError(t, err)

	relational := newFakeRelationalStore()
	relational.seed(testRecord("a@example.com"))
	svc := NewSyncService(store, relational, testCollection)

	result, err := svc.SyncFromSecondary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.SyncedCount)

	updated := relational.byEmail("a@example.com")
	require.NotNil(t, updated)
	assert.Equal(t, "Principal Engineer", updated.JobTitle)
	assert.Equal(t, int64(1), updated.ID)
}

func TestSyncFromSecondaryCountsMalformedDocuments(t *testing.T) {
	store := docstore.NewMemStore()
	ctx := context.Background()
	_, err := store.Add(ctx, testCollection, testRecord("a@example.com").Document())
	require.NoError(t, err)
	_, err = store.Add(ctx, testCollection, map[string]any{
		"first_name": "No",
		"last_name":  "Year",
		"email":      "broken@example.com",
	})
	require.NoError(t, err)

	relational := newFakeRelationalStore()
	svc := NewSyncService(store, relational, testCollection)

	result, err := svc.SyncFromSecondary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.SyncedCount)
	assert.Equal(t, 1, result.ErrorCount)
	assert.Equal(t, 1, relational.count())
	assert.Nil(t, relational.byEmail("broken@example.com"))
}

func TestSyncFromSecondaryCommitFailureMakesNoProgress(t *testing.T) {
	store := docstore.NewMemStore()
	ctx := context.Background()
	_, err := store.Add(ctx, testCollection, testRecord("a@example.com").Document())
	require.NoError(t, err)

	relational := newFakeRelationalStore()
	relational.commitErr = fmt.Errorf("connection lost")
	svc := NewSyncService(store, relational, testCollection)

	_, err = svc.SyncFromSecondary(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
	assert.Equal(t, 0, relational.count())
}

func TestSyncRoundTripPreservesFields(t *testing.T) {
	ctx := context.Background()
	original := testRecord("roundtrip@example.com")

	source := newFakeRelationalStore()
	source.seed(original)
	store := docstore.NewMemStore()

	_, err := NewSyncService(store, source, testCollection).SyncToSecondary(ctx)
	require.NoError(t, err)

	destination := newFakeRelationalStore()
	_, err = NewSyncService(store, destination, testCollection).SyncFromSecondary(ctx)
	require.NoError(t, err)

	restored := destination.byEmail("roundtrip@example.com")
	require.NotNil(t, restored)

	assert.Equal(t, original.FirstName, restored.FirstName)
	assert.Equal(t, original.LastName, restored.LastName)
	assert.Equal(t, original.Phone, restored.Phone)
	assert.Equal(t, original.Gender, restored.Gender)
	assert.Equal(t, original.Degree, restored.Degree)
	assert.Equal(t, original.Department, restored.Department)
	assert.Equal(t, original.GraduationYear, restored.GraduationYear)
	assert.Equal(t, original.StudentID, restored.StudentID)
	assert.Equal(t, original.CurrentEmployer, restored.CurrentEmployer)
	assert.Equal(t, original.JobTitle, restored.JobTitle)
	assert.Equal(t, original.Industry, restored.Industry)
	assert.Equal(t, original.LinkedIn, restored.LinkedIn)
	assert.Equal(t, original.CurrentCity, restored.CurrentCity)
	assert.Equal(t, original.State, restored.State)
	assert.Equal(t, original.Country, restored.Country)
	assert.Equal(t, original.TechnicalSkills, restored.TechnicalSkills)
	assert.Equal(t, original.LanguagesKnown, restored.LanguagesKnown)
	assert.Equal(t, original.AreasOfInterest, restored.AreasOfInterest)
	require.NotNil(t, restored.DateOfBirth)
	assert.True(t, original.DateOfBirth.Equal(*restored.DateOfBirth))
	require.NotNil(t, restored.YearsOfExperience)
	assert.Equal(t, *original.YearsOfExperience, *restored.YearsOfExperience)
}

func TestSearchDefaultsToFirstName(t *testing.T) {
	store := docstore.NewMemStore()
	ctx := context.Background()
	for _, name := range []string{"John", "Joanna", "Bob"} {
		_, err := store.Add(ctx, testCollection, map[string]any{"first_name": name})
		require.NoError(t, err)
	}
	svc := NewSyncService(store, newFakeRelationalStore(), testCollection)

	docs, err := svc.Search(ctx, "", "Jo")
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestSearchOnNamedField(t *testing.T) {
	store := docstore.NewMemStore()
	ctx := context.Background()
	_, err := store.Add(ctx, testCollection, map[string]any{"first_name": "John", "department": "Physics"})
	require.NoError(t, err)
	_, err = store.Add(ctx, testCollection, map[string]any{"first_name": "Jane", "department": "Chemistry"})
	require.NoError(t, err)
	svc := NewSyncService(store, newFakeRelationalStore(), testCollection)

	docs, err := svc.Search(ctx, "department", "Phys")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "John", docs[0].Data["first_name"])
}

func TestSecondaryStats(t *testing.T) {
	store := docstore.NewMemStore()
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		_, err := store.Add(ctx, testCollection, map[string]any{"first_name": fmt.Sprintf("P%d", i)})
		require.NoError(t, err)
	}
	svc := NewSyncService(store, newFakeRelationalStore(), testCollection)

	stats, err := svc.SecondaryStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, stats.TotalCount)
	assert.Len(t, stats.Recent, 5)
	for _, doc := range stats.Recent {
		assert.NotEmpty(t, doc["id"])
	}
}

func TestGetDocument(t *testing.T) {
	store := docstore.NewMemStore()
	ctx := context.Background()
	id, err := store.Add(ctx, testCollection, map[string]any{"first_name": "John"})
	require.NoError(t, err)
	svc := NewSyncService(store, newFakeRelationalStore(), testCollection)

	doc, err := svc.GetDocument(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "John", doc.Data["first_name"])

	_, err = svc.GetDocument(ctx, "absent")
	assert.True(t, errors.Is(err, apperrors.ErrDocumentNotFound))
}

func TestUpdateDocumentRejectsUnknownID(t *testing.T) {
	store := docstore.NewMemStore()
	ctx := context.Background()
	id, err := store.Add(ctx, testCollection, map[string]any{"first_name": "John"})
	require.NoError(t, err)
	svc := NewSyncService(store, newFakeRelationalStore(), testCollection)

	err = svc.UpdateDocument(ctx, "absent", map[string]any{"first_name": "Ghost"})
	assert.True(t, errors.Is(err, apperrors.ErrDocumentNotFound))
	assert.Equal(t, 1, store.Count(testCollection))

	require.NoError(t, svc.UpdateDocument(ctx, id, map[string]any{"job_title": "Engineer"}))
	doc, err := svc.GetDocument(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "John", doc.Data["first_name"])
	assert.Equal(t, "Engineer", doc.Data["job_title"])
}

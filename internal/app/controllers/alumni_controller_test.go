package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selcuk/alumnihub/internal/app/models"
	"github.com/selcuk/alumnihub/internal/app/repositories"
	"github.com/selcuk/alumnihub/internal/app/services"
)

// fakeAlumniStore keeps records in memory keyed by email. Only the paths the
// submission endpoints touch are live; the rest return empty results.
type fakeAlumniStore struct {
	records map[string]*models.Alumni
	nextID  int64
}

func newFakeAlumniStore() *fakeAlumniStore {
	return &fakeAlumniStore{records: map[string]*models.Alumni{}}
}

func (f *fakeAlumniStore) Create(_ context.Context, alumni *models.Alumni) error {
	if _, exists := f.records[alumni.Email]; exists {
		return repositories.ErrAlumniAlreadyExists
	}
	f.nextID++
	alumni.ID = f.nextID
	f.records[alumni.Email] = alumni
	return nil
}

func (f *fakeAlumniStore) GetByID(_ context.Context, id int64) (*models.Alumni, error) {
	for _, record := range f.records {
		if record.ID == id {
			return record, nil
		}
	}
	return nil, repositories.ErrAlumniNotFound
}

func (f *fakeAlumniStore) GetAll(context.Context) ([]*models.Alumni, error) {
	return nil, nil
}

func (f *fakeAlumniStore) GetByDepartment(context.Context, string) ([]*models.Alumni, error) {
	return nil, nil
}

func (f *fakeAlumniStore) GetRecent(context.Context, int) ([]*models.Alumni, error) {
	return nil, nil
}

func (f *fakeAlumniStore) Count(context.Context) (int64, error) {
	return int64(len(f.records)), nil
}

func (f *fakeAlumniStore) CountByGraduationYear(context.Context) ([]repositories.GroupCount, error) {
	return nil, nil
}

func (f *fakeAlumniStore) CountByDepartment(context.Context) ([]repositories.GroupCount, error) {
	return nil, nil
}

func (f *fakeAlumniStore) Update(context.Context, *models.Alumni) error { return nil }

func (f *fakeAlumniStore) Delete(context.Context, int64) error { return nil }

func newAlumniTestRouter(store *fakeAlumniStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	controller := NewAlumniController(services.NewAlumniService(store))

	router := gin.New()
	router.POST("/portal/alumni", controller.SubmitPortal)
	router.POST("/alumni/feed", controller.SubmitFeed)
	router.POST("/alumni", controller.Register)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	return rec
}

func TestSubmitPortalEndpoint(t *testing.T) {
	store := newFakeAlumniStore()
	router := newAlumniTestRouter(store)

	rec := postJSON(t, router, "/portal/alumni", map[string]any{
		"fullName":       "Jane Doe",
		"email":          "jane@example.com",
		"graduationYear": 2015,
		"company":        "Acme Corp",
		"currentJob":     "Engineer",
		"location":       "Izmir",
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Data models.Alumni `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Jane", body.Data.FirstName)
	assert.Equal(t, "Doe", body.Data.LastName)
	assert.Equal(t, 2015, body.Data.GraduationYear)
	assert.Equal(t, "Acme Corp", body.Data.CurrentEmployer)
	assert.Equal(t, "Engineer", body.Data.JobTitle)
	assert.Equal(t, "Izmir", body.Data.CurrentCity)

	stored, ok := store.records["jane@example.com"]
	require.True(t, ok)
	assert.Equal(t, int64(1), stored.ID)
}

func TestSubmitPortalEndpointBadGraduationYear(t *testing.T) {
	router := newAlumniTestRouter(newFakeAlumniStore())

	rec := postJSON(t, router, "/portal/alumni", map[string]any{
		"fullName":       "Jane Doe",
		"email":          "jane@example.com",
		"graduationYear": "next year",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error struct {
			Field string `json:"field"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "graduation_year", body.Error.Field)
}

func TestSubmitPortalEndpointRequiresEmail(t *testing.T) {
	store := newFakeAlumniStore()
	router := newAlumniTestRouter(store)

	rec := postJSON(t, router, "/portal/alumni", map[string]any{
		"fullName":       "Jane Doe",
		"graduationYear": 2015,
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error struct {
			Field string `json:"field"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "email", body.Error.Field)
	assert.Empty(t, store.records)
}

func TestSubmitFeedEndpoint(t *testing.T) {
	store := newFakeAlumniStore()
	router := newAlumniTestRouter(store)

	rec := postJSON(t, router, "/alumni/feed", map[string]any{
		"first_name":      "John",
		"last_name":       "Smith",
		"email":           "john@example.com",
		"graduation_year": 2010,
		"date_of_birth":   "05/20/1990",
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	stored, ok := store.records["john@example.com"]
	require.True(t, ok)
	require.NotNil(t, stored.DateOfBirth)
	assert.Equal(t, "1990-05-20", stored.DateOfBirth.Format("2006-01-02"))
}

func TestRegisterEndpointDuplicateEmail(t *testing.T) {
	store := newFakeAlumniStore()
	router := newAlumniTestRouter(store)

	payload := map[string]any{
		"first_name":      "John",
		"last_name":       "Smith",
		"email":           "john@example.com",
		"graduation_year": 2010,
	}

	rec := postJSON(t, router, "/alumni", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, router, "/alumni", payload)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Len(t, store.records, 1)
}

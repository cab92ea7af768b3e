package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selcuk/alumnihub/internal/pkg/apperrors"
)

type fakeSheetClient struct {
	rows []map[string]any
	err  error
}

func (c *fakeSheetClient) FetchRows(context.Context) ([]map[string]any, error) {
	return c.rows, c.err
}

func TestSheetImport(t *testing.T) {
	client := &fakeSheetClient{rows: []map[string]any{
		{
			"first_name":      "Jane",
			"last_name":       "Smith",
			"email":           "jane@example.com",
			"date_of_birth":   "05/20/1990",
			"graduation_year": "2015",
		},
		{
			"first_name":      "No",
			"last_name":       "Year",
			"email":           "broken@example.com",
			"graduation_year": "unknown",
		},
	}}
	relational := newFakeRelationalStore()
	svc := NewSheetService(client, relational)

	result, err := svc.Import(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.SyncedCount)
	assert.Equal(t, 1, result.ErrorCount)

	record := relational.byEmail("jane@example.com")
	require.NotNil(t, record)
	assert.Equal(t, "Jane", record.FirstName)
	assert.Equal(t, 2015, record.GraduationYear)
	// Sheet rows carry US-format dates
	require.NotNil(t, record.DateOfBirth)
	assert.Equal(t, "1990-05-20", record.DateOfBirth.Format("2006-01-02"))
}

func TestSheetImportUpsertsByEmail(t *testing.T) {
	relational := newFakeRelationalStore()
	relational.seed(testRecord("jane@example.com"))

	client := &fakeSheetClient{rows: []map[string]any{
		{
			"first_name":      "Janet",
			"last_name":       "Smith",
			"email":           "jane@example.com",
			"graduation_year": "2015",
		},
	}}
	svc := NewSheetService(client, relational)

	result, err := svc.Import(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.SyncedCount)
	assert.Equal(t, 1, relational.count())
	assert.Equal(t, "Janet", relational.byEmail("jane@example.com").FirstName)
}

func TestSheetImportWithoutClient(t *testing.T) {
	svc := NewSheetService(nil, newFakeRelationalStore())

	_, err := svc.Import(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
}

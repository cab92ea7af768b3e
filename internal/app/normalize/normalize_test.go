package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlumniConventions(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		conv    Convention
	}{
		{
			name: "form convention",
			payload: map[string]any{
				"first_name":      "John",
				"last_name":       "Doe",
				"email":           "john.doe@example.com",
				"date_of_birth":   "1990-05-20",
				"graduation_year": "2012",
			},
			conv: ConventionForm,
		},
		{
			name: "feed convention with US dates",
			payload: map[string]any{
				"first_name":      "John",
				"last_name":       "Doe",
				"email":           "john.doe@example.com",
				"date_of_birth":   "05/20/1990",
				"graduation_year": "2012",
			},
			conv: ConventionFeed,
		},
		{
			name: "portal convention with camelCase and fullName",
			payload: map[string]any{
				"fullName":       "John Doe",
				"email":          "john.doe@example.com",
				"dateOfBirth":    "1990-05-20",
				"graduationYear": "2012",
			},
			conv: ConventionPortal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := Alumni(tt.payload, tt.conv)
			require.NoError(t, err)

			assert.Equal(t, "John", record.FirstName)
			assert.Equal(t, "Doe", record.LastName)
			assert.Equal(t, "john.doe@example.com", record.Email)
			assert.Equal(t, 2012, record.GraduationYear)
			require.NotNil(t, record.DateOfBirth)
			assert.Equal(t, time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC), *record.DateOfBirth)
		})
	}
}

func TestAlumniPortalFieldRenames(t *testing.T) {
	record, err := Alumni(map[string]any{
		"fullName":       "Jane Smith",
		"email":          "jane@example.com",
		"graduationYear": "2015",
		"company":        "Acme Corp",
		"currentJob":     "Engineer",
		"location":       "Austin",
		"interests":      "Robotics",
	}, ConventionPortal)
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp", record.CurrentEmployer)
	assert.Equal(t, "Engineer", record.JobTitle)
	assert.Equal(t, "Austin", record.CurrentCity)
	assert.Equal(t, "Robotics", record.AreasOfInterest)
}

func TestAlumniNumericJSONValues(t *testing.T) {
	// JSON numbers arrive as float64
	record, err := Alumni(map[string]any{
		"email":               "n@example.com",
		"graduation_year":     float64(2018),
		"years_of_experience": float64(7),
	}, ConventionForm)
	require.NoError(t, err)

	assert.Equal(t, 2018, record.GraduationYear)
	require.NotNil(t, record.YearsOfExperience)
	assert.Equal(t, 7, *record.YearsOfExperience)
}

func TestAlumniDateFallback(t *testing.T) {
	record, err := Alumni(map[string]any{
		"email":           "d@example.com",
		"date_of_birth":   "not-a-date",
		"graduation_year": "2010",
	}, ConventionForm)
	require.NoError(t, err)
	assert.Nil(t, record.DateOfBirth)
}

func TestAlumniYearsOfExperienceFallback(t *testing.T) {
	record, err := Alumni(map[string]any{
		"email":               "y@example.com",
		"years_of_experience": "several",
		"graduation_year":     "2010",
	}, ConventionForm)
	require.NoError(t, err)
	assert.Nil(t, record.YearsOfExperience)
}

func TestAlumniGraduationYearRequired(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		reason string
	}{
		{"missing", nil, "is required"},
		{"empty", "", "is required"},
		{"non-numeric", "twenty-twelve", "must be an integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := map[string]any{"email": "g@example.com"}
			if tt.value != nil {
				payload["graduation_year"] = tt.value
			}

			_, err := Alumni(payload, ConventionForm)
			require.Error(t, err)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, "graduation_year", validationErr.Field)
			assert.Equal(t, tt.reason, validationErr.Reason)
		})
	}
}

func TestSplitFullName(t *testing.T) {
	tests := []struct {
		full  string
		first string
		last  string
	}{
		{"John Doe", "John", "Doe"},
		{"John van der Berg", "John", "van der Berg"},
		{"Cher", "Cher", ""},
		{"  John   Doe  ", "John", "Doe"},
		{"", "", ""},
	}

	for _, tt := range tests {
		first, last := SplitFullName(tt.full)
		assert.Equal(t, tt.first, first, "first name of %q", tt.full)
		assert.Equal(t, tt.last, last, "last name of %q", tt.full)
	}
}

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDocument(t *testing.T) {
	dob := time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC)
	yoe := 8
	alumni := &Alumni{
		ID:                12,
		FirstName:         "John",
		LastName:          "Doe",
		Email:             "john@example.com",
		DateOfBirth:       &dob,
		GraduationYear:    2012,
		YearsOfExperience: &yoe,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}

	doc := alumni.Document()

	assert.Equal(t, "John", doc["first_name"])
	assert.Equal(t, "1990-05-20", doc["date_of_birth"])
	assert.Equal(t, 2012, doc["graduation_year"])
	assert.Equal(t, 8, doc["years_of_experience"])

	// Identity and timestamps belong to each store, not the document body
	assert.NotContains(t, doc, "id")
	assert.NotContains(t, doc, "created_at")
	assert.NotContains(t, doc, "updated_at")
}

func TestDocumentOmitsAbsentNullables(t *testing.T) {
	doc := (&Alumni{Email: "a@example.com", GraduationYear: 2010}).Document()

	assert.NotContains(t, doc, "date_of_birth")
	assert.NotContains(t, doc, "years_of_experience")
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "John Doe", (&Alumni{FirstName: "John", LastName: "Doe"}).FullName())
	assert.Equal(t, "Cher", (&Alumni{FirstName: "Cher"}).FullName())
}

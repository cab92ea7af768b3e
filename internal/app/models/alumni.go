package models

import (
	"time"
)

// Alumni defines the alumni model based on the 'alumni' table.
// Email is the natural key used when reconciling records between the
// relational store and the document-store mirror.
type Alumni struct {
	ID    int64  `json:"id" db:"id" example:"1"` // Unique identifier for the alumni record
	DocID string `json:"docId,omitempty"`        // Identifier of the mirrored document, when known (no db column)

	// Basic information
	FirstName   string     `json:"firstName" db:"first_name" example:"John"`
	LastName    string     `json:"lastName" db:"last_name" example:"Doe"`
	Email       string     `json:"email" db:"email" example:"john.doe@example.com"`
	Phone       string     `json:"phone" db:"phone" example:"+90 555 000 0000"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty" db:"date_of_birth"` // Nullable
	Gender      string     `json:"gender" db:"gender" example:"male"`

	// Education details
	Degree         string `json:"degree" db:"degree" example:"BSc"`
	Department     string `json:"department" db:"department" example:"Computer Engineering"`
	GraduationYear int    `json:"graduationYear" db:"graduation_year" example:"2018"`
	StudentID      string `json:"studentId" db:"student_id" example:"2014510042"`

	// Professional information
	CurrentEmployer   string `json:"currentEmployer" db:"current_employer"`
	JobTitle          string `json:"jobTitle" db:"job_title"`
	Industry          string `json:"industry" db:"industry"`
	YearsOfExperience *int   `json:"yearsOfExperience,omitempty" db:"years_of_experience"` // Nullable
	LinkedIn          string `json:"linkedin" db:"linkedin"`

	// Location
	CurrentCity string `json:"currentCity" db:"current_city"`
	State       string `json:"state" db:"state"`
	Country     string `json:"country" db:"country"`

	// Skills and interests
	TechnicalSkills string `json:"technicalSkills" db:"technical_skills"`
	LanguagesKnown  string `json:"languagesKnown" db:"languages_known"`
	AreasOfInterest string `json:"areasOfInterest" db:"areas_of_interest"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// DateLayout is the canonical date format used for date_of_birth when the
// record travels as a document or spreadsheet row.
const DateLayout = "2006-01-02"

// Document returns the record in its document-store form: snake_case keys,
// date_of_birth rendered as a YYYY-MM-DD string, identity and timestamp
// columns omitted (the document store assigns its own).
func (a *Alumni) Document() map[string]any {
	doc := map[string]any{
		"first_name":        a.FirstName,
		"last_name":         a.LastName,
		"email":             a.Email,
		"phone":             a.Phone,
		"gender":            a.Gender,
		"degree":            a.Degree,
		"department":        a.Department,
		"graduation_year":   a.GraduationYear,
		"student_id":        a.StudentID,
		"current_employer":  a.CurrentEmployer,
		"job_title":         a.JobTitle,
		"industry":          a.Industry,
		"linkedin":          a.LinkedIn,
		"current_city":      a.CurrentCity,
		"state":             a.State,
		"country":           a.Country,
		"technical_skills":  a.TechnicalSkills,
		"languages_known":   a.LanguagesKnown,
		"areas_of_interest": a.AreasOfInterest,
	}
	if a.DateOfBirth != nil {
		doc["date_of_birth"] = a.DateOfBirth.Format(DateLayout)
	}
	if a.YearsOfExperience != nil {
		doc["years_of_experience"] = *a.YearsOfExperience
	}
	return doc
}

// FullName joins first and last name for display purposes.
func (a *Alumni) FullName() string {
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// Package normalize maps heterogeneous alumni payloads (admin form, legacy
// JSON submissions, portal submissions, document-store records, spreadsheet
// rows) into the canonical Alumni model.
package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/selcuk/alumnihub/internal/app/models"
)

// Convention identifies which field-naming and date convention a raw payload
// follows.
type Convention int

const (
	// ConventionForm is the canonical shape: snake_case field names and
	// YYYY-MM-DD dates. Documents read back from the secondary store use
	// this convention too.
	ConventionForm Convention = iota

	// ConventionFeed is the legacy submission shape: snake_case field names
	// with MM/DD/YYYY dates, as produced by the external spreadsheet feed.
	ConventionFeed

	// ConventionPortal is the public portal shape: camelCase field names
	// with a combined fullName field and YYYY-MM-DD dates.
	ConventionPortal
)

// Date layouts per convention.
const (
	isoDateLayout = "2006-01-02"
	usDateLayout  = "01/02/2006"
)

// ValidationError reports a malformed required field in a payload. It fails
// only the record it belongs to, never a whole batch.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
}

// Alumni converts a raw payload into a canonical Alumni record.
//
// Coercion rules: an unparseable date_of_birth or years_of_experience
// degrades to an absent value; an unparseable or missing graduation_year is a
// hard validation failure for the record.
func Alumni(payload map[string]any, conv Convention) (*models.Alumni, error) {
	get := fieldGetter(payload, conv)

	record := &models.Alumni{
		Email:           get("email"),
		Phone:           get("phone"),
		Gender:          get("gender"),
		Degree:          get("degree"),
		Department:      get("department"),
		StudentID:       get("student_id"),
		CurrentEmployer: get("current_employer"),
		JobTitle:        get("job_title"),
		Industry:        get("industry"),
		LinkedIn:        get("linkedin"),
		CurrentCity:     get("current_city"),
		State:           get("state"),
		Country:         get("country"),
		TechnicalSkills: get("technical_skills"),
		LanguagesKnown:  get("languages_known"),
		AreasOfInterest: get("areas_of_interest"),
	}

	if conv == ConventionPortal {
		record.FirstName, record.LastName = SplitFullName(get("full_name"))
	} else {
		record.FirstName = get("first_name")
		record.LastName = get("last_name")
	}

	layout := isoDateLayout
	if conv == ConventionFeed {
		layout = usDateLayout
	}
	if raw := get("date_of_birth"); raw != "" {
		if dob, err := time.Parse(layout, raw); err == nil {
			record.DateOfBirth = &dob
		}
		// Parse failure leaves the field absent
	}

	if raw := get("years_of_experience"); raw != "" {
		if years, err := parseInt(raw); err == nil {
			record.YearsOfExperience = &years
		}
	}

	rawYear := get("graduation_year")
	if rawYear == "" {
		return nil, &ValidationError{Field: "graduation_year", Reason: "is required"}
	}
	year, err := parseInt(rawYear)
	if err != nil {
		return nil, &ValidationError{Field: "graduation_year", Reason: "must be an integer"}
	}
	record.GraduationYear = year

	return record, nil
}

// SplitFullName splits a combined name on the first space: the head becomes
// the first name and the remainder the last name. Without a space the last
// name is empty.
func SplitFullName(fullName string) (firstName, lastName string) {
	fullName = strings.TrimSpace(fullName)
	if idx := strings.IndexByte(fullName, ' '); idx >= 0 {
		return fullName[:idx], strings.TrimSpace(fullName[idx+1:])
	}
	return fullName, ""
}

// portalFields maps canonical snake_case names to the portal's camelCase
// field names, including the renamed professional/location fields.
var portalFields = map[string]string{
	"full_name":           "fullName",
	"email":               "email",
	"phone":               "phone",
	"date_of_birth":       "dateOfBirth",
	"gender":              "gender",
	"degree":              "degree",
	"department":          "department",
	"graduation_year":     "graduationYear",
	"student_id":          "studentId",
	"current_employer":    "company",
	"job_title":           "currentJob",
	"industry":            "industry",
	"years_of_experience": "yearsOfExperience",
	"linkedin":            "linkedin",
	"current_city":        "location",
	"state":               "state",
	"country":             "country",
	"technical_skills":    "technicalSkills",
	"languages_known":     "languagesKnown",
	"areas_of_interest":   "interests",
}

// fieldGetter returns a lookup function that resolves canonical field names
// against the payload's naming convention and renders values as trimmed
// strings.
func fieldGetter(payload map[string]any, conv Convention) func(string) string {
	return func(canonical string) string {
		key := canonical
		if conv == ConventionPortal {
			if mapped, ok := portalFields[canonical]; ok {
				key = mapped
			}
		}
		return stringValue(payload[key])
	}
}

// stringValue renders a raw payload value as a string. JSON numbers arrive as
// float64 and document-store integers as int32/int64; whole floats drop the
// fractional rendering so "2018" survives a JSON round trip.
func stringValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

func parseInt(raw string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(raw))
}

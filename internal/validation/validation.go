// Package validation contains the pure business-rule predicates:
// identifier formats, the minimum-age rule, the credit rule, and the
// fixed grade set. Every predicate operates only on the value passed
// in — none of them consults the repository.
//
// The same predicates are registered as custom tags on a
// go-playground/validator instance (see NewValidator), so entity
// creation paths validate struct shapes with the exact same rules the
// rest of the system uses.
package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/kmitl-se/enrollment/internal/types"
)

// MinimumAge is the youngest a student may be to enroll.
const MinimumAge = 15

// Identifier formats. All ids are exactly 8 digits; the prefixes are
// reserved per entity kind.
var (
	// Student ids start with "69".
	studentIDPattern = regexp.MustCompile(`^69\d{6}$`)
	// Subject ids start with "0550" (major subjects) or "9069"
	// (general-education subjects).
	majorSubjectIDPattern   = regexp.MustCompile(`^0550\d{4}$`)
	generalSubjectIDPattern = regexp.MustCompile(`^9069\d{4}$`)
	// Curriculum ids must not start with a zero.
	curriculumIDPattern = regexp.MustCompile(`^[1-9]\d{7}$`)
)

// ValidGrades is the closed set of grades a registration may carry.
// Matching is case-sensitive and exact.
var ValidGrades = []string{"A", "B+", "B", "C+", "C", "D+", "D", "F"}

// ValidAge reports whether the student meets the minimum-age rule.
func ValidAge(s types.Student) bool {
	return s.Age() >= MinimumAge
}

// ValidStudentID reports whether id is a well-formed student identifier.
func ValidStudentID(id string) bool {
	return studentIDPattern.MatchString(id)
}

// ValidSubjectID reports whether id is a well-formed subject identifier
// in either reserved range.
func ValidSubjectID(id string) bool {
	return majorSubjectIDPattern.MatchString(id) || generalSubjectIDPattern.MatchString(id)
}

// ValidCurriculumID reports whether id is a well-formed curriculum
// identifier.
func ValidCurriculumID(id string) bool {
	return curriculumIDPattern.MatchString(id)
}

// ValidCredits reports whether a credit count is acceptable.
func ValidCredits(credits int) bool {
	return credits > 0
}

// ValidGrade reports whether g is an acceptable grade value. The empty
// string is valid and means "not yet graded".
func ValidGrade(g string) bool {
	if g == "" {
		return true
	}
	for _, valid := range ValidGrades {
		if g == valid {
			return true
		}
	}
	return false
}

// NewValidator returns a validator with the domain's custom tags
// registered: student_id, subject_id, curriculum_id, and grade. Entity
// creation paths run validator.Struct with these tags on top of the
// standard required/email/gt rules.
func NewValidator() *validator.Validate {
	v := validator.New()

	// RegisterValidation only errors on an empty tag name, so these
	// cannot fail here.
	_ = v.RegisterValidation("student_id", func(fl validator.FieldLevel) bool {
		return ValidStudentID(fl.Field().String())
	})
	_ = v.RegisterValidation("subject_id", func(fl validator.FieldLevel) bool {
		return ValidSubjectID(fl.Field().String())
	})
	_ = v.RegisterValidation("curriculum_id", func(fl validator.FieldLevel) bool {
		return ValidCurriculumID(fl.Field().String())
	})
	_ = v.RegisterValidation("grade", func(fl validator.FieldLevel) bool {
		return ValidGrade(fl.Field().String())
	})

	return v
}

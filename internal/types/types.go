// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// the repository, services, storage codec, and views can all import
// types without depending on each other.
package types

import "time"

// Student represents a person who can log in and register for subjects.
// The administrator account is a Student with the Admin flag set.
//
// Struct tags serve two purposes:
//
//  1. json:"..." — controls how the field is encoded when the record is
//     serialized by the persistence codec.
//
//  2. validate:"..." — rules checked by the go-playground/validator
//     package when a record is created through the admin service.
//     The student_id and curriculum_id tags are custom validators
//     registered in internal/validation.
type Student struct {
	StudentID    string    `json:"student_id" validate:"required,student_id"`
	Title        string    `json:"title" validate:"required"`
	FirstName    string    `json:"first_name" validate:"required"`
	LastName     string    `json:"last_name" validate:"required"`
	BirthDate    time.Time `json:"birth_date" validate:"required"`
	School       string    `json:"school" validate:"required"`
	Email        string    `json:"email" validate:"required,email"`
	CurriculumID string    `json:"curriculum_id"`
	// PasswordHash is a bcrypt hash. The core never compares passwords
	// itself; the auth service owns verification.
	PasswordHash string `json:"password_hash"`
	Admin        bool   `json:"admin"`
}

// Age returns the student's age in whole years as of now.
func (s Student) Age() int {
	return s.AgeAt(time.Now())
}

// AgeAt returns the student's age in whole years at the given date.
// A zero birth date yields 0, matching an uninitialized record.
func (s Student) AgeAt(at time.Time) int {
	if s.BirthDate.IsZero() {
		return 0
	}
	years := at.Year() - s.BirthDate.Year()
	// Not yet had the birthday this year.
	anniversary := time.Date(at.Year(), s.BirthDate.Month(), s.BirthDate.Day(), 0, 0, 0, 0, time.UTC)
	if time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC).Before(anniversary) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// FullName returns "Title FirstName LastName" for display.
func (s Student) FullName() string {
	return s.Title + " " + s.FirstName + " " + s.LastName
}

// Subject represents a course students can register for.
type Subject struct {
	SubjectID  string `json:"subject_id" validate:"required,subject_id"`
	Name       string `json:"name" validate:"required"`
	Credits    int    `json:"credits" validate:"required,gt=0"`
	Instructor string `json:"instructor" validate:"required"`
	// PrerequisiteID refers to another Subject; empty means none.
	// Referential integrity is deliberately not enforced at write time.
	PrerequisiteID string `json:"prerequisite_id"`
}

// HasPrerequisite reports whether the subject requires another subject
// to be completed first.
func (s Subject) HasPrerequisite() bool {
	return s.PrerequisiteID != ""
}

// CurriculumEntry is one required subject within a curriculum, pinned
// to semester 1 or 2. Order of entries is meaningful and preserved.
type CurriculumEntry struct {
	SubjectID string `json:"subject_id"`
	Semester  int    `json:"semester"`
}

// Curriculum represents a program of study (subject structure): a named
// ordered list of required subjects grouped by semester.
type Curriculum struct {
	CurriculumID string            `json:"curriculum_id" validate:"required,curriculum_id"`
	Name         string            `json:"name" validate:"required"`
	Department   string            `json:"department" validate:"required"`
	Required     []CurriculumEntry `json:"required"`
}

// Clone returns a copy that shares no state with the receiver: the
// Required slice gets its own backing array. Other entity kinds have
// only value fields and copy by assignment; Curriculum needs this for
// defensive copies.
func (c Curriculum) Clone() Curriculum {
	out := c
	if c.Required != nil {
		out.Required = make([]CurriculumEntry, len(c.Required))
		copy(out.Required, c.Required)
	}
	return out
}

// AddRequired appends a required subject with its semester.
func (c *Curriculum) AddRequired(subjectID string, semester int) {
	c.Required = append(c.Required, CurriculumEntry{SubjectID: subjectID, Semester: semester})
}

// RequiredSubjectIDs returns all required subject ids in curriculum
// order, regardless of semester.
func (c Curriculum) RequiredSubjectIDs() []string {
	ids := make([]string, 0, len(c.Required))
	for _, e := range c.Required {
		ids = append(ids, e.SubjectID)
	}
	return ids
}

// RequiredForSemester returns the subject ids required in the given
// semester, in curriculum order.
func (c Curriculum) RequiredForSemester(semester int) []string {
	ids := make([]string, 0)
	for _, e := range c.Required {
		if e.Semester == semester {
			ids = append(ids, e.SubjectID)
		}
	}
	return ids
}

// SemesterFor returns the semester the given subject belongs to within
// this curriculum, or 0 if the subject is not part of it.
func (c Curriculum) SemesterFor(subjectID string) int {
	for _, e := range c.Required {
		if e.SubjectID == subjectID {
			return e.Semester
		}
	}
	return 0
}

// Registration is the join record between a student and a subject.
// An empty Grade means "not yet graded".
type Registration struct {
	StudentID string `json:"student_id"`
	SubjectID string `json:"subject_id"`
	Grade     string `json:"grade"`
}

// IsGraded reports whether a grade has been recorded.
func (r Registration) IsGraded() bool {
	return r.Grade != ""
}

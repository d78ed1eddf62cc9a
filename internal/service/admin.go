package service

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/kmitl-se/enrollment/internal/repository"
	"github.com/kmitl-se/enrollment/internal/types"
	"github.com/kmitl-se/enrollment/internal/validation"
)

// Admin exposes the administrator operations: student listings and
// search, subject management, grading, and entity creation.
type Admin struct {
	repo     *repository.Repository
	validate *validator.Validate
	log      *slog.Logger
}

// NewAdmin constructs the admin service with the domain validator.
func NewAdmin(repo *repository.Repository, log *slog.Logger) *Admin {
	return &Admin{repo: repo, validate: validation.NewValidator(), log: log}
}

// AllStudents returns every student except the administrator account.
func (a *Admin) AllStudents() []types.Student {
	result := make([]types.Student, 0)
	for _, s := range a.repo.AllStudents() {
		if !s.Admin {
			result = append(result, s)
		}
	}
	return result
}

// StudentsBySchool filters non-admin students by exact school name.
func (a *Admin) StudentsBySchool(school string) []types.Student {
	return a.repo.StudentsBySchool(school)
}

// AllSchools returns the distinct school names.
func (a *Admin) AllSchools() []string {
	return a.repo.AllSchools()
}

// SortStudentsByName returns a copy sorted ascending by full name.
func (a *Admin) SortStudentsByName(students []types.Student) []types.Student {
	sorted := make([]types.Student, len(students))
	copy(sorted, students)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].FullName() < sorted[j].FullName()
	})
	return sorted
}

// SortStudentsByAge returns a copy sorted ascending by age.
func (a *Admin) SortStudentsByAge(students []types.Student) []types.Student {
	sorted := make([]types.Student, len(students))
	copy(sorted, students)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Age() < sorted[j].Age()
	})
	return sorted
}

// SearchStudents returns the non-admin students whose identifier or
// full name contains the query (name match is case-insensitive). An
// empty query returns everyone.
func (a *Admin) SearchStudents(query string) []types.Student {
	all := a.AllStudents()
	if query == "" {
		return all
	}

	q := strings.ToLower(query)
	result := make([]types.Student, 0)
	for _, s := range all {
		if strings.Contains(s.StudentID, q) || strings.Contains(strings.ToLower(s.FullName()), q) {
			result = append(result, s)
		}
	}
	return result
}

// AllSubjects returns every subject.
func (a *Admin) AllSubjects() []types.Subject {
	return a.repo.AllSubjects()
}

// StudentsForSubject returns the students registered for the subject.
func (a *Admin) StudentsForSubject(subjectID string) []types.Student {
	return a.repo.StudentsForSubject(subjectID)
}

// RegistrationCountForSubject counts registrations for the subject.
func (a *Admin) RegistrationCountForSubject(subjectID string) int {
	return a.repo.RegistrationCountForSubject(subjectID)
}

// RegisteredSubjectDetails joins a student's registrations with their
// subject records for the grade-management view.
func (a *Admin) RegisteredSubjectDetails(studentID string) []RegisteredSubjectDetail {
	details := make([]RegisteredSubjectDetail, 0)
	for _, reg := range a.repo.RegisteredSubjectsForStudent(studentID) {
		subject, ok := a.repo.SubjectByID(reg.SubjectID)
		if !ok {
			continue
		}
		details = append(details, RegisteredSubjectDetail{Subject: subject, Grade: reg.Grade})
	}
	return details
}

// SetGrade records a grade for an existing registration. Fails with
// repository.ErrInvalidGrade for a grade outside the fixed set and
// repository.ErrRegistrationNotFound when the pair is not registered.
func (a *Admin) SetGrade(studentID, subjectID, grade string) error {
	return a.repo.SetGrade(studentID, subjectID, grade)
}

// CreateStudent validates and stores a new student account. The plain
// password is hashed here; the stored record never holds it. Identifier
// format, required fields, and the minimum-age rule are all enforced;
// the curriculum reference is deliberately not.
func (a *Admin) CreateStudent(student types.Student, password string) error {
	if err := a.validate.Struct(student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	if !validation.ValidAge(student) {
		return fmt.Errorf("create student %s: %w", student.StudentID, ErrUnderage)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("create student: hash password: %w", err)
	}
	student.PasswordHash = string(hash)

	a.log.Info("student account created",
		slog.String("student_id", student.StudentID),
		slog.String("email", student.Email))
	return a.repo.AddStudent(student)
}

// CreateSubject validates and stores a new subject. The prerequisite
// reference is not checked against existing subjects.
func (a *Admin) CreateSubject(subject types.Subject) error {
	if err := a.validate.Struct(subject); err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return a.repo.AddSubject(subject)
}

// CreateCurriculum validates and stores a new curriculum.
func (a *Admin) CreateCurriculum(curriculum types.Curriculum) error {
	if err := a.validate.Struct(curriculum); err != nil {
		return fmt.Errorf("create curriculum: %w", err)
	}
	return a.repo.AddCurriculum(curriculum)
}

// UpdateStudent replaces the stored record matching the student's
// identifier.
func (a *Admin) UpdateStudent(student types.Student) error {
	return a.repo.UpdateStudent(student)
}

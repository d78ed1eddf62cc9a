package service

import (
	"github.com/kmitl-se/enrollment/internal/repository"
	"github.com/kmitl-se/enrollment/internal/types"
)

// RegisteredSubjectDetail joins a registration with its subject record
// for display: subject fields plus the recorded grade (empty when not
// yet graded).
type RegisteredSubjectDetail struct {
	Subject types.Subject
	Grade   string
}

// Student exposes the query surface a logged-in student uses: their
// profile, registrations, and what they can still register for.
type Student struct {
	repo    *repository.Repository
	session *Session
}

// NewStudent constructs the student query service.
func NewStudent(repo *repository.Repository, session *Session) *Student {
	return &Student{repo: repo, session: session}
}

// ByID looks up a student record.
func (s *Student) ByID(studentID string) (types.Student, bool) {
	return s.repo.StudentByID(studentID)
}

// RegisteredSubjects returns the student's registrations.
func (s *Student) RegisteredSubjects(studentID string) []types.Registration {
	return s.repo.RegisteredSubjectsForStudent(studentID)
}

// AvailableSubjects returns the curriculum subjects the student can
// still register for.
func (s *Student) AvailableSubjects(studentID string) []types.Subject {
	return s.repo.AvailableSubjectsForStudent(studentID)
}

// SubjectDetails looks up a subject record.
func (s *Student) SubjectDetails(subjectID string) (types.Subject, bool) {
	return s.repo.SubjectByID(subjectID)
}

// CurriculumForStudent resolves the student's curriculum.
func (s *Student) CurriculumForStudent(studentID string) (types.Curriculum, bool) {
	student, ok := s.repo.StudentByID(studentID)
	if !ok {
		return types.Curriculum{}, false
	}
	return s.repo.CurriculumByID(student.CurriculumID)
}

// RegisteredSubjectDetails joins the student's registrations with their
// subject records. Registrations whose subject no longer resolves are
// skipped.
func (s *Student) RegisteredSubjectDetails(studentID string) []RegisteredSubjectDetail {
	details := make([]RegisteredSubjectDetail, 0)
	for _, reg := range s.repo.RegisteredSubjectsForStudent(studentID) {
		subject, ok := s.repo.SubjectByID(reg.SubjectID)
		if !ok {
			continue
		}
		details = append(details, RegisteredSubjectDetail{Subject: subject, Grade: reg.Grade})
	}
	return details
}

// GradeForSubject returns the grade for the pair; the second value is
// false when the student is not registered for the subject at all.
func (s *Student) GradeForSubject(studentID, subjectID string) (string, bool) {
	return s.repo.GradeFor(studentID, subjectID)
}

// CanViewProfile reports whether the current session may view the given
// student's profile: the administrator may view any, a student only
// their own, nobody when logged out.
func (s *Student) CanViewProfile(studentID string) bool {
	current, ok := s.session.Current()
	if !ok {
		return false
	}
	if current.Admin {
		return true
	}
	return current.StudentID == studentID
}

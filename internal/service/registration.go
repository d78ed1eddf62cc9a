package service

import (
	"fmt"
	"log/slog"

	"github.com/kmitl-se/enrollment/internal/repository"
)

// Registration is the registration/prerequisite engine: it ties
// repository queries and validation rules together to decide whether a
// registration is admissible, and performs it when so.
type Registration struct {
	repo *repository.Repository
	log  *slog.Logger
}

// NewRegistration constructs the engine.
func NewRegistration(repo *repository.Repository, log *slog.Logger) *Registration {
	return &Registration{repo: repo, log: log}
}

// CanRegister reports whether the student may register for the subject.
// nil means eligible; otherwise the returned error names the exact
// reason: ErrSubjectNotFound, ErrAlreadyRegistered, or
// ErrPrerequisiteNotMet.
func (e *Registration) CanRegister(studentID, subjectID string) error {
	subject, ok := e.repo.SubjectByID(subjectID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSubjectNotFound, subjectID)
	}

	for _, reg := range e.repo.RegisteredSubjectsForStudent(studentID) {
		if reg.SubjectID == subjectID {
			return fmt.Errorf("%w: %s", ErrAlreadyRegistered, subjectID)
		}
	}

	if subject.HasPrerequisite() && !e.repo.HasCompletedPrerequisite(studentID, subject.PrerequisiteID) {
		return fmt.Errorf("%w: %s requires %s", ErrPrerequisiteNotMet, subjectID, subject.PrerequisiteID)
	}

	return nil
}

// Register enrolls the student in the subject. It checks that the
// subject exists and that any prerequisite is completed; a duplicate
// registration is not an error here — the repository treats it as a
// no-op, keeping the operation idempotent.
func (e *Registration) Register(studentID, subjectID string) error {
	subject, ok := e.repo.SubjectByID(subjectID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSubjectNotFound, subjectID)
	}

	if subject.HasPrerequisite() && !e.repo.HasCompletedPrerequisite(studentID, subject.PrerequisiteID) {
		e.log.Info("registration denied",
			slog.String("student_id", studentID),
			slog.String("subject_id", subjectID),
			slog.String("reason", "prerequisite not completed"))
		return fmt.Errorf("%w: %s requires %s", ErrPrerequisiteNotMet, subjectID, subject.PrerequisiteID)
	}

	return e.repo.RegisterSubject(studentID, subjectID)
}

// Package repository holds the authoritative in-memory collections of
// all four entity kinds and is the single gatekeeper for reads and
// writes of domain state. Every mutation is followed by a synchronous
// persist of the complete state through the storage codec.
//
// The repository is built for one interactive session: it has no
// internal locking and is not safe for concurrent use without external
// synchronization.
package repository

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/kmitl-se/enrollment/internal/storage"
	"github.com/kmitl-se/enrollment/internal/types"
	"github.com/kmitl-se/enrollment/internal/validation"
)

// Sentinel errors for the failure classes callers must be able to tell
// apart.
var (
	// ErrInvalidGrade is returned when a grade outside the fixed grade
	// set is passed to SetGrade.
	ErrInvalidGrade = errors.New("invalid grade")

	// ErrRegistrationNotFound is returned by SetGrade when no
	// registration exists for the (student, subject) pair.
	ErrRegistrationNotFound = errors.New("registration not found")
)

// Repository owns the four entity collections. Construct it with New;
// the zero value is not usable.
type Repository struct {
	log   *slog.Logger
	store storage.Storage

	students      []types.Student
	subjects      []types.Subject
	curriculums   []types.Curriculum
	registrations []types.Registration
}

// New loads the persisted state through the given codec, or synthesizes
// the bootstrap dataset when no prior data exists (a failed load is
// treated the same way). After a successful load it verifies the
// administrator account is present, synthesizing one if not.
func New(store storage.Storage, log *slog.Logger) (*Repository, error) {
	r := &Repository{log: log, store: store}

	snap, found, err := store.Load()
	if err != nil {
		// A broken store is indistinguishable from an empty one: log
		// and fall through to bootstrap rather than refuse to start.
		log.Error("loading persisted state failed, bootstrapping",
			slog.String("error", err.Error()))
		found = false
	}

	if !found {
		snap, err = sampleData()
		if err != nil {
			return nil, fmt.Errorf("repository.New: bootstrap: %w", err)
		}
		r.apply(snap)
		log.Info("no persisted state found, bootstrap dataset created",
			slog.Int("students", len(r.students)),
			slog.Int("subjects", len(r.subjects)))
		if err := r.persist(); err != nil {
			return nil, fmt.Errorf("repository.New: persist bootstrap: %w", err)
		}
		return r, nil
	}

	r.apply(snap)
	if err := r.ensureAdmin(); err != nil {
		return nil, fmt.Errorf("repository.New: ensure admin: %w", err)
	}
	log.Info("persisted state loaded",
		slog.Int("students", len(r.students)),
		slog.Int("subjects", len(r.subjects)),
		slog.Int("curriculums", len(r.curriculums)),
		slog.Int("registrations", len(r.registrations)))
	return r, nil
}

func (r *Repository) apply(snap storage.Snapshot) {
	r.students = snap.Students
	r.subjects = snap.Subjects
	r.curriculums = snap.Curriculums
	r.registrations = snap.Registrations
}

// ensureAdmin appends the administrator account when the loaded data
// lacks it. The account is identified by the reserved email AND the
// admin flag.
func (r *Repository) ensureAdmin() error {
	for _, s := range r.students {
		if s.Email == AdminEmail && s.Admin {
			return nil
		}
	}

	admin, err := newAdmin()
	if err != nil {
		return err
	}
	r.students = append(r.students, admin)
	r.log.Warn("administrator account missing from loaded data, synthesized",
		slog.String("email", AdminEmail))
	return r.persist()
}

// persist writes the complete state through the codec. On failure the
// in-memory mutation is NOT rolled back: the error is logged and
// returned, and memory and disk may diverge until the next successful
// save.
func (r *Repository) persist() error {
	snap := storage.Snapshot{
		Students:      r.students,
		Subjects:      r.subjects,
		Curriculums:   r.curriculums,
		Registrations: r.registrations,
	}
	if err := r.store.Save(snap); err != nil {
		r.log.Error("persisting state failed", slog.String("error", err.Error()))
		return fmt.Errorf("persist: %w", err)
	}
	return nil
}

// ── Queries ──────────────────────────────────────────────────────────────────

// AllStudents returns a copy of the student collection. Mutating the
// returned slice does not affect the repository.
func (r *Repository) AllStudents() []types.Student {
	out := make([]types.Student, len(r.students))
	copy(out, r.students)
	return out
}

// AllSubjects returns a copy of the subject collection.
func (r *Repository) AllSubjects() []types.Subject {
	out := make([]types.Subject, len(r.subjects))
	copy(out, r.subjects)
	return out
}

// AllCurriculums returns a copy of the curriculum collection. Each
// curriculum is cloned so its Required slice does not alias the
// authoritative state.
func (r *Repository) AllCurriculums() []types.Curriculum {
	out := make([]types.Curriculum, len(r.curriculums))
	for i, c := range r.curriculums {
		out[i] = c.Clone()
	}
	return out
}

// AllRegistrations returns a copy of the registration collection.
func (r *Repository) AllRegistrations() []types.Registration {
	out := make([]types.Registration, len(r.registrations))
	copy(out, r.registrations)
	return out
}

// StudentByID looks a student up by identifier. Absence is not an
// error: the second return value reports whether the student exists.
func (r *Repository) StudentByID(studentID string) (types.Student, bool) {
	for _, s := range r.students {
		if s.StudentID == studentID {
			return s, true
		}
	}
	return types.Student{}, false
}

// StudentByEmail looks a student up by email, the login key. Callers
// performing authentication compare credentials themselves.
func (r *Repository) StudentByEmail(email string) (types.Student, bool) {
	for _, s := range r.students {
		if s.Email == email {
			return s, true
		}
	}
	return types.Student{}, false
}

// SubjectByID looks a subject up by identifier.
func (r *Repository) SubjectByID(subjectID string) (types.Subject, bool) {
	for _, s := range r.subjects {
		if s.SubjectID == subjectID {
			return s, true
		}
	}
	return types.Subject{}, false
}

// CurriculumByID looks a curriculum up by identifier. The returned
// curriculum is a clone; mutating it does not touch the store.
func (r *Repository) CurriculumByID(curriculumID string) (types.Curriculum, bool) {
	for _, c := range r.curriculums {
		if c.CurriculumID == curriculumID {
			return c.Clone(), true
		}
	}
	return types.Curriculum{}, false
}

// StudentsBySchool returns the non-admin students whose school name
// matches exactly.
func (r *Repository) StudentsBySchool(school string) []types.Student {
	result := make([]types.Student, 0)
	for _, s := range r.students {
		if !s.Admin && s.School == school {
			result = append(result, s)
		}
	}
	return result
}

// AllSchools returns the de-duplicated school names across non-admin
// students. Order is unspecified.
func (r *Repository) AllSchools() []string {
	seen := make(map[string]struct{})
	schools := make([]string, 0)
	for _, s := range r.students {
		if s.Admin {
			continue
		}
		if _, ok := seen[s.School]; ok {
			continue
		}
		seen[s.School] = struct{}{}
		schools = append(schools, s.School)
	}
	return schools
}

// RegisteredSubjectsForStudent returns the student's registrations, in
// registration order.
func (r *Repository) RegisteredSubjectsForStudent(studentID string) []types.Registration {
	result := make([]types.Registration, 0)
	for _, reg := range r.registrations {
		if reg.StudentID == studentID {
			result = append(result, reg)
		}
	}
	return result
}

// StudentsForSubject returns the students registered for the subject.
// Registrations referencing unknown students are skipped.
func (r *Repository) StudentsForSubject(subjectID string) []types.Student {
	result := make([]types.Student, 0)
	for _, reg := range r.registrations {
		if reg.SubjectID != subjectID {
			continue
		}
		if s, ok := r.StudentByID(reg.StudentID); ok {
			result = append(result, s)
		}
	}
	return result
}

// HasCompletedPrerequisite reports whether the student holds a GRADED
// registration for the prerequisite subject. A pending registration
// does not count, regardless of what grade it may eventually receive;
// any recorded grade — including F — counts as completed.
func (r *Repository) HasCompletedPrerequisite(studentID, prerequisiteID string) bool {
	for _, reg := range r.registrations {
		if reg.StudentID == studentID && reg.SubjectID == prerequisiteID && reg.IsGraded() {
			return true
		}
	}
	return false
}

// GradeFor returns the grade recorded for the pair, and whether a
// registration exists at all. An existing ungraded registration yields
// ("", true).
func (r *Repository) GradeFor(studentID, subjectID string) (string, bool) {
	for _, reg := range r.registrations {
		if reg.StudentID == studentID && reg.SubjectID == subjectID {
			return reg.Grade, true
		}
	}
	return "", false
}

// RegistrationCountForSubject counts registrations referencing the
// subject.
func (r *Repository) RegistrationCountForSubject(subjectID string) int {
	count := 0
	for _, reg := range r.registrations {
		if reg.SubjectID == subjectID {
			count++
		}
	}
	return count
}

// AvailableSubjectsForStudent resolves the student's curriculum and
// returns the required subjects the student can still register for:
// not already registered (graded or not), and either without a
// prerequisite or with the prerequisite completed. Order follows the
// curriculum's internal subject list.
func (r *Repository) AvailableSubjectsForStudent(studentID string) []types.Subject {
	available := make([]types.Subject, 0)

	student, ok := r.StudentByID(studentID)
	if !ok {
		return available
	}
	curriculum, ok := r.CurriculumByID(student.CurriculumID)
	if !ok {
		return available
	}

	registered := make(map[string]struct{})
	for _, reg := range r.RegisteredSubjectsForStudent(studentID) {
		registered[reg.SubjectID] = struct{}{}
	}

	for _, subjectID := range curriculum.RequiredSubjectIDs() {
		if _, ok := registered[subjectID]; ok {
			continue
		}
		subject, ok := r.SubjectByID(subjectID)
		if !ok {
			// Curriculum references a subject that does not exist;
			// foreign keys are not enforced at write time.
			continue
		}
		if subject.HasPrerequisite() && !r.HasCompletedPrerequisite(studentID, subject.PrerequisiteID) {
			continue
		}
		available = append(available, subject)
	}
	return available
}

// ── Mutations ────────────────────────────────────────────────────────────────
//
// Each mutation appends or updates in memory and then persists the
// whole state. A persist failure is returned but never undoes the
// in-memory change.

// RegisterSubject records an ungraded registration for the pair. It is
// idempotent: if the pair is already registered, nothing happens and no
// state is written.
func (r *Repository) RegisterSubject(studentID, subjectID string) error {
	for _, reg := range r.registrations {
		if reg.StudentID == studentID && reg.SubjectID == subjectID {
			return nil // already registered
		}
	}

	r.registrations = append(r.registrations, types.Registration{
		StudentID: studentID,
		SubjectID: subjectID,
	})
	r.log.Info("subject registered",
		slog.String("student_id", studentID),
		slog.String("subject_id", subjectID))
	return r.persist()
}

// SetGrade overwrites the grade on the matching registration. A grade
// outside the fixed set fails with ErrInvalidGrade before any state is
// touched; clearing to empty is always valid. A missing registration
// fails with ErrRegistrationNotFound.
func (r *Repository) SetGrade(studentID, subjectID, grade string) error {
	if !validation.ValidGrade(grade) {
		return fmt.Errorf("%w: %q", ErrInvalidGrade, grade)
	}

	for i := range r.registrations {
		if r.registrations[i].StudentID == studentID && r.registrations[i].SubjectID == subjectID {
			r.registrations[i].Grade = grade
			r.log.Info("grade set",
				slog.String("student_id", studentID),
				slog.String("subject_id", subjectID),
				slog.String("grade", grade))
			return r.persist()
		}
	}
	return fmt.Errorf("%w: %s/%s", ErrRegistrationNotFound, studentID, subjectID)
}

// AddStudent appends a student. Uniqueness of identifier and email is
// the caller's responsibility at this layer.
func (r *Repository) AddStudent(student types.Student) error {
	r.students = append(r.students, student)
	r.log.Info("student added", slog.String("student_id", student.StudentID))
	return r.persist()
}

// AddSubject appends a subject. The prerequisite reference is not
// checked against existing subjects.
func (r *Repository) AddSubject(subject types.Subject) error {
	r.subjects = append(r.subjects, subject)
	r.log.Info("subject added", slog.String("subject_id", subject.SubjectID))
	return r.persist()
}

// AddCurriculum appends a curriculum. The stored record is a clone, so
// a Required slice retained by the caller cannot reach into the store.
func (r *Repository) AddCurriculum(curriculum types.Curriculum) error {
	r.curriculums = append(r.curriculums, curriculum.Clone())
	r.log.Info("curriculum added", slog.String("curriculum_id", curriculum.CurriculumID))
	return r.persist()
}

// UpdateStudent replaces the first student whose identifier matches.
// When none matches nothing happens and nothing is written.
func (r *Repository) UpdateStudent(student types.Student) error {
	for i := range r.students {
		if r.students[i].StudentID == student.StudentID {
			r.students[i] = student
			r.log.Info("student updated", slog.String("student_id", student.StudentID))
			return r.persist()
		}
	}
	return nil
}

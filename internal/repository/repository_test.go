package repository

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmitl-se/enrollment/internal/config"
	"github.com/kmitl-se/enrollment/internal/storage/sqlite"
	"github.com/kmitl-se/enrollment/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, _ := newTestRepoAt(t, filepath.Join(t.TempDir(), "enrollment.db"))
	return repo
}

func newTestRepoAt(t *testing.T, path string) (*Repository, *sqlite.SQLite) {
	t.Helper()
	store, err := sqlite.New(&config.Config{StoragePath: path})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	repo, err := New(store, testLogger())
	require.NoError(t, err)
	return repo, store
}

func TestBootstrapDataset(t *testing.T) {
	repo := newTestRepo(t)

	assert.Len(t, repo.AllCurriculums(), 2)
	assert.Len(t, repo.AllSubjects(), 10)
	assert.Len(t, repo.AllStudents(), 11, "10 regular students plus the administrator")
	assert.Len(t, repo.AllRegistrations(), 5)

	admin, ok := repo.StudentByEmail(AdminEmail)
	require.True(t, ok)
	assert.True(t, admin.Admin)

	// At least one subject with a prerequisite.
	ds, ok := repo.SubjectByID("05500002")
	require.True(t, ok)
	assert.Equal(t, "05500001", ds.PrerequisiteID)
}

func TestBootstrapPersistsAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enrollment.db")

	repo, _ := newTestRepoAt(t, path)
	require.NoError(t, repo.RegisterSubject("69000005", "05500001"))

	// A second repository over the same file must see the committed
	// state, not bootstrap again.
	reopened, _ := newTestRepoAt(t, path)
	assert.Len(t, reopened.AllRegistrations(), 6)
	assert.Len(t, reopened.AllStudents(), 11)
}

func TestAdminSynthesizedWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enrollment.db")

	_, store := newTestRepoAt(t, path)

	// Simulate a dataset that lost its administrator.
	snap, found, err := store.Load()
	require.NoError(t, err)
	require.True(t, found)
	students := snap.Students[:0]
	for _, s := range snap.Students {
		if !s.Admin {
			students = append(students, s)
		}
	}
	snap.Students = students
	require.NoError(t, store.Save(snap))

	reopened, _ := newTestRepoAt(t, path)
	admin, ok := reopened.StudentByEmail(AdminEmail)
	require.True(t, ok, "administrator must be synthesized on load")
	assert.True(t, admin.Admin)
	assert.Len(t, reopened.AllStudents(), 11)
}

func TestRegisterSubjectIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	before := len(repo.AllRegistrations())

	require.NoError(t, repo.RegisterSubject("69000005", "05500001"))
	require.NoError(t, repo.RegisterSubject("69000005", "05500001"))

	regs := repo.RegisteredSubjectsForStudent("69000005")
	assert.Len(t, regs, 1, "exactly one registration for the pair")
	assert.False(t, regs[0].IsGraded(), "new registrations start ungraded")
	assert.Len(t, repo.AllRegistrations(), before+1)
}

func TestSetGrade(t *testing.T) {
	repo := newTestRepo(t)

	// Invalid grade fails and leaves the existing grade unchanged.
	err := repo.SetGrade("69000001", "05500001", "Z")
	assert.ErrorIs(t, err, ErrInvalidGrade)
	grade, ok := repo.GradeFor("69000001", "05500001")
	require.True(t, ok)
	assert.Equal(t, "A", grade)

	// Valid grade is recorded and visible.
	require.NoError(t, repo.SetGrade("69000001", "05500001", "B+"))
	grade, ok = repo.GradeFor("69000001", "05500001")
	require.True(t, ok)
	assert.Equal(t, "B+", grade)

	// Clearing to empty is always valid.
	require.NoError(t, repo.SetGrade("69000001", "05500001", ""))
	grade, ok = repo.GradeFor("69000001", "05500001")
	require.True(t, ok)
	assert.Empty(t, grade)

	// Missing registration is an explicit failure, not a silent no-op.
	err = repo.SetGrade("69000009", "05500006", "A")
	assert.ErrorIs(t, err, ErrRegistrationNotFound)
}

func TestHasCompletedPrerequisite(t *testing.T) {
	repo := newTestRepo(t)

	// 69000001 holds an A for 05500001.
	assert.True(t, repo.HasCompletedPrerequisite("69000001", "05500001"))

	// An ungraded registration does not count as completed.
	require.NoError(t, repo.RegisterSubject("69000005", "05500001"))
	assert.False(t, repo.HasCompletedPrerequisite("69000005", "05500001"))

	// Any recorded grade counts, including F.
	require.NoError(t, repo.SetGrade("69000005", "05500001", "F"))
	assert.True(t, repo.HasCompletedPrerequisite("69000005", "05500001"))

	assert.False(t, repo.HasCompletedPrerequisite("69000009", "05500001"), "no registration at all")
}

func TestAvailableSubjectsForStudent(t *testing.T) {
	repo := newTestRepo(t)

	// 69000001 (Computer Science) is registered for 05500001 (A) and
	// 90690001 (B+). Both must be excluded; Data Structures appears
	// because its prerequisite is completed.
	available := repo.AvailableSubjectsForStudent("69000001")
	ids := subjectIDs(available)
	assert.Equal(t, []string{"90690003", "05500002", "05500003", "90690002"}, ids,
		"curriculum order, registered subjects excluded")

	// 69000005 (Computer Science) has no registrations: everything but
	// Data Structures, whose prerequisite is not completed.
	available = repo.AvailableSubjectsForStudent("69000005")
	ids = subjectIDs(available)
	assert.Equal(t, []string{"05500001", "90690001", "90690003", "05500003", "90690002"}, ids)

	// A registration alone (ungraded) excludes the subject but does not
	// unlock dependents.
	require.NoError(t, repo.RegisterSubject("69000005", "05500001"))
	ids = subjectIDs(repo.AvailableSubjectsForStudent("69000005"))
	assert.NotContains(t, ids, "05500001", "registered subjects never reappear")
	assert.NotContains(t, ids, "05500002", "pending prerequisite does not unlock")

	assert.Empty(t, repo.AvailableSubjectsForStudent("69999999"), "unknown student")
}

func TestStudentQueries(t *testing.T) {
	repo := newTestRepo(t)

	_, ok := repo.StudentByID("68999999")
	assert.False(t, ok, "absence is not an error")

	bangkok := repo.StudentsBySchool("Bangkok High School")
	assert.Len(t, bangkok, 2)
	for _, s := range bangkok {
		assert.False(t, s.Admin)
	}

	schools := repo.AllSchools()
	assert.ElementsMatch(t, []string{
		"Bangkok High School", "Chiang Mai High School", "Phuket High School",
		"Khon Kaen High School", "Songkhla High School",
	}, schools, "admin school excluded, names de-duplicated")

	students := repo.StudentsForSubject("05500001")
	assert.Len(t, students, 3)

	assert.Equal(t, 3, repo.RegistrationCountForSubject("05500001"))
	assert.Equal(t, 0, repo.RegistrationCountForSubject("05500006"))
}

func TestDefensiveCopies(t *testing.T) {
	repo := newTestRepo(t)

	students := repo.AllStudents()
	students[0].FirstName = "Mutated"

	fresh := repo.AllStudents()
	assert.NotEqual(t, "Mutated", fresh[0].FirstName,
		"callers must not observe mutation through returned slices")

	// Curriculum carries a slice field, so a shallow struct copy is not
	// enough: writing through a returned Required entry must not reach
	// the authoritative state.
	all := repo.AllCurriculums()
	require.NotEmpty(t, all[0].Required)
	all[0].Required[0].SubjectID = "99999999"
	assert.NotEqual(t, "99999999", repo.AllCurriculums()[0].Required[0].SubjectID)

	byID, ok := repo.CurriculumByID("10000001")
	require.True(t, ok)
	byID.Required[0].SubjectID = "88888888"
	again, _ := repo.CurriculumByID("10000001")
	assert.NotEqual(t, "88888888", again.Required[0].SubjectID)
}

func TestAddAndUpdate(t *testing.T) {
	repo := newTestRepo(t)

	// Foreign keys are deliberately unchecked at write time.
	require.NoError(t, repo.AddSubject(types.Subject{
		SubjectID: "05500099", Name: "Compilers", Credits: 3,
		Instructor: "Dr. Moore", PrerequisiteID: "05509999",
	}))
	sub, ok := repo.SubjectByID("05500099")
	require.True(t, ok)
	assert.Equal(t, "05509999", sub.PrerequisiteID)

	student, ok := repo.StudentByID("69000001")
	require.True(t, ok)
	student.School = "New School"
	require.NoError(t, repo.UpdateStudent(student))
	updated, _ := repo.StudentByID("69000001")
	assert.Equal(t, "New School", updated.School)

	// Updating an unknown student is a no-op.
	require.NoError(t, repo.UpdateStudent(types.Student{StudentID: "69777777"}))
	_, ok = repo.StudentByID("69777777")
	assert.False(t, ok)
}

func subjectIDs(subjects []types.Subject) []string {
	ids := make([]string, 0, len(subjects))
	for _, s := range subjects {
		ids = append(ids, s.SubjectID)
	}
	return ids
}

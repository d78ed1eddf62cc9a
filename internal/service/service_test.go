package service

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmitl-se/enrollment/internal/config"
	"github.com/kmitl-se/enrollment/internal/repository"
	"github.com/kmitl-se/enrollment/internal/storage/sqlite"
	"github.com/kmitl-se/enrollment/internal/types"
)

type fixture struct {
	repo         *repository.Repository
	session      *Session
	auth         *Auth
	students     *Student
	admin        *Admin
	registration *Registration
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := sqlite.New(&config.Config{
		StoragePath: filepath.Join(t.TempDir(), "enrollment.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	repo, err := repository.New(store, log)
	require.NoError(t, err)

	session := NewSession()
	return &fixture{
		repo:         repo,
		session:      session,
		auth:         NewAuth(repo, session, log),
		students:     NewStudent(repo, session),
		admin:        NewAdmin(repo, log),
		registration: NewRegistration(repo, log),
	}
}

func TestCanRegisterReasons(t *testing.T) {
	f := newFixture(t)

	// Unknown subject.
	assert.ErrorIs(t, f.registration.CanRegister("69000005", "05509999"), ErrSubjectNotFound)

	// Already registered (graded).
	assert.ErrorIs(t, f.registration.CanRegister("69000001", "05500001"), ErrAlreadyRegistered)

	// Already registered (pending) is rejected the same way.
	require.NoError(t, f.registration.Register("69000005", "05500001"))
	assert.ErrorIs(t, f.registration.CanRegister("69000005", "05500001"), ErrAlreadyRegistered)

	// Prerequisite not completed.
	assert.ErrorIs(t, f.registration.CanRegister("69000005", "05500002"), ErrPrerequisiteNotMet)

	// Eligible: prerequisite completed with any grade.
	assert.NoError(t, f.registration.CanRegister("69000001", "05500002"))
}

func TestPrerequisiteGating(t *testing.T) {
	f := newFixture(t)

	// 69000005 has no graded registration for 05500001, so Data
	// Structures is off limits.
	err := f.registration.Register("69000005", "05500002")
	assert.ErrorIs(t, err, ErrPrerequisiteNotMet)
	assert.Empty(t, f.students.RegisteredSubjects("69000005"))

	// Register and grade the prerequisite; the dependent subject opens.
	require.NoError(t, f.registration.Register("69000005", "05500001"))
	err = f.registration.Register("69000005", "05500002")
	assert.ErrorIs(t, err, ErrPrerequisiteNotMet, "pending registration does not satisfy the prerequisite")

	require.NoError(t, f.admin.SetGrade("69000005", "05500001", "A"))
	require.NoError(t, f.registration.Register("69000005", "05500002"))

	grade, registered := f.students.GradeForSubject("69000005", "05500002")
	assert.True(t, registered)
	assert.Empty(t, grade)
}

func TestRegisterDuplicateIsNoOp(t *testing.T) {
	f := newFixture(t)

	// Register skips the duplicate check; the repository absorbs the
	// repeat as a no-op rather than failing.
	require.NoError(t, f.registration.Register("69000001", "90690002"))
	require.NoError(t, f.registration.Register("69000001", "90690002"))

	count := 0
	for _, reg := range f.students.RegisteredSubjects("69000001") {
		if reg.SubjectID == "90690002" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)

	student, err := f.auth.Authenticate("john@kmitl.ac.th", "password")
	require.NoError(t, err)
	assert.Equal(t, "69000001", student.StudentID)
	assert.True(t, f.session.IsLoggedIn())
	assert.False(t, f.session.IsAdmin())

	f.auth.Logout()
	assert.False(t, f.session.IsLoggedIn())

	_, err = f.auth.Authenticate("john@kmitl.ac.th", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, f.session.IsLoggedIn())

	_, err = f.auth.Authenticate("nobody@kmitl.ac.th", "password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	admin, err := f.auth.Authenticate("admin@kmitl.ac.th", "admin")
	require.NoError(t, err)
	assert.True(t, admin.Admin)
	assert.True(t, f.session.IsAdmin())
}

func TestCanViewProfile(t *testing.T) {
	f := newFixture(t)

	assert.False(t, f.students.CanViewProfile("69000001"), "logged out")

	_, err := f.auth.Authenticate("john@kmitl.ac.th", "password")
	require.NoError(t, err)
	assert.True(t, f.students.CanViewProfile("69000001"), "own profile")
	assert.False(t, f.students.CanViewProfile("69000002"), "someone else's profile")

	_, err = f.auth.Authenticate("admin@kmitl.ac.th", "admin")
	require.NoError(t, err)
	assert.True(t, f.students.CanViewProfile("69000002"), "admin views any profile")
}

func TestAdminStudentListings(t *testing.T) {
	f := newFixture(t)

	all := f.admin.AllStudents()
	assert.Len(t, all, 10, "administrator excluded")

	byName := f.admin.SortStudentsByName(all)
	for i := 1; i < len(byName); i++ {
		assert.LessOrEqual(t, byName[i-1].FullName(), byName[i].FullName())
	}

	byAge := f.admin.SortStudentsByAge(all)
	for i := 1; i < len(byAge); i++ {
		assert.LessOrEqual(t, byAge[i-1].Age(), byAge[i].Age())
	}

	assert.Len(t, f.admin.SearchStudents(""), 10, "empty query returns everyone")
	assert.Len(t, f.admin.SearchStudents("69000003"), 1)

	found := f.admin.SearchStudents("jane")
	require.Len(t, found, 1)
	assert.Equal(t, "69000002", found[0].StudentID)

	assert.Empty(t, f.admin.SearchStudents("zzz"))
}

func TestAdminSetGradeErrors(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.admin.SetGrade("69000001", "05500001", "Z"), repository.ErrInvalidGrade)
	assert.ErrorIs(t, f.admin.SetGrade("69000009", "05500006", "A"), repository.ErrRegistrationNotFound)
	assert.NoError(t, f.admin.SetGrade("69000002", "05500001", "B+"))
}

func TestCreateStudent(t *testing.T) {
	f := newFixture(t)

	valid := types.Student{
		StudentID:    "69000011",
		Title:        "Mr.",
		FirstName:    "Peter",
		LastName:     "Parker",
		BirthDate:    time.Now().AddDate(-16, 0, 0),
		School:       "Queens High School",
		Email:        "peter@kmitl.ac.th",
		CurriculumID: "10000001",
	}
	require.NoError(t, f.admin.CreateStudent(valid, "secret"))

	created, ok := f.repo.StudentByID("69000011")
	require.True(t, ok)
	assert.NotEmpty(t, created.PasswordHash)
	assert.NotEqual(t, "secret", created.PasswordHash, "password is stored hashed")

	_, err := f.auth.Authenticate("peter@kmitl.ac.th", "secret")
	assert.NoError(t, err)

	// Underage student rejected.
	young := valid
	young.StudentID = "69000012"
	young.Email = "young@kmitl.ac.th"
	young.BirthDate = time.Now().AddDate(-14, 0, 0)
	assert.ErrorIs(t, f.admin.CreateStudent(young, "secret"), ErrUnderage)

	// Malformed identifier rejected by the validator.
	bad := valid
	bad.StudentID = "59000013"
	assert.Error(t, f.admin.CreateStudent(bad, "secret"))
}

func TestCreateSubjectAndCurriculum(t *testing.T) {
	f := newFixture(t)

	assert.Error(t, f.admin.CreateSubject(types.Subject{
		SubjectID: "12345678", Name: "Bogus", Credits: 3, Instructor: "Dr. Who",
	}), "subject id outside both reserved ranges")

	require.NoError(t, f.admin.CreateSubject(types.Subject{
		SubjectID: "90690005", Name: "Philosophy of Science", Credits: 2, Instructor: "Dr. Clark",
	}))
	assert.Len(t, f.admin.AllSubjects(), 11)

	curriculum := types.Curriculum{CurriculumID: "30000001", Name: "Information Technology", Department: "Department of IT"}
	curriculum.AddRequired("90690005", 1)
	require.NoError(t, f.admin.CreateCurriculum(curriculum))

	got, ok := f.repo.CurriculumByID("30000001")
	require.True(t, ok)
	assert.Equal(t, []string{"90690005"}, got.RequiredSubjectIDs())
}

func TestRegisteredSubjectDetails(t *testing.T) {
	f := newFixture(t)

	details := f.students.RegisteredSubjectDetails("69000001")
	require.Len(t, details, 2)
	assert.Equal(t, "Introduction to Programming", details[0].Subject.Name)
	assert.Equal(t, "A", details[0].Grade)
	assert.Equal(t, "General Mathematics", details[1].Subject.Name)
	assert.Equal(t, "B+", details[1].Grade)

	curriculum, ok := f.students.CurriculumForStudent("69000001")
	require.True(t, ok)
	assert.Equal(t, "Computer Science", curriculum.Name)

	_, ok = f.students.CurriculumForStudent("69999999")
	assert.False(t, ok)
}

package repository

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kmitl-se/enrollment/internal/storage"
	"github.com/kmitl-se/enrollment/internal/types"
)

// AdminEmail identifies the administrator account, together with the
// admin flag on the student record.
const AdminEmail = "admin@kmitl.ac.th"

// Bootstrap credentials. Real accounts change these on first login; the
// sample dataset exists so a fresh install is usable immediately.
const (
	adminPassword   = "admin"
	defaultPassword = "password"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// newAdmin builds the administrator account.
func newAdmin() (types.Student, error) {
	hash, err := hashPassword(adminPassword)
	if err != nil {
		return types.Student{}, err
	}
	return types.Student{
		StudentID:    "69000000",
		Title:        "Mr.",
		FirstName:    "Admin",
		LastName:     "User",
		BirthDate:    date(1990, time.January, 1),
		School:       "N/A",
		Email:        AdminEmail,
		CurriculumID: "",
		PasswordHash: hash,
		Admin:        true,
	}, nil
}

// sampleData synthesizes the fixed bootstrap dataset: 2 curriculums,
// 10 subjects (one with a prerequisite), the administrator plus 10
// students, and 5 graded sample registrations.
func sampleData() (storage.Snapshot, error) {
	cs := types.Curriculum{CurriculumID: "10000001", Name: "Computer Science", Department: "Department of Computer Science"}
	cs.AddRequired("05500001", 1) // Introduction to Programming
	cs.AddRequired("90690001", 1) // General Mathematics
	cs.AddRequired("90690003", 1) // Technical Writing
	cs.AddRequired("05500002", 2) // Data Structures
	cs.AddRequired("05500003", 2) // Database Systems
	cs.AddRequired("90690002", 2) // Physics for Computing

	eng := types.Curriculum{CurriculumID: "20000001", Name: "Computer Engineering", Department: "Department of Computer Engineering"}
	eng.AddRequired("05500001", 1)
	eng.AddRequired("90690001", 1)
	eng.AddRequired("90690002", 1)
	eng.AddRequired("05500005", 2) // Computer Networks
	eng.AddRequired("05500006", 2) // Operating Systems
	eng.AddRequired("90690004", 2) // Ethics in Computing

	subjects := []types.Subject{
		{SubjectID: "05500001", Name: "Introduction to Programming", Credits: 3, Instructor: "Dr. Smith"},
		{SubjectID: "05500002", Name: "Data Structures", Credits: 3, Instructor: "Dr. Johnson", PrerequisiteID: "05500001"},
		{SubjectID: "05500003", Name: "Database Systems", Credits: 3, Instructor: "Dr. Brown"},
		{SubjectID: "05500004", Name: "Web Development", Credits: 3, Instructor: "Dr. Davis"},
		{SubjectID: "05500005", Name: "Computer Networks", Credits: 3, Instructor: "Dr. Wilson"},
		{SubjectID: "05500006", Name: "Operating Systems", Credits: 3, Instructor: "Dr. Anderson"},
		{SubjectID: "90690001", Name: "General Mathematics", Credits: 3, Instructor: "Dr. Thomas"},
		{SubjectID: "90690002", Name: "Physics for Computing", Credits: 3, Instructor: "Dr. Taylor"},
		{SubjectID: "90690003", Name: "Technical Writing", Credits: 3, Instructor: "Dr. Harris"},
		{SubjectID: "90690004", Name: "Ethics in Computing", Credits: 3, Instructor: "Dr. Lewis"},
	}

	admin, err := newAdmin()
	if err != nil {
		return storage.Snapshot{}, err
	}

	// One shared hash for the sample accounts keeps bootstrap fast;
	// every real account gets its own salt when its password changes.
	studentHash, err := hashPassword(defaultPassword)
	if err != nil {
		return storage.Snapshot{}, err
	}

	regular := []struct {
		id, title, first, last    string
		birth                     time.Time
		school, email, curriculum string
	}{
		{"69000001", "Mr.", "John", "Doe", date(2007, time.May, 15), "Bangkok High School", "john@kmitl.ac.th", "10000001"},
		{"69000002", "Ms.", "Jane", "Smith", date(2006, time.August, 22), "Bangkok High School", "jane@kmitl.ac.th", "10000001"},
		{"69000003", "Mr.", "Mike", "Johnson", date(2007, time.March, 10), "Chiang Mai High School", "mike@kmitl.ac.th", "20000001"},
		{"69000004", "Ms.", "Sarah", "Williams", date(2006, time.July, 5), "Chiang Mai High School", "sarah@kmitl.ac.th", "20000001"},
		{"69000005", "Mr.", "David", "Brown", date(2007, time.November, 18), "Phuket High School", "david@kmitl.ac.th", "10000001"},
		{"69000006", "Ms.", "Emily", "Jones", date(2006, time.April, 30), "Phuket High School", "emily@kmitl.ac.th", "10000001"},
		{"69000007", "Mr.", "Robert", "Taylor", date(2007, time.September, 12), "Khon Kaen High School", "robert@kmitl.ac.th", "20000001"},
		{"69000008", "Ms.", "Jessica", "Anderson", date(2006, time.February, 25), "Khon Kaen High School", "jessica@kmitl.ac.th", "20000001"},
		{"69000009", "Mr.", "Thomas", "Wilson", date(2007, time.June, 8), "Songkhla High School", "thomas@kmitl.ac.th", "10000001"},
		{"69000010", "Ms.", "Olivia", "Martinez", date(2006, time.October, 15), "Songkhla High School", "olivia@kmitl.ac.th", "20000001"},
	}

	students := []types.Student{admin}
	for _, s := range regular {
		students = append(students, types.Student{
			StudentID:    s.id,
			Title:        s.title,
			FirstName:    s.first,
			LastName:     s.last,
			BirthDate:    s.birth,
			School:       s.school,
			Email:        s.email,
			CurriculumID: s.curriculum,
			PasswordHash: studentHash,
		})
	}

	registrations := []types.Registration{
		{StudentID: "69000001", SubjectID: "05500001", Grade: "A"},
		{StudentID: "69000001", SubjectID: "90690001", Grade: "B+"},
		{StudentID: "69000002", SubjectID: "05500001", Grade: "B"},
		{StudentID: "69000003", SubjectID: "05500001", Grade: "A"},
		{StudentID: "69000004", SubjectID: "90690001", Grade: "C+"},
	}

	return storage.Snapshot{
		Students:      students,
		Subjects:      subjects,
		Curriculums:   []types.Curriculum{cs, eng},
		Registrations: registrations,
	}, nil
}

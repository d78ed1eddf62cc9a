package ui

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/kmitl-se/enrollment/internal/format"
	"github.com/kmitl-se/enrollment/internal/repository"
	"github.com/kmitl-se/enrollment/internal/types"
)

// adminMenu shows one round of the admin menu and handles the chosen
// action.
func (u *UI) adminMenu() {
	color.Cyan("\n=== Admin Menu ===")
	fmt.Println("1. List Students")
	fmt.Println("2. Students by School")
	fmt.Println("3. Search Students")
	fmt.Println("4. List Subjects")
	fmt.Println("5. Students for a Subject")
	fmt.Println("6. Grade Management")
	fmt.Println("7. Add Student")
	fmt.Println("8. Add Subject")
	fmt.Println("9. Add Curriculum")
	fmt.Println("10. Logout")

	switch u.prompt("Enter your choice: ") {
	case "1":
		u.listStudents()
	case "2":
		u.studentsBySchool()
	case "3":
		u.searchStudents()
	case "4":
		u.listSubjects()
	case "5":
		u.studentsForSubject()
	case "6":
		u.gradeManagement()
	case "7":
		u.addStudent()
	case "8":
		u.addSubject()
	case "9":
		u.addCurriculum()
	case "10":
		u.auth.Logout()
	default:
		color.Red("Invalid choice. Please try again.")
	}
}

func (u *UI) listStudents() {
	students := u.admin.AllStudents()
	switch u.prompt("Sort by (1) name, (2) age, or (enter) none: ") {
	case "1":
		students = u.admin.SortStudentsByName(students)
	case "2":
		students = u.admin.SortStudentsByAge(students)
	}
	renderStudents(students)
}

func (u *UI) studentsBySchool() {
	color.Cyan("Schools:")
	for _, school := range u.admin.AllSchools() {
		fmt.Printf("  - %s\n", school)
	}
	school := u.prompt("School name: ")
	renderStudents(u.admin.StudentsBySchool(school))
}

func (u *UI) searchStudents() {
	query := u.prompt("Search by ID or name: ")
	renderStudents(u.admin.SearchStudents(query))
}

func (u *UI) listSubjects() {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Subject ID", "Name", "Credits", "Instructor", "Prerequisite", "Registered"})
	for _, s := range u.admin.AllSubjects() {
		prereq := s.PrerequisiteID
		if prereq == "" {
			prereq = "-"
		}
		table.Append([]string{
			s.SubjectID, s.Name, strconv.Itoa(s.Credits), s.Instructor, prereq,
			strconv.Itoa(u.admin.RegistrationCountForSubject(s.SubjectID)),
		})
	}
	table.Render()
}

func (u *UI) studentsForSubject() {
	subjectID := u.prompt("Subject ID: ")
	students := u.admin.StudentsForSubject(subjectID)
	if len(students) == 0 {
		color.Yellow("No students registered for %s.", subjectID)
		return
	}
	renderStudents(students)
}

func (u *UI) gradeManagement() {
	studentID := u.prompt("Student ID: ")
	details := u.admin.RegisteredSubjectDetails(studentID)
	if len(details) == 0 {
		color.Yellow("Student %s has no registrations.", studentID)
		return
	}
	renderSubjectDetails(details)

	subjectID := u.prompt("Subject ID to grade: ")
	grade := u.prompt("Grade (A, B+, B, C+, C, D+, D, F; empty clears): ")

	if err := u.admin.SetGrade(studentID, subjectID, grade); err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidGrade):
			color.Red("%q is not a valid grade.", grade)
		case errors.Is(err, repository.ErrRegistrationNotFound):
			color.Red("Student %s is not registered for %s.", studentID, subjectID)
		default:
			color.Red("Setting grade failed: %v", err)
		}
		return
	}
	color.Green("Grade recorded.")
}

func (u *UI) addStudent() {
	student := types.Student{
		StudentID: u.prompt("Student ID (8 digits, 69xxxxxx): "),
		Title:     u.prompt("Title (Mr./Ms.): "),
		FirstName: u.prompt("First name: "),
		LastName:  u.prompt("Last name: "),
		School:    u.prompt("School: "),
		Email:     u.prompt("Email: "),
	}
	birth, ok := format.ParseDate(u.prompt("Birth date (dd/mm/yyyy): "))
	if !ok {
		color.Red("Invalid date.")
		return
	}
	student.BirthDate = birth
	student.CurriculumID = u.prompt("Curriculum ID: ")
	password := u.prompt("Password: ")

	if err := u.admin.CreateStudent(student, password); err != nil {
		color.Red("Adding student failed: %v", err)
		return
	}
	color.Green("Student %s added.", student.StudentID)
}

func (u *UI) addSubject() {
	subject := types.Subject{
		SubjectID: u.prompt("Subject ID (0550xxxx or 9069xxxx): "),
		Name:      u.prompt("Name: "),
	}
	credits, err := strconv.Atoi(u.prompt("Credits: "))
	if err != nil {
		color.Red("Credits must be a number.")
		return
	}
	subject.Credits = credits
	subject.Instructor = u.prompt("Instructor: ")
	subject.PrerequisiteID = u.prompt("Prerequisite subject ID (empty for none): ")

	if err := u.admin.CreateSubject(subject); err != nil {
		color.Red("Adding subject failed: %v", err)
		return
	}
	color.Green("Subject %s added.", subject.SubjectID)
}

func (u *UI) addCurriculum() {
	curriculum := types.Curriculum{
		CurriculumID: u.prompt("Curriculum ID (8 digits, no leading zero): "),
		Name:         u.prompt("Name: "),
		Department:   u.prompt("Department: "),
	}
	for {
		subjectID := u.prompt("Required subject ID (empty to finish): ")
		if subjectID == "" {
			break
		}
		semester, err := strconv.Atoi(u.prompt("Semester (1 or 2): "))
		if err != nil || (semester != 1 && semester != 2) {
			color.Red("Semester must be 1 or 2.")
			continue
		}
		curriculum.AddRequired(subjectID, semester)
	}

	if err := u.admin.CreateCurriculum(curriculum); err != nil {
		color.Red("Adding curriculum failed: %v", err)
		return
	}
	color.Green("Curriculum %s added.", curriculum.CurriculumID)
}

func renderStudents(students []types.Student) {
	if len(students) == 0 {
		color.Yellow("No students found.")
		return
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Student ID", "Name", "Age", "School", "Email", "Curriculum"})
	for _, s := range students {
		table.Append([]string{
			s.StudentID, s.FullName(), strconv.Itoa(s.Age()), s.School, s.Email,
			format.CurriculumID(s.CurriculumID),
		})
	}
	table.Render()
}

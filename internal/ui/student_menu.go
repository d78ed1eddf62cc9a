package ui

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/kmitl-se/enrollment/internal/format"
	"github.com/kmitl-se/enrollment/internal/service"
)

// studentMenu shows one round of the student menu and handles the
// chosen action.
func (u *UI) studentMenu() {
	current, ok := u.session.Current()
	if !ok {
		return
	}

	color.Cyan("\n=== Student Menu — %s ===", current.FullName())
	fmt.Println("1. View Profile")
	fmt.Println("2. View Registered Subjects")
	fmt.Println("3. View Available Subjects")
	fmt.Println("4. Register for a Subject")
	fmt.Println("5. Logout")

	switch u.prompt("Enter your choice: ") {
	case "1":
		u.showProfile(current.StudentID)
	case "2":
		u.showRegisteredSubjects(current.StudentID)
	case "3":
		u.showAvailableSubjects(current.StudentID)
	case "4":
		u.registerSubject(current.StudentID)
	case "5":
		u.auth.Logout()
	default:
		color.Red("Invalid choice. Please try again.")
	}
}

func (u *UI) showProfile(studentID string) {
	if !u.students.CanViewProfile(studentID) {
		color.Red("You are not authorized to view this profile.")
		return
	}
	student, ok := u.students.ByID(studentID)
	if !ok {
		color.Red("Student %s not found.", studentID)
		return
	}

	color.Cyan("\n--- Profile ---")
	fmt.Printf("Student ID:  %s\n", student.StudentID)
	fmt.Printf("Name:        %s\n", student.FullName())
	fmt.Printf("Birth date:  %s (age %d)\n", format.Date(student.BirthDate), student.Age())
	fmt.Printf("School:      %s\n", student.School)
	fmt.Printf("Email:       %s\n", student.Email)

	if curriculum, ok := u.students.CurriculumForStudent(studentID); ok {
		fmt.Printf("Curriculum:  %s (%s)\n", curriculum.Name, curriculum.CurriculumID)
	} else {
		fmt.Printf("Curriculum:  %s\n", format.CurriculumID(student.CurriculumID))
	}
}

func (u *UI) showRegisteredSubjects(studentID string) {
	details := u.students.RegisteredSubjectDetails(studentID)
	if len(details) == 0 {
		color.Yellow("No registered subjects.")
		return
	}
	renderSubjectDetails(details)
}

func (u *UI) showAvailableSubjects(studentID string) {
	subjects := u.students.AvailableSubjects(studentID)
	if len(subjects) == 0 {
		color.Yellow("No subjects available for registration.")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Subject ID", "Name", "Credits", "Instructor", "Prerequisite"})
	for _, s := range subjects {
		prereq := s.PrerequisiteID
		if prereq == "" {
			prereq = "-"
		}
		table.Append([]string{s.SubjectID, s.Name, strconv.Itoa(s.Credits), s.Instructor, prereq})
	}
	table.Render()
}

func (u *UI) registerSubject(studentID string) {
	subjectID := u.prompt("Enter subject ID to register: ")

	if err := u.registration.Register(studentID, subjectID); err != nil {
		switch {
		case errors.Is(err, service.ErrSubjectNotFound):
			color.Red("Subject %s does not exist.", subjectID)
		case errors.Is(err, service.ErrPrerequisiteNotMet):
			color.Red("Cannot register: prerequisite not completed.")
		default:
			color.Red("Registration failed: %v", err)
		}
		return
	}
	color.Green("Registered for subject %s.", subjectID)
}

// renderSubjectDetails renders a registration-with-subject table shared
// by the student and admin views.
func renderSubjectDetails(details []service.RegisteredSubjectDetail) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Subject ID", "Name", "Credits", "Instructor", "Grade"})
	for _, d := range details {
		table.Append([]string{
			d.Subject.SubjectID,
			d.Subject.Name,
			strconv.Itoa(d.Subject.Credits),
			d.Subject.Instructor,
			format.Grade(d.Grade),
		})
	}
	table.Render()
}

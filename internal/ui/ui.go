// Package ui contains the thin console views: a login screen, the
// student menu, and the admin menu. Views only call into the services
// and render results; every business rule lives below this layer.
//
// Views receive their dependencies through the constructor, the same
// injection pattern the services use: New is called once at startup and
// the returned UI runs the interactive loop.
package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/kmitl-se/enrollment/internal/service"
)

// UI drives the interactive session.
type UI struct {
	in           *bufio.Scanner
	auth         *service.Auth
	session      *service.Session
	students     *service.Student
	admin        *service.Admin
	registration *service.Registration
}

// New wires the views to the services.
func New(auth *service.Auth, session *service.Session, students *service.Student,
	admin *service.Admin, registration *service.Registration) *UI {
	return &UI{
		in:           bufio.NewScanner(os.Stdin),
		auth:         auth,
		session:      session,
		students:     students,
		admin:        admin,
		registration: registration,
	}
}

// Run loops between the login screen and the menu for the logged-in
// role until the user exits.
func (u *UI) Run() {
	for {
		if !u.session.IsLoggedIn() {
			if !u.loginScreen() {
				color.Green("Goodbye!")
				return
			}
			continue
		}
		if u.session.IsAdmin() {
			u.adminMenu()
		} else {
			u.studentMenu()
		}
	}
}

// loginScreen prompts for credentials. Returns false when the user
// chooses to exit instead of logging in.
func (u *UI) loginScreen() bool {
	color.Cyan("\n=== Subject Enrollment System ===")
	fmt.Println("1. Login")
	fmt.Println("2. Exit")

	switch u.prompt("Enter your choice: ") {
	case "1":
		email := u.prompt("Email: ")
		password := u.prompt("Password: ")
		if _, err := u.auth.Authenticate(email, password); err != nil {
			color.Red("Login failed: %v", err)
		}
		return true
	case "2":
		return false
	default:
		color.Red("Invalid choice. Please try again.")
		return true
	}
}

// prompt prints the message and reads one trimmed line from stdin.
func (u *UI) prompt(msg string) string {
	fmt.Print(msg)
	if !u.in.Scan() {
		return ""
	}
	return strings.TrimSpace(u.in.Text())
}

package service

import "github.com/kmitl-se/enrollment/internal/types"

// Session tracks the currently authenticated user for one interactive
// run of the application. It is presentation-adjacent state: the core
// repository knows nothing about it.
type Session struct {
	current *types.Student
}

// NewSession returns an empty (logged-out) session.
func NewSession() *Session {
	return &Session{}
}

// Login records the given student as the current user.
func (s *Session) Login(student types.Student) {
	s.current = &student
}

// Logout clears the current user.
func (s *Session) Logout() {
	s.current = nil
}

// Current returns the logged-in student, and false when nobody is
// logged in.
func (s *Session) Current() (types.Student, bool) {
	if s.current == nil {
		return types.Student{}, false
	}
	return *s.current, true
}

// IsLoggedIn reports whether a user is logged in.
func (s *Session) IsLoggedIn() bool {
	return s.current != nil
}

// IsAdmin reports whether the current user is the administrator.
func (s *Session) IsAdmin() bool {
	return s.current != nil && s.current.Admin
}

// Package service contains the business-rule orchestration on top of
// the repository: the registration/prerequisite engine, grading,
// authentication, session state, and the query surfaces the views
// consume.
//
// Every rejection carries its own sentinel error so the presentation
// layer can show an accurate message; the services never collapse
// distinct failure reasons into a generic one.
package service

import "errors"

var (
	// ErrSubjectNotFound rejects a registration for a subject that does
	// not exist.
	ErrSubjectNotFound = errors.New("subject not found")

	// ErrAlreadyRegistered rejects a registration the student already
	// holds, graded or not.
	ErrAlreadyRegistered = errors.New("already registered for subject")

	// ErrPrerequisiteNotMet rejects a registration whose subject has a
	// prerequisite the student has not completed.
	ErrPrerequisiteNotMet = errors.New("prerequisite not completed")

	// ErrInvalidCredentials rejects a login with an unknown email or a
	// wrong password. Deliberately one error for both, so login probing
	// cannot tell accounts apart.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotAuthorized rejects an operation the current session may not
	// perform.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrUnderage rejects creation of a student below the minimum age.
	ErrUnderage = errors.New("student below minimum age")
)

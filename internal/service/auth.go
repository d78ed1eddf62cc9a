package service

import (
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/kmitl-se/enrollment/internal/repository"
	"github.com/kmitl-se/enrollment/internal/types"
)

// Auth authenticates users against the repository. The repository only
// exposes the lookup by email; credential verification lives here, via
// bcrypt hash comparison.
type Auth struct {
	repo    *repository.Repository
	session *Session
	log     *slog.Logger
}

// NewAuth constructs the authentication service.
func NewAuth(repo *repository.Repository, session *Session, log *slog.Logger) *Auth {
	return &Auth{repo: repo, session: session, log: log}
}

// Authenticate verifies the credentials and, on success, logs the
// student into the session. An unknown email and a wrong password both
// fail with ErrInvalidCredentials.
func (a *Auth) Authenticate(email, password string) (types.Student, error) {
	student, ok := a.repo.StudentByEmail(email)
	if !ok {
		a.log.Info("login failed", slog.String("email", email))
		return types.Student{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(password)); err != nil {
		a.log.Info("login failed", slog.String("email", email))
		return types.Student{}, ErrInvalidCredentials
	}

	a.session.Login(student)
	a.log.Info("login succeeded",
		slog.String("email", email),
		slog.Bool("admin", student.Admin))
	return student, nil
}

// Logout ends the current session.
func (a *Auth) Logout() {
	a.session.Logout()
}

// Package sqlite provides the SQLite-backed implementation of the
// storage.Storage codec.
//
// WHY SQLite?
// ───────────
// SQLite stores everything in a single file on disk. There is no
// network, no separate server process, and no installation beyond the
// driver — which is exactly the footprint this system wants: one
// writable data directory and durable state that survives restarts.
//
// The four entity collections map to four tables. Save rewrites all
// four inside one transaction, so the on-disk state is always a
// complete serialization of the in-memory state at some point in time.
//
// The blank import below registers the sqlite3 driver with database/sql.
// The driver's init() function does this automatically when the package
// is loaded — we never call anything from it directly.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kmitl-se/enrollment/internal/config"
	"github.com/kmitl-se/enrollment/internal/storage"
	"github.com/kmitl-se/enrollment/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
type SQLite struct {
	db *sql.DB
}

// dateLayout is how birth dates are stored. Only the calendar date is
// meaningful for age computation.
const dateLayout = "2006-01-02"

// New opens (or creates) the database file at cfg.StoragePath, creates
// the four tables if they do not already exist, and returns a
// ready-to-use codec. The parent directory is created when absent.
func New(cfg *config.Config) (*SQLite, error) {
	if dir := filepath.Dir(cfg.StoragePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite.New: create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent — safe to run on every
	// startup.
	//
	// Grade is nullable: NULL means "not yet graded" and must round-trip
	// as an absent grade, distinct from any member of the grade set.
	// Curriculum required-subject pairs are an ordered list, serialized
	// as JSON inside the curriculum row so each entity collection stays
	// a single backing record.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			student_id    TEXT    NOT NULL,
			title         TEXT    NOT NULL,
			first_name    TEXT    NOT NULL,
			last_name     TEXT    NOT NULL,
			birth_date    TEXT    NOT NULL,
			school        TEXT    NOT NULL,
			email         TEXT    NOT NULL,
			curriculum_id TEXT    NOT NULL,
			password_hash TEXT    NOT NULL,
			admin         INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS subjects (
			subject_id      TEXT    NOT NULL,
			name            TEXT    NOT NULL,
			credits         INTEGER NOT NULL,
			instructor      TEXT    NOT NULL,
			prerequisite_id TEXT    NOT NULL
		);
		CREATE TABLE IF NOT EXISTS curriculums (
			curriculum_id TEXT NOT NULL,
			name          TEXT NOT NULL,
			department    TEXT NOT NULL,
			required      TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS registrations (
			student_id TEXT NOT NULL,
			subject_id TEXT NOT NULL,
			grade      TEXT
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: create tables: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// ─────────────────────────────────────────────────────────────────────────────
// Save replaces the entire persisted state with the given snapshot.
//
// All four tables are rewritten inside a single transaction: either the
// whole snapshot lands on disk or none of it does, so a crash mid-save
// never leaves a half-written mix of old and new collections.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Save(snap storage.Snapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("sqlite.Save: begin: %w", err)
	}
	// Rollback is a no-op after a successful Commit.
	defer tx.Rollback()

	for _, table := range []string{"students", "subjects", "curriculums", "registrations"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("sqlite.Save: clear %s: %w", table, err)
		}
	}

	if err := saveStudents(tx, snap.Students); err != nil {
		return err
	}
	if err := saveSubjects(tx, snap.Subjects); err != nil {
		return err
	}
	if err := saveCurriculums(tx, snap.Curriculums); err != nil {
		return err
	}
	if err := saveRegistrations(tx, snap.Registrations); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite.Save: commit: %w", err)
	}
	return nil
}

func saveStudents(tx *sql.Tx, students []types.Student) error {
	stmt, err := tx.Prepare(`
		INSERT INTO students
			(student_id, title, first_name, last_name, birth_date,
			 school, email, curriculum_id, password_hash, admin)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("sqlite.Save: prepare students: %w", err)
	}
	defer stmt.Close()

	for _, st := range students {
		_, err := stmt.Exec(
			st.StudentID, st.Title, st.FirstName, st.LastName,
			st.BirthDate.Format(dateLayout),
			st.School, st.Email, st.CurriculumID, st.PasswordHash, st.Admin,
		)
		if err != nil {
			return fmt.Errorf("sqlite.Save: insert student %s: %w", st.StudentID, err)
		}
	}
	return nil
}

func saveSubjects(tx *sql.Tx, subjects []types.Subject) error {
	stmt, err := tx.Prepare(`
		INSERT INTO subjects (subject_id, name, credits, instructor, prerequisite_id)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("sqlite.Save: prepare subjects: %w", err)
	}
	defer stmt.Close()

	for _, sub := range subjects {
		_, err := stmt.Exec(sub.SubjectID, sub.Name, sub.Credits, sub.Instructor, sub.PrerequisiteID)
		if err != nil {
			return fmt.Errorf("sqlite.Save: insert subject %s: %w", sub.SubjectID, err)
		}
	}
	return nil
}

func saveCurriculums(tx *sql.Tx, curriculums []types.Curriculum) error {
	stmt, err := tx.Prepare(`
		INSERT INTO curriculums (curriculum_id, name, department, required)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("sqlite.Save: prepare curriculums: %w", err)
	}
	defer stmt.Close()

	for _, c := range curriculums {
		required, err := json.Marshal(c.Required)
		if err != nil {
			return fmt.Errorf("sqlite.Save: encode curriculum %s: %w", c.CurriculumID, err)
		}
		if _, err := stmt.Exec(c.CurriculumID, c.Name, c.Department, string(required)); err != nil {
			return fmt.Errorf("sqlite.Save: insert curriculum %s: %w", c.CurriculumID, err)
		}
	}
	return nil
}

func saveRegistrations(tx *sql.Tx, registrations []types.Registration) error {
	stmt, err := tx.Prepare(`
		INSERT INTO registrations (student_id, subject_id, grade)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("sqlite.Save: prepare registrations: %w", err)
	}
	defer stmt.Close()

	for _, r := range registrations {
		// Absent grade is stored as NULL, never as the empty string.
		var grade any
		if r.Grade != "" {
			grade = r.Grade
		}
		if _, err := stmt.Exec(r.StudentID, r.SubjectID, grade); err != nil {
			return fmt.Errorf("sqlite.Save: insert registration %s/%s: %w", r.StudentID, r.SubjectID, err)
		}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Load reads all four collections back, in insertion order.
//
// found is false when every table is empty — the bootstrap dataset
// populates all four collections and records are never deleted, so an
// all-empty store can only mean "no prior data".
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Load() (storage.Snapshot, bool, error) {
	var snap storage.Snapshot

	students, err := s.loadStudents()
	if err != nil {
		return snap, false, err
	}
	subjects, err := s.loadSubjects()
	if err != nil {
		return snap, false, err
	}
	curriculums, err := s.loadCurriculums()
	if err != nil {
		return snap, false, err
	}
	registrations, err := s.loadRegistrations()
	if err != nil {
		return snap, false, err
	}

	snap = storage.Snapshot{
		Students:      students,
		Subjects:      subjects,
		Curriculums:   curriculums,
		Registrations: registrations,
	}
	found := len(students)+len(subjects)+len(curriculums)+len(registrations) > 0
	return snap, found, nil
}

func (s *SQLite) loadStudents() ([]types.Student, error) {
	rows, err := s.db.Query(`
		SELECT student_id, title, first_name, last_name, birth_date,
		       school, email, curriculum_id, password_hash, admin
		FROM students ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite.Load: students: %w", err)
	}
	defer rows.Close()

	students := make([]types.Student, 0)
	for rows.Next() {
		var st types.Student
		var birthDate string
		if err := rows.Scan(
			&st.StudentID, &st.Title, &st.FirstName, &st.LastName, &birthDate,
			&st.School, &st.Email, &st.CurriculumID, &st.PasswordHash, &st.Admin,
		); err != nil {
			return nil, fmt.Errorf("sqlite.Load: scan student: %w", err)
		}
		st.BirthDate, err = time.Parse(dateLayout, birthDate)
		if err != nil {
			return nil, fmt.Errorf("sqlite.Load: birth date of %s: %w", st.StudentID, err)
		}
		students = append(students, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite.Load: students iteration: %w", err)
	}
	return students, nil
}

func (s *SQLite) loadSubjects() ([]types.Subject, error) {
	rows, err := s.db.Query(`
		SELECT subject_id, name, credits, instructor, prerequisite_id
		FROM subjects ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite.Load: subjects: %w", err)
	}
	defer rows.Close()

	subjects := make([]types.Subject, 0)
	for rows.Next() {
		var sub types.Subject
		if err := rows.Scan(&sub.SubjectID, &sub.Name, &sub.Credits, &sub.Instructor, &sub.PrerequisiteID); err != nil {
			return nil, fmt.Errorf("sqlite.Load: scan subject: %w", err)
		}
		subjects = append(subjects, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite.Load: subjects iteration: %w", err)
	}
	return subjects, nil
}

func (s *SQLite) loadCurriculums() ([]types.Curriculum, error) {
	rows, err := s.db.Query(`
		SELECT curriculum_id, name, department, required
		FROM curriculums ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite.Load: curriculums: %w", err)
	}
	defer rows.Close()

	curriculums := make([]types.Curriculum, 0)
	for rows.Next() {
		var c types.Curriculum
		var required string
		if err := rows.Scan(&c.CurriculumID, &c.Name, &c.Department, &required); err != nil {
			return nil, fmt.Errorf("sqlite.Load: scan curriculum: %w", err)
		}
		if err := json.Unmarshal([]byte(required), &c.Required); err != nil {
			return nil, fmt.Errorf("sqlite.Load: decode curriculum %s: %w", c.CurriculumID, err)
		}
		curriculums = append(curriculums, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite.Load: curriculums iteration: %w", err)
	}
	return curriculums, nil
}

func (s *SQLite) loadRegistrations() ([]types.Registration, error) {
	rows, err := s.db.Query(`
		SELECT student_id, subject_id, grade
		FROM registrations ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite.Load: registrations: %w", err)
	}
	defer rows.Close()

	registrations := make([]types.Registration, 0)
	for rows.Next() {
		var r types.Registration
		var grade sql.NullString
		if err := rows.Scan(&r.StudentID, &r.SubjectID, &grade); err != nil {
			return nil, fmt.Errorf("sqlite.Load: scan registration: %w", err)
		}
		if grade.Valid {
			r.Grade = grade.String
		}
		registrations = append(registrations, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite.Load: registrations iteration: %w", err)
	}
	return registrations, nil
}

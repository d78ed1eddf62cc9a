// Package storage defines the persistence contract for the enrollment
// core: a codec that can write the whole domain state durably and read
// it back.
//
// WHY AN INTERFACE?
// ─────────────────
// The repository (the in-memory authority over all records) should not
// know or care how state reaches disk. By depending only on this
// interface:
//
//   - Switching backing stores = implement the interface for the new
//     store, change one line in main.go. Zero repository changes.
//
//   - Writing tests = pass a fake that satisfies the interface. No real
//     database needed for unit tests of the repository.
package storage

import "github.com/kmitl-se/enrollment/internal/types"

// Snapshot is the full serializable domain state: the four entity
// collections, in their authoritative order. The repository persists a
// complete Snapshot after every mutation — there is no per-row or
// batched persistence.
type Snapshot struct {
	Students      []types.Student      `json:"students"`
	Subjects      []types.Subject      `json:"subjects"`
	Curriculums   []types.Curriculum   `json:"curriculums"`
	Registrations []types.Registration `json:"registrations"`
}

// Storage is the durable codec contract.
type Storage interface {
	// Load reads the four collections from the backing store. found is
	// false when no prior data exists, in which case the caller is
	// expected to bootstrap. A load failure is reported through err and
	// is treated by callers the same as found == false.
	Load() (snap Snapshot, found bool, err error)

	// Save writes all four collections, replacing any previous state.
	Save(snap Snapshot) error

	// Close releases the underlying store.
	Close() error
}

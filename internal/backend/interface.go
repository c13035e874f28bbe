package backend

import (
	"context"

	"ecowallet/internal/store"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the selected store and its cleanup function
type BackendResult struct {
	Store   store.Store
	Type    BackendType
	Cleanup CleanupFunc
}

// Factory creates stores based on configuration
type Factory interface {
	// CreateBackend selects and opens exactly one store implementation.
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Firestore specific
	FirebaseProjectID       string
	FirebaseClientEmail     string
	FirebasePrivateKey      string
	FirebaseCredentialsFile string

	// Memory backend specific
	DataDirectory string
}

// BackendType represents the type of backend
type BackendType string

const (
	AutoBackend      BackendType = "auto"
	MemoryBackend    BackendType = "memory"
	SQLiteBackend    BackendType = "sqlite"
	FirestoreBackend BackendType = "firestore"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case AutoBackend, MemoryBackend, SQLiteBackend, FirestoreBackend:
		return true
	default:
		return false
	}
}

package backend

import (
	"context"
	"fmt"
	"log/slog"

	"ecowallet/internal/store/firestore"
	"ecowallet/internal/store/memory"
	"ecowallet/internal/store/sqlite"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend. The auto type picks
// Firestore when credentials are configured and falls back to the memory
// store when they are missing or Firestore cannot be reached.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case FirestoreBackend:
		return f.createFirestoreBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	case AutoBackend:
		if !config.hasFirebaseCredentials() {
			f.logger.Warn("No Firebase credentials configured, using memory backend")
			return f.createMemoryBackend(config)
		}
		result, err := f.createFirestoreBackend(ctx, config)
		if err != nil {
			f.logger.Warn("Firestore unavailable, falling back to memory backend", "error", err)
			return f.createMemoryBackend(config)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	st, err := sqlite.New(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Store:   st,
		Type:    SQLiteBackend,
		Cleanup: st.Close,
	}, nil
}

func (f *DefaultFactory) createFirestoreBackend(ctx context.Context, config Config) (*BackendResult, error) {
	fsConfig := firestore.Config{
		ProjectID:       config.FirebaseProjectID,
		CredentialsFile: config.FirebaseCredentialsFile,
	}
	if config.FirebaseClientEmail != "" && config.FirebasePrivateKey != "" {
		creds, err := firestore.ServiceAccountJSON(config.FirebaseProjectID, config.FirebaseClientEmail, config.FirebasePrivateKey)
		if err != nil {
			return nil, fmt.Errorf("build Firebase credentials: %w", err)
		}
		fsConfig.CredentialsJSON = creds
	}

	st, err := firestore.New(ctx, fsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firestore store: %w", err)
	}

	f.logger.Info("Initialized Firestore backend", "project_id", config.FirebaseProjectID)

	return &BackendResult{
		Store:   st,
		Type:    FirestoreBackend,
		Cleanup: st.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	dataDir := config.DataDirectory
	if dataDir == "" {
		dataDir = "data"
	}

	st := memory.NewFromFiles(dataDir)

	f.logger.Info("Initialized memory backend", "data_directory", dataDir)

	return &BackendResult{
		Store:   st,
		Type:    MemoryBackend,
		Cleanup: st.Close,
	}, nil
}

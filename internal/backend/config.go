package backend

import (
	"fmt"

	"ecowallet/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	return fromAppConfig(appConfig, BackendType(appConfig.DataBackend))
}

// DirectFromAppConfig builds the config of the store a CLI talks to directly
// when the REST clear endpoint is unreachable.
func DirectFromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	bt := BackendType(appConfig.DirectBackend)
	if bt != SQLiteBackend && bt != FirestoreBackend {
		return Config{}, fmt.Errorf("direct backend must be sqlite or firestore, got %q", appConfig.DirectBackend)
	}
	return fromAppConfig(appConfig, bt)
}

func fromAppConfig(appConfig *config.Config, bt BackendType) (Config, error) {
	if !bt.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", bt)
	}

	return Config{
		Type: bt,

		SQLiteDBPath: appConfig.SQLiteDBPath,

		FirebaseProjectID:       appConfig.FirebaseProjectID,
		FirebaseClientEmail:     appConfig.FirebaseClientEmail,
		FirebasePrivateKey:      appConfig.FirebasePrivateKey,
		FirebaseCredentialsFile: appConfig.FirebaseCredentialsFile,

		DataDirectory: appConfig.MemorySeedDir,
	}, nil
}

// hasFirebaseCredentials mirrors config.Config.HasFirebaseCredentials.
func (c Config) hasFirebaseCredentials() bool {
	if c.FirebaseProjectID == "" {
		return false
	}
	return (c.FirebaseClientEmail != "" && c.FirebasePrivateKey != "") || c.FirebaseCredentialsFile != ""
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case FirestoreBackend:
		if !c.hasFirebaseCredentials() {
			return fmt.Errorf("Firebase project id and credentials are required for firestore backend")
		}
	case MemoryBackend, AutoBackend:
		// Memory needs nothing; auto decides at creation time.
	}

	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{AutoBackend, MemoryBackend, SQLiteBackend, FirestoreBackend}
}

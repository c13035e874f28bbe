package backend

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"ecowallet/internal/config"
)

func quietFactory() Factory {
	return NewFactory(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCreateBackend(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		wantType BackendType
		wantErr  bool
	}{
		{
			name:     "memory",
			config:   Config{Type: MemoryBackend, DataDirectory: t.TempDir()},
			wantType: MemoryBackend,
		},
		{
			name:     "sqlite",
			config:   Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "eco.db")},
			wantType: SQLiteBackend,
		},
		{
			name:     "auto without credentials falls back to memory",
			config:   Config{Type: AutoBackend, DataDirectory: t.TempDir()},
			wantType: MemoryBackend,
		},
		{
			name:    "firestore without credentials",
			config:  Config{Type: FirestoreBackend},
			wantErr: true,
		},
		{
			name:    "sqlite without path",
			config:  Config{Type: SQLiteBackend},
			wantErr: true,
		},
		{
			name:    "unknown type",
			config:  Config{Type: "sheets"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := quietFactory().CreateBackend(context.Background(), tt.config)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer result.Cleanup()
			if result.Type != tt.wantType {
				t.Errorf("type = %s, want %s", result.Type, tt.wantType)
			}
			if _, err := result.Store.ListTransactions(context.Background()); err != nil {
				t.Errorf("store not usable: %v", err)
			}
		})
	}
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}

	cfg := &config.Config{DataBackend: "sqlite", SQLiteDBPath: "./data/eco.db", MemorySeedDir: "seed"}
	bc, err := FromAppConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if bc.Type != SQLiteBackend || bc.SQLiteDBPath != "./data/eco.db" || bc.DataDirectory != "seed" {
		t.Fatalf("unexpected backend config: %+v", bc)
	}

	cfg.DirectBackend = "memory"
	if _, err := DirectFromAppConfig(cfg); err == nil {
		t.Fatal("memory accepted as direct backend")
	}
	cfg.DirectBackend = "sqlite"
	if bc, err := DirectFromAppConfig(cfg); err != nil || bc.Type != SQLiteBackend {
		t.Fatalf("direct config: %+v err=%v", bc, err)
	}
}

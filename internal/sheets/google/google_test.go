package google

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ecowallet/internal/sheets"
)

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{CredentialsJSON: "{}"})
	if err == nil {
		t.Fatal("expected error for missing spreadsheet id")
	}
	if err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{SpreadsheetID: "sheet"})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("expected missing credentials error, got %v", err)
	}
}

func TestCredentialsJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sa.json")
	if err := os.WriteFile(path, []byte(`{"type":"service_account"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		cfg     Config
		want    string
		wantErr bool
	}{
		{"inline wins", Config{CredentialsJSON: `{"inline":true}`, CredentialsFile: path}, `{"inline":true}`, false},
		{"file", Config{CredentialsFile: path}, `{"type":"service_account"}`, false},
		{"missing file", Config{CredentialsFile: filepath.Join(dir, "nope.json")}, "", true},
		{"nothing", Config{}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := credentialsJSON(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if string(got) != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestColumnName(t *testing.T) {
	tests := map[int]string{1: "A", 9: "I", 26: "Z", 27: "AA", 52: "AZ", 703: "AAA"}
	for n, want := range tests {
		if got := columnName(n); got != want {
			t.Errorf("columnName(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestUninitializedClient(t *testing.T) {
	c := &Client{spreadsheetID: "test", sheetName: "Ledger"}
	if _, err := c.AppendRow(context.Background(), []any{"x"}); err == nil {
		t.Fatal("expected error with nil service")
	}
	if err := c.EnsureHeader(context.Background()); err == nil {
		t.Fatal("expected error with nil service")
	}
	if got := c.headerRange(); got != "Ledger!A1:I1" {
		t.Fatalf("header range = %q (header has %d columns)", got, len(sheets.Header))
	}
}

//go:build integration

package google

import (
	"context"
	"os"
	"testing"
	"time"

	"ecowallet/internal/core"
	"ecowallet/internal/events"
	"ecowallet/internal/sheets"
)

// Integration tests require a real spreadsheet shared with the service account.
// Run with: go test -tags=integration ./internal/sheets/google

func TestIntegration_AppendLedgerRow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	spreadsheetID := os.Getenv("GOOGLE_SPREADSHEET_ID")
	if spreadsheetID == "" {
		t.Skip("GOOGLE_SPREADSHEET_ID not set, skipping integration test")
	}
	cfg := Config{
		SpreadsheetID:   spreadsheetID,
		SheetName:       os.Getenv("GOOGLE_SHEET_NAME"),
		CredentialsJSON: os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
		CredentialsFile: os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"),
	}
	if cfg.CredentialsJSON == "" && cfg.CredentialsFile == "" {
		t.Skip("service account not configured, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := client.EnsureHeader(ctx); err != nil {
		t.Fatalf("EnsureHeader: %v", err)
	}

	tx := core.Transaction{
		ID: "integration-" + time.Now().Format("150405"), Title: "Integration test",
		Category: "other", Amount: core.MustParseAmount("1.23"), Date: time.Now(), Type: core.Expense,
	}
	row, err := sheets.EventRow(events.NewTransactionEvent(events.TransactionCreated, tx))
	if err != nil {
		t.Fatalf("EventRow: %v", err)
	}
	ref, err := client.AppendRow(ctx, row)
	if err != nil {
		t.Fatalf("AppendRow: %v", err)
	}
	t.Logf("appended %s", ref)
}

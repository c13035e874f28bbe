package main

import (
	"context"
	"errors"
	"os"

	"ecowallet/internal/cli"
	"ecowallet/internal/events"
	"ecowallet/internal/log"
	"ecowallet/internal/metrics"
	gsheet "ecowallet/internal/sheets/google"
	"ecowallet/internal/worker"
)

func main() {
	cfg := cli.LoadConfig()
	logger := cli.SetupLogger(cfg, log.ComponentWorker, os.Stdout)
	logger.Info("Starting ecowallet-worker")
	cli.MustValidate(logger, cfg.ValidateWorker())

	sheetsClient, err := gsheet.New(context.Background(), gsheet.Config{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)

	amqpClient, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	consumeCtx, stopConsuming := context.WithCancel(context.Background())
	defer stopConsuming()

	ctx := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(context.Context) {
		stopConsuming()
	})

	mirror := worker.NewMirror(sheetsClient, metrics.New(), logger.WithComponent(log.ComponentSheets).Logger)
	if err := mirror.Start(consumeCtx); err != nil {
		// Rows can still be appended without a header.
		logger.Error("Failed to prepare ledger sheet", "error", err)
	}

	if err := amqpClient.Consume(consumeCtx, mirror.Handle); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Worker stopped")
}

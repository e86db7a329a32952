// Package google implements the spreadsheet port against the Google Sheets
// API using service account credentials.
package google

import (
	"context"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/sparklingTalent/Quickbook-account-automation/internal/config"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/core"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/log"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/sheets"
)

// clearRange bounds the wipe before each rewrite; reports never exceed it.
const clearRange = "A1:Z1000"

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	logger        *log.Logger
}

var _ sheets.RowWriter = (*Client)(nil)

// New creates a Sheets client from the service configuration. Credentials are
// resolved from inline JSON, a credentials file, or GOOGLE_APPLICATION_CREDENTIALS,
// in that order.
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Client, error) {
	if !cfg.SheetsConfigured() {
		return nil, core.ErrSheetsNotConfigured
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentSheets)
	}

	credentialsJSON, err := resolveCredentials(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.GoogleSpreadsheetID,
		logger:        logger,
	}, nil
}

func resolveCredentials(cfg *config.Config) ([]byte, error) {
	if json := strings.TrimSpace(cfg.GoogleServiceAccountJSON); json != "" {
		return []byte(json), nil
	}
	file := strings.TrimSpace(cfg.GoogleServiceAccountFile)
	if file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if file == "" {
		return nil, fmt.Errorf("%w: no service account credentials", core.ErrSheetsNotConfigured)
	}
	credentialsJSON, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return credentialsJSON, nil
}

// WriteSheet replaces the contents of sheetName with values, creating the
// sheet first when the spreadsheet does not have it yet.
func (c *Client) WriteSheet(ctx context.Context, sheetName string, values [][]interface{}) error {
	if err := c.ensureSheet(ctx, sheetName); err != nil {
		return err
	}

	rng := fmt.Sprintf("'%s'!%s", sheetName, clearRange)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("%w: clear %s: %v", core.ErrExporterUnavailable, sheetName, err)
	}

	body := &gsheet.ValueRange{Values: values}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, fmt.Sprintf("'%s'!A1", sheetName), body).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("%w: update %s: %v", core.ErrExporterUnavailable, sheetName, err)
	}

	c.logger.InfoContext(ctx, "Wrote sheet",
		log.FieldOperation, log.OpExport,
		log.FieldSheetName, sheetName,
		log.FieldRowCount, len(values))
	return nil
}

func (c *Client) ensureSheet(ctx context.Context, sheetName string) error {
	spreadsheet, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: get spreadsheet: %v", core.ErrExporterUnavailable, err)
	}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == sheetName {
			return nil
		}
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: sheetName},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("%w: add sheet %s: %v", core.ErrExporterUnavailable, sheetName, err)
	}
	c.logger.InfoContext(ctx, "Created sheet", log.FieldSheetName, sheetName)
	return nil
}

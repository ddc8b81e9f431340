// Package gsuite implements the sheet and blob collaborators on top of the
// Google Sheets and Drive APIs, authenticated with a service account.
package gsuite

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client bundles the Sheets and Drive services built from one credential.
type Client struct {
	sheets *sheets.Service
	drive  *drive.Service
}

// NewClient reads the service-account JSON and builds both API services.
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, drive.DriveScope, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account credentials: %w", err)
	}

	sheetsSvc, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("init sheets service: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("init drive service: %w", err)
	}

	return &Client{sheets: sheetsSvc, drive: driveSvc}, nil
}

// Spreadsheet binds the client to one spreadsheet, implementing the
// RuleSource and TabularSink gateways.
func (c *Client) Spreadsheet(spreadsheetID string) *Spreadsheet {
	return &Spreadsheet{svc: c.sheets, spreadsheetID: spreadsheetID}
}

// Drive exposes the blob-store gateway with a default parent folder.
func (c *Client) Drive(fallbackFolderID string) *Drive {
	return &Drive{svc: c.drive, fallbackFolderID: fallbackFolderID}
}

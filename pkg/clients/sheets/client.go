package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	sentMark        = "✓"

	// Data lives in the first three columns: Email | Timestamp (UTC) | Sent.
	headerRange = "A1:C1"
	dataRange   = "A:C"
	sentColumn  = "C"
)

var headerRow = []any{"Email", "Timestamp (UTC)", "Sent"}

// Store defines the interface for the waitlist row store.
// Implementations can be swapped between the Google Sheets client
// and a mock in tests.
type Store interface {
	// Append adds a row for email and returns its 1-based row index,
	// which equals the sheet's total row count after the append.
	Append(ctx context.Context, email string) (int, error)
	// MarkSent places a check mark in the Sent column of the given row.
	MarkSent(ctx context.Context, rowIndex int) error
}

// StoreError wraps failures from the spreadsheet backend so callers can
// distinguish store faults from the other pipeline stages.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("sheet %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

// Config holds the settings the sheet client needs.
type Config struct {
	SheetID   string
	CredsFile string
	CredsJSON string // base64-encoded service-account JSON; takes priority over CredsFile
}

// Client talks to the first worksheet of the configured Google Sheet.
type Client struct {
	svc     *gsheets.Service
	sheetID string
}

// NewClient authenticates with the service-account credentials from cfg and
// returns a Sheets-backed store.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	data, err := LoadCredentials(cfg)
	if err != nil {
		return nil, err
	}

	jwt, err := google.JWTConfigFromJSON(data, gsheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service-account credentials: %w", err)
	}

	svc, err := gsheets.NewService(ctx, option.WithHTTPClient(jwt.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{svc: svc, sheetID: cfg.SheetID}, nil
}

// Append ensures the header row exists, then appends a row with the email,
// the current UTC timestamp and an empty sent mark. The returned index is the
// 1-based position of the new row.
func (c *Client) Append(ctx context.Context, email string) (int, error) {
	if err := c.ensureHeader(ctx); err != nil {
		return 0, &StoreError{Op: "append", Err: err}
	}

	row := []any{email, time.Now().UTC().Format(timestampLayout), ""}
	resp, err := c.svc.Spreadsheets.Values.
		Append(c.sheetID, dataRange, &gsheets.ValueRange{Values: [][]any{row}}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return 0, &StoreError{Op: "append", Err: err}
	}
	if resp.Updates == nil {
		return 0, &StoreError{Op: "append", Err: fmt.Errorf("append response missing updated range")}
	}

	idx, err := rowIndexFromRange(resp.Updates.UpdatedRange)
	if err != nil {
		return 0, &StoreError{Op: "append", Err: err}
	}
	return idx, nil
}

// MarkSent writes a check mark into the Sent column of the given row.
func (c *Client) MarkSent(ctx context.Context, rowIndex int) error {
	if rowIndex < 1 {
		return &StoreError{Op: "mark sent", Err: fmt.Errorf("invalid row index %d", rowIndex)}
	}

	cell := fmt.Sprintf("%s%d", sentColumn, rowIndex)
	_, err := c.svc.Spreadsheets.Values.
		Update(c.sheetID, cell, &gsheets.ValueRange{Values: [][]any{{sentMark}}}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return &StoreError{Op: "mark sent", Err: err}
	}
	return nil
}

// ensureHeader inserts the header row at the top unless the first cell
// already reads "Email". Existing data is shifted down, not overwritten.
func (c *Client) ensureHeader(ctx context.Context) error {
	resp, err := c.svc.Spreadsheets.Values.Get(c.sheetID, headerRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read header row: %w", err)
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 && resp.Values[0][0] == headerRow[0] {
		return nil
	}

	// The first worksheet keeps its id across renames but not across
	// recreation, so it has to be resolved rather than assumed to be 0.
	worksheetID, err := c.firstWorksheetID(ctx)
	if err != nil {
		return err
	}

	_, err = c.svc.Spreadsheets.BatchUpdate(c.sheetID, &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			InsertDimension: &gsheets.InsertDimensionRequest{
				Range: &gsheets.DimensionRange{
					SheetId:    worksheetID,
					Dimension:  "ROWS",
					StartIndex: 0,
					EndIndex:   1,
				},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to insert header row: %w", err)
	}

	_, err = c.svc.Spreadsheets.Values.
		Update(c.sheetID, headerRange, &gsheets.ValueRange{Values: [][]any{headerRow}}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}
	return nil
}

// firstWorksheetID looks up the id of the spreadsheet's first worksheet,
// which is where all waitlist data lives.
func (c *Client) firstWorksheetID(ctx context.Context) (int64, error) {
	meta, err := c.svc.Spreadsheets.Get(c.sheetID).
		Fields("sheets.properties.sheetId").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("failed to read spreadsheet metadata: %w", err)
	}
	if len(meta.Sheets) == 0 || meta.Sheets[0].Properties == nil {
		return 0, fmt.Errorf("spreadsheet has no worksheets")
	}
	return meta.Sheets[0].Properties.SheetId, nil
}

// rowIndexFromRange extracts the row number from an updated range like
// "Sheet1!A5:C5". Appends always land at the bottom, so the row number
// equals the sheet's total row count.
func rowIndexFromRange(updatedRange string) (int, error) {
	rng := updatedRange
	if i := strings.LastIndex(rng, "!"); i >= 0 {
		rng = rng[i+1:]
	}
	if i := strings.Index(rng, ":"); i >= 0 {
		rng = rng[:i]
	}
	digits := strings.TrimLeft(rng, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	idx, err := strconv.Atoi(digits)
	if err != nil || idx < 1 {
		return 0, fmt.Errorf("unexpected updated range %q", updatedRange)
	}
	return idx, nil
}

package sheets

import gsheets "google.golang.org/api/sheets/v4"

func NewTestClient(svc *gsheets.Service, sheetID string) *Client {
	return &Client{svc: svc, sheetID: sheetID}
}

func RowIndexFromRange(updatedRange string) (int, error) {
	return rowIndexFromRange(updatedRange)
}

package sheetsclient

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/jakechorley/rostergrid/internal/config"
	"github.com/jakechorley/rostergrid/pkg/utils"
)

// Client wraps the Google Sheets API client
type Client struct {
	service *sheets.Service
}

// NewClient creates a new Sheets client using OAuth credentials and performs the OAuth flow if needed.
// Tokens are persisted to disk for the given environment.
func NewClient(ctx context.Context, oauthCfg *config.OAuthClientConfig, env string, logger *zap.Logger) (*Client, error) {
	oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth config: %w", err)
	}

	store, err := utils.DefaultTokenStore(env)
	if err != nil {
		return nil, err
	}

	token, err := utils.NewAuthorizer(oauthConfig, store, logger).Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth token: %w", err)
	}

	httpClient := oauthConfig.Client(ctx, token)

	service, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{service: service}, nil
}

func (c *Client) batch(spreadsheetID string, requests ...*sheets.Request) (*sheets.BatchUpdateSpreadsheetResponse, error) {
	return c.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Do()
}

// resetTab returns the id of an empty tab with the given title, adding the tab
// when the spreadsheet has none and wiping values and formats when it does
func (c *Client) resetTab(spreadsheetID, title string) (int64, error) {
	spreadsheet, err := c.service.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties").Do()
	if err != nil {
		return 0, fmt.Errorf("failed to get spreadsheet metadata: %w", err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties.Title != title {
			continue
		}
		id := sheet.Properties.SheetId
		_, err := c.batch(spreadsheetID, &sheets.Request{
			UpdateCells: &sheets.UpdateCellsRequest{
				Range:  &sheets.GridRange{SheetId: id},
				Fields: "userEnteredValue,userEnteredFormat",
			},
		})
		if err != nil {
			return 0, fmt.Errorf("failed to clear tab %q: %w", title, err)
		}
		return id, nil
	}

	resp, err := c.batch(spreadsheetID, &sheets.Request{
		AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: title}},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to add tab %q: %w", title, err)
	}
	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil {
		return 0, fmt.Errorf("unexpected response adding tab %q", title)
	}
	return resp.Replies[0].AddSheet.Properties.SheetId, nil
}

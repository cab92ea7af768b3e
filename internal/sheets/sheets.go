// Package sheets reads alumni rows from the external spreadsheet source. The
// source is consumed through its published-CSV export URL, which keeps the
// integration free of any vendor SDK.
package sheets

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client is the spreadsheet-source contract: a sequence of header-keyed rows.
type Client interface {
	FetchRows(ctx context.Context) ([]map[string]any, error)
}

// CSVClient fetches the published-CSV export of the source spreadsheet.
type CSVClient struct {
	url        string
	httpClient *http.Client
}

// NewCSVClient creates a client for a published-CSV export URL.
func NewCSVClient(url string) *CSVClient {
	return &CSVClient{
		url: url,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchRows downloads the sheet and returns one map per data row, keyed by
// the snake_cased header row. Short rows are padded with empty values.
func (c *CSVClient) FetchRows(ctx context.Context) ([]map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build sheet request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sheet fetch returned status %d", resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse sheet CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = headerKey(h)
	}

	records := make([]map[string]any, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]any, len(headers))
		for i, key := range headers {
			if key == "" {
				continue
			}
			if i < len(row) {
				record[key] = row[i]
			} else {
				record[key] = ""
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// headerKey folds a column header to the canonical snake_case field name
// ("Graduation Year" -> "graduation_year").
func headerKey(header string) string {
	key := strings.ToLower(strings.TrimSpace(header))
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	return key
}

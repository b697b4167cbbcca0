package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/noah-isme/studybloom-api/internal/models"
	"github.com/noah-isme/studybloom-api/pkg/config"
)

// Lookup resolves the national holidays for a year. Implementations return an
// error for any failure; callers treat every failure as "no holidays known".
type Lookup interface {
	Holidays(ctx context.Context, year int) ([]models.Holiday, error)
}

// Client fetches national holidays from BrasilAPI.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// NewClient constructs a holiday client.
func NewClient(cfg config.HolidayConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		timeout: timeout,
		http:    &http.Client{},
	}
}

type holidayRecord struct {
	Date string `json:"date"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Holidays returns the holidays for the given year.
func (c *Client) Holidays(ctx context.Context, year int) ([]models.Holiday, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/api/feriados/v1/%d", c.baseURL, year)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build holiday request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch holidays for %d: %w", year, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holiday lookup returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read holiday response: %w", err)
	}

	var records []holidayRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decode holiday response: %w", err)
	}

	holidays := make([]models.Holiday, 0, len(records))
	for _, record := range records {
		date, err := models.ParseDate(record.Date)
		if err != nil {
			// Skip malformed entries instead of discarding the whole year.
			continue
		}
		holidays = append(holidays, models.Holiday{
			Date: date,
			Name: record.Name,
			Type: record.Type,
		})
	}
	return holidays, nil
}

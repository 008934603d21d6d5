package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// StatusError is returned when the service answers with a non-200 status.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("leaderboard: %s", http.StatusText(e.Code))
	}
	return fmt.Sprintf("leaderboard: %s: %s", http.StatusText(e.Code), e.Message)
}

// Client talks to a leaderboard service.
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a client for the service at baseURL. A nil httpClient
// uses a client with a 10 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{base: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Submit posts a score. Invalid input is rejected locally with the same
// errors the service would report.
func (c *Client) Submit(ctx context.Context, username string, score int) error {
	sub := Submission{Username: username, Score: score}
	if err := sub.Validate(); err != nil {
		return err
	}
	body, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/record", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, nil)
}

// Records fetches one page of records in the given order.
func (c *Client) Records(ctx context.Context, page int, sorting Sorting) ([]Record, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("sorting", string(sorting))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/records?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	var records []Record
	if err := c.do(req, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("leaderboard request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return &StatusError{Code: resp.StatusCode, Message: body.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Package rest syncs the ledger with a PostgREST backend such as Supabase. Every row
// is scoped to a single user id.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	tableExpenses      = "expenses"
	tableCategories    = "categories"
	tableSavingTargets = "saving_targets"
)

// APIError is returned for non-2xx responses.
type APIError struct {
	Method     string
	Table      string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.Table, e.StatusCode, e.Body)
}

type Client struct {
	baseURL string
	apiKey  string
	userID  string
	client  *http.Client
	now     func() time.Time
}

// NewClient points at the REST root, e.g. https://<project>.supabase.co/rest/v1.
func NewClient(baseURL, apiKey, userID string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		userID:  userID,
		client:  &http.Client{Timeout: timeout},
		now:     time.Now,
	}
}

// eq builds a PostgREST equality filter.
func eq(v string) string {
	return "eq." + v
}

// userFilter returns a filter scoped to the client's user plus the given column filters,
// passed as column/value pairs.
func (c *Client) userFilter(pairs ...string) url.Values {
	q := url.Values{}
	q.Set("user_id", eq(c.userID))

	for i := 0; i+1 < len(pairs); i += 2 {
		q.Set(pairs[i], eq(pairs[i+1]))
	}

	return q
}

func (c *Client) do(ctx context.Context, method, table string, query url.Values, body, out any) error {
	u := c.baseURL + "/" + table
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}

		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=minimal")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

		return &APIError{
			Method:     method,
			Table:      table,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(msg)),
		}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", table, err)
	}

	return nil
}

package evaluator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hwstatus/dispatch"
)

// Remote asks an external capacity service for the classification.
//
//	GET {base}/availability?provider=AWS&name=c5.large
//	{"availability": "HIGH"}
type Remote struct {
	baseURL string
	client  *http.Client
}

type availabilityResponse struct {
	Availability string `json:"availability"`
	Error        string `json:"error,omitempty"`
}

type PingResponse struct {
	Product string `json:"product"`
	Version string `json:"version"`
}

func NewRemote(baseURL string, timeout time.Duration) *Remote {
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Remote) Evaluate(ctx context.Context, provider, name string) (dispatch.Status, error) {
	q := url.Values{}
	q.Set("provider", provider)
	q.Set("name", name)
	var resp availabilityResponse
	if err := c.get(ctx, "/availability?"+q.Encode(), &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", fmt.Errorf("capacity service: %s", resp.Error)
	}
	return dispatch.ParseStatus(resp.Availability)
}

// Ping checks that the capacity service is reachable.
func (c *Remote) Ping(ctx context.Context) (*PingResponse, error) {
	var resp PingResponse
	if err := c.get(ctx, "/ping", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Remote) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

package gateway

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

	"ohap/internal/domain"
)

// Client is the HTTP Gateway implementation.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Timeout    time.Duration
}

var _ Gateway = (*Client)(nil)

// NewClient creates a client with sane defaults.
func NewClient(baseURL string) *Client {
	timeout := 10 * time.Second
	return &Client{
		BaseURL:    baseURL,
		Timeout:    timeout,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Create(ctx context.Context, kind domain.Kind, entity, out any) error {
	return c.do(ctx, http.MethodPost, Route(kind), entity, out)
}

func (c *Client) Get(ctx context.Context, kind domain.Kind, id string, out any) error {
	return c.do(ctx, http.MethodGet, Route(kind)+"/"+url.PathEscape(id), nil, out)
}

func (c *Client) Update(ctx context.Context, kind domain.Kind, id string, fields map[string]any, out any) error {
	return c.do(ctx, http.MethodPatch, Route(kind)+"/"+url.PathEscape(id), fields, out)
}

func (c *Client) List(ctx context.Context, kind domain.Kind, filters map[string]string, out any) error {
	endpoint := Route(kind)
	if len(filters) > 0 {
		q := url.Values{}
		for k, v := range filters {
			q.Set(k, v)
		}
		endpoint += "?" + q.Encode()
	}
	return c.do(ctx, http.MethodGet, endpoint, nil, out)
}

// AcceptProposal asks the gateway to accept a proposal and returns the
// contract it created.
func (c *Client) AcceptProposal(ctx context.Context, proposalID string) (domain.Contract, error) {
	var contract domain.Contract
	endpoint := fmt.Sprintf("proposals/%s/accept", url.PathEscape(proposalID))
	err := c.do(ctx, http.MethodPost, endpoint, nil, &contract)
	return contract, err
}

// TaskProposals lists the proposals submitted for a task.
func (c *Client) TaskProposals(ctx context.Context, taskID string) ([]domain.Proposal, error) {
	var resp struct {
		Items []domain.Proposal `json:"items"`
	}
	endpoint := fmt.Sprintf("tasks/%s/proposals", url.PathEscape(taskID))
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp.Items, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	// Never write back to the struct: one client may be shared across
	// goroutines.
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: c.Timeout}
	}
	u := strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, u, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &TransportError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

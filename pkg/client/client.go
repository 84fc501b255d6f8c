package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/aria-hq/aria-protein-relay/internal/domain"
	"github.com/aria-hq/aria-protein-relay/pkg/httpclient"
)

// DefaultBaseURL is where a locally started relay listens.
const DefaultBaseURL = "http://localhost:8081"

const fallbackErrorMessage = "Failed to load protein"

// APIError is a non-2xx answer from the relay.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client talks to the relay's HTTP contract.
type Client struct {
	baseURL string
	http    *resty.Client
}

// New returns a client for the relay at baseURL. A zero timeout leaves
// requests unbounded, matching the relay's own outbound behaviour.
func New(baseURL string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    httpclient.NewRestyHTTPClient(timeout),
	}
}

// FetchStructure returns the structure file text for id.
func (c *Client) FetchStructure(ctx context.Context, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("structure id is empty")
	}
	body, err := c.get(ctx, "/api/pdb/"+url.PathEscape(id))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// SearchGene returns the reviewed entries matching geneName.
func (c *Client) SearchGene(ctx context.Context, geneName string) (*domain.SearchResult, error) {
	geneName = strings.TrimSpace(geneName)
	if geneName == "" {
		return nil, fmt.Errorf("gene name is empty")
	}
	body, err := c.get(ctx, "/api/search/"+url.PathEscape(geneName))
	if err != nil {
		return nil, err
	}
	var result domain.SearchResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode search result: %w", err)
	}
	return &result, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.http.R().SetContext(ctx).Get(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("relay request: %w", err)
	}
	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, &APIError{Status: resp.StatusCode(), Message: errorMessage(resp.Body())}
	}
	return resp.Body(), nil
}

func errorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && strings.TrimSpace(payload.Error) != "" {
		return payload.Error
	}
	return fallbackErrorMessage
}

package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/zeeshukhan/shopify-custom-app/pkg/httpclient"
)

// Config holds Shopify Admin API connection settings.
type Config struct {
	ShopDomain  string
	AccessToken string
	APIVersion  string

	// BaseURL, when set, overrides the derived admin endpoint. Used by tests
	// to point the client at a local server.
	BaseURL string
}

// Client executes queries and mutations against the Shopify Admin GraphQL API.
type Client struct {
	endpoint    string
	accessToken string
	http        *httpclient.CircuitBreakerClient
	logger      *slog.Logger
}

// NewClient creates a new Shopify Admin GraphQL client. Outbound calls go
// through a retrying HTTP client wrapped in a circuit breaker.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	endpoint := cfg.BaseURL
	if endpoint == "" {
		// Normalize the shop domain: no scheme, no trailing slash.
		domain := cfg.ShopDomain
		domain = strings.TrimPrefix(domain, "https://")
		domain = strings.TrimPrefix(domain, "http://")
		domain = strings.TrimSuffix(domain, "/")
		endpoint = fmt.Sprintf("https://%s/admin/api/%s/graphql.json", domain, cfg.APIVersion)
	}

	base := httpclient.New(httpclient.DefaultConfig())
	cb := httpclient.NewCircuitBreakerClient(base, httpclient.DefaultCircuitBreakerConfig("shopify-admin"), logger)

	return &Client{
		endpoint:    endpoint,
		accessToken: cfg.AccessToken,
		http:        cb,
		logger:      logger,
	}
}

// GraphQLRequest is the JSON body of an Admin API call.
type GraphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// GraphQLResponse is the top-level Admin API response envelope.
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// GraphQLError is a top-level GraphQL error (distinct from mutation userErrors).
type GraphQLError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// Execute posts a GraphQL document with variables to the Admin API and
// returns the decoded response. Top-level GraphQL errors are returned as a
// single error; mutation userErrors are left to the caller.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any) (*GraphQLResponse, error) {
	reqBody := GraphQLRequest{
		Query:     query,
		Variables: variables,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute graphql request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read graphql response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("shopify API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var graphQLResp GraphQLResponse
	if err := json.Unmarshal(body, &graphQLResp); err != nil {
		return nil, fmt.Errorf("unmarshal graphql response: %w", err)
	}

	if len(graphQLResp.Errors) > 0 {
		messages := make([]string, len(graphQLResp.Errors))
		for i, gqlErr := range graphQLResp.Errors {
			messages[i] = gqlErr.Message
		}
		return nil, fmt.Errorf("graphql errors: %s", strings.Join(messages, "; "))
	}

	return &graphQLResp, nil
}

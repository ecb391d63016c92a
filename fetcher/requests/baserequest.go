package requests

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"gridstats/pkg/config"
	"io"
	"net/http"
	"time"
)

// The provider occasionally hangs on file downloads, so every request
// carries an explicit deadline instead of relying on the transport default.
const requestTimeout = 30 * time.Second

var client = &http.Client{Timeout: requestTimeout}

// Do a authenticated request to the Grid API.
// Return the response.
func AuthRequest(ctx context.Context, url string, method string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	if config.Grid.ApiKey == "" {
		return nil, errors.New("can't do a authenticated request without the API key")
	}

	// Add the credential from the environment.
	req.Header.Set("x-api-key", config.Grid.ApiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return client.Do(req)
}

// GraphQLRequest posts a query with its variables to a GraphQL endpoint.
func GraphQLRequest(ctx context.Context, endpoint string, query string, variables map[string]any) (*http.Response, error) {
	payload, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return nil, fmt.Errorf("error encoding the query: %w", err)
	}

	return AuthRequest(ctx, endpoint, http.MethodPost, bytes.NewReader(payload))
}

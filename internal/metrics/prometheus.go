// Package metrics forwards PromQL instant queries to a Prometheus
// server. Queries and results are opaque: the dashboard widgets depend
// on the upstream response shape, so the body passes through unchanged.
package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/dawnfire/dashboard/internal/apperr"
	"github.com/dawnfire/dashboard/internal/upstream"
)

// Client queries a Prometheus HTTP API.
type Client struct {
	baseURL string
	httpCfg upstream.Config
	circuit *gobreaker.CircuitBreaker
}

// NewClient creates a Prometheus client for the given base URL.
func NewClient(client *http.Client, baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpCfg: upstream.Config{
			Client:  client,
			Backoff: upstream.DefaultBackoff(),
		},
		circuit: upstream.NewBreaker("prometheus"),
	}
}

// Query executes a PromQL instant query and returns the upstream JSON
// body verbatim. Configuration and input are checked before any
// network call.
func (c *Client) Query(ctx context.Context, query string) (json.RawMessage, error) {
	if c.baseURL == "" {
		return nil, apperr.Config("Prometheus URL not configured")
	}
	if query == "" {
		return nil, apperr.Validation("missing query parameter")
	}

	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s/api/v1/query?query=%s", c.baseURL, url.QueryEscape(query))
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := upstream.Do(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		var statusErr *upstream.StatusError
		if errors.As(err, &statusErr) {
			return nil, apperr.Upstream("prometheus", statusErr.Status)
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.UpstreamData("could not read prometheus response")
	}

	return json.RawMessage(body), nil
}

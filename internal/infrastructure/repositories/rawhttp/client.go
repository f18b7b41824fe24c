package rawhttp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
)

// maxBodySize bounds every body read from an upstream host.
const maxBodySize = 10 << 20

var errUnexpectedStatus = errors.New("unexpected status")

// Client performs single-shot GET requests. Failures are returned as *entities.FetchError.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
}

// New creates a Client on a pooled cleanhttp transport. Headers are sent with every request.
func New(headers map[string]string) *Client {
	return NewWithHTTPClient(cleanhttp.DefaultPooledClient(), headers)
}

// NewWithHTTPClient creates a Client on the given http.Client.
func NewWithHTTPClient(httpClient *http.Client, headers map[string]string) *Client {
	if httpClient == nil {
		httpClient = cleanhttp.DefaultPooledClient()
	}
	return &Client{httpClient: httpClient, headers: headers}
}

// Get returns the body of a 2xx response to GET url.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &entities.FetchError{URL: url, Err: fmt.Errorf("create request: %w", err)}
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &entities.FetchError{URL: url, Err: fmt.Errorf("send request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &entities.FetchError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &entities.FetchError{URL: url, StatusCode: resp.StatusCode, Err: errUnexpectedStatus}
	}
	return body, nil
}

// GetJSON decodes the body of a 2xx response to GET url into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	body, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(body, out); err != nil {
		return &entities.FetchError{URL: url, StatusCode: http.StatusOK, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// Package modrinth is a small client for the modrinth v2 api
package modrinth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

const DefaultAPIURL = "https://api.modrinth.com/"

var (
	// ErrInvalidProjectIDOrSlug is returned for empty project ids
	ErrInvalidProjectIDOrSlug = errors.New("invalid project ID or slug")
	// ErrResourceNotFound is returned for 404 responses
	ErrResourceNotFound = errors.New("resource not found")
)

type Client struct {
	http    *http.Client
	baseURL *url.URL
}

// New returns a client for the public api. A nil httpClient uses http.DefaultClient
func New(httpClient *http.Client) *Client {
	parsedDefaultURL, _ := url.Parse(DefaultAPIURL)

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		http:    httpClient,
		baseURL: parsedDefaultURL,
	}
}

// WithBaseURL returns a copy of the client that talks to baseURL
func (c *Client) WithBaseURL(baseURL string) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{http: c.http, baseURL: parsed}, nil
}

// url joins the addedPath to the baseURL (panics if new path can not be parsed)
func (c *Client) url(addedPath ...string) *url.URL {
	joined, err := url.JoinPath(c.baseURL.String(), addedPath...)
	if err != nil {
		panic(err)
	}

	url, err := url.Parse(joined)
	if err != nil {
		panic(err)
	}

	return url
}

// get is just a wrapper around http.Get() with context support
func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}

	return c.http.Do(req)
}

// decode is a helper that decodes json, and checks the status code
func decode(res *http.Response, v interface{}) error {
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		switch res.StatusCode {
		case http.StatusNotFound:
			return ErrResourceNotFound
		default:
			return fmt.Errorf("unexpected status code: %d", res.StatusCode)
		}
	}

	return json.NewDecoder(res.Body).Decode(v)
}

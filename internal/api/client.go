package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"country-editor/internal/model"

	"github.com/google/uuid"
)

const (
	DefaultStatePath  = "/api/defaultstate"
	CountryNamePrefix = "/api/countryname/"

	// RequestIDHeader carries a per-request id so server logs can be matched to
	// a load.
	RequestIDHeader = "X-Request-Id"

	maxBodyBytes = 8 << 20
)

type Client struct {
	baseURL      string
	http         *http.Client
	newRequestID func() string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithRequestIDs(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.newRequestID = fn
		}
	}
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("api: base url is empty")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("api: invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api: base url must be http(s): %s", baseURL)
	}
	c := &Client{
		baseURL:      baseURL,
		http:         &http.Client{Timeout: 30 * time.Second},
		newRequestID: uuid.NewString,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

// DefaultState fetches and decodes the default editor state.
func (c *Client) DefaultState(ctx context.Context) (model.DefaultState, error) {
	b, err := c.get(ctx, DefaultStatePath)
	if err != nil {
		return model.DefaultState{}, err
	}
	return DecodeDefaultState(b)
}

// CountryName returns the name service's raw answer for code, which may be
// model.NotAvailable.
func (c *Client) CountryName(ctx context.Context, code string) (string, error) {
	b, err := c.get(ctx, CountryNamePrefix+url.PathEscape(code))
	if err != nil {
		return "", err
	}
	return DecodeCountryName(b)
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	u := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, c.newRequestID())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &StatusError{URL: u, StatusCode: resp.StatusCode}
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &NetworkError{URL: u, Err: err}
	}
	return b, nil
}

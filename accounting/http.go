package accounting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/oauth2"
)

// ErrConfiguration indicates the OAuth application settings required to reach
// the provider are missing or incomplete.
var ErrConfiguration = errors.New("oauth application configuration missing")

// Config holds the provider endpoints and OAuth application settings.
type Config struct {
	// BaseURL is the root of the provider gateway, e.g. "https://api.example.com/v1".
	BaseURL string
	// OAuth application settings.
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	RedirectURI  string
	Scopes       []string
}

// OAuth2 returns the oauth2 configuration for the provider application.
func (c Config) OAuth2() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  c.AuthURL,
			TokenURL: c.TokenURL,
		},
		RedirectURL: c.RedirectURI,
		Scopes:      c.Scopes,
	}
}

var _ APIClient = (*HTTPClient)(nil)

// HTTPClient is an APIClient over the provider gateway's JSON API.
type HTTPClient struct {
	cfg    Config
	client *http.Client
}

// NewHTTPClient creates a client for the given configuration. A nil
// httpClient falls back to http.DefaultClient; timeouts and retries are the
// caller's concern.
func NewHTTPClient(cfg Config, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{cfg: cfg, client: httpClient}
}

// AuthorizationURL builds the provider authorization URL from the configured
// OAuth application. Deterministic for a fixed configuration.
func (c *HTTPClient) AuthorizationURL() (string, error) {
	if c.cfg.ClientID == "" || c.cfg.AuthURL == "" || c.cfg.RedirectURI == "" {
		return "", ErrConfiguration
	}
	return c.cfg.OAuth2().AuthCodeURL(""), nil
}

func (c *HTTPClient) Invoices(ctx context.Context, userID, orgID string, opts *ListOptions) ([]Invoice, error) {
	var out struct {
		Invoices []Invoice `json:"invoices"`
	}
	if err := c.get(ctx, "/invoices", userID, orgID, opts, &out); err != nil {
		return nil, err
	}
	if out.Invoices == nil {
		return []Invoice{}, nil
	}
	return out.Invoices, nil
}

func (c *HTTPClient) Customers(ctx context.Context, userID, orgID string, opts *ListOptions) ([]Customer, error) {
	// The provider names contact records "contacts" on the wire.
	var out struct {
		Contacts []Customer `json:"contacts"`
	}
	if err := c.get(ctx, "/contacts", userID, orgID, opts, &out); err != nil {
		return nil, err
	}
	if out.Contacts == nil {
		return []Customer{}, nil
	}
	return out.Contacts, nil
}

func (c *HTTPClient) Expenses(ctx context.Context, userID, orgID string, opts *ListOptions) ([]Expense, error) {
	var out struct {
		Expenses []Expense `json:"expenses"`
	}
	if err := c.get(ctx, "/expenses", userID, orgID, opts, &out); err != nil {
		return nil, err
	}
	if out.Expenses == nil {
		return []Expense{}, nil
	}
	return out.Expenses, nil
}

func (c *HTTPClient) ProfitAndLoss(ctx context.Context, userID, orgID string) (ReportSnapshot, error) {
	var out ReportSnapshot
	if err := c.get(ctx, "/reports/profit-and-loss", userID, orgID, nil, &out); err != nil {
		return ReportSnapshot{}, err
	}
	return out, nil
}

func (c *HTTPClient) Disconnect(ctx context.Context, userID string) error {
	u := c.cfg.BaseURL + "/disconnect"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	req.Header.Set("X-User-ID", userID)
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("disconnect: provider returned %s", resp.Status)
	}
	return nil
}

func (c *HTTPClient) get(ctx context.Context, path, userID, orgID string, opts *ListOptions, out interface{}) error {
	u, err := url.Parse(c.cfg.BaseURL + path)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	q := u.Query()
	q.Set("organization_id", orgID)
	if opts != nil && opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-User-ID", userID)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("get %s: provider returned %s", path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("get %s: decode: %w", path, err)
	}
	return nil
}

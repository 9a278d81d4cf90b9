package revolut

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/garrettladley/revhook/internal/xhttp"
	go_json "github.com/goccy/go-json"
	"golang.org/x/oauth2"
)

const (
	SandboxBaseURL    = "https://sandbox-merchant.revolut.com"
	ProductionBaseURL = "https://merchant.revolut.com"

	// DefaultAPIVersion is sent as Revolut-Api-Version on versioned endpoints.
	DefaultAPIVersion = "2024-09-01"

	headerAPIVersion = "Revolut-Api-Version"
)

type Client struct {
	Orders   OrderService
	Webhooks WebhookService

	baseURL    string
	apiVersion string
	httpClient *http.Client
	logger     *slog.Logger
}

// New returns a Merchant API client authenticating every request with the
// token from tokenSource. Use StaticSecret for a merchant secret key.
func New(tokenSource oauth2.TokenSource, opts ...Option) *Client {
	cfg := &clientConfig{
		baseURL:     SandboxBaseURL,
		apiVersion:  DefaultAPIVersion,
		tokenSource: tokenSource,
		logger:      slog.Default(),
		base:        xhttp.NewTransport(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	transport := &revolutTransport{
		base:        cfg.base,
		tokenSource: cfg.tokenSource,
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.baseURL, "/"),
		apiVersion: cfg.apiVersion,
		httpClient: &http.Client{Transport: transport, Timeout: cfg.timeout},
		logger:     cfg.logger,
	}

	c.Orders = &orderService{client: c}
	c.Webhooks = &webhookService{client: c}

	return c
}

// StaticSecret wraps a merchant secret key as a token source.
func StaticSecret(secret string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: secret, TokenType: "Bearer"})
}

type clientConfig struct {
	baseURL     string
	apiVersion  string
	tokenSource oauth2.TokenSource
	logger      *slog.Logger
	timeout     time.Duration
	base        http.RoundTripper
}

type Option func(*clientConfig)

func WithBaseURL(baseURL string) Option {
	return func(cfg *clientConfig) {
		if baseURL != "" {
			cfg.baseURL = baseURL
		}
	}
}

func WithAPIVersion(version string) Option {
	return func(cfg *clientConfig) {
		if version != "" {
			cfg.apiVersion = version
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *clientConfig) { cfg.logger = logger }
}

func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) { cfg.timeout = d }
}

// WithTransport replaces the underlying round tripper. Authentication is
// still layered on top of it.
func WithTransport(rt http.RoundTripper) Option {
	return func(cfg *clientConfig) { cfg.base = rt }
}

type request struct {
	method    string
	path      string
	body      any
	versioned bool
	expect    int
}

func (c *Client) do(ctx context.Context, r request, result any) error {
	var reader io.Reader
	if r.body != nil {
		data, err := go_json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if r.body != nil {
		xhttp.SetRequestHeaderContentTypeApplicationJSON(req)
	}
	if r.versioned {
		req.Header.Set(headerAPIVersion, c.apiVersion)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.DebugContext(ctx, "revolut api call",
		slog.String("method", r.method),
		slog.String("path", r.path),
		slog.Int("status", resp.StatusCode),
	)

	if resp.StatusCode >= 300 || (r.expect != 0 && resp.StatusCode != r.expect) {
		return parseAPIError(resp)
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}
		if err := go_json.NewDecoder(bytes.NewReader(body)).Decode(result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}

type revolutTransport struct {
	base        http.RoundTripper
	tokenSource oauth2.TokenSource
}

var _ http.RoundTripper = (*revolutTransport)(nil)

func (t *revolutTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.tokenSource.Token()
	if err != nil {
		return nil, fmt.Errorf("getting token: %w", err)
	}

	req = req.Clone(req.Context())
	token.SetAuthHeader(req)
	req.Header.Set(xhttp.Accept, "application/json")

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("round trip: %w", err)
	}
	return resp, nil
}

package newsletter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/time/rate"

	"github.com/whatisthe411/the411/backend/internal/config"
)

// Form is the payload handed to the mailing provider.
type Form struct {
	EMAIL string `json:"EMAIL"`
}

// Result is the provider's answer to one subscription attempt.
type Result struct {
	Status  Status
	Message string
}

// Provider subscribes an address to the mailing list.
type Provider interface {
	Subscribe(ctx context.Context, form Form) (Result, error)
}

// HTTPProvider talks to a Mailchimp list-manage signup endpoint.
type HTTPProvider struct {
	endpoint *url.URL
	client   *http.Client
	limiter  *rate.Limiter
}

// ProviderOption customises an HTTPProvider.
type ProviderOption func(*HTTPProvider)

// WithProviderClient overrides the HTTP client.
func WithProviderClient(client *http.Client) ProviderOption {
	return func(p *HTTPProvider) {
		p.client = client
	}
}

// NewHTTPProvider builds a provider from the signup form URL. The form URL
// ("/subscribe/post") is rewritten to its JSON variant ("/subscribe/post-json").
func NewHTTPProvider(cfg config.NewsletterConfig, opts ...ProviderOption) (*HTTPProvider, error) {
	endpoint, err := jsonEndpoint(cfg.URL)
	if err != nil {
		return nil, err
	}

	// NEWSLETTER_RATE=0 disables limiting.
	if cfg.Rate < 0 {
		return nil, goerr.New("newsletter rate must not be negative", goerr.V("rate", cfg.Rate))
	}
	limit := rate.Limit(cfg.Rate)
	if cfg.Rate == 0 {
		limit = rate.Inf
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	p := &HTTPProvider{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(limit, burst),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func jsonEndpoint(raw string) (*url.URL, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), "&amp;", "&")
	u, err := url.Parse(cleaned)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, goerr.New("invalid newsletter url", goerr.V("url", raw))
	}
	if strings.HasSuffix(u.Path, "/post") {
		u.Path += "-json"
	}
	return u, nil
}

// Endpoint returns the JSON signup URL without the subscriber address.
func (p *HTTPProvider) Endpoint() string {
	return p.endpoint.String()
}

// Subscribe submits form to the provider.
func (p *HTTPProvider) Subscribe(ctx context.Context, form Form) (Result, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return Result{}, goerr.Wrap(err, "newsletter rate limiter")
	}

	u := *p.endpoint
	query := u.Query()
	query.Set("EMAIL", form.EMAIL)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Result{}, goerr.Wrap(err, "failed to create newsletter request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return Result{}, goerr.Wrap(err, "failed to reach newsletter provider")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, goerr.New("newsletter provider rejected request", goerr.V("status", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return Result{}, goerr.Wrap(err, "failed to read newsletter response")
	}

	var payload struct {
		Result string `json:"result"`
		Msg    string `json:"msg"`
	}
	if err := json.Unmarshal(unwrapJSONP(body), &payload); err != nil {
		return Result{}, goerr.Wrap(err, "failed to decode newsletter response", goerr.V("body", string(body)))
	}

	status := StatusError
	if payload.Result == "success" {
		status = StatusSuccess
	}
	return Result{Status: status, Message: payload.Msg}, nil
}

// unwrapJSONP strips a "callback(...)" wrapper when the provider answers in JSONP.
func unwrapJSONP(body []byte) []byte {
	start := strings.IndexByte(string(body), '{')
	end := strings.LastIndexByte(string(body), '}')
	if start < 0 || end < start {
		return body
	}
	return body[start : end+1]
}

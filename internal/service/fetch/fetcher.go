// Package fetch retrieves content collections from the CMS backend and loads
// them into the content store.
package fetch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/whatisthe411/the411/backend/internal/config"
	"github.com/whatisthe411/the411/backend/internal/logging"
	"github.com/whatisthe411/the411/backend/internal/model/content"
)

const (
	userAgent    = "the411-backend/1.0"
	maxBodyBytes = 32 << 20
)

var (
	ErrStatus    = goerr.New("unexpected backend status")
	ErrMalformed = goerr.New("malformed collection payload")
)

// Sink receives fetch outcomes. *content.Store implements it.
type Sink interface {
	Replace(c content.CollectionName, records []content.Record)
	MarkFailed(c content.CollectionName, cause error)
}

// Fetcher retrieves collections from the backend.
type Fetcher struct {
	baseURL     string
	client      *http.Client
	timeout     time.Duration
	concurrency int
}

// Option customises a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// New creates a Fetcher for the configured backend.
func New(cfg config.BackendConfig, opts ...Option) *Fetcher {
	f := &Fetcher{
		baseURL:     cfg.BaseURL,
		client:      &http.Client{},
		timeout:     cfg.Timeout,
		concurrency: cfg.Concurrency,
	}
	if f.timeout <= 0 {
		f.timeout = 15 * time.Second
	}
	if f.concurrency < 1 {
		f.concurrency = 1
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Endpoint returns the collection URL with full population requested.
func (f *Fetcher) Endpoint(c content.CollectionName) (string, error) {
	u, err := url.Parse(f.baseURL)
	if err != nil {
		return "", goerr.Wrap(err, "invalid backend url", goerr.V("baseURL", f.baseURL))
	}
	u = u.JoinPath(c.String())
	u.RawQuery = "populate=*"
	return u.String(), nil
}

// Fetch issues one read for collection c. An empty data list is a valid result.
func (f *Fetcher) Fetch(ctx context.Context, c content.CollectionName) ([]content.Record, error) {
	if !c.Valid() {
		return nil, goerr.Wrap(content.ErrUnknownCollection, "fetch", goerr.V("collection", c))
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	endpoint, err := f.Endpoint(c)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request", goerr.V("collection", c))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch collection", goerr.V("collection", c))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, goerr.Wrap(ErrStatus, "backend rejected request",
			goerr.V("collection", c),
			goerr.V("status", resp.StatusCode),
		)
	}

	var envelope struct {
		Data *[]content.Record `json:"data"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&envelope); err != nil {
		return nil, goerr.Wrap(ErrMalformed, "failed to decode collection",
			goerr.V("collection", c),
			goerr.V("cause", err.Error()),
		)
	}
	if envelope.Data == nil {
		return nil, goerr.Wrap(ErrMalformed, "collection payload has no data list", goerr.V("collection", c))
	}

	return *envelope.Data, nil
}

// Load fetches c with the per-fetch timeout and reports the outcome to sink.
// Failures are recorded on sink and logged.
func (f *Fetcher) Load(ctx context.Context, sink Sink, c content.CollectionName) error {
	fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	logger := logging.From(ctx).With("collection", c.String())
	started := time.Now()

	records, err := f.Fetch(fetchCtx, c)
	if err != nil {
		sink.MarkFailed(c, err)
		logger.Warn("collection fetch failed", "error", err, "elapsed", time.Since(started))
		return err
	}

	sink.Replace(c, records)
	logger.Info("collection loaded", "count", len(records), "elapsed", time.Since(started))
	return nil
}

// LoadAll fetches every collection concurrently. Each collection is
// independent; a failure in one never cancels the others.
func (f *Fetcher) LoadAll(ctx context.Context, sink Sink) {
	var g errgroup.Group
	g.SetLimit(f.concurrency)

	for _, c := range content.Collections() {
		c := c
		g.Go(func() error {
			if ctx.Err() != nil {
				sink.MarkFailed(c, ctx.Err())
				return nil
			}
			_ = f.Load(ctx, sink, c)
			return nil
		})
	}

	_ = g.Wait()
}

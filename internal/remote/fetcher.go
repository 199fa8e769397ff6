package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sourcegraph/conc/pool"
)

// ErrRemoteFetch matches every *FetchError.
var ErrRemoteFetch = errors.New("remote fetch failed")

// FetchError reports a remote document that could not be retrieved.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v; check your internet connection and try again", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrRemoteFetch }

// Fetcher downloads remote text documents over HTTP GET.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.httpClient = c
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithTimeout bounds each fetch. Zero keeps the transport defaults.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// New creates a Fetcher with the given options.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		httpClient: http.DefaultClient,
		userAgent:  "cdkinit",
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves url and returns the response body. Any transport failure,
// non-2xx status or body read failure is a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("server returned status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("reading response body: %w", err)}
	}
	return body, nil
}

// FetchAll retrieves every url concurrently and waits for all of them.
// Results are returned in argument order. The first failure cancels the
// remaining fetches; the error reported is the first one, in argument
// order, that was not caused by that cancellation.
func (f *Fetcher) FetchAll(ctx context.Context, urls ...string) ([][]byte, error) {
	results := make([][]byte, len(urls))
	errs := make([]error, len(urls))

	p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError()
	for i, url := range urls {
		p.Go(func(ctx context.Context) error {
			body, err := f.Fetch(ctx, url)
			results[i], errs[i] = body, err
			return err
		})
	}
	if err := p.Wait(); err == nil {
		return results, nil
	}

	var cancelled error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) && ctx.Err() == nil {
			// Sibling cancellation, not a failure of its own.
			if cancelled == nil {
				cancelled = err
			}
			continue
		}
		return nil, err
	}
	return nil, cancelled
}

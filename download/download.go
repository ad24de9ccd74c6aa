// Package download fetches a URL into a local file with bounded retries.
//
// The body is streamed into a temporary file next to the destination and
// renamed into place only after a complete 2xx response, so a failed
// download never leaves a partial file behind.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// Defaults for the download options.
const (
	DefaultConnectTimeout = 10 * time.Second
	DefaultChunkSize      = 1024
	DefaultMaxRetries     = 5
)

// DefaultRetryStatuses are the response codes that trigger a retry.
var DefaultRetryStatuses = []int{http.StatusInternalServerError}

// ErrHTTPStatus indicates a non-2xx response after all retries.
var ErrHTTPStatus = errors.New("download: unexpected HTTP status")

// HTTPClient allows injecting mock HTTP clients for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type config struct {
	connectTimeout time.Duration
	chunkSize      int
	maxRetries     uint
	retryStatuses  []int
	initialBackoff time.Duration
	client         HTTPClient
	log            *zap.Logger
	onRetry        func(err error, wait time.Duration)
}

// Option customizes File.
type Option func(*config)

// WithConnectTimeout bounds connection setup and the wait for response headers.
func WithConnectTimeout(d time.Duration) Option { return func(c *config) { c.connectTimeout = d } }

// WithChunkSize sets the read buffer size.
func WithChunkSize(n int) Option { return func(c *config) { c.chunkSize = n } }

// WithMaxRetries sets how many times a failed attempt is retried.
func WithMaxRetries(n uint) Option { return func(c *config) { c.maxRetries = n } }

// WithRetryStatuses replaces the set of retryable status codes.
func WithRetryStatuses(codes ...int) Option {
	return func(c *config) { c.retryStatuses = slices.Clone(codes) }
}

// WithInitialBackoff sets the first retry delay (exponential afterwards).
func WithInitialBackoff(d time.Duration) Option { return func(c *config) { c.initialBackoff = d } }

// WithHTTPClient replaces the default client; WithConnectTimeout is then ignored.
func WithHTTPClient(h HTTPClient) Option { return func(c *config) { c.client = h } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(c *config) { c.log = l } }

// OnRetry registers a hook called before every retry.
func OnRetry(fn func(err error, wait time.Duration)) Option { return func(c *config) { c.onRetry = fn } }

// File downloads url into dest, creating dest's directory if needed, and
// returns the number of bytes written.
//
// Transport errors and retryable statuses are retried with exponential
// backoff; any other non-2xx status fails immediately with ErrHTTPStatus.
func File(ctx context.Context, url, dest string, opts ...Option) (int64, error) {
	c := config{
		connectTimeout: DefaultConnectTimeout,
		chunkSize:      DefaultChunkSize,
		maxRetries:     DefaultMaxRetries,
		retryStatuses:  DefaultRetryStatuses,
		initialBackoff: 500 * time.Millisecond,
		log:            zap.NewNop(),
	}
	for _, o := range opts {
		o(&c)
	}
	if c.chunkSize <= 0 {
		c.chunkSize = DefaultChunkSize
	}
	if c.client == nil {
		c.client = &http.Client{Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           (&net.Dialer{Timeout: c.connectTimeout}).DialContext,
			TLSHandshakeTimeout:   c.connectTimeout,
			ResponseHeaderTimeout: c.connectTimeout,
		}}
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("download: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialBackoff
	attempt := 0
	op := func() (int64, error) {
		attempt++
		c.log.Debug("download attempt", zap.String("url", url), zap.Int("attempt", attempt))
		return c.fetch(ctx, url, dest, dir)
	}
	notify := func(err error, wait time.Duration) {
		c.log.Warn("download failed, retrying", zap.String("url", url), zap.Error(err), zap.Duration("wait", wait))
		if c.onRetry != nil {
			c.onRetry(err, wait)
		}
	}

	n, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(c.maxRetries+1),
		backoff.WithNotify(notify),
	)
	if err != nil {
		return 0, fmt.Errorf("download %s: %w", url, err)
	}
	c.log.Info("downloaded", zap.String("url", url), zap.String("dest", dest), zap.Int64("bytes", n))

	return n, nil
}

// fetch performs one attempt. Errors wrapped in backoff.Permanent stop the retry loop.
func (c *config) fetch(ctx context.Context, url, dest, dir string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, backoff.Permanent(err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, backoff.Permanent(ctx.Err())
		}
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("%d %s: %w", resp.StatusCode, http.StatusText(resp.StatusCode), ErrHTTPStatus)
		if slices.Contains(c.retryStatuses, resp.StatusCode) {
			return 0, err
		}
		return 0, backoff.Permanent(err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.part")
	if err != nil {
		return 0, backoff.Permanent(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	var written int64
	buf := make([]byte, c.chunkSize)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := tmp.Write(buf[:n]); werr != nil {
				return 0, backoff.Permanent(werr)
			}
			written += int64(n)
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			return 0, rerr // truncated body: retry
		}
	}
	if err := tmp.Close(); err != nil {
		return 0, backoff.Permanent(err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		_ = os.Remove(tmp.Name())
		committed = true
		return 0, backoff.Permanent(err)
	}
	committed = true

	return written, nil
}

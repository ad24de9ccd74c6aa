package pubmed

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Defaults for Options.
const (
	DefaultBaseURL     = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/"
	DefaultTool        = "labutils"
	DefaultBatchSize   = 200
	DefaultConcurrency = 2
	DefaultRetMax      = 1000

	// NCBI usage policy, requests per second.
	anonymousRate = 3
	apiKeyRate    = 10
)

// HTTPClient allows injecting mock HTTP clients for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configures a Client. Only Email is required.
type Options struct {
	BaseURL     string
	Email       string
	APIKey      string
	Tool        string
	HTTPClient  HTTPClient
	RateLimit   float64 // requests per second; 0 picks the NCBI limit
	BatchSize   int     // PMIDs per efetch request
	Concurrency int     // efetch batches in flight
	Logger      *zap.Logger

	// OnRequest, if set, is called after every E-utilities round trip.
	OnRequest func(endpoint string, err error, elapsed time.Duration)
}

// Client talks to the E-utilities. It is safe for concurrent use.
type Client struct {
	opts    Options
	base    *url.URL
	http    HTTPClient
	limiter *rate.Limiter
	log     *zap.Logger
}

// NewClient validates opts and fills in defaults.
// Errors: ErrMissingEmail, or a URL parse error for BaseURL.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.Email) == "" {
		return nil, ErrMissingEmail
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(opts.BaseURL, "/") {
		opts.BaseURL += "/"
	}
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("pubmed: base url: %w", err)
	}
	if opts.Tool == "" {
		opts.Tool = DefaultTool
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = anonymousRate
		if opts.APIKey != "" {
			opts.RateLimit = apiKeyRate
		}
	}

	c := &Client{
		opts:    opts,
		base:    base,
		http:    opts.HTTPClient,
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		log:     opts.Logger,
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 60 * time.Second}
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}

	return c, nil
}

// Search resolves query to at most retmax PMIDs (retmax ≤ 0 means DefaultRetMax).
// Errors: ErrEmptyQuery, ErrHTTPStatus, ErrEntrez, ErrBadPMID.
func (c *Client) Search(ctx context.Context, query string, retmax int) ([]int, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if retmax <= 0 {
		retmax = DefaultRetMax
	}
	params := url.Values{}
	params.Set("term", query)
	params.Set("retmax", strconv.Itoa(retmax))

	c.log.Info("searching pubmed", zap.String("query", query), zap.String("email", c.opts.Email))
	var res searchResult
	if err := c.get(ctx, "esearch.fcgi", params, &res); err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	if res.Error != "" {
		return nil, fmt.Errorf("Search: %s: %w", res.Error, ErrEntrez)
	}

	ids := make([]int, 0, len(res.IDs))
	for _, s := range res.IDs {
		id, err := parsePMID(s)
		if err != nil {
			return nil, fmt.Errorf("Search: %w", err)
		}
		ids = append(ids, id)
	}
	c.log.Info("pubmed matches", zap.Int("found", len(ids)), zap.Int("count", res.Count))

	return ids, nil
}

// Fetch downloads the full records for pmids, BatchSize ids per request and
// up to Concurrency requests in flight. Article order follows pmids batch by batch.
func (c *Client) Fetch(ctx context.Context, pmids []int) (*ArticleSet, error) {
	var batches [][]int
	for start := 0; start < len(pmids); start += c.opts.BatchSize {
		end := min(start+c.opts.BatchSize, len(pmids))
		batches = append(batches, pmids[start:end])
	}

	parts := make([]*ArticleSet, len(batches))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Concurrency)
	for i, batch := range batches {
		g.Go(func() error {
			ids := make([]string, len(batch))
			for j, id := range batch {
				ids[j] = strconv.Itoa(id)
			}
			params := url.Values{}
			params.Set("id", strings.Join(ids, ","))
			params.Set("retmode", "xml")
			params.Set("retmax", strconv.Itoa(len(batch)))

			var set ArticleSet
			if err := c.get(gCtx, "efetch.fcgi", params, &set); err != nil {
				return fmt.Errorf("Fetch: batch %d: %w", i, err)
			}
			parts[i] = &set
			c.log.Debug("fetched batch", zap.Int("batch", i), zap.Int("articles", len(set.Articles)))

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &ArticleSet{}
	for _, p := range parts {
		out.Articles = append(out.Articles, p.Articles...)
	}

	return out, nil
}

// Query is Search followed by Fetch.
func (c *Client) Query(ctx context.Context, query string, retmax int) (*ArticleSet, error) {
	ids, err := c.Search(ctx, query, retmax)
	if err != nil {
		return nil, err
	}

	return c.Fetch(ctx, ids)
}

// ProcessedQuery runs Query and returns the records keyed by DOI.
func (c *Client) ProcessedQuery(ctx context.Context, query string, retmax int) (map[string]Record, error) {
	set, err := c.Query(ctx, query, retmax)
	if err != nil {
		return nil, err
	}

	return ParseQueryResult(set)
}

// get issues one rate-limited GET against endpoint and decodes the XML body into v.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, v any) (err error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	start := time.Now()
	if c.opts.OnRequest != nil {
		defer func() { c.opts.OnRequest(endpoint, err, time.Since(start)) }()
	}

	params.Set("db", "pubmed")
	params.Set("tool", c.opts.Tool)
	params.Set("email", c.opts.Email)
	if c.opts.APIKey != "" {
		params.Set("api_key", c.opts.APIKey)
	}
	u := c.base.JoinPath(endpoint)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.log.Debug("entrez response", zap.String("endpoint", endpoint), zap.Int("status", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: %d %s: %w", endpoint, resp.StatusCode, http.StatusText(resp.StatusCode), ErrHTTPStatus)
	}
	if err := xml.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%s: decode: %w", endpoint, err)
	}

	return nil
}

package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"
)

const bodyKey = "body"

// ErrEmptyResponse is returned when a request completes without a response
// body being captured.
var ErrEmptyResponse = errors.New("no response captured")

// Config holds the politeness settings of a Fetcher.
type Config struct {
	// Base wait between consecutive requests
	Delay time.Duration
	// Extra random wait added on top of Delay
	RandomDelay time.Duration
	// Timeout per request
	Timeout time.Duration
	// Number of retries after the first failed attempt
	Retries int
	// Fixed User-Agent. Empty means a random one per request.
	UserAgent string
}

// DefaultConfig returns slow, conservative settings suited to a site that
// rate limits aggressively.
func DefaultConfig() *Config {
	return &Config{
		Delay:       5 * time.Second,
		RandomDelay: 10 * time.Second,
		Timeout:     10 * time.Minute,
		Retries:     1,
	}
}

// Response is a fetched page.
type Response struct {
	// Final URL after redirects
	URL        string
	StatusCode int
	Body       []byte
}

// Fetcher issues GET requests one at a time through a colly collector.
type Fetcher struct {
	collector *colly.Collector
	config    *Config
}

// NewFetcher creates a fetcher. A nil config uses DefaultConfig.
func NewFetcher(config *Config) (*Fetcher, error) {
	if config == nil {
		config = DefaultConfig()
	}

	c := colly.NewCollector(colly.AllowURLRevisit())
	if config.UserAgent != "" {
		c.UserAgent = config.UserAgent
	} else {
		extensions.RandomUserAgent(c)
	}
	c.SetRequestTimeout(config.Timeout)

	err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       config.Delay,
		RandomDelay: config.RandomDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set limit rule: %w", err)
	}

	c.OnResponse(func(r *colly.Response) {
		r.Ctx.Put(bodyKey, &Response{
			URL:        r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Body:       r.Body,
		})
	})

	return &Fetcher{collector: c, config: config}, nil
}

// Fetch retrieves url with the given extra headers, retrying up to
// Config.Retries times. Non-2xx answers count as failures.
func (f *Fetcher) Fetch(ctx context.Context, url string, header http.Header) (*Response, error) {
	var lastErr error
	for attempt := 0; attempt <= f.config.Retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if attempt > 0 {
			slog.WarnContext(ctx, "retrying request",
				"url", url,
				"attempt", attempt+1,
				"error", lastErr,
			)
		}

		resp, err := f.fetchOnce(url, header)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("failed to fetch %s: %w", url, lastErr)
}

func (f *Fetcher) fetchOnce(url string, header http.Header) (*Response, error) {
	ctx := colly.NewContext()
	if err := f.collector.Request(http.MethodGet, url, nil, ctx, header.Clone()); err != nil {
		return nil, err
	}

	resp, ok := ctx.GetAny(bodyKey).(*Response)
	if !ok {
		return nil, ErrEmptyResponse
	}
	return resp, nil
}

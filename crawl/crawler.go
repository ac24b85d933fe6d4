package crawl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pevans/fightrecords/extract"
	"github.com/pevans/fightrecords/fetch"
	"github.com/pevans/fightrecords/records"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// DefaultStartURL is the UFC results listing.
const DefaultStartURL = "https://www.tapology.com/fightcenter?group=ufc&schedule=results&sport=mma"

// ErrTooManyErrors is returned when the crawl is aborted because the
// cumulative error count reached Config.MaxErrors.
var ErrTooManyErrors = errors.New("too many errors, crawl aborted")

var tracer = otel.Tracer("github.com/pevans/fightrecords/crawl")

// Fetcher retrieves one page.
type Fetcher interface {
	Fetch(ctx context.Context, url string, header http.Header) (*fetch.Response, error)
}

// Config holds crawl settings.
type Config struct {
	// Listing page the crawl starts from
	StartURL string
	// Unrecoverable errors tolerated before the crawl aborts
	MaxErrors int
}

// DefaultConfig returns the default crawl configuration.
func DefaultConfig() *Config {
	return &Config{
		StartURL:  DefaultStartURL,
		MaxErrors: 3,
	}
}

// Result summarizes a finished crawl.
type Result struct {
	RunID    uuid.UUID
	Pages    int
	Bouts    int
	Fighters int
	Errors   int
	Duration time.Duration
}

// Crawler walks listing, event, bout and fighter pages breadth-first from
// a single start URL.
type Crawler struct {
	fetcher   Fetcher
	extractor *extract.Extractor
	sink      Sink
	config    *Config
}

// NewCrawler creates a crawler. A nil config uses DefaultConfig.
func NewCrawler(
	fetcher Fetcher,
	extractor *extract.Extractor,
	sink Sink,
	config *Config,
) *Crawler {
	if config == nil {
		config = DefaultConfig()
	}

	return &Crawler{
		fetcher:   fetcher,
		extractor: extractor,
		sink:      sink,
		config:    config,
	}
}

// Run crawls until the queue is empty, the context is cancelled, or the
// error threshold is reached. Records are written to the sink tagged with
// runID. A partial Result is returned alongside any error.
func (c *Crawler) Run(ctx context.Context, runID uuid.UUID) (*Result, error) {
	start := time.Now()
	result := &Result{RunID: runID}
	queue := []extract.Request{c.extractor.StartRequest(c.config.StartURL)}

	slog.InfoContext(ctx, "crawl starting",
		"run_id", runID,
		"mode", c.extractor.Mode(),
		"start_url", c.config.StartURL,
	)

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			result.Duration = time.Since(start)
			return result, err
		}

		req := queue[0]
		queue = queue[1:]

		followUps, err := c.process(ctx, runID, req, result)
		if err != nil {
			if errors.Is(err, errSink) {
				result.Duration = time.Since(start)
				return result, err
			}

			result.Errors++
			slog.ErrorContext(ctx, "request failed",
				"stage", req.Stage,
				"url", req.URL,
				"errors", result.Errors,
				"error", err,
			)
			if c.config.MaxErrors > 0 && result.Errors >= c.config.MaxErrors {
				result.Duration = time.Since(start)
				return result, fmt.Errorf("%w: %d errors, last: %v", ErrTooManyErrors, result.Errors, err)
			}
			continue
		}

		queue = append(queue, followUps...)
	}

	result.Duration = time.Since(start)
	slog.InfoContext(ctx, "crawl finished",
		"run_id", runID,
		"pages", result.Pages,
		"bouts", result.Bouts,
		"fighters", result.Fighters,
		"errors", result.Errors,
		"duration", result.Duration,
	)

	return result, nil
}

var errSink = errors.New("sink write failed")

// process fetches and extracts one request, writes its records and returns
// its follow-up requests.
func (c *Crawler) process(
	ctx context.Context,
	runID uuid.UUID,
	req extract.Request,
	result *Result,
) ([]extract.Request, error) {
	ctx, span := tracer.Start(ctx, "crawl."+req.Stage.String())
	defer span.End()
	span.SetAttributes(attribute.String("url", req.URL))

	slog.DebugContext(ctx, "fetching", "stage", req.Stage, "url", req.URL)
	resp, err := c.fetcher.Fetch(ctx, req.URL, req.Header)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, err
	}
	result.Pages++

	page, err := extract.NewPage(resp.URL, resp.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		return nil, err
	}

	extracted, err := c.extractor.Extract(page, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extract failed")
		return nil, err
	}

	for _, rec := range extracted.Records {
		if err := c.sink.Write(ctx, runID, rec); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "sink failed")
			return nil, fmt.Errorf("%w: %s %s: %v", errSink, rec.Kind, rec.ID(), err)
		}
		switch rec.Kind {
		case records.KindBout:
			result.Bouts++
		case records.KindFighter:
			result.Fighters++
		}
		slog.DebugContext(ctx, "record emitted", "kind", rec.Kind, "id", rec.ID())
	}

	span.SetAttributes(
		attribute.Int("records", len(extracted.Records)),
		attribute.Int("requests", len(extracted.Requests)),
	)
	return extracted.Requests, nil
}

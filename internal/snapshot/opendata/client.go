package opendata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"station-alert-srv/pkg/log"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

const (
	DefaultPageSize = 100
	maxBodyBytes    = 8 << 20
)

type ClientOptions struct {
	BaseURL  string
	PageSize int
	Timeout  time.Duration
	// PagesPerSecond paces page requests. Zero disables pacing.
	PagesPerSecond float64
	RetryMax       int
}

// Client pages through the real-time availability dataset.
type Client struct {
	l       log.Logger
	http    *retryablehttp.Client
	limiter *rate.Limiter
	opts    ClientOptions
	now     func() time.Time
}

func NewClient(l log.Logger, opts ClientOptions) *Client {
	if opts.PageSize <= 0 || opts.PageSize > DefaultPageSize {
		opts.PageSize = DefaultPageSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.RetryMax <= 0 {
		opts.RetryMax = 2
	}

	hc := retryablehttp.NewClient()
	hc.RetryMax = opts.RetryMax
	hc.RetryWaitMin = 500 * time.Millisecond
	hc.RetryWaitMax = 5 * time.Second
	hc.HTTPClient.Timeout = opts.Timeout
	hc.Logger = leveledLogger{l: l}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.PagesPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.PagesPerSecond), 1)
	}

	return &Client{l: l, http: hc, limiter: limiter, opts: opts, now: time.Now}
}

// FetchAll returns every valid station. A failed page ends the walk; the
// stations read so far are returned with the error.
func (c *Client) FetchAll(ctx context.Context) ([]StationReading, error) {
	var (
		readings []StationReading
		fetched  int
		skipped  int
	)
	now := c.now().UTC()

	for offset := 0; ; offset += c.opts.PageSize {
		if err := c.limiter.Wait(ctx); err != nil {
			return readings, err
		}

		p, err := c.fetchPage(ctx, offset)
		if err != nil {
			return readings, fmt.Errorf("fetch page at offset %d: %w", offset, err)
		}

		for _, r := range p.Results {
			if !r.valid() {
				skipped++
				continue
			}
			readings = append(readings, r.reading(now))
		}
		fetched += len(p.Results)

		if len(p.Results) < c.opts.PageSize || fetched >= p.TotalCount {
			break
		}
	}

	c.l.Debugf(ctx, "internal.snapshot.opendata.FetchAll: %d stations, %d skipped", len(readings), skipped)
	return readings, nil
}

func (c *Client) fetchPage(ctx context.Context, offset int) (page, error) {
	u, err := url.Parse(c.opts.BaseURL)
	if err != nil {
		return page{}, err
	}
	q := u.Query()
	q.Set("limit", strconv.Itoa(c.opts.PageSize))
	q.Set("offset", strconv.Itoa(offset))
	u.RawQuery = q.Encode()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return page{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return page{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return page{}, fmt.Errorf("open data API returned %d: %s", resp.StatusCode, body)
	}

	var p page
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&p); err != nil {
		return page{}, fmt.Errorf("decode page: %w", err)
	}
	return p, nil
}

// leveledLogger routes retryablehttp logs to pkg/log.
type leveledLogger struct {
	l log.Logger
}

func (a leveledLogger) Error(msg string, kv ...interface{}) {
	a.l.Errorf(context.Background(), "internal.snapshot.opendata.http: %s %v", msg, kv)
}

func (a leveledLogger) Info(msg string, kv ...interface{}) {
	a.l.Debugf(context.Background(), "internal.snapshot.opendata.http: %s %v", msg, kv)
}

func (a leveledLogger) Debug(msg string, kv ...interface{}) {
	a.l.Debugf(context.Background(), "internal.snapshot.opendata.http: %s %v", msg, kv)
}

func (a leveledLogger) Warn(msg string, kv ...interface{}) {
	a.l.Warnf(context.Background(), "internal.snapshot.opendata.http: %s %v", msg, kv)
}

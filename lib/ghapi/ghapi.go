package ghapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"tidytuesday-go/lib/restyutil"
	"tidytuesday-go/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ErrTransport covers network failures and non-success status codes from
// either the listing API or the raw content host.
var ErrTransport = errors.New("transport failure")

const (
	DefaultApiBaseUrl = "https://api.github.com"
	DefaultRawBaseUrl = "https://raw.githubusercontent.com"
	DefaultRepo       = "rfordatascience/tidytuesday"
	DefaultBranch     = "master"
)

const userAgent = "tidytuesday-go/0.1"

// ContentEntry is one row of a repository directory listing as returned
// by the contents API.
type ContentEntry struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Path        string `json:"path"`
	DownloadUrl string `json:"download_url"`
}

const (
	TypeFile = "file"
	TypeDir  = "dir"
)

type ClientOptions struct {
	// origin of the listing API, DefaultApiBaseUrl when empty
	ApiBaseUrl string
	// origin of the raw content host, DefaultRawBaseUrl when empty
	RawBaseUrl string
	// "<owner>/<name>", DefaultRepo when empty
	Repo string
	// DefaultBranch when empty
	Branch string
}

// Client reads the dataset repository: directory listings through the
// contents API, file bodies through the raw host, and the remaining call
// budget through the rate-limit endpoint. All calls are read-only GETs.
type Client struct {
	api    *resty.Client
	raw    *resty.Client
	repo   string
	branch string
}

func newResty(baseUrl string) *resty.Client {
	client := resty.New()
	client.SetBaseURL(baseUrl)
	client.SetHeader("user-agent", userAgent)
	client.SetTimeout(time.Second * 30)
	// transient network failures and upstream hiccups only; anything
	// below 500 is the answer
	client.SetRetryCount(2)
	client.SetRetryWaitTime(time.Second)
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		return err != nil || res.StatusCode() >= 500
	})
	return client
}

func NewClient(opts ClientOptions) *Client {
	if opts.ApiBaseUrl == "" {
		opts.ApiBaseUrl = DefaultApiBaseUrl
	}
	if opts.RawBaseUrl == "" {
		opts.RawBaseUrl = DefaultRawBaseUrl
	}
	if opts.Repo == "" {
		opts.Repo = DefaultRepo
	}
	if opts.Branch == "" {
		opts.Branch = DefaultBranch
	}

	api := newResty(opts.ApiBaseUrl)
	api.SetHeader("accept", "application/vnd.github+json")
	telemetry.InstrumentResty(api, "ghapi/api")
	restyutil.InstrumentClient(api, restyInstrumentOutput)

	raw := newResty(opts.RawBaseUrl)
	telemetry.InstrumentResty(raw, "ghapi/raw")
	restyutil.InstrumentClient(raw, restyInstrumentOutput)

	return &Client{
		api:    api,
		raw:    raw,
		repo:   opts.Repo,
		branch: opts.Branch,
	}
}

// ListContents fetches the directory listing of the catalog root, or of
// a subdirectory when path segments are given.
func (c *Client) ListContents(ctx context.Context, segments ...string) ([]ContentEntry, error) {
	ctx, span := tracer.Start(ctx, "ListContents")
	defer span.End()

	url := fmt.Sprintf("/repos/%s/contents/data", c.repo)
	if len(segments) > 0 {
		url += "/" + strings.Join(segments, "/")
	}
	span.SetAttributes(attribute.String("url", url))

	res, err := c.api.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch listing")
		return nil, fmt.Errorf("%w: GET %s: %w", ErrTransport, url, err)
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "listing returned non-success status")
		return nil, fmt.Errorf("%w: GET %s: status %d", ErrTransport, url, res.StatusCode())
	}

	var entries []ContentEntry
	err = json.Unmarshal(res.Body(), &entries)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse listing json")
		return nil, fmt.Errorf("parse listing %s: %w", url, err)
	}
	return entries, nil
}

// RawFile fetches one file of a dataset folder through the raw host.
func (c *Client) RawFile(ctx context.Context, year, date, name string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "RawFile")
	defer span.End()

	url := fmt.Sprintf("/%s/%s/data/%s/%s/%s", c.repo, c.branch, year, date, name)
	span.SetAttributes(attribute.String("url", url))

	res, err := c.raw.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch raw file")
		return nil, fmt.Errorf("%w: GET %s: %w", ErrTransport, url, err)
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "raw host returned non-success status")
		return nil, fmt.Errorf("%w: GET %s: status %d", ErrTransport, url, res.StatusCode())
	}
	return res.Body(), nil
}

// Download fetches bytes from an absolute download url taken from a
// directory listing entry.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "Download")
	defer span.End()

	span.SetAttributes(attribute.String("url", url))

	res, err := c.raw.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to download")
		return nil, fmt.Errorf("%w: GET %s: %w", ErrTransport, url, err)
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "download returned non-success status")
		return nil, fmt.Errorf("%w: GET %s: status %d", ErrTransport, url, res.StatusCode())
	}
	return res.Body(), nil
}

// RateLimit reports the remaining core API call budget.
func (c *Client) RateLimit(ctx context.Context) (int, error) {
	ctx, span := tracer.Start(ctx, "RateLimit")
	defer span.End()

	res, err := c.api.R().
		SetContext(ctx).
		Get("/rate_limit")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch rate limit")
		return 0, fmt.Errorf("%w: GET /rate_limit: %w", ErrTransport, err)
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "rate limit returned non-success status")
		return 0, fmt.Errorf("%w: GET /rate_limit: status %d", ErrTransport, res.StatusCode())
	}

	var payload struct {
		Resources struct {
			Core struct {
				Remaining int `json:"remaining"`
			} `json:"core"`
		} `json:"resources"`
	}
	err = json.Unmarshal(res.Body(), &payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse rate limit json")
		return 0, fmt.Errorf("parse rate limit: %w", err)
	}

	span.SetAttributes(attribute.Int("remaining", payload.Resources.Core.Remaining))
	return payload.Resources.Core.Remaining, nil
}

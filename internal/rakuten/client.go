// Package rakuten speaks to the Rakuten RAN reporting endpoint: it fetches
// report CSVs over single-day windows, classifies transport errors, and maps
// raw report columns onto typed output fields.
package rakuten

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"tap-rakuten/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("internal/rakuten")

const defaultBaseUrl = "https://ran-reporting.rakutenmarketing.com"

const (
	DateTypeTransaction = "transaction"
	DateTypeProcess     = "process"
)

// APIError is a reportable error surfaced from the API's error body, or a
// generic server-side failure. Transient marks the 499/500 class so callers
// can distinguish it from credential/request problems.
type APIError struct {
	Message    string
	StatusCode int
	Transient  bool
}

func (e *APIError) Error() string {
	return e.Message
}

// RateLimitError signals HTTP 429. The client never retries internally;
// backoff policy belongs to the caller.
type RateLimitError struct{}

func (e *RateLimitError) Error() string {
	return "Too Many Requests"
}

// Fetcher is the report-fetching surface of Client, split out so the sync
// engine can run against a fake in tests.
type Fetcher interface {
	Fetch(ctx context.Context, report string, opts FetchOptions) (*Rows, error)
}

type Client struct {
	http     *resty.Client
	token    string
	region   string
	dateType string
}

type ClientOptions struct {
	Token  string
	Region string
	// default date_type for fetches that don't specify a valid one,
	// "transaction" when empty
	DateType string
	// overrides the reporting endpoint, used by tests
	BaseUrl string
}

func NewClient(opts ClientOptions) *Client {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = defaultBaseUrl
	}
	dateType := opts.DateType
	if dateType != DateTypeTransaction && dateType != DateTypeProcess {
		dateType = DateTypeTransaction
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(baseUrl)
	// report bodies are consumed as a stream, never buffered wholesale
	httpClient.SetDoNotParseResponse(true)

	// 2 requests max per second
	// max burst >= 2 just means that no requests will be dropped
	rateLimiter := rate.NewLimiter(2, 2)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(httpClient, "rakuten-http")

	return &Client{
		http:     httpClient,
		token:    opts.Token,
		region:   opts.Region,
		dateType: dateType,
	}
}

type FetchOptions struct {
	StartDate time.Time
	// zero value means a single-day report ending on StartDate
	EndDate time.Time
	// anything other than "transaction" or "process" falls back to the
	// client default
	DateType string
}

// Fetch requests one report over one date window and returns its CSV line
// stream. The caller owns the stream and must Close it on every exit path.
func (c *Client) Fetch(ctx context.Context, report string, opts FetchOptions) (*Rows, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()

	startDate := opts.StartDate.UTC().Format("2006-01-02")
	endDate := startDate
	if !opts.EndDate.IsZero() {
		endDate = opts.EndDate.UTC().Format("2006-01-02")
	}
	dateType := opts.DateType
	if dateType != DateTypeTransaction && dateType != DateTypeProcess {
		dateType = c.dateType
	}

	span.SetAttributes(
		attribute.String("report", report),
		attribute.String("start_date", startDate),
		attribute.String("end_date", endDate),
		attribute.String("date_type", dateType),
	)

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"token":      c.token,
			"start_date": startDate,
			"end_date":   endDate,
			"date_type":  dateType,
			// summary rows would corrupt the CSV row shape
			"include_summary": "N",
			"tz":              "GMT",
		}).
		Get(fmt.Sprintf("/%s/reports/%s/filters", c.region, report))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	err = classifyResponse(res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return NewRows(res.RawBody()), nil
}

type apiErrorBody struct {
	Errors  []string `json:"errors"`
	Message string   `json:"message"`
}

// classifyResponse sorts response statuses into the error taxonomy. Any
// status it doesn't recognize is treated as success with the body unread.
// On error the body is drained and closed here.
func classifyResponse(res *resty.Response) error {
	code := res.StatusCode()
	switch {
	case code == 400 || code == 403:
		defer res.RawBody().Close()
		raw, err := io.ReadAll(res.RawBody())
		if err != nil {
			return &APIError{Message: res.Status(), StatusCode: code}
		}
		var body apiErrorBody
		err = json.Unmarshal(raw, &body)
		if err != nil {
			return &APIError{Message: res.Status(), StatusCode: code}
		}
		if len(body.Errors) > 0 {
			return &APIError{
				Message:    strings.Join(body.Errors, "; "),
				StatusCode: code,
			}
		}
		return &APIError{Message: body.Message, StatusCode: code}
	case code == 429:
		res.RawBody().Close()
		return &RateLimitError{}
	case code == 499 || code == 500:
		res.RawBody().Close()
		return &APIError{Message: "Server Error", StatusCode: code, Transient: true}
	}
	return nil
}

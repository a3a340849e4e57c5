package rakuten

import (
	"context"
	"fmt"
	"time"

	"tap-rakuten/lib/singer"

	"go.opentelemetry.io/otel/codes"
)

// InferSchema projects the schema half of the column map for a header set.
// Deterministic given the same headers; reads no data rows.
func (m *Mapper) InferSchema(headers []string) singer.Schema {
	properties := map[string]singer.Property{}
	for _, entry := range m.Build(headers) {
		properties[entry.Slug] = entry.Schema
	}
	return singer.Schema{
		Type:       "object",
		Properties: properties,
	}
}

// FetchSchema derives a report's schema from the API without extracting any
// data: it requests the report for a date two days in the future, which
// returns the header line and nothing else.
func FetchSchema(ctx context.Context, client Fetcher, mapper *Mapper, report string) (singer.Schema, error) {
	ctx, span := tracer.Start(ctx, "FetchSchema")
	defer span.End()

	futureDate := time.Now().UTC().AddDate(0, 0, 2)

	rows, err := client.Fetch(ctx, report, FetchOptions{StartDate: futureDate})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return singer.Schema{}, err
	}
	defer rows.Close()

	headers, err := rows.Headers()
	if err != nil {
		err = fmt.Errorf("%s: read header line: %w", report, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return singer.Schema{}, err
	}

	return mapper.InferSchema(headers), nil
}

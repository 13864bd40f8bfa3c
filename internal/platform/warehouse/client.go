package warehouse

import (
	"context"
	"encoding/json"
	"time"
)

// ReportRow is the flattened shape a report snapshot takes in the analytics
// warehouse: the operational row's numeric identifier, the labels needed to
// slice it, and the sections collapsed into one encoded payload column.
type ReportRow struct {
	ID          int64
	ReportDate  time.Time
	Frequency   string
	Payload     json.RawMessage
	GeneratedAt time.Time
}

// Client writes report rows into the warehouse. UpsertReport must be
// idempotent at the identifier level: replaying the same row leaves exactly
// one warehouse row for that ID.
type Client interface {
	UpsertReport(ctx context.Context, row ReportRow) error
	Close() error
}

// Package store persists the accumulated detail and summary history.
// Records are derived data: a run replaces its own report dates wholesale
// and never edits a row in place.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/ewa-cli/internal/config"
	"github.com/sells-group/ewa-cli/internal/model"
)

// Filter narrows List queries. Zero values mean "no constraint".
type Filter struct {
	System string
	Date   string // YYYY-MM-DD
	Limit  int
}

// Store is the persistence interface for the extraction pipeline.
type Store interface {
	// SaveDetail replaces all detail rows for the report dates present in
	// records, then inserts records.
	SaveDetail(ctx context.Context, records []model.DetailRecord) error
	// SaveSummary does the same for the summary table.
	SaveSummary(ctx context.Context, records []model.SummaryRecord) error

	ListDetail(ctx context.Context, f Filter) ([]model.DetailRecord, error)
	ListSummary(ctx context.Context, f Filter) ([]model.SummaryRecord, error)
	// Dates returns the distinct report dates present in the summary
	// table, ascending.
	Dates(ctx context.Context) ([]time.Time, error)

	Migrate(ctx context.Context) error
	Close() error
}

// New creates a Store for the configured driver.
func New(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite":
		return NewSQLite(cfg.DatabaseURL)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}

// distinctDates collects the unique YYYY-MM-DD keys in insertion order.
func distinctDates[T any](records []T, key func(T) string) []string {
	seen := make(map[string]bool, len(records))
	var out []string
	for _, r := range records {
		k := key(r)
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

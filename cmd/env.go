package main

import (
	"context"

	"github.com/sells-group/ewa-cli/internal/kpi"
	"github.com/sells-group/ewa-cli/internal/store"
)

// loadTaxonomy returns the configured KPI taxonomy, falling back to the
// built-in thirteen.
func loadTaxonomy() (*kpi.Taxonomy, error) {
	if cfg.Extract.TaxonomyPath != "" {
		return kpi.Load(cfg.Extract.TaxonomyPath)
	}
	return kpi.Default(), nil
}

// openStore opens the configured database and applies migrations.
func openStore(ctx context.Context) (store.Store, error) {
	st, err := store.New(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

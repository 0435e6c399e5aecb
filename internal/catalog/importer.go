package catalog

import (
	"context"
	"fmt"

	"prolens/internal/model"
	"prolens/internal/validate"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Importer loads catalog files and inserts the products they describe.
type Importer struct {
	loader    Loader
	store     Store
	validator *validate.Validator
	logger    zerolog.Logger
}

// NewImporter creates a new catalog importer.
func NewImporter(loader Loader, store Store, validator *validate.Validator, logger zerolog.Logger) *Importer {
	return &Importer{
		loader:    loader,
		store:     store,
		validator: validator,
		logger:    logger.With().Str("component", "catalog-importer").Logger(),
	}
}

// Import loads every file concurrently, then inserts entries in file order. Entries that
// fail validation are skipped. A file that cannot be read cancels the other loads and
// aborts the import before any insert.
func (im *Importer) Import(ctx context.Context, paths []string) (Summary, error) {
	summary := Summary{Files: len(paths)}
	if len(paths) == 0 {
		return summary, nil
	}

	results := make([][]model.ProductRequest, len(paths))
	g, gctx := errgroup.WithContext(ctx)

	for i, path := range paths {
		g.Go(func() error {
			entries, err := im.loader.Load(gctx, path)
			if err != nil {
				im.logger.Error().Err(err).Str("file", path).Msg("failed to load catalog file")
				return fmt.Errorf("failed to load catalog file %s: %w", path, err)
			}
			results[i] = entries
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return summary, err
	}

	for i, entries := range results {
		for n := range entries {
			entry := &entries[n]
			summary.Read++

			if err := im.validator.Struct(entry); err != nil {
				summary.Invalid++
				im.logger.Warn().
					Err(err).
					Str("file", paths[i]).
					Str("name", entry.Name).
					Msg("skipping invalid catalog entry")
				continue
			}

			product := entry.ToProduct()
			inserted, err := im.store.InsertIfAbsent(ctx, &product)
			if err != nil {
				return summary, fmt.Errorf("failed to import %q: %w", entry.Name, err)
			}
			if inserted {
				summary.Inserted++
			} else {
				summary.Existing++
			}
		}
	}

	im.logger.Info().
		Int("files", summary.Files).
		Int("read", summary.Read).
		Int("inserted", summary.Inserted).
		Int("existing", summary.Existing).
		Int("invalid", summary.Invalid).
		Msg("catalog import finished")

	return summary, nil
}

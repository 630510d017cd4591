// Package archive implements the wallpaper archive: a date-indexed, locally
// cached mirror of a remote image-of-the-day service. The engine decides what
// to fetch and where lookups resolve; all durable state lives on disk, so the
// engine itself is stateless and safely restartable.
package archive

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lochfern/bingwall/internal/dates"
	"github.com/lochfern/bingwall/internal/domain"
	"go.uber.org/zap"
)

// Engine orchestrates the remote source and the on-disk store. It performs
// blocking calls synchronously and assumes callers serialize invocations per
// (root, region); parallel fetches against the same entry need an external
// guard in front of the store.
type Engine struct {
	logger *zap.Logger
	source domain.Source
	store  domain.Store
	window int
}

// NewEngine creates the archive engine. The backfill window comes from
// configuration; everything else is per-call input.
func NewEngine(logger *zap.Logger, source domain.Source, store domain.Store, cfg domain.Config) *Engine {
	return &Engine{
		logger: logger,
		source: source,
		store:  store,
		window: cfg.BackfillWindow(),
	}
}

// FetchRange fetches the most recent days into the archive, walking offsets
// from -1 up to (but excluding) the backfill window in ascending order. The
// first failing offset aborts the pass; entries written before it stay.
//
// The range deliberately starts at -1, as the original client shipped it.
// The service answers idx=-1 with the most recent image, so the first two
// offsets usually resolve to the same day and the second becomes a cache hit.
func (e *Engine) FetchRange(ctx context.Context, root, region string) error {
	for idx := -1; idx < e.window; idx++ {
		if err := e.fetchOne(ctx, root, idx, region); err != nil {
			return fmt.Errorf("fetching offset %d: %w", idx, err)
		}
	}
	return nil
}

// FetchLatest fetches only the most recent day (offset -1).
func (e *Engine) FetchLatest(ctx context.Context, root, region string) error {
	if err := e.fetchOne(ctx, root, -1, region); err != nil {
		return fmt.Errorf("fetching offset -1: %w", err)
	}
	return nil
}

// fetchOne retrieves the metadata for one offset, normalizes the reported
// start date into a day key and completes the entry on disk. Both writes are
// existence-gated, which makes repeated calls idempotent: a fully cached day
// costs one metadata request and no image download.
func (e *Engine) fetchOne(ctx context.Context, root string, offset int, region string) error {
	raw, err := e.source.FetchMetadata(ctx, offset, region)
	if err != nil {
		return err
	}

	var arch domain.ImageArchive
	if err := json.Unmarshal(raw, &arch); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBadMetadata, err)
	}
	if len(arch.Images) == 0 || arch.Images[0].StartDate == "" {
		return fmt.Errorf("%w: response carries no image record", domain.ErrBadMetadata)
	}
	rec := arch.Images[0]

	// The entry is keyed by the service's reported start date, never the
	// request date: asking for "today" may resolve to yesterday's image.
	day, err := dates.Normalize(rec.StartDate)
	if err != nil {
		return err
	}

	if !e.store.ExistsMetadata(root, day, region) {
		if err := e.store.WriteMetadata(root, day, region, raw); err != nil {
			return err
		}
	}

	if e.store.ExistsImage(root, day, region) {
		// Cache hit: the entry is complete, skip the image download.
		e.logger.Debug("entry already cached",
			zap.String("day", day),
			zap.String("region", region))
		return nil
	}

	img, err := e.source.FetchImage(ctx, rec.URL)
	if err != nil {
		return err
	}
	if err := e.store.WriteImage(root, day, region, img); err != nil {
		return err
	}

	e.logger.Info("wallpaper cached",
		zap.String("day", day),
		zap.String("region", region),
		zap.Int("bytes", len(img)))
	return nil
}

// Exists reports whether the entry for the given day key is fully cached.
// No network is involved.
func (e *Engine) Exists(root, day, region string) bool {
	return e.store.ExistsImage(root, day, region)
}

// ImagePath returns where the entry's image file lives, cached or not.
func (e *Engine) ImagePath(root, day, region string) string {
	return e.store.ImagePath(root, day, region)
}

// Info reads the persisted metadata for the given day key and returns its
// copyright text and link. An absent or unparseable metadata file fails with
// ErrNotFound; a parseable file that merely lacks the fields yields an empty
// pair, since the values are display-only.
func (e *Engine) Info(root, day, region string) (domain.Info, error) {
	raw, err := e.store.ReadMetadata(root, day, region)
	if err != nil {
		return domain.Info{}, err
	}

	var arch domain.ImageArchive
	if err := json.Unmarshal(raw, &arch); err != nil {
		return domain.Info{}, fmt.Errorf("%w: unreadable metadata for %s", domain.ErrNotFound, day)
	}
	if len(arch.Images) == 0 {
		return domain.Info{}, nil
	}
	return domain.Info{
		Copyright:     arch.Images[0].Copyright,
		CopyrightLink: arch.Images[0].CopyrightLink,
	}, nil
}

// NearestAvailable walks day by day from start in the given direction
// (+1 forward, -1 backward) and returns the first cached day key, or false
// after limit days. It scans the filesystem only, never the network.
func (e *Engine) NearestAvailable(root, start, region string, direction, limit int) (string, bool) {
	if _, err := dates.Offset(start, 0); err != nil {
		return "", false
	}
	for i := 1; i < limit; i++ {
		day, err := dates.Offset(start, direction*i)
		if err != nil {
			return "", false
		}
		if e.store.ExistsImage(root, day, region) {
			return day, true
		}
	}
	return "", false
}

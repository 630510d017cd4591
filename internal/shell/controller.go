// Package shell drives the archive on behalf of a front-end: it owns the
// day-to-day operations (jump to a date, jump to today, periodic download)
// and the glue between preferences, engine, processor and wallpaper setter.
// The engine itself stays a pure request/response component.
package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/lochfern/bingwall/internal/archive"
	"github.com/lochfern/bingwall/internal/dates"
	"github.com/lochfern/bingwall/internal/domain"
	"github.com/lochfern/bingwall/internal/prefs"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DayView is what a front-end needs to render one selected day: the
// attribution, and whether prev/next navigation is possible.
type DayView struct {
	Date          string
	Copyright     string
	CopyrightLink string
	// InfoText is Copyright reformatted for multi-line display.
	InfoText  string
	ImagePath string

	Previous    string
	HasPrevious bool
	Next        string
	HasNext     bool
}

// Controller orchestrates engine, preferences, processor and setter. The
// engine is not safe for parallel fetches against one root, so Download
// collapses concurrent triggers (timer tick racing a manual refresh) into a
// single in-flight pass.
type Controller struct {
	logger *zap.Logger
	engine *archive.Engine
	prefs  *prefs.Store
	setter domain.Executor
	proc   domain.Processor
	cfg    domain.Config

	group singleflight.Group
}

// NewController creates the shell controller. proc may be nil when no
// fit-to-screen processing is available.
func NewController(
	logger *zap.Logger,
	engine *archive.Engine,
	store *prefs.Store,
	setter domain.Executor,
	proc domain.Processor,
	cfg domain.Config,
) *Controller {
	return &Controller{
		logger: logger,
		engine: engine,
		prefs:  store,
		setter: setter,
		proc:   proc,
		cfg:    cfg,
	}
}

// JumpToDate makes the given cached day the current wallpaper: it persists
// the selection, sets the desktop background and computes the nearest cached
// neighbors for prev/next navigation. A day that is not fully cached fails
// with ErrNotFound and changes nothing.
func (c *Controller) JumpToDate(ctx context.Context, day string) (*DayView, error) {
	root := c.prefs.StoragePath()
	region := c.prefs.Region()

	if !c.engine.Exists(root, day, region) {
		return nil, fmt.Errorf("%w: no cached wallpaper for %s", domain.ErrNotFound, day)
	}

	info, err := c.engine.Info(root, day, region)
	if err != nil {
		return nil, err
	}

	if err := c.prefs.SetCurrentDate(day); err != nil {
		return nil, fmt.Errorf("persisting selected day: %w", err)
	}

	imagePath := c.displayPath(root, day, region)
	if err := c.setter.SetWallpaper(ctx, imagePath); err != nil {
		return nil, err
	}

	view := &DayView{
		Date:          day,
		Copyright:     info.Copyright,
		CopyrightLink: info.CopyrightLink,
		InfoText:      formatInfo(info.Copyright),
		ImagePath:     imagePath,
	}
	limit := c.cfg.SearchLimit()
	if prev, ok := c.engine.NearestAvailable(root, day, region, -1, limit); ok {
		view.Previous = prev
		view.HasPrevious = true
	}
	if next, ok := c.engine.NearestAvailable(root, day, region, 1, limit); ok {
		view.Next = next
		view.HasNext = true
	}

	c.logger.Info("jumped to day",
		zap.String("day", day),
		zap.Bool("hasPrevious", view.HasPrevious),
		zap.Bool("hasNext", view.HasNext))
	return view, nil
}

// JumpToToday fetches the most recent image and jumps to today's date,
// falling back to yesterday when the service has not published today's image
// for this region yet.
func (c *Controller) JumpToToday(ctx context.Context) (*DayView, error) {
	root := c.prefs.StoragePath()
	region := c.prefs.Region()

	if err := c.engine.FetchLatest(ctx, root, region); err != nil {
		return nil, err
	}

	today := dates.Today()
	view, err := c.JumpToDate(ctx, today)
	if errors.Is(err, domain.ErrNotFound) {
		yesterday, derr := dates.Offset(today, -1)
		if derr != nil {
			return nil, derr
		}
		return c.JumpToDate(ctx, yesterday)
	}
	return view, err
}

// Restore re-applies the persisted selection after a restart, falling back
// to today when nothing was selected or the selection is gone from disk.
func (c *Controller) Restore(ctx context.Context) (*DayView, error) {
	if day := c.prefs.CurrentDate(); day != "" {
		view, err := c.JumpToDate(ctx, day)
		if err == nil {
			return view, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		c.logger.Warn("persisted selection no longer cached, falling back to today",
			zap.String("day", day))
	}
	return c.JumpToToday(ctx)
}

// Download runs one backfill pass and, when auto-advance is enabled, jumps
// the desktop to today's image. Concurrent calls share a single pass.
func (c *Controller) Download(ctx context.Context) error {
	_, err, _ := c.group.Do("download", func() (interface{}, error) {
		root := c.prefs.StoragePath()
		region := c.prefs.Region()

		if err := c.engine.FetchRange(ctx, root, region); err != nil {
			return nil, err
		}

		if c.prefs.AutoChangeWallpaper() {
			if _, err := c.JumpToDate(ctx, dates.Today()); err != nil {
				// Today's image may simply not be published yet.
				if !errors.Is(err, domain.ErrNotFound) {
					return nil, err
				}
				c.logger.Debug("auto-advance skipped, today not cached")
			}
		}
		return nil, nil
	})
	return err
}

// displayPath resolves which file the setter gets: the archived original,
// or a lazily generated fit-to-screen variant when that preference is on.
// Fit failures fall back to the original; display is best effort.
func (c *Controller) displayPath(root, day, region string) string {
	original := c.engine.ImagePath(root, day, region)
	if c.proc == nil || !c.prefs.FitToScreen() {
		return original
	}

	fitted := archive.FittedPath(root, day, region)
	if _, err := os.Stat(fitted); err == nil {
		return fitted
	}

	data, err := os.ReadFile(original)
	if err != nil {
		c.logger.Warn("reading archived image for fitting failed", zap.Error(err))
		return original
	}
	if _, err := c.proc.Generate(data, fitted); err != nil {
		c.logger.Warn("fit-to-screen failed, using original", zap.Error(err))
		return original
	}
	return fitted
}

// formatInfo breaks the service's one-line attribution into display lines,
// the same way the info popover always rendered it.
func formatInfo(copyright string) string {
	return strings.NewReplacer(",", "\n", "(", "\n", ")", "").Replace(copyright)
}

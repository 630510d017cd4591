// bingwall is the one-shot companion to the daemon: fetch the archive,
// switch the wallpaper to a given day or print what is known about one.
package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/lochfern/bingwall/internal/archive"
	"github.com/lochfern/bingwall/internal/config"
	"github.com/lochfern/bingwall/internal/dates"
	"github.com/lochfern/bingwall/internal/domain"
	"github.com/lochfern/bingwall/internal/executor"
	"github.com/lochfern/bingwall/internal/prefs"
	"github.com/lochfern/bingwall/internal/processor"
	"github.com/lochfern/bingwall/internal/remote"
	"github.com/lochfern/bingwall/internal/shell"
)

// app bundles the wired pieces a subcommand may need.
type app struct {
	logger *zap.Logger
	prefs  *prefs.Store
	engine *archive.Engine
	ctrl   *shell.Controller
}

func buildApp() (*app, error) {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}

	cfg, err := config.NewAppConfig(logger)
	if err != nil {
		return nil, err
	}

	store, err := prefs.NewStore(logger, cfg.PrefsPath)
	if err != nil {
		return nil, err
	}

	engine := archive.NewEngine(logger, remote.NewClient(logger), archive.NewFSStore(logger), cfg)

	setter, err := executor.NewExecutor(logger)
	if err != nil {
		return nil, fmt.Errorf("no wallpaper setter available: %w", err)
	}

	var proc domain.Processor = processor.NewFitProcessor(logger, processor.NewScreenResolution(logger))

	ctrl := shell.NewController(logger, engine, store, setter, proc, cfg)

	return &app{logger: logger, prefs: store, engine: engine, ctrl: ctrl}, nil
}

func printView(view *shell.DayView) {
	fmt.Printf("%s  %s\n", view.Date, view.Copyright)
	if view.InfoText != "" {
		fmt.Println(view.InfoText)
	}
	fmt.Println(view.ImagePath)
}

func runFetch(ctx context.Context, cmd *cli.Command) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	return a.ctrl.Download(ctx)
}

func runToday(ctx context.Context, cmd *cli.Command) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	view, err := a.ctrl.JumpToToday(ctx)
	if err != nil {
		return err
	}
	printView(view)
	return nil
}

func runSet(ctx context.Context, cmd *cli.Command) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	day := cmd.String("date")
	if day == "" {
		day = dates.Today()
	}
	view, err := a.ctrl.JumpToDate(ctx, day)
	if err != nil {
		return err
	}
	printView(view)
	return nil
}

func runInfo(ctx context.Context, cmd *cli.Command) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	day := cmd.String("date")
	if day == "" {
		day = dates.Today()
	}
	info, err := a.engine.Info(a.prefs.StoragePath(), day, a.prefs.Region())
	if err != nil {
		return err
	}
	fmt.Printf("%s\n%s\n%s\n", day, info.Copyright, info.CopyrightLink)
	return nil
}

func main() {
	dateFlag := &cli.StringFlag{
		Name:    "date",
		Aliases: []string{"d"},
		Usage:   "Day in YYYY-MM-DD form (defaults to today)",
	}

	cmd := &cli.Command{
		Name:  "bingwall",
		Usage: "Date-indexed daily wallpaper archive",
		Commands: []*cli.Command{
			{
				Name:   "fetch",
				Usage:  "Download the recent daily images into the archive",
				Action: runFetch,
			},
			{
				Name:   "today",
				Usage:  "Set the wallpaper to the most recent cached day",
				Action: runToday,
			},
			{
				Name:   "set",
				Usage:  "Set the wallpaper to a cached day",
				Flags:  []cli.Flag{dateFlag},
				Action: runSet,
			},
			{
				Name:   "info",
				Usage:  "Print the copyright line for a cached day",
				Flags:  []cli.Flag{dateFlag},
				Action: runInfo,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

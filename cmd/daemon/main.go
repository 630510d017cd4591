// The daemon keeps the wallpaper archive current: it downloads the most
// recent days on an interval, restores the persisted selection at startup
// and reacts to preference file edits.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/lochfern/bingwall/internal/archive"
	"github.com/lochfern/bingwall/internal/config"
	"github.com/lochfern/bingwall/internal/domain"
	"github.com/lochfern/bingwall/internal/executor"
	"github.com/lochfern/bingwall/internal/prefs"
	"github.com/lochfern/bingwall/internal/processor"
	"github.com/lochfern/bingwall/internal/remote"
	"github.com/lochfern/bingwall/internal/shell"
)

// AppOptions is the full dependency graph, exported so tests can run
// fx.ValidateApp against it.
var AppOptions = fx.Options(
	fx.Provide(
		newLogger,
		config.NewAppConfig,
		newDomainConfig,
		newPrefs,
		newSource,
		newStore,
		newSetter,
		processor.NewScreenResolution,
		newProcessor,
		archive.NewEngine,
		shell.NewController,
		shell.NewScheduler,
	),
	fx.Invoke(registerHooks),
)

func main() {
	app := fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		AppOptions,
	)

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		panic(err)
	}

	<-ctx.Done()

	if err := app.Stop(context.Background()); err != nil {
		panic(err)
	}
}

// newLogger creates a new zap logger instance
func newLogger() (*zap.Logger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return logger, nil
}

func newDomainConfig(cfg *config.AppConfig) domain.Config {
	return cfg
}

func newPrefs(logger *zap.Logger, cfg *config.AppConfig) (*prefs.Store, error) {
	return prefs.NewStore(logger, cfg.PrefsPath)
}

func newSource(logger *zap.Logger) domain.Source {
	return remote.NewClient(logger)
}

func newStore(logger *zap.Logger) domain.Store {
	return archive.NewFSStore(logger)
}

func newSetter(logger *zap.Logger) (domain.Executor, error) {
	return executor.NewExecutor(logger)
}

func newProcessor(logger *zap.Logger, res *domain.ScreenResolution) domain.Processor {
	return processor.NewFitProcessor(logger, res)
}

// registerHooks wires the runtime pieces into the fx lifecycle: the
// periodic scheduler, the preference watcher and the startup restore.
func registerHooks(
	lc fx.Lifecycle,
	logger *zap.Logger,
	sched *shell.Scheduler,
	store *prefs.Store,
	ctrl *shell.Controller,
) {
	runCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("bingwall daemon started")

			if err := sched.Start(ctx); err != nil {
				return err
			}

			go func() {
				if err := store.Watch(runCtx); err != nil {
					logger.Warn("preference watcher exited", zap.Error(err))
				}
			}()

			// Re-apply the persisted selection without blocking startup;
			// the first wallpaper may need a download.
			go func() {
				if _, err := ctrl.Restore(runCtx); err != nil {
					logger.Warn("startup restore failed", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			if err := sched.Stop(ctx); err != nil {
				return err
			}
			logger.Info("shutting down")
			return nil
		},
	})
}

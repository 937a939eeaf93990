package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docketwatch/docketwatch/app/api"
	"github.com/docketwatch/docketwatch/app/cfg"
	"github.com/docketwatch/docketwatch/app/feed"
	"github.com/docketwatch/docketwatch/app/filter"
	"github.com/docketwatch/docketwatch/app/notify"
	"github.com/docketwatch/docketwatch/app/storage"
	"github.com/docketwatch/docketwatch/app/tasks"
	"github.com/docketwatch/docketwatch/app/writer"
)

func main() {
	opts, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if opts == nil {
		// Help was shown
		return
	}

	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(opts); err != nil {
		slog.Error("Command failed", "command", opts.Args.Command, "error", err)
		os.Exit(1)
	}
}

func run(opts *cfg.Opts) error {
	settings, err := cfg.LoadSettings(opts.Config)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := storage.DetectEnvironment()
	slog.Info("Starting docketwatch", "version", cfg.GetVersion(), "command", opts.Args.Command, "environment", env)

	switch opts.Args.Command {
	case "reader":
		return runReader(ctx, env, settings, opts.UserAgent)
	case "filter":
		return runFilter(ctx, env, settings)
	case "writer":
		return runWriter(ctx, env, settings)
	case "cleaner":
		return runCleaner(ctx, env, settings)
	case "monitor":
		return runMonitor(ctx, env, settings, opts.UserAgent)
	case "serve":
		return api.Run(ctx, opts.Port, settings.Writer.BaseDirectory)
	default:
		return fmt.Errorf("unknown command %q", opts.Args.Command)
	}
}

// openStore roots a storage client for this run. Local runs use the
// configured directory, creating it on first use. AWS runs ignore the
// directory and use the bucket named by DOCKETWATCH_BUCKET.
func openStore(ctx context.Context, env storage.Environment, base string) (storage.Storage, error) {
	if env == storage.EnvAWS {
		bucket := os.Getenv("DOCKETWATCH_BUCKET")
		if bucket == "" {
			return nil, errors.New("DOCKETWATCH_BUCKET is not set")
		}
		return storage.New(ctx, env, bucket)
	}
	if err := os.MkdirAll(base, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", base, err)
	}
	return storage.New(ctx, env, base)
}

func runReader(ctx context.Context, env storage.Environment, settings *cfg.Settings, userAgent string) error {
	st, err := openStore(ctx, env, settings.Reader.BaseDirectory)
	if err != nil {
		return err
	}
	client := &http.Client{}
	return feed.RunReader(ctx, st, client, settings.Reader.Feeds, userAgent)
}

func runFilter(ctx context.Context, env storage.Environment, settings *cfg.Settings) error {
	st, err := openStore(ctx, env, settings.Reader.BaseDirectory)
	if err != nil {
		return err
	}
	notifier, err := notify.New(ctx, env, st, settings.Notifier)
	if err != nil {
		return err
	}

	stats, runErr := filter.Run(st, settings.Filter.Dockets, notifier)
	closeErr := notifier.Close()
	if err := errors.Join(runErr, closeErr); err != nil {
		return err
	}

	slog.Info("Filter completed", "items", stats.Items, "new", stats.New)
	return nil
}

func runWriter(ctx context.Context, env storage.Environment, settings *cfg.Settings) error {
	st, err := openStore(ctx, env, settings.Reader.BaseDirectory)
	if err != nil {
		return err
	}
	out, err := openStore(ctx, env, settings.Writer.BaseDirectory)
	if err != nil {
		return err
	}
	return writer.RunWriter(st, out, settings.Writer.Format, settings.Writer.PageSize)
}

func runCleaner(ctx context.Context, env storage.Environment, settings *cfg.Settings) error {
	st, err := openStore(ctx, env, settings.Reader.BaseDirectory)
	if err != nil {
		return err
	}
	removed, err := feed.RunCleaner(st, settings.Cleaner.DaysAgo, time.Now())
	if err != nil {
		return err
	}
	slog.Info("Cleaner completed", "removed", removed, "days_ago", settings.Cleaner.DaysAgo)
	return nil
}

func runMonitor(ctx context.Context, env storage.Environment, settings *cfg.Settings, userAgent string) error {
	times, err := tasks.ParseTimes(settings.Monitor.Every)
	if err != nil {
		return err
	}

	pipeline := func(ctx context.Context) error {
		if err := runReader(ctx, env, settings, userAgent); err != nil {
			return err
		}
		if err := runFilter(ctx, env, settings); err != nil {
			return err
		}
		if err := runWriter(ctx, env, settings); err != nil {
			return err
		}
		return runCleaner(ctx, env, settings)
	}

	return tasks.NewMonitor(times, pipeline).Run(ctx)
}

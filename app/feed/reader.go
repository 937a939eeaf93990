package feed

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/docketwatch/docketwatch/app/storage"
)

// RunReader downloads every configured feed and captures its items. A
// fetch or parse failure skips that feed; a storage failure aborts the run
// and is left to the scheduler to retry wholesale.
func RunReader(ctx context.Context, st storage.Storage, client *http.Client, feeds []string, userAgent string) error {
	parser := NewParser()

	for _, url := range feeds {
		slog.Info("Downloading feed", "url", url)
		data, err := Fetch(ctx, client, url, userAgent)
		if err != nil {
			slog.Error("Feed fetch failed, skipping", "url", url, "error", err)
			continue
		}

		entries, err := parser.Run(data)
		if err != nil {
			slog.Error("Feed parse failed, skipping", "url", url, "error", err)
			continue
		}

		stats, err := Capture(st, entries)
		if err != nil {
			return err
		}
		slog.Info("Feed captured", "url", url, "new", stats.New, "duplicates", stats.Duplicate)
	}

	slog.Info("Reader done")
	return nil
}

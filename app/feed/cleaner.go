package feed

import (
	"log/slog"
	"time"

	"github.com/docketwatch/docketwatch/app/storage"
)

// RunCleaner removes date buckets older than the retention window. Paths
// whose leading segment is not a YYYYMMDD date are left alone.
func RunCleaner(st storage.Storage, daysAgo int, now time.Time) (int, error) {
	cutoff := now.UTC().AddDate(0, 0, -daysAgo)
	slog.Info("Removing buckets older than cutoff", "cutoff", cutoff.Format("20060102"), "days_ago", daysAgo)

	paths, err := st.List([]string{"*", "*", BucketFile})
	if err != nil {
		return 0, err
	}

	removed := 0
	seen := make(map[string]bool)
	for _, path := range paths {
		date := path[0]
		if seen[date] {
			continue
		}
		seen[date] = true

		when, err := time.Parse("20060102", date)
		if err != nil {
			slog.Info("Skipping non-date directory", "path", date)
			continue
		}
		if when.Before(cutoff) {
			slog.Info("Removing bucket tree", "path", date)
			if err := st.RemoveTree([]string{date}); err != nil {
				return removed, err
			}
			removed++
		}
	}

	slog.Info("Cleaner done", "removed", removed)
	return removed, nil
}

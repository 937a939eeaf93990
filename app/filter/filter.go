// Package filter maintains the cross-time history of interesting items: a
// deduplicated, sorted set of every item that has ever matched one of the
// configured docket targets, kept separate from the raw per-hour buckets.
package filter

import (
	"log/slog"
	"strings"

	"github.com/docketwatch/docketwatch/app/feed"
	"github.com/docketwatch/docketwatch/app/model"
	"github.com/docketwatch/docketwatch/app/notify"
	"github.com/docketwatch/docketwatch/app/storage"
)

// HistoryFile is the object name of the persisted history set, stored at
// the reader base alongside the date buckets.
const HistoryFile = "filter.json"

// Stats counts one filter run.
type Stats struct {
	Targets      int
	Items        int
	New          int
	NoDocket     int
	HistoryStart int
	HistoryEnd   int
}

// Run scans every bucket for items whose docket contains one of the
// targets (case-insensitive substring match, no word-boundary anchoring),
// forwards each previously unseen match to the notifier, and rewrites the
// history file wholesale as a sorted set.
func Run(st storage.Storage, dockets []string, notifier notify.Notifier) (Stats, error) {
	targets := make([]string, len(dockets))
	for n, d := range dockets {
		targets[n] = strings.ToLower(d)
	}
	slog.Info("Filtering for dockets", "targets", targets)

	stats := Stats{Targets: len(targets)}

	history := make(map[model.ItemDetail]struct{})
	if st.Exists([]string{HistoryFile}) {
		raws, err := st.ReadJSON([]string{HistoryFile})
		if err != nil {
			return stats, err
		}
		details, err := model.DetailsFromJSON(raws)
		if err != nil {
			return stats, err
		}
		history = model.DetailSet(details)
	}
	stats.HistoryStart = len(history)
	slog.Info("History loaded", "start", stats.HistoryStart)

	paths, err := st.List([]string{"*", "*", feed.BucketFile})
	if err != nil {
		return stats, err
	}
	for _, path := range paths {
		newItems, err := matchItems(st, path, targets, history, &stats)
		if err != nil {
			return stats, err
		}
		for _, item := range newItems {
			history[item] = struct{}{}
			notifier.Notify(item)
		}
	}

	sorted := make([]model.ItemDetail, 0, len(history))
	for item := range history {
		sorted = append(sorted, item)
	}
	if err := model.SortDetails(sorted); err != nil {
		return stats, err
	}
	// Replaced wholesale every run, even when nothing changed.
	if err := st.WriteJSON([]string{HistoryFile}, sorted); err != nil {
		return stats, err
	}
	stats.HistoryEnd = len(sorted)

	slog.Info("Filter done",
		"targets", stats.Targets,
		"items", stats.Items,
		"new", stats.New,
		"no_docket", stats.NoDocket,
		"history_start", stats.HistoryStart,
		"history_end", stats.HistoryEnd)
	return stats, nil
}

// matchItems yields the items in one bucket that match a target and are
// not already in the history set.
func matchItems(st storage.Storage, path []string, targets []string, history map[model.ItemDetail]struct{}, stats *Stats) ([]model.ItemDetail, error) {
	raws, err := st.ReadJSON(path)
	if err != nil {
		return nil, err
	}
	details, err := model.DetailsFromJSON(raws)
	if err != nil {
		return nil, err
	}

	var matched []model.ItemDetail
	for _, detail := range details {
		stats.Items++
		if detail.Item.Docket == "" {
			stats.NoDocket++
			continue
		}
		docket := strings.ToLower(detail.Item.Docket)
		for _, target := range targets {
			if strings.Contains(docket, target) {
				if _, seen := history[detail]; !seen {
					matched = append(matched, detail)
					stats.New++
				}
				break
			}
		}
	}
	return matched, nil
}

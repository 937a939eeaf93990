package feed

import (
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/docketwatch/docketwatch/app/model"
	"github.com/docketwatch/docketwatch/app/storage"
)

// BucketFile is the object name of the per-hour item collection.
const BucketFile = "items.json"

// journalDir holds the per-run NLJSON journal of newly captured items.
const journalDir = "journal"

// CaptureStats counts the outcome of one capture run.
type CaptureStats struct {
	New       int
	Duplicate int
}

// Capture ingests the denormalized Channel/Item stream and persists each
// item into its per-hour bucket without duplication.
//
// The bucket path is (YYYYMMDD, HH) derived from the item's publication
// timestamp in UTC. Membership is tested by full structural equality; a new
// item is merged into the bucket as a sorted union that overwrites the
// whole file, so re-running capture with the same input is idempotent.
// New items are also journaled as NLJSON for the run.
func Capture(st storage.Storage, entries iter.Seq[any]) (CaptureStats, error) {
	var stats CaptureStats

	if err := st.Make([]string{journalDir}, true); err != nil {
		return stats, err
	}
	journal := []string{journalDir, time.Now().UTC().Format("20060102") + ".nlj"}
	if err := st.OpenAppend(journal); err != nil {
		return stats, err
	}
	defer st.CloseAppend()

	var channel model.Channel
	haveChannel := false

	for entry := range entries {
		switch v := entry.(type) {
		case model.Channel:
			channel = v
			haveChannel = true
		case model.CourtItem:
			if !haveChannel {
				return stats, fmt.Errorf("protocol violation: item %q before any channel", v.Title)
			}
			detail := model.ItemDetail{Item: v, Channel: channel}
			if err := captureOne(st, detail, &stats); err != nil {
				return stats, err
			}
		default:
			return stats, fmt.Errorf("protocol violation: unexpected %T in feed stream", entry)
		}
	}

	if err := st.CloseAppend(); err != nil {
		return stats, err
	}
	return stats, nil
}

func captureOne(st storage.Storage, detail model.ItemDetail, stats *CaptureStats) error {
	when, err := detail.PubDate()
	if err != nil {
		return err
	}
	when = when.UTC()
	bucket := []string{when.Format("20060102"), when.Format("15")}

	if !st.Exists(bucket) {
		slog.Debug("Creating bucket", "path", bucket)
		if err := st.Make(bucket, false); err != nil {
			return err
		}
	}

	itemPath := append(bucket, BucketFile)
	var existing []model.ItemDetail
	if st.Exists(itemPath) {
		raws, err := st.ReadJSON(itemPath)
		if err != nil {
			return err
		}
		existing, err = model.DetailsFromJSON(raws)
		if err != nil {
			return err
		}
	}

	set := model.DetailSet(existing)
	if _, seen := set[detail]; seen {
		stats.Duplicate++
		return nil
	}

	merged := append(existing, detail)
	if err := model.SortDetails(merged); err != nil {
		return err
	}
	if err := st.WriteJSON(itemPath, merged); err != nil {
		return err
	}
	if err := st.AppendLine(detail); err != nil {
		return err
	}
	stats.New++
	return nil
}

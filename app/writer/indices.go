// Package writer builds the presentation indexes over the full item store
// and renders them as paginated HTML or Markdown pages, or as a CSV
// extract.
package writer

import (
	"log/slog"

	"github.com/docketwatch/docketwatch/app/feed"
	"github.com/docketwatch/docketwatch/app/filter"
	"github.com/docketwatch/docketwatch/app/model"
	"github.com/docketwatch/docketwatch/app/storage"
)

// UnknownKey groups items whose title carried no docket token.
const UnknownKey = "Unknown"

// DetailMap maps a grouping key to the items sharing it, in store-scan
// discovery order.
type DetailMap map[string][]model.ItemDetail

// Indices holds the four derived groupings, keyed by index name.
type Indices map[string]DetailMap

// IndexNames is the render order of the groupings.
var IndexNames = []string{"court", "docket", "date", "filtered"}

// LoadIndices reads every bucket and organizes the items by channel title,
// docket, calendar date, and the separately maintained filter history.
func LoadIndices(st storage.Storage) (Indices, error) {
	court := DetailMap{}
	docket := DetailMap{}
	date := DetailMap{}
	filtered := DetailMap{}

	paths, err := st.List([]string{"*", "*", feed.BucketFile})
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		raws, err := st.ReadJSON(path)
		if err != nil {
			return nil, err
		}
		details, err := model.DetailsFromJSON(raws)
		if err != nil {
			return nil, err
		}
		for _, detail := range details {
			court[detail.Channel.Title] = append(court[detail.Channel.Title], detail)
			docket[docketKey(detail)] = append(docket[docketKey(detail)], detail)

			when, err := detail.PubDate()
			if err != nil {
				return nil, err
			}
			day := when.Format("2006-Jan-02")
			date[day] = append(date[day], detail)
		}
	}

	if st.Exists([]string{filter.HistoryFile}) {
		raws, err := st.ReadJSON([]string{filter.HistoryFile})
		if err != nil {
			return nil, err
		}
		details, err := model.DetailsFromJSON(raws)
		if err != nil {
			return nil, err
		}
		for _, detail := range details {
			filtered[docketKey(detail)] = append(filtered[docketKey(detail)], detail)
		}
	}

	indices := Indices{
		"court":    court,
		"docket":   docket,
		"date":     date,
		"filtered": filtered,
	}
	for _, name := range IndexNames {
		slog.Info("Index loaded", "index", name, "keys", len(indices[name]))
	}
	return indices, nil
}

func docketKey(detail model.ItemDetail) string {
	if detail.Item.Docket == "" {
		return UnknownKey
	}
	return detail.Item.Docket
}

// Package model defines the immutable value types shared by the reader,
// filter, and writer: a feed Channel, a CourtItem parsed out of it, and the
// ItemDetail binding that ties an item to its originating channel.
//
// All three types are plain comparable structs. Structural equality (the
// built-in == on the full value) is the identity used for deduplication
// throughout the store, so none of the fields may ever be a pointer or slice.
package model

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

// PubDateLayout is the RFC-822 style timestamp format used by the court
// RSS feeds, e.g. "Thu, 28 Dec 2023 21:18:55 GMT".
const PubDateLayout = "Mon, 02 Jan 2006 15:04:05 MST"

// Docket numbers lead the item title: a court token, a two-digit year, a
// case type, a case number, and an optional judge suffix, followed by
// whitespace and the party names, e.g.
// "2:23-cv-09491-PKC-ST Sookra v. Berkeley Carroll School et al".
var docketPattern = regexp.MustCompile(`^(.+:\d+-\w+-\d+\S*)\s+(.*)$`)

// Channel identifies the feed a set of items came from. Created once per
// fetch, never mutated.
type Channel struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// CourtItem is a single feed entry. Docket and Parties are extracted from
// the title; both are empty when the title does not carry a docket token.
// The publication timestamp is kept as the upstream text and parsed on
// demand, so the persisted form stores it exactly once.
type CourtItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
	TextPubDate string `json:"text_pub_date"`
	Docket      string `json:"docket,omitempty"`
	Parties     string `json:"parties,omitempty"`
}

// NewCourtItem builds a CourtItem, extracting the docket and parties from
// the title when it matches the docket pattern.
func NewCourtItem(title, link, description, textPubDate string) CourtItem {
	item := CourtItem{
		Title:       strings.TrimSpace(title),
		Link:        strings.TrimSpace(link),
		Description: strings.TrimSpace(description),
		TextPubDate: strings.TrimSpace(textPubDate),
	}
	if m := docketPattern.FindStringSubmatch(item.Title); m != nil {
		item.Docket = m[1]
		item.Parties = strings.TrimSpace(m[2])
	}
	return item
}

// PubDate parses the stored publication timestamp text. A parse failure
// means the upstream data is malformed and is surfaced as a hard error.
func (i CourtItem) PubDate() (time.Time, error) {
	t, err := time.Parse(PubDateLayout, i.TextPubDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed publication date %q: %w", i.TextPubDate, err)
	}
	return t, nil
}

// PubDateDisplay renders the publication timestamp for presentation. Items
// reaching the writer have already been validated, so a parse failure here
// falls back to the raw text rather than aborting a render.
func (i CourtItem) PubDateDisplay() string {
	t, err := i.PubDate()
	if err != nil {
		return i.TextPubDate
	}
	return t.Format("Mon Jan _2 15:04:05 2006")
}

// ItemDetail binds an item to the channel it came from. Two ItemDetail
// values are equal iff all nested fields are equal; that equality drives
// set-based deduplication in the capture and filter engines.
type ItemDetail struct {
	Item    CourtItem `json:"item"`
	Channel Channel   `json:"channel"`
}

// PubDate returns the bound item's publication timestamp.
func (d ItemDetail) PubDate() (time.Time, error) {
	return d.Item.PubDate()
}

// DetailFromJSON constructs an ItemDetail from one raw JSON record,
// validating the shape explicitly. Missing required fields or an
// unparseable publication date are reported as malformed data.
func DetailFromJSON(raw json.RawMessage) (ItemDetail, error) {
	var detail ItemDetail
	if err := json.Unmarshal(raw, &detail); err != nil {
		return ItemDetail{}, fmt.Errorf("malformed item detail: %w", err)
	}
	if detail.Item.Title == "" || detail.Item.TextPubDate == "" {
		return ItemDetail{}, fmt.Errorf("malformed item detail: missing title or publication date")
	}
	if detail.Channel.Title == "" && detail.Channel.Link == "" {
		return ItemDetail{}, fmt.Errorf("malformed item detail: missing channel")
	}
	if _, err := detail.PubDate(); err != nil {
		return ItemDetail{}, err
	}
	return detail, nil
}

// DetailsFromJSON validates a sequence of raw JSON records, as returned by
// the storage layer's ReadJSON.
func DetailsFromJSON(raws []json.RawMessage) ([]ItemDetail, error) {
	details := make([]ItemDetail, 0, len(raws))
	for _, raw := range raws {
		detail, err := DetailFromJSON(raw)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

// SortDetails orders details ascending by publication timestamp, in place.
// Every stored collection maintains this ordering invariant.
func SortDetails(details []ItemDetail) error {
	type keyed struct {
		detail ItemDetail
		when   time.Time
	}
	ks := make([]keyed, len(details))
	for n, d := range details {
		when, err := d.PubDate()
		if err != nil {
			return err
		}
		ks[n] = keyed{detail: d, when: when}
	}
	// Stable keeps equal-timestamp items in their current relative order.
	sort.SliceStable(ks, func(a, b int) bool { return ks[a].when.Before(ks[b].when) })
	for n, k := range ks {
		details[n] = k.detail
	}
	return nil
}

// DetailSet materializes a slice into the set form used for membership
// tests. ItemDetail is comparable, so the map key is the full value.
func DetailSet(details []ItemDetail) map[ItemDetail]struct{} {
	set := make(map[ItemDetail]struct{}, len(details))
	for _, d := range details {
		set[d] = struct{}{}
	}
	return set
}

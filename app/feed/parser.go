// Package feed fetches court RSS documents, parses them into the model
// types, and captures the result into per-hour buckets in storage.
package feed

import (
	"bytes"
	"fmt"
	"iter"

	"github.com/mmcdole/gofeed"

	"github.com/docketwatch/docketwatch/app/model"
)

// Parser turns raw RSS/Atom bytes into the denormalized capture stream:
// one Channel followed by the CourtItems belonging to it.
type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses feed data and returns the entry stream consumed by Capture.
// The publication timestamp is carried through as the feed's raw text;
// parsing it is deferred to the model so the stored form keeps the
// upstream value.
func (p *Parser) Run(data []byte) (iter.Seq[any], error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	channel := model.Channel{
		Title: parsed.Title,
		Link:  parsed.Link,
	}

	return func(yield func(any) bool) {
		if !yield(channel) {
			return
		}
		for _, item := range parsed.Items {
			courtItem := model.NewCourtItem(item.Title, item.Link, item.Description, item.Published)
			if !yield(courtItem) {
				return
			}
		}
	}, nil
}

package feed

import (
	"testing"

	"github.com/docketwatch/docketwatch/app/model"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Eastern District of New York Filings Entries on cases</title>
<link>https://ecf.nyed.uscourts.gov</link>
<description>Public Filings in the last 24 Hours</description>
<item>
<title><![CDATA[ 2:23-cv-09491-PKC-ST Sookra v. Berkeley Carroll School et al ]]></title>
<pubDate>Thu, 28 Dec 2023 21:18:55 GMT</pubDate>
<guid isPermaLink="true">https://ecf.nyed.uscourts.gov/cgi-bin/DktRpt.pl?508001</guid>
<description><![CDATA[ [Quality Control Check - Summons] Sookra v. Berkeley Carroll School et al ]]></description>
<link>https://ecf.nyed.uscourts.gov/cgi-bin/DktRpt.pl?508001</link>
</item>
<item>
<title><![CDATA[ General Announcement ]]></title>
<pubDate>Thu, 28 Dec 2023 22:00:00 GMT</pubDate>
<description><![CDATA[ Scheduled maintenance ]]></description>
<link>https://ecf.nyed.uscourts.gov/announcement</link>
</item>
</channel>
</rss>`

func TestParser_Run(t *testing.T) {
	parser := NewParser()

	entries, err := parser.Run([]byte(sampleRSS))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var collected []any
	for e := range entries {
		collected = append(collected, e)
	}

	if len(collected) != 3 {
		t.Fatalf("Expected channel + 2 items, got %d entries", len(collected))
	}

	channel, ok := collected[0].(model.Channel)
	if !ok {
		t.Fatalf("Expected first entry to be a Channel, got %T", collected[0])
	}
	if channel.Title != "Eastern District of New York Filings Entries on cases" {
		t.Errorf("Unexpected channel title %q", channel.Title)
	}
	if channel.Link != "https://ecf.nyed.uscourts.gov" {
		t.Errorf("Unexpected channel link %q", channel.Link)
	}

	first, ok := collected[1].(model.CourtItem)
	if !ok {
		t.Fatalf("Expected second entry to be a CourtItem, got %T", collected[1])
	}
	if first.Docket != "2:23-cv-09491-PKC-ST" {
		t.Errorf("Expected docket extraction during parse, got %q", first.Docket)
	}
	if first.TextPubDate != "Thu, 28 Dec 2023 21:18:55 GMT" {
		t.Errorf("Expected raw publication text to be preserved, got %q", first.TextPubDate)
	}

	second, ok := collected[2].(model.CourtItem)
	if !ok {
		t.Fatalf("Expected third entry to be a CourtItem, got %T", collected[2])
	}
	if second.Docket != "" {
		t.Errorf("Expected no docket for announcement item, got %q", second.Docket)
	}
}

func TestParser_Run_Invalid(t *testing.T) {
	parser := NewParser()

	if _, err := parser.Run([]byte("this is not a feed")); err == nil {
		t.Error("Expected parse error for non-feed data")
	}
}

package writer

import (
	"strings"
	"testing"

	"github.com/docketwatch/docketwatch/app/feed"
	"github.com/docketwatch/docketwatch/app/filter"
	"github.com/docketwatch/docketwatch/app/model"
	"github.com/docketwatch/docketwatch/app/storage"
)

func newTestStorage(t *testing.T) storage.Storage {
	t.Helper()
	st, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	return st
}

func detail(channel, title, pub string) model.ItemDetail {
	return model.ItemDetail{
		Item:    model.NewCourtItem(title, "https://x/doc", "desc", pub),
		Channel: model.Channel{Title: channel, Link: "http://x"},
	}
}

func seedStore(t *testing.T) storage.Storage {
	t.Helper()
	st := newTestStorage(t)

	withDocket := detail("District A", "2:23-cv-04570-HG Doe v. Roe", "Thu, 18 Jan 2024 14:30:00 GMT")
	noDocket := detail("District B", "General Announcement", "Fri, 19 Jan 2024 08:00:00 GMT")

	if err := st.Make([]string{"20240118", "14"}, false); err != nil {
		t.Fatalf("Make failed: %v", err)
	}
	if err := st.WriteJSON([]string{"20240118", "14", feed.BucketFile}, []model.ItemDetail{withDocket}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	if err := st.Make([]string{"20240119", "08"}, false); err != nil {
		t.Fatalf("Make failed: %v", err)
	}
	if err := st.WriteJSON([]string{"20240119", "08", feed.BucketFile}, []model.ItemDetail{noDocket}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	if err := st.WriteJSON([]string{filter.HistoryFile}, []model.ItemDetail{withDocket}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	return st
}

func TestLoadIndices(t *testing.T) {
	st := seedStore(t)

	indices, err := LoadIndices(st)
	if err != nil {
		t.Fatalf("LoadIndices failed: %v", err)
	}

	if len(indices["court"]) != 2 {
		t.Errorf("Expected 2 court keys, got %d", len(indices["court"]))
	}
	if len(indices["court"]["District A"]) != 1 {
		t.Errorf("Expected 1 item for District A, got %d", len(indices["court"]["District A"]))
	}

	if _, ok := indices["docket"]["2:23-cv-04570-HG"]; !ok {
		t.Error("Expected docket grouping for extracted docket")
	}
	if _, ok := indices["docket"][UnknownKey]; !ok {
		t.Error("Expected no-docket item grouped under Unknown")
	}

	if _, ok := indices["date"]["2024-Jan-18"]; !ok {
		t.Error("Expected date grouping in YYYY-Mon-DD form")
	}

	if len(indices["filtered"]) != 1 {
		t.Errorf("Expected 1 filtered key, got %d", len(indices["filtered"]))
	}
}

func TestRunWriter_HTML(t *testing.T) {
	st := seedStore(t)
	out := newTestStorage(t)

	if err := RunWriter(st, out, "html", 20); err != nil {
		t.Fatalf("RunWriter failed: %v", err)
	}

	if !out.Exists([]string{"index.html"}) {
		t.Error("Expected top-level index.html")
	}
	for _, name := range IndexNames {
		if !out.Exists([]string{name, "index.html"}) {
			t.Errorf("Expected %s/index.html", name)
		}
	}
	if !out.Exists([]string{"court", "index_1.html"}) {
		t.Error("Expected court/index_1.html")
	}
}

func TestRunWriter_Markdown(t *testing.T) {
	st := seedStore(t)
	out := newTestStorage(t)

	if err := RunWriter(st, out, "md", 0); err != nil {
		t.Fatalf("RunWriter failed: %v", err)
	}

	if !out.Exists([]string{"index.md"}) {
		t.Error("Expected top-level index.md")
	}
	if !out.Exists([]string{"docket", "index_1.md"}) {
		t.Error("Expected single unpaginated docket page")
	}
}

func TestRunWriter_UnknownFormat(t *testing.T) {
	st := seedStore(t)

	if err := RunWriter(st, newTestStorage(t), "pdf", 20); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestWriteCSV(t *testing.T) {
	st := seedStore(t)
	indices, err := LoadIndices(st)
	if err != nil {
		t.Fatalf("LoadIndices failed: %v", err)
	}

	var buf strings.Builder
	if err := WriteCSV(indices, &buf); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "title,docket,pub_date") {
		t.Errorf("Unexpected header %q", lines[0])
	}
	// Court groups are emitted in sorted order.
	if !strings.Contains(lines[1], "District A") {
		t.Errorf("Expected District A row first, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "District B") {
		t.Errorf("Expected District B row second, got %q", lines[2])
	}
}

package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/docketwatch/docketwatch/app/model"
)

// WriteCSV emits one row per item in the court index, rows ordered by
// ascending publication timestamp within each court group.
func WriteCSV(indices Indices, w io.Writer) error {
	court := indices["court"]

	courts := make([]string, 0, len(court))
	for name := range court {
		courts = append(courts, name)
	}
	sort.Strings(courts)

	out := csv.NewWriter(w)
	if err := out.Write([]string{"title", "docket", "pub_date", "title", "link", "description"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, name := range courts {
		items := make([]model.ItemDetail, len(court[name]))
		copy(items, court[name])
		if err := model.SortDetails(items); err != nil {
			return err
		}
		for _, detail := range items {
			row := []string{
				detail.Channel.Title,
				detail.Item.Docket,
				detail.Item.PubDateDisplay(),
				detail.Item.Title,
				detail.Item.Link,
				detail.Item.Description,
			}
			if err := out.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	out.Flush()
	if err := out.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

package notify

import (
	"time"

	"github.com/docketwatch/docketwatch/app/model"
	"github.com/docketwatch/docketwatch/app/storage"
)

var _ Notifier = (*LogNote)(nil)

// LogNote writes the digest as an HTML file under notification/ in the
// given storage instead of sending anything. This is the local-environment
// variant.
type LogNote struct {
	core
	st  storage.Storage
	now func() time.Time
}

func NewLogNote(st storage.Storage) *LogNote {
	return &LogNote{st: st, now: time.Now}
}

func (n *LogNote) Close() error {
	return n.finalize(func(subject string, items []model.ItemDetail) error {
		text, err := renderHTMLDigest(subject, items)
		if err != nil {
			return err
		}
		if err := n.st.Make([]string{"notification"}, true); err != nil {
			return err
		}
		path := []string{"notification", n.now().Format("2006-Jan-02") + ".html"}
		return n.st.WriteText(path, text)
	})
}

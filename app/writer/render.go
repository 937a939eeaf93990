package writer

import (
	"fmt"
	htmltemplate "html/template"
	"log/slog"
	"os"
	"sort"
	"strings"
	texttemplate "text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/docketwatch/docketwatch/app/storage"
)

var titleCaser = cases.Title(language.English)

var (
	htmlMainIndexTemplate = htmltemplate.Must(
		htmltemplate.Must(htmltemplate.New("base").Parse(htmlBase)).Parse(htmlMainIndex))
	htmlSubjectIndexTemplate = htmltemplate.Must(
		htmltemplate.Must(htmltemplate.New("base").Parse(htmlBase)).Parse(htmlSubjectIndex))
	htmlSubjectPageTemplate = htmltemplate.Must(
		htmltemplate.Must(htmltemplate.New("base").Parse(htmlBase)).Parse(htmlSubjectPage))

	mdSubjectIndexTemplate = texttemplate.Must(texttemplate.New("index").Parse(mdSubjectIndex))
	mdSubjectPageTemplate  = texttemplate.Must(texttemplate.New("page").Parse(mdSubjectPage))
)

type subjectIndexData struct {
	Title     string
	IndexName string
	Pages     []Page
}

type subjectPageData struct {
	Title     string
	IndexName string
	Page      int
	PrevPage  int
	NextPage  int
	Keys      []string
	Items     DetailMap
}

// RunWriter reads the whole item store, organizes it, and emits the
// selected format: paginated HTML or Markdown pages into the output
// storage, or a CSV extract of the court index to stdout.
func RunWriter(st, out storage.Storage, format string, pageSize int) error {
	indices, err := LoadIndices(st)
	if err != nil {
		return err
	}

	switch format {
	case "csv":
		return WriteCSV(indices, os.Stdout)
	case "html", "md":
		return writePages(out, format, pageSize, indices)
	default:
		return fmt.Errorf("unknown writer format %q", format)
	}
}

func writePages(out storage.Storage, format string, pageSize int, indices Indices) error {
	for _, name := range IndexNames {
		if err := writeSubject(out, format, pageSize, name, indices[name]); err != nil {
			return err
		}
	}

	indexFile := []string{"index." + format}
	slog.Info("Writing main index", "path", indexFile)
	if format == "html" {
		text, err := renderHTML(htmlMainIndexTemplate, map[string]string{"Title": "US Courts RSS Index"})
		if err != nil {
			return err
		}
		return out.WriteText(indexFile, text)
	}
	return out.WriteText(indexFile, mdMainIndex)
}

func writeSubject(out storage.Storage, format string, pageSize int, name string, index DetailMap) error {
	if err := out.Make([]string{name}, true); err != nil {
		return err
	}

	keys := make([]string, 0, len(index))
	for k := range index {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pages := PaginateKeys(keys, pageSize)
	displayName := titleCaser.String(name)

	indexData := subjectIndexData{
		Title:     displayName + " Index",
		IndexName: displayName,
		Pages:     pages,
	}
	indexFile := []string{name, "index." + format}
	slog.Info("Writing subject index", "path", strings.Join(indexFile, "/"))

	var text string
	var err error
	if format == "html" {
		text, err = renderHTML(htmlSubjectIndexTemplate, indexData)
	} else {
		text, err = renderMD(mdSubjectIndexTemplate, indexData)
	}
	if err != nil {
		return err
	}
	if err := out.WriteText(indexFile, text); err != nil {
		return err
	}

	for _, page := range pages {
		stop := page.Stop
		if stop > len(keys) {
			stop = len(keys)
		}
		pageData := subjectPageData{
			Title:     fmt.Sprintf("%s Page %d", displayName, page.Number),
			IndexName: displayName,
			Page:      page.Number,
			Keys:      keys[page.Start:stop],
			Items:     index,
		}
		if page.Number > 1 {
			pageData.PrevPage = page.Number - 1
		}
		if page.Number < len(pages) {
			pageData.NextPage = page.Number + 1
		}

		pageFile := []string{name, fmt.Sprintf("index_%d.%s", page.Number, format)}
		slog.Info("Writing subject page", "path", strings.Join(pageFile, "/"))

		if format == "html" {
			text, err = renderHTML(htmlSubjectPageTemplate, pageData)
		} else {
			text, err = renderMD(mdSubjectPageTemplate, pageData)
		}
		if err != nil {
			return err
		}
		if err := out.WriteText(pageFile, text); err != nil {
			return err
		}
	}
	return nil
}

func renderHTML(t *htmltemplate.Template, data any) (string, error) {
	var buf strings.Builder
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}

func renderMD(t *texttemplate.Template, data any) (string, error) {
	var buf strings.Builder
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}

package notify

import (
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/docketwatch/docketwatch/app/model"
)

const htmlDigest = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{.Subject}}</title>
</head>
<body>
<h1>{{.Subject}}</h1>
<ul>
{{range .Items}}<li>{{.Item.Title}}: {{.Item.PubDateDisplay}} <a href="{{.Item.Link}}">link</a> {{.Item.Description}}</li>
{{end}}</ul>
</body>
</html>
`

const textDigest = `{{range .Items}}- {{.Item.Title}}: {{.Item.PubDateDisplay}} {{.Item.Link}} {{.Item.Description}}
{{end}}`

var (
	htmlDigestTemplate = htmltemplate.Must(htmltemplate.New("digest").Parse(htmlDigest))
	textDigestTemplate = texttemplate.Must(texttemplate.New("digest").Parse(textDigest))
)

type digestData struct {
	Subject string
	Items   []model.ItemDetail
}

func renderHTMLDigest(subject string, items []model.ItemDetail) (string, error) {
	var buf strings.Builder
	if err := htmlDigestTemplate.Execute(&buf, digestData{Subject: subject, Items: items}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderTextDigest(subject string, items []model.ItemDetail) (string, error) {
	var buf strings.Builder
	if err := textDigestTemplate.Execute(&buf, digestData{Subject: subject, Items: items}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

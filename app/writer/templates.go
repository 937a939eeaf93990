package writer

const htmlBase = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<link rel="stylesheet" href="https://cdn.simplecss.org/simple.min.css">
<title>{{.Title}}</title>
</head>
<body>
<header><h1>{{.Title}}</h1></header>
<main>
{{block "content" .}}{{end}}
</main>
</body>
</html>
`

const htmlMainIndex = `{{define "content"}}
<p><a href="court/index.html">Court</a></p>
<p><a href="docket/index.html">Docket</a></p>
<p><a href="date/index.html">Date</a></p>
<p><a href="filtered/index.html">Filtered by Docket</a></p>
{{end}}`

const htmlSubjectIndex = `{{define "content"}}
<p><a class="button" href="..">Main Index</a></p>
<ul>
{{range .Pages}}<li><p>{{$.IndexName}} <a href="index_{{.Number}}.html">Page {{.Number}}</a></p></li>
{{end}}</ul>
<p><a class="button" href="..">Main Index</a></p>
{{end}}`

const htmlSubjectPage = `{{define "content"}}
{{template "nav" .}}
{{range .Keys}}{{$items := index $.Items .}}
<section>
<h2>{{.}} ({{len $items}} items)</h2>
<ul>
{{range $items}}<li>{{.Item.Title}}: {{.Item.PubDateDisplay}} <a href="{{.Item.Link}}">link</a> {{.Item.Description}}</li>
{{end}}</ul>
</section>
{{end}}
{{template "nav" .}}
{{end}}
{{define "nav"}}<p>{{if .PrevPage}}<a class="button" href="index_{{.PrevPage}}.html">Page {{.PrevPage}}</a> {{end}}<a class="button" href="index.html">Index</a>{{if .NextPage}} <a class="button" href="index_{{.NextPage}}.html">Page {{.NextPage}}</a>{{end}}</p>{{end}}`

const mdMainIndex = `# US Courts RSS

- [Court](court/index.md)
- [Docket](docket/index.md)
- [Date](date/index.md)
- [Filtered by Docket](filtered/index.md)
`

const mdSubjectIndex = `# {{.IndexName}}
{{range .Pages}}
Page [{{.Number}}](index_{{.Number}}.md)
{{end}}`

const mdSubjectPage = `# {{.IndexName}}   page {{.Page}}
{{range .Keys}}{{$items := index $.Items .}}
## {{.}} ({{len $items}} items)
{{range $items}}
-  {{.Item.Title}}: {{.Item.PubDateDisplay}} [link]({{.Item.Link}}) {{.Item.Description}}
{{end}}{{end}}`

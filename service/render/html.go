package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// raw html in the markdown is escaped, symbols come from the query string
var converter = goldmark.New(goldmark.WithExtensions(extension.GFM))

var page = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Stock Performance Dashboard - {{.Period}}</title>
<style>
body { font-family: sans-serif; margin: 2rem auto; max-width: 72rem; }
table { border-collapse: collapse; margin-bottom: 1rem; }
th, td { border: 1px solid #ccc; padding: 0.25rem 0.5rem; }
th { background: #f3f3f3; }
</style>
</head>
<body>
<form method="get" action="/">
<label for="period">Period</label>
<select id="period" name="period" onchange="this.form.submit()">
{{- range .Periods}}
<option value="{{.}}"{{if eq . $.Period}} selected{{end}}>{{.}}</option>
{{- end}}
</select>
<label for="symbols">Symbols</label>
<input id="symbols" name="symbols" value="{{.Symbols}}" placeholder="TCS,INFY">
<button type="submit">Apply</button>
</form>
{{.Body}}
</body>
</html>
`))

type pageData struct {
	Period  string
	Periods []string
	Symbols string
	Body    template.HTML
}

// MarkdownToHTML converts a markdown fragment, tables included
func MarkdownToHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := converter.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("error converting markdown: %w", err)
	}
	return buf.String(), nil
}

// DashboardPage writes the full html page with a period selector above the dashboard
func DashboardPage(w io.Writer, markdown, period, symbols string, periods []string) error {
	body, err := MarkdownToHTML(markdown)
	if err != nil {
		return err
	}

	return page.Execute(w, pageData{
		Period:  period,
		Periods: periods,
		Symbols: symbols,
		Body:    template.HTML(body),
	})
}

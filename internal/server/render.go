package server

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"TrendScreener/internal/model"
	"TrendScreener/internal/notifier"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="300">
<title>Trend Screener</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: right; }
th:nth-child(-n+2), td:nth-child(-n+2) { text-align: left; }
</style>
</head>
<body>
{{.}}
</body>
</html>
`))

const emptyPage = "# Ranking de tendencia\n\nTodavía no hay ranking disponible.\n"

// renderPage converts the markdown report into a full HTML page.
func renderPage(r *model.Report, loc *time.Location) ([]byte, error) {
	src := emptyPage
	if r != nil {
		src = notifier.FormatMarkdown(r, loc)
	}
	var body bytes.Buffer
	if err := markdown.Convert([]byte(src), &body); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}
	var page bytes.Buffer
	if err := pageTemplate.Execute(&page, template.HTML(body.String())); err != nil {
		return nil, fmt.Errorf("execute page template: %w", err)
	}
	return page.Bytes(), nil
}

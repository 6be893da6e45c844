package output

import (
	"bytes"
	"fmt"

	"github.com/rpgo/lifeplan-simulator/internal/domain"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// HTMLFormatter produces a standalone HTML page from the markdown report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

var htmlConverter = goldmark.New(goldmark.WithExtensions(extension.Table))

const htmlHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Life Plan Projection</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; font-size: 0.85em; }
th, td { border: 1px solid #ccc; padding: 2px 6px; }
td { text-align: right; }
</style>
</head>
<body>
`

const htmlTail = "</body>\n</html>\n"

func (h HTMLFormatter) Format(doc *domain.Document) ([]byte, error) {
	md, err := MarkdownFormatter{}.Format(doc)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(htmlHead)
	if err := htmlConverter.Convert(md, &buf); err != nil {
		return nil, fmt.Errorf("html render: %w", err)
	}
	buf.WriteString(htmlTail)
	return buf.Bytes(), nil
}

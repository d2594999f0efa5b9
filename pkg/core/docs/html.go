package docs

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// extractHTML returns the visible text of an HTML document, one block per line.
func extractHTML(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, nav, footer").Remove()
	doc.Find("[style]").Each(func(i int, sel *goquery.Selection) {
		style := strings.ToLower(strings.ReplaceAll(sel.AttrOr("style", ""), " ", ""))
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			sel.Remove()
		}
	})

	var lines []string
	doc.Find("h1, h2, h3, h4, h5, h6, p, li, tr").Each(func(i int, sel *goquery.Selection) {
		// Rows and list items are emitted whole; skip blocks nested inside them.
		if sel.ParentsFiltered("li, tr").Length() > 0 {
			return
		}
		var text string
		if goquery.NodeName(sel) == "tr" {
			var cells []string
			sel.Find("th, td").Each(func(j int, cell *goquery.Selection) {
				cells = append(cells, strings.Join(strings.Fields(cell.Text()), " "))
			})
			text = strings.Join(cells, " | ")
		} else {
			text = strings.Join(strings.Fields(sel.Text()), " ")
		}
		if text != "" {
			lines = append(lines, text)
		}
	})

	if len(lines) == 0 {
		text := strings.Join(strings.Fields(doc.Find("body").Text()), " ")
		if text == "" {
			text = strings.Join(strings.Fields(doc.Text()), " ")
		}
		return text, nil
	}
	return strings.Join(lines, "\n"), nil
}

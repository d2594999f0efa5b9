package report

import (
	"fmt"
	"html"
	"strings"

	"modelrisk_intake/pkg/core/schema"
	"modelrisk_intake/pkg/core/utils"
	"modelrisk_intake/pkg/models"
)

// Markdown renders the report as one markdown document.
func Markdown(rep *models.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", rep.ModelName)
	if rep.BankName != "" {
		fmt.Fprintf(&sb, "**%s** | Generated %s\n\n", rep.BankName, rep.GeneratedAt.Format("2006-01-02"))
	} else {
		fmt.Fprintf(&sb, "Generated %s\n\n", rep.GeneratedAt.Format("2006-01-02"))
	}

	for _, sec := range rep.Sections {
		heading := sec.Title
		if sec.ID != schema.ModelSummaryID {
			heading = sec.ID + " " + sec.Title
		}
		fmt.Fprintf(&sb, "## %s\n\n%s\n\n", heading, strings.TrimSpace(sec.Content))
	}

	if len(rep.GenerationNotes) > 0 {
		sb.WriteString("## Generation Notes\n\n")
		for _, n := range rep.GenerationNotes {
			fmt.Fprintf(&sb, "- %s\n", n)
		}
	}
	return sb.String()
}

// RenderHTML renders the report as a standalone HTML page.
func RenderHTML(rep *models.Report) (string, error) {
	body, err := utils.RenderMarkdown(Markdown(rep))
	if err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return fmt.Sprintf("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n%s</body>\n</html>\n",
		html.EscapeString(rep.ModelName), body), nil
}

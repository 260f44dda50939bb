package knowledge

import (
	"strconv"
	"strings"

	"ritcompass/internal/models"
)

const notAvailable = "N/A"

// Format renders a category as a markdown document used as model context.
// The output depends only on the record, in stored order.
func Format(rec models.CategoryRecord) string {
	var b strings.Builder

	b.WriteString("# " + rec.Name + "\n")
	b.WriteString(rec.ShortDesc + "\n")

	for _, item := range rec.Items {
		b.WriteString("\n## " + item.Title + "\n")
		b.WriteString(item.Description + "\n")

		if len(item.Steps) > 0 {
			b.WriteString("\n### Steps\n")
			for i, step := range item.Steps {
				expected := step.ExpectedTime
				if expected == "" {
					expected = notAvailable
				}
				b.WriteString(strconv.Itoa(i+1) + ". **" + step.Title + "**\n")
				b.WriteString("    " + step.Description + "\n")
				b.WriteString("    - Responsible Authority: " + step.ResponsibleAuthority + "\n")
				b.WriteString("    - Expected time: " + expected + "\n")
			}
		}

		if len(item.DocsNeeded) > 0 {
			b.WriteString("\n### Documents Needed\n")
			for i, doc := range item.DocsNeeded {
				b.WriteString(strconv.Itoa(i+1) + ". **" + doc.Type + "**\n")
				b.WriteString("    " + doc.Template + "\n")
				b.WriteString("    - Fields: " + strings.Join(doc.Fields, ", ") + "\n")
			}
		}
	}

	return b.String()
}

package api

import (
	"strings"
)

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`, "#", `\#`, "<", "&lt;",
)

// ReportMarkdown turns the findings lines into markdown: the dataset line
// becomes the title, lines ending in a colon become section headings and
// dashed lines become list items
func ReportMarkdown(lines []string) string {
	var b strings.Builder
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			b.WriteString("\n")
		case i == 0:
			b.WriteString("# " + markdownEscaper.Replace(trimmed) + "\n\n")
		case strings.HasPrefix(trimmed, "- "):
			b.WriteString("- " + markdownEscaper.Replace(strings.TrimPrefix(trimmed, "- ")) + "\n")
		case strings.HasSuffix(trimmed, ":") && !strings.HasPrefix(line, " "):
			b.WriteString("## " + markdownEscaper.Replace(strings.TrimSuffix(trimmed, ":")) + "\n\n")
		default:
			b.WriteString(markdownEscaper.Replace(trimmed) + "\n\n")
		}
	}
	return b.String()
}

package extract

import (
	"regexp"
	"strings"
)

var (
	twoPlusSpaces = regexp.MustCompile(`\s{2,}`)
	dotLeaders    = regexp.MustCompile(`(?:\s?\.){4,}\s?`)
)

const maxTableRows = 50

// transformTables finds runs of space-aligned lines with a constant column
// count and renders them as Markdown tables.
func transformTables(text string) string {
	lines := strings.Split(text, "\n")
	var out []string
	i := 0
	for i < len(lines) {
		start := i
		cols := 0
		var block [][]string
		for i < len(lines) {
			ln := strings.TrimRight(lines[i], " ")
			if ln == "" {
				break
			}
			parts := splitBy2Spaces(ln)
			if len(parts) < 2 {
				break
			}
			if cols == 0 {
				cols = len(parts)
			}
			if len(parts) != cols || len(block) == maxTableRows {
				break
			}
			block = append(block, parts)
			i++
		}
		if len(block) >= 2 {
			out = append(out, tableRow(block[0]), tableRow(make([]string, cols)))
			for _, row := range block[1:] {
				out = append(out, tableRow(row))
			}
			continue
		}
		out = append(out, lines[start])
		i = start + 1
	}
	return strings.Join(out, "\n")
}

// tableRow renders cells as a Markdown row. An all-empty row becomes the
// header separator.
func tableRow(cells []string) string {
	cells = trimAll(cells)
	if strings.Join(cells, "") == "" {
		for i := range cells {
			cells[i] = "---"
		}
	}
	return "| " + strings.Join(cells, " | ") + " |"
}

func splitBy2Spaces(s string) []string {
	return twoPlusSpaces.Split(strings.TrimSpace(s), -1)
}

func trimAll(a []string) []string {
	out := make([]string, len(a))
	for i, v := range a {
		out[i] = strings.TrimSpace(v)
	}
	return out
}

// normalizeLeaders replaces bullets and table-of-contents dot leaders with a
// column gap.
func normalizeLeaders(s string) string {
	s = strings.ReplaceAll(s, "…", "...")
	s = dotLeaders.ReplaceAllString(s, "  ")
	s = strings.ReplaceAll(s, "•", "-")
	s = strings.ReplaceAll(s, "·", "-")
	return s
}

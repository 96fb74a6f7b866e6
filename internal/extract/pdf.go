package extract

import (
	"bytes"
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"
	rpdf "rsc.io/pdf"
)

// pdfText reads the text layer of every page. Pages are separated by a blank
// line; space-aligned tables are rendered as Markdown tables.
func pdfText(data []byte) (text string, err error) {
	// rsc.io/pdf panics on malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", errors.Errorf("malformed pdf: %v", r)
		}
	}()

	doc, err := rpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.Wrap(err, "open pdf")
	}
	var pages []string
	for i := 1; i <= doc.NumPage(); i++ {
		p := doc.Page(i)
		if p.V.IsNull() {
			continue
		}
		page := strings.TrimSpace(transformTables(pageLines(p.Content().Text)))
		if page != "" {
			pages = append(pages, page)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}

// pageLines groups text runs into lines by baseline, in drawing order, and
// joins each line's runs left to right.
func pageLines(runs []rpdf.Text) string {
	var lines [][]rpdf.Text
	for _, r := range runs {
		n := len(lines)
		if n > 0 && sameBaseline(lines[n-1][0], r) {
			lines[n-1] = append(lines[n-1], r)
			continue
		}
		lines = append(lines, []rpdf.Text{r})
	}

	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		sort.SliceStable(line, func(a, c int) bool { return line[a].X < line[c].X })
		b.WriteString(joinRuns(line))
	}
	return b.String()
}

func sameBaseline(a, b rpdf.Text) bool {
	tolerance := math.Max(a.FontSize, b.FontSize) / 2
	if tolerance <= 0 {
		tolerance = 1
	}
	return math.Abs(a.Y-b.Y) <= tolerance
}

// joinRuns inserts a space where the horizontal gap between runs is wider
// than a fraction of the font size, and two spaces for column-sized gaps so
// transformTables can pick up the columns.
func joinRuns(line []rpdf.Text) string {
	var b strings.Builder
	for i, r := range line {
		if i > 0 {
			prev := line[i-1]
			gap := r.X - (prev.X + prev.W)
			size := math.Max(r.FontSize, 1)
			switch {
			case gap > 2*size:
				b.WriteString("  ")
			case gap > 0.2*size && !strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(r.S, " "):
				b.WriteByte(' ')
			}
		}
		b.WriteString(r.S)
	}
	return normalizeLeaders(b.String())
}

// PageCount reports the number of pages in a PDF document.
func PageCount(data []byte) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, errors.Errorf("malformed pdf: %v", r)
		}
	}()
	doc, err := rpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, errors.Wrap(err, "open pdf")
	}
	return doc.NumPage(), nil
}

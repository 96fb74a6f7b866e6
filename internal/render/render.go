package render

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/thywilljoshua/docu-learn/internal/ai"
	"github.com/thywilljoshua/docu-learn/internal/quiz"
)

// Pack is everything generated for one document. Nil or empty parts are
// skipped.
type Pack struct {
	DocumentName string
	Notes        *ai.Notes
	Flashcards   []ai.Flashcard
	Quiz         *quiz.Quiz
}

type manifest struct {
	Document    string    `json:"document"`
	GeneratedAt time.Time `json:"generatedAt"`
	Pages       []string  `json:"pages"`
}

var optionLetters = [quiz.OptionCount]string{"A", "B", "C", "D"}

// WritePack writes one Markdown page per study aid plus a pack.json manifest
// into outDir and returns the written paths.
func WritePack(outDir string, p Pack, now time.Time) ([]string, error) {
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create %s", outDir)
	}
	title := documentTitle(p.DocumentName)
	slug := slugify(title)
	if slug == "" {
		slug = "document"
	}

	pages := map[string]string{}
	var order []string
	add := func(kind, content string) {
		name := slug + "-" + kind + ".md"
		pages[name] = content
		order = append(order, name)
	}
	if p.Notes != nil && strings.TrimSpace(p.Notes.Notes) != "" {
		add("notes", Notes(title, *p.Notes))
	}
	if len(p.Flashcards) > 0 {
		add("flashcards", Flashcards(title, p.Flashcards))
	}
	if p.Quiz != nil && p.Quiz.Len() > 0 {
		add("quiz", Quiz(title, *p.Quiz))
	}

	var written []string
	for _, name := range order {
		path := filepath.Join(outDir, name)
		if err := os.WriteFile(path, []byte(pages[name]), 0o644); err != nil {
			return written, errors.Wrapf(err, "write %s", path)
		}
		written = append(written, path)
	}

	out, err := json.MarshalIndent(manifest{Document: p.DocumentName, GeneratedAt: now.UTC(), Pages: order}, "", "  ")
	if err != nil {
		return written, errors.Wrap(err, "encode manifest")
	}
	path := filepath.Join(outDir, "pack.json")
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return written, errors.Wrapf(err, "write %s", path)
	}
	return append(written, path), nil
}

// Notes renders generated notes under a front matter title.
func Notes(title string, n ai.Notes) string {
	var b strings.Builder
	b.WriteString(frontMatter(title + " - Notes"))
	b.WriteString(quiz.StripCodeFences(n.Notes))
	b.WriteString("\n")
	return b.String()
}

// Flashcards renders one heading per card with the answer below it.
func Flashcards(title string, cards []ai.Flashcard) string {
	var b strings.Builder
	b.WriteString(frontMatter(title + " - Flashcards"))
	for i, c := range cards {
		fmt.Fprintf(&b, "## %d. %s\n\n%s\n\n", i+1, c.Front, c.Back)
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// Quiz renders the questions with lettered options and puts the answer key
// at the end so the page can be used for self-testing.
func Quiz(title string, q quiz.Quiz) string {
	var b strings.Builder
	b.WriteString(frontMatter(title + " - Quiz"))
	var key []string
	for i, question := range q.Questions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, question.Question)
		answer := ""
		for j, opt := range question.Options {
			if j >= len(optionLetters) {
				break
			}
			fmt.Fprintf(&b, "   %s) %s\n", optionLetters[j], opt)
			if opt == question.Answer {
				answer = optionLetters[j] + ") " + opt
			}
		}
		b.WriteString("\n")
		key = append(key, fmt.Sprintf("%d. %s", i+1, answer))
	}
	b.WriteString("## Answer key\n\n")
	b.WriteString(strings.Join(key, "\n"))
	b.WriteString("\n")
	return b.String()
}

func frontMatter(title string) string {
	return fmt.Sprintf("---\ntitle: \"%s\"\n---\n\n# %s\n\n", escapeQuotes(title), title)
}

func documentTitle(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	base = strings.TrimSpace(strings.NewReplacer("_", " ", "-", " ").Replace(base))
	if base == "" || base == "." {
		return "Document"
	}
	return base
}

func escapeQuotes(s string) string { return strings.ReplaceAll(s, "\"", "\\\"") }

var nonSlug = regexp.MustCompile(`[^a-z0-9\-]+`)

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "-", "/", "-", ".", "-").Replace(s)
	s = nonSlug.ReplaceAllString(s, "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-")
}

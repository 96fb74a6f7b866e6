package quiz

import (
	"log"
	"regexp"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

var (
	blockSeparator    = regexp.MustCompile(`\n\s*\n`)
	enumerationPrefix = regexp.MustCompile(`^\d+\.\s*`)
	optionPrefix      = regexp.MustCompile(`(?i)^[A-D]\)\s*`)
	answerLine        = regexp.MustCompile(`(?i)(?:Answer|Correct Answer):?\s*([A-D])\)?\.?\s*(.*)`)
)

// Parse recovers a Quiz from a model response. It tries the response as JSON
// first (after removing code fences) and falls back to numbered text blocks:
// a question line, four "A) option" lines and an "Answer: B) option" line.
// It returns a *ParseError when no well-formed question can be recovered.
func Parse(raw string) (Quiz, error) {
	candidate := StripCodeFences(raw)

	questions, err := parseJSON(candidate)
	if err == nil {
		return Quiz{Questions: questions}, nil
	}
	log.Printf("quiz: JSON strategy failed, falling back to text blocks: %v", err)

	questions = parseBlocks(candidate)
	if len(questions) == 0 {
		return Quiz{}, &ParseError{Reason: "no text block yielded a valid question; json: " + err.Error()}
	}
	return Quiz{Questions: questions}, nil
}

func parseJSON(candidate string) ([]Question, error) {
	var v any
	if err := json.Unmarshal([]byte(candidate), &v); err != nil {
		// Models sometimes surround the document with prose.
		embedded := FindFirstJSON(candidate)
		if embedded == "" || embedded == candidate {
			return nil, errors.Wrap(err, "decode json")
		}
		if err2 := json.Unmarshal([]byte(embedded), &v); err2 != nil {
			return nil, errors.Wrap(err, "decode json")
		}
	}

	items, ok := questionSequence(v)
	if !ok {
		return nil, errors.New("json has no questions sequence")
	}
	if len(items) == 0 {
		return nil, errors.New("json questions sequence is empty")
	}

	out := make([]Question, 0, len(items))
	for i, item := range items {
		q, err := decodeQuestion(item)
		if err != nil {
			log.Printf("quiz: dropping JSON question %d: %v", i, err)
			continue
		}
		out = append(out, q)
	}
	if len(out) == 0 {
		return nil, errors.New("json contains no well-formed questions")
	}
	return out, nil
}

// questionSequence applies the precedence quiz.questions, questions, then the value itself.
func questionSequence(v any) ([]any, bool) {
	if m, ok := v.(map[string]any); ok {
		if inner, ok := m["quiz"].(map[string]any); ok {
			if qs, ok := inner["questions"].([]any); ok {
				return qs, true
			}
		}
		if qs, ok := m["questions"].([]any); ok {
			return qs, true
		}
		return nil, false
	}
	qs, ok := v.([]any)
	return qs, ok
}

func decodeQuestion(item any) (Question, error) {
	m, ok := item.(map[string]any)
	if !ok {
		return Question{}, errors.New("question is not an object")
	}
	text, _ := m["question"].(string)
	answer, _ := m["answer"].(string)
	rawOptions, ok := m["options"].([]any)
	if !ok {
		return Question{}, errors.New("options is not a list")
	}
	options := make([]string, 0, len(rawOptions))
	for _, o := range rawOptions {
		s, ok := o.(string)
		if !ok {
			return Question{}, errors.New("option is not a string")
		}
		options = append(options, s)
	}

	q := Question{Question: text, Options: options, Answer: answer}
	if !q.HasOption(q.Answer) {
		if idx, ok := letterIndex(q.Answer); ok && idx < len(q.Options) {
			q.Answer = q.Options[idx]
		}
	}
	if err := validate(q); err != nil {
		return Question{}, err
	}
	return q, nil
}

func parseBlocks(text string) []Question {
	var out []Question
	for _, block := range blockSeparator.Split(strings.TrimSpace(text), -1) {
		if q, ok := parseBlock(block); ok {
			out = append(out, q)
		}
	}
	return out
}

func parseBlock(block string) (Question, bool) {
	var lines []string
	for _, ln := range strings.Split(block, "\n") {
		if strings.TrimSpace(ln) != "" {
			lines = append(lines, strings.TrimSpace(ln))
		}
	}
	if len(lines) < 3 {
		return Question{}, false
	}

	question := strings.TrimSpace(enumerationPrefix.ReplaceAllString(lines[0], ""))
	middle := lines[1 : len(lines)-1]
	options := make([]string, 0, len(middle))
	for _, ln := range middle {
		options = append(options, strings.TrimSpace(optionPrefix.ReplaceAllString(ln, "")))
	}

	m := answerLine.FindStringSubmatch(lines[len(lines)-1])
	if m == nil {
		return Question{}, false
	}
	idx := int(strings.ToUpper(m[1])[0] - 'A')
	if idx < 0 || idx >= len(options) {
		return Question{}, false
	}

	q := Question{Question: question, Options: options, Answer: options[idx]}
	if err := validate(q); err != nil {
		return Question{}, false
	}
	return q, true
}

// letterIndex maps "B", "b)", "B." to 1.
func letterIndex(s string) (int, bool) {
	s = strings.TrimRight(strings.TrimSpace(s), ").")
	if len(s) != 1 {
		return 0, false
	}
	c := strings.ToUpper(s)[0]
	if c < 'A' || c > 'D' {
		return 0, false
	}
	return int(c - 'A'), true
}

func validate(q Question) error {
	if strings.TrimSpace(q.Question) == "" {
		return errors.New("empty question text")
	}
	if len(q.Options) != OptionCount {
		return errors.Errorf("expected %d options, got %d", OptionCount, len(q.Options))
	}
	seen := make(map[string]struct{}, len(q.Options))
	for _, o := range q.Options {
		if strings.TrimSpace(o) == "" {
			return errors.New("empty option")
		}
		if _, dup := seen[o]; dup {
			return errors.Errorf("duplicate option %q", o)
		}
		seen[o] = struct{}{}
	}
	if !q.HasOption(q.Answer) {
		return errors.Errorf("answer %q is not one of the options", q.Answer)
	}
	return nil
}

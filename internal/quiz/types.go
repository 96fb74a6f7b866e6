package quiz

// OptionCount is the number of options every question must carry.
const OptionCount = 4

// Question is one multiple-choice item. Answer is always a verbatim member of Options.
type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Quiz is an ordered list of questions in presentation order.
type Quiz struct {
	Questions []Question `json:"questions"`
}

// Len returns the number of questions.
func (q Quiz) Len() int { return len(q.Questions) }

// Question returns the question at i and whether it exists.
func (q Quiz) Question(i int) (Question, bool) {
	if i < 0 || i >= len(q.Questions) {
		return Question{}, false
	}
	return q.Questions[i], true
}

// HasOption reports whether s is one of the question's options.
func (q Question) HasOption(s string) bool {
	for _, o := range q.Options {
		if o == s {
			return true
		}
	}
	return false
}

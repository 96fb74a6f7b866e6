package quiz

// Result is the outcome for one question.
type Result struct {
	Index    int    `json:"index"`
	Selected string `json:"selected,omitempty"`
	Answer   string `json:"answer"`
	Correct  bool   `json:"correct"`
	Answered bool   `json:"answered"`
}

// Score summarizes a graded attempt.
type Score struct {
	Correct int      `json:"correct"`
	Total   int      `json:"total"`
	Percent float64  `json:"percent"`
	Results []Result `json:"results"`
}

// Grade scores selected answers keyed by question index. Unanswered
// questions count as incorrect; indexes outside the quiz are ignored.
func Grade(q Quiz, selected map[int]string) Score {
	s := Score{Total: len(q.Questions), Results: make([]Result, 0, len(q.Questions))}
	for i, question := range q.Questions {
		r := Result{Index: i, Answer: question.Answer}
		if choice, ok := selected[i]; ok {
			r.Selected = choice
			r.Answered = true
			r.Correct = choice == question.Answer
		}
		if r.Correct {
			s.Correct++
		}
		s.Results = append(s.Results, r)
	}
	if s.Total > 0 {
		s.Percent = float64(s.Correct) / float64(s.Total) * 100
	}
	return s
}

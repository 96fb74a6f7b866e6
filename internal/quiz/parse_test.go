package quiz

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func requireAnswersAreOptions(t *testing.T, q Quiz) {
	t.Helper()
	require.NotEmpty(t, q.Questions)
	for i, question := range q.Questions {
		require.Truef(t, question.HasOption(question.Answer), "question %d: answer %q not in %v", i, question.Answer, question.Options)
	}
}

func TestParseJSONQuizEnvelope(t *testing.T) {
	raw := `{"quiz":{"questions":[{"question":"2+2?","options":["3","4","5","6"],"answer":"4"}]}}`

	got, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, got.Questions, 1)
	require.Equal(t, "4", got.Questions[0].Answer)
	require.Equal(t, []string{"3", "4", "5", "6"}, got.Questions[0].Options)
}

func TestParseFencedJSON(t *testing.T) {
	body := `{"questions":[{"question":"Capital of France?","options":["Paris","Rome","Madrid","Berlin"],"answer":"Paris"}]}`

	plain, err := Parse(body)
	require.NoError(t, err)

	for _, raw := range []string{
		"```json\n" + body + "\n```",
		"```\n" + body + "\n```",
		"  ```JSON\r\n" + body + "\r\n```  ",
	} {
		fenced, err := Parse(raw)
		require.NoError(t, err, raw)
		require.Equal(t, plain, fenced)
	}
}

func TestParseTextBlock(t *testing.T) {
	got, err := Parse("1. What is 2+2?\nA) 3\nB) 4\nC) 5\nD) 6\nAnswer: B) 4")
	require.NoError(t, err)
	require.Len(t, got.Questions, 1)
	require.Equal(t, "What is 2+2?", got.Questions[0].Question)
	require.Equal(t, []string{"3", "4", "5", "6"}, got.Questions[0].Options)
	require.Equal(t, "4", got.Questions[0].Answer)
}

func TestParseUnrecognizableInputFails(t *testing.T) {
	for _, raw := range []string{
		"not json and not a recognizable block",
		"",
		"   \n\n  ",
		`{"foo": 1}`,
		`{"questions": []}`,
	} {
		_, err := Parse(raw)
		var perr *ParseError
		require.ErrorAs(t, err, &perr, "input %q", raw)
		require.Contains(t, perr.Error(), "try generating it again")
	}
}

func TestParseAnswerLetterOutOfRange(t *testing.T) {
	only := "1. What is 2+2?\nA) 3\nB) 4\nC) 5\nD) 6\nAnswer: E) 7"
	_, err := Parse(only)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)

	mixed := only + "\n\n2. What is 3+3?\nA) 5\nB) 6\nC) 7\nD) 8\nCorrect Answer: b"
	got, err := Parse(mixed)
	require.NoError(t, err)
	require.Len(t, got.Questions, 1)
	require.Equal(t, "What is 3+3?", got.Questions[0].Question)
	require.Equal(t, "6", got.Questions[0].Answer)
}

func TestParseTextBlocksSkipMalformed(t *testing.T) {
	raw := strings.Join([]string{
		"Here is your quiz about the solar system.",
		"1. Which planet is largest?\nA) Mars\nB) Jupiter\nC) Venus\nD) Earth\nAnswer: B",
		"2. Too few lines\nAnswer: A",
		"3. Which planet has rings?\nA) Saturn\nB) Mercury\nC) Mars\nD) Venus\nno answer here",
		"4. Closest planet to the sun?\r\na) Venus\r\nb) Mercury\r\nc) Earth\r\nd) Mars\r\nanswer: b) Mercury.",
	}, "\n\n")

	got, err := Parse(raw)
	require.NoError(t, err)
	requireAnswersAreOptions(t, got)
	require.Equal(t, []Question{
		{Question: "Which planet is largest?", Options: []string{"Mars", "Jupiter", "Venus", "Earth"}, Answer: "Jupiter"},
		{Question: "Closest planet to the sun?", Options: []string{"Venus", "Mercury", "Earth", "Mars"}, Answer: "Mercury"},
	}, got.Questions)
}

func TestParseTextBlockRejectsWrongOptionCount(t *testing.T) {
	_, err := Parse("1. Pick one\nA) x\nB) y\nC) z\nAnswer: A")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestParseFallbackMatchesTextStrategy(t *testing.T) {
	inputs := []string{
		"1. What is 2+2?\nA) 3\nB) 4\nC) 5\nD) 6\nAnswer: B) 4",
		"1. Q one?\nA) a\nB) b\nC) c\nD) d\nAnswer: D\n\n2. Q two?\nA) e\nB) f\nC) g\nD) h\nCorrect Answer: A) e",
		"```\n1. Fenced?\nA) yes\nB) no\nC) maybe\nD) never\nAnswer: A\n```",
	}
	for _, in := range inputs {
		got, err := Parse(in)
		require.NoError(t, err)
		require.Equal(t, Quiz{Questions: parseBlocks(StripCodeFences(in))}, got)
		requireAnswersAreOptions(t, got)
	}
}

func TestParseJSONShapes(t *testing.T) {
	q := `{"question":"Q?","options":["a","b","c","d"],"answer":"c"}`
	for name, raw := range map[string]string{
		"envelope": `{"quiz":{"questions":[` + q + `]}}`,
		"top":      `{"questions":[` + q + `]}`,
		"array":    `[` + q + `]`,
		"prose":    "Sure! Here is the quiz:\n```json\n{\"questions\":[" + q + "]}\n```\nGood luck with { your studies.",
	} {
		got, err := Parse(raw)
		require.NoError(t, err, name)
		require.Equal(t, Quiz{Questions: []Question{{Question: "Q?", Options: []string{"a", "b", "c", "d"}, Answer: "c"}}}, got, name)
	}
}

func TestParseJSONQuizPrecedence(t *testing.T) {
	raw := `{
		"quiz": {"questions": [{"question":"inner","options":["a","b","c","d"],"answer":"a"}]},
		"questions": [{"question":"outer","options":["a","b","c","d"],"answer":"b"}]
	}`
	got, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, got.Questions, 1)
	require.Equal(t, "inner", got.Questions[0].Question)
}

func TestParseJSONValidatesQuestions(t *testing.T) {
	raw := `{"questions":[
		{"question":"good","options":["a","b","c","d"],"answer":"d"},
		{"question":"three options","options":["a","b","c"],"answer":"a"},
		{"question":"answer missing","options":["a","b","c","d"],"answer":"z"},
		{"question":"duplicates","options":["a","a","c","d"],"answer":"a"},
		{"question":"","options":["a","b","c","d"],"answer":"a"},
		{"question":"letter","options":["w","x","y","z"],"answer":"B)"},
		"not an object"
	]}`
	got, err := Parse(raw)
	require.NoError(t, err)
	requireAnswersAreOptions(t, got)
	require.Equal(t, []Question{
		{Question: "good", Options: []string{"a", "b", "c", "d"}, Answer: "d"},
		{Question: "letter", Options: []string{"w", "x", "y", "z"}, Answer: "x"},
	}, got.Questions)
}

func TestParseJSONAllMalformedFails(t *testing.T) {
	_, err := Parse(`{"questions":[{"question":"q","options":["a","b"],"answer":"a"}]}`)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestParseRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for n := 0; n < 50; n++ {
		want := randomQuiz(rnd)
		body, err := json.Marshal(map[string]Quiz{"quiz": want})
		require.NoError(t, err)

		raw := string(body)
		if n%2 == 1 {
			raw = "```json\n" + raw + "\n```"
		}
		got, err := Parse(raw)
		require.NoError(t, err)
		require.Equal(t, want, got)
		requireAnswersAreOptions(t, got)
	}
}

func randomQuiz(rnd *rand.Rand) Quiz {
	var q Quiz
	for i := 0; i < 1+rnd.Intn(8); i++ {
		options := make([]string, OptionCount)
		for j := range options {
			options[j] = fmt.Sprintf("option %d-%d \"%x\"", i, j, rnd.Int63())
		}
		q.Questions = append(q.Questions, Question{
			Question: fmt.Sprintf("Question %d: {what} [is] %x?", i, rnd.Int63()),
			Options:  options,
			Answer:   options[rnd.Intn(OptionCount)],
		})
	}
	return q
}

func TestStripCodeFences(t *testing.T) {
	require.Equal(t, `{"a":1}`, StripCodeFences("```json\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, StripCodeFences("```json {\"a\":1}```"))
	require.Equal(t, "a\nb", StripCodeFences("a\r\nb"))
	require.Equal(t, "plain", StripCodeFences("  plain  "))
}

func TestFindFirstJSON(t *testing.T) {
	require.Equal(t, `{"a":"}"}`, FindFirstJSON(`prefix {"a":"}"} suffix}`))
	require.Equal(t, `[1,[2]]`, FindFirstJSON(`x [1,[2]] y`))
	require.Equal(t, "", FindFirstJSON(`no json here`))
	require.Equal(t, "", FindFirstJSON(`{"unterminated": `))
}

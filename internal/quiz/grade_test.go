package quiz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGrade(t *testing.T) {
	q := Quiz{Questions: []Question{
		{Question: "one", Options: []string{"a", "b", "c", "d"}, Answer: "a"},
		{Question: "two", Options: []string{"a", "b", "c", "d"}, Answer: "b"},
		{Question: "three", Options: []string{"a", "b", "c", "d"}, Answer: "c"},
		{Question: "four", Options: []string{"a", "b", "c", "d"}, Answer: "d"},
	}}

	score := Grade(q, map[int]string{0: "a", 1: "c", 3: "d", 9: "a"})
	require.Equal(t, 2, score.Correct)
	require.Equal(t, 4, score.Total)
	require.InDelta(t, 50.0, score.Percent, 0.001)
	require.Len(t, score.Results, 4)
	require.True(t, score.Results[0].Correct)
	require.False(t, score.Results[1].Correct)
	require.Equal(t, "c", score.Results[1].Selected)
	require.False(t, score.Results[2].Answered)
	require.False(t, score.Results[2].Correct)
}

func TestGradeEmptyQuiz(t *testing.T) {
	score := Grade(Quiz{}, nil)
	require.Zero(t, score.Total)
	require.Zero(t, score.Percent)
	require.Empty(t, score.Results)
}

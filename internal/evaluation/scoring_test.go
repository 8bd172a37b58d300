package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRatingNumeric(t *testing.T) {
	scale := fiveLevelScale()

	v, ok := ResolveRating(scale, float64(4))
	require.True(t, ok)
	assert.Equal(t, 4.0, v)

	v, ok = ResolveRating(scale, 3)
	require.True(t, ok)
	assert.Equal(t, 3.0, v)
}

func TestResolveRatingLabel(t *testing.T) {
	scale := fiveLevelScale()

	v, ok := ResolveRating(scale, "Meets Expectations")
	require.True(t, ok)
	assert.Equal(t, 3.0, v)

	// Legacy clients stored answers with a "- " prefix.
	v, ok = ResolveRating(scale, "- Outstanding")
	require.True(t, ok)
	assert.Equal(t, 5.0, v)

	// Containment matching: extra surrounding text still resolves.
	v, ok = ResolveRating(scale, "Exceeds Expectations most days")
	require.True(t, ok)
	assert.Equal(t, 4.0, v)
}

func TestResolveRatingUnresolvable(t *testing.T) {
	scale := fiveLevelScale()

	_, ok := ResolveRating(scale, "no such grade")
	assert.False(t, ok)

	_, ok = ResolveRating(scale, nil)
	assert.False(t, ok)

	_, ok = ResolveRating(scale, "")
	assert.False(t, ok)

	_, ok = ResolveRating(nil, float64(3))
	assert.False(t, ok)
}

func TestScore(t *testing.T) {
	tmpl := testTemplate()
	// Three rating questions on five-level scales: total = 15.
	summary := Score(tmpl, map[string]any{
		"0-0": float64(4),
		"0-1": "Meets Expectations",
		"1-0": float64(5),
	})

	assert.Equal(t, 12.0, summary.Score)
	assert.Equal(t, 15.0, summary.Total)
	assert.Equal(t, 80, summary.Percentage)
}

func TestScoreNoRatingQuestions(t *testing.T) {
	tmpl := &Template{Sections: []Section{{
		Title:     "Notes",
		Questions: []Question{{Text: "Comments", Type: QuestionTypeText}},
	}}}

	summary := Score(tmpl, map[string]any{"0-0": "fine"})
	assert.Equal(t, 0.0, summary.Total)
	assert.Equal(t, 0, summary.Percentage)
}

func TestScoreSkipsUnansweredQuestions(t *testing.T) {
	tmpl := testTemplate()
	summary := Score(tmpl, map[string]any{"0-0": float64(3)})

	assert.Equal(t, 3.0, summary.Score)
	assert.Equal(t, 15.0, summary.Total)
	assert.Equal(t, 20, summary.Percentage)
}

func TestComparisonStyle(t *testing.T) {
	assert.Equal(t, ComparisonImproved, ComparisonStyle(4, 3))
	assert.Equal(t, ComparisonDeclined, ComparisonStyle(2, 3))
	assert.Equal(t, ComparisonEqual, ComparisonStyle(3, 3))
}

func TestSummarizeEqualRatingsRoundTrip(t *testing.T) {
	tmpl := testTemplate()
	e := pendingEvaluation()
	answers := fullAnswers()
	e.SelfRatings = answers
	e.ManagerRatings = answers
	e.Status = StatusCompleted

	summary := Summarize(tmpl, e)

	assert.Equal(t, summary.Self.Percentage, summary.Manager.Percentage)
	require.Len(t, summary.Questions, 3)
	for _, q := range summary.Questions {
		assert.Equal(t, ComparisonEqual, q.Style)
	}
}

func TestSummarizeMixedComparison(t *testing.T) {
	tmpl := testTemplate()
	e := pendingEvaluation()
	e.SelfRatings = map[string]any{"0-0": float64(3), "0-1": float64(4), "1-0": float64(2)}
	e.ManagerRatings = map[string]any{"0-0": float64(4), "0-1": float64(2), "1-0": float64(2)}

	summary := Summarize(tmpl, e)
	require.Len(t, summary.Questions, 3)
	assert.Equal(t, ComparisonImproved, summary.Questions[0].Style)
	assert.Equal(t, ComparisonDeclined, summary.Questions[1].Style)
	assert.Equal(t, ComparisonEqual, summary.Questions[2].Style)

	// Mixed-representation answers resolve through the same scale.
	e.ManagerRatings["0-0"] = "- Exceeds Expectations"
	summary = Summarize(tmpl, e)
	assert.Equal(t, 4.0, summary.Questions[0].ManagerValue)
}

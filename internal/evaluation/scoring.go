package evaluation

import (
	"math"
	"strings"
)

// Comparison styles for a question's manager rating against the
// self rating. Display-only; never stored.
const (
	ComparisonImproved = "improved"
	ComparisonDeclined = "declined"
	ComparisonEqual    = "equal"
)

// ScoreSummary aggregates one answer set over a template's rating questions.
type ScoreSummary struct {
	Score      float64 `json:"score"`
	Total      float64 `json:"total"`
	Percentage int     `json:"percentage"`
}

// QuestionComparison is the per-question view of self vs manager ratings.
type QuestionComparison struct {
	Key          string  `json:"key"`
	Section      string  `json:"section"`
	Question     string  `json:"question"`
	SelfValue    float64 `json:"self_value"`
	ManagerValue float64 `json:"manager_value"`
	Style        string  `json:"style"`
}

// Summary is the reconciled view of a single evaluation used by the
// summary and final screens.
type Summary struct {
	Self      ScoreSummary         `json:"self"`
	Manager   ScoreSummary         `json:"manager"`
	Questions []QuestionComparison `json:"questions"`
}

// ResolveRating converts a stored answer into an ordinal grade value on
// the question's scale. Numeric answers map directly. String answers are
// matched against grade labels by containment, after stripping the legacy
// "- " prefix older clients stored. The containment semantics are kept
// exactly as the evaluation history was scored with, ambiguity included.
func ResolveRating(scale *GradingScale, answer any) (float64, bool) {
	if scale == nil {
		return 0, false
	}
	switch v := answer.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(v), "- "))
		if text == "" {
			return 0, false
		}
		for _, g := range scale.Grades {
			if strings.Contains(text, g.Label) {
				return g.Value, true
			}
		}
		return 0, false
	default:
		return 0, false
	}
}

// Score sums resolved grade values over every rating question. Each
// question contributes its scale's level count to the total, so the
// percentage is score over the per-question maximums.
func Score(tmpl *Template, ratings map[string]any) ScoreSummary {
	var score, total float64
	for si, section := range tmpl.Sections {
		for qi, q := range section.Questions {
			if q.Type != QuestionTypeRating || q.GradingScale == nil {
				continue
			}
			total += float64(len(q.GradingScale.Grades))
			if value, ok := ResolveRating(q.GradingScale, ratings[QuestionKey(si, qi)]); ok {
				score += value
			}
		}
	}

	summary := ScoreSummary{Score: score, Total: total}
	if total > 0 {
		summary.Percentage = int(math.Round(100 * score / total))
	}
	return summary
}

// ComparisonStyle classifies a manager rating against the self rating.
func ComparisonStyle(managerValue, selfValue float64) string {
	switch {
	case managerValue > selfValue:
		return ComparisonImproved
	case managerValue < selfValue:
		return ComparisonDeclined
	default:
		return ComparisonEqual
	}
}

// Summarize builds the full reconciliation view for an evaluation.
func Summarize(tmpl *Template, e *Evaluation) *Summary {
	summary := &Summary{
		Self:    Score(tmpl, e.SelfRatings),
		Manager: Score(tmpl, e.ManagerRatings),
	}

	for si, section := range tmpl.Sections {
		for qi, q := range section.Questions {
			if q.Type != QuestionTypeRating || q.GradingScale == nil {
				continue
			}
			key := QuestionKey(si, qi)
			selfValue, _ := ResolveRating(q.GradingScale, e.SelfRatings[key])
			managerValue, _ := ResolveRating(q.GradingScale, e.ManagerRatings[key])
			summary.Questions = append(summary.Questions, QuestionComparison{
				Key:          key,
				Section:      section.Title,
				Question:     q.Text,
				SelfValue:    selfValue,
				ManagerValue: managerValue,
				Style:        ComparisonStyle(managerValue, selfValue),
			})
		}
	}
	return summary
}

package adaptation

import "github.com/adaptiq/adaptiq-backend/internal/domain/learner"

type Recommendation struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Action  string `json:"action"`
}

const (
	lowAccuracy       = 0.6
	maxStrugglingKept = 3
)

// Recommend suggests next steps from performance history alone.
func (e *Engine) Recommend(profile learner.Profile) []Recommendation {
	out := []Recommendation{}
	h := profile.PerformanceHistory
	if h.AverageAccuracy < lowAccuracy {
		out = append(out, Recommendation{
			Type:    "difficulty",
			Message: "Consider trying easier content to build confidence",
			Action:  "reduce_difficulty",
		})
	}
	if len(h.StrugglingConcepts) > maxStrugglingKept {
		out = append(out, Recommendation{
			Type:    "review",
			Message: "Review previous concepts before moving forward",
			Action:  "suggest_review",
		})
	}
	return out
}

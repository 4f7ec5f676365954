// Package adaptation turns a learner profile and accessibility settings into
// adaptation parameters and rewrites lesson content to match them.
package adaptation

import (
	"github.com/adaptiq/adaptiq-backend/internal/domain/accessibility"
	"github.com/adaptiq/adaptiq-backend/internal/domain/learner"
)

// Engine holds no state; one value can serve any number of goroutines.
type Engine struct{}

func New() *Engine { return &Engine{} }

// Adapt is Evaluate followed by Transform.
func (e *Engine) Adapt(content Content, profile learner.Profile, settings accessibility.Settings) AdaptedContent {
	return e.Transform(content, e.Evaluate(profile, settings), profile)
}

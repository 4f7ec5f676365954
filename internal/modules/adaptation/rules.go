package adaptation

import (
	"github.com/adaptiq/adaptiq-backend/internal/domain/accessibility"
	"github.com/adaptiq/adaptiq-backend/internal/domain/learner"
)

type rule struct {
	name    string
	matches func(p learner.Profile, s accessibility.Settings) bool
	apply   func(a *Parameters)
}

func tagRule(tag learner.DisabilityType, apply func(a *Parameters)) rule {
	return rule{
		name:    string(tag),
		matches: func(p learner.Profile, _ accessibility.Settings) bool { return p.Has(tag) },
		apply:   apply,
	}
}

// rules run in this order and later rules overwrite fields set by earlier
// ones. The order is part of the observable behavior: hearing_impairment
// switches audio back off after dyslexia turned it on, whatever the order of
// tags on the profile.
var rules = []rule{
	tagRule(learner.Dyslexia, func(a *Parameters) {
		a.TextComplexity = TextSimple
		a.VisualSupport = SupportExtensive
		a.AudioSupport = true
	}),
	tagRule(learner.ADHD, func(a *Parameters) {
		a.Pacing = PacingGuided
		a.FeedbackStyle = FeedbackImmediate
		a.RepetitionLevel = RepetitionHigh
	}),
	tagRule(learner.Autism, func(a *Parameters) {
		a.Scaffolding = SupportExtensive
		a.Pacing = PacingSelf
		a.InteractionType = InteractClick
	}),
	tagRule(learner.IntellectualDisability, func(a *Parameters) {
		a.TextComplexity = TextSimple
		a.VisualSupport = SupportExtensive
		a.RepetitionLevel = RepetitionHigh
		a.Scaffolding = SupportExtensive
	}),
	tagRule(learner.VisualImpairment, func(a *Parameters) {
		a.AudioSupport = true
		a.TextComplexity = TextSimple
		a.InteractionType = InteractVoice
	}),
	tagRule(learner.HearingImpairment, func(a *Parameters) {
		a.VisualSupport = SupportExtensive
		a.AudioSupport = false
	}),
	{
		name: "low_working_memory",
		matches: func(p learner.Profile, _ accessibility.Settings) bool {
			return p.CognitiveProfile.WorkingMemoryCapacity == learner.LevelLow
		},
		apply: func(a *Parameters) {
			a.Scaffolding = SupportExtensive
			a.RepetitionLevel = RepetitionHigh
		},
	},
	{
		name: "slow_processing",
		matches: func(p learner.Profile, _ accessibility.Settings) bool {
			return p.LearningPreferences.ProcessingSpeed == learner.SpeedSlow
		},
		apply: func(a *Parameters) {
			a.Pacing = PacingSelf
			a.TextComplexity = TextSimple
		},
	},
	{
		name:    "audio_enabled",
		matches: func(_ learner.Profile, s accessibility.Settings) bool { return s.AudioEnabled },
		apply:   func(a *Parameters) { a.AudioSupport = true },
	},
	{
		name:    "simplified_interface",
		matches: func(_ learner.Profile, s accessibility.Settings) bool { return s.SimplifiedInterface },
		apply: func(a *Parameters) {
			a.TextComplexity = TextSimple
			a.Scaffolding = SupportExtensive
		},
	},
}

// Evaluate maps a learner and their settings onto adaptation parameters.
// It is total: unknown tags and empty fields simply match no rule.
func (e *Engine) Evaluate(profile learner.Profile, settings accessibility.Settings) Parameters {
	params, _ := e.Explain(profile, settings)
	return params
}

// Explain is Evaluate plus the names of the rules that fired, in order.
func (e *Engine) Explain(profile learner.Profile, settings accessibility.Settings) (Parameters, []string) {
	params := Baseline()
	var fired []string
	for _, r := range rules {
		if r.matches(profile, settings) {
			r.apply(&params)
			fired = append(fired, r.name)
		}
	}
	return params, fired
}

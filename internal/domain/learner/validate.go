package learner

import (
	"math"

	"github.com/adaptiq/adaptiq-backend/internal/platform/apierr"
)

// Normalize fills empty enum fields with their defaults, drops duplicate
// tags, and rejects values outside their declared option sets. The rules
// engine never sees a profile that failed here.
func Normalize(p Profile) (Profile, error) {
	out := p
	out.DisabilityTypes = make([]DisabilityType, 0, len(p.DisabilityTypes))
	seen := map[DisabilityType]bool{}
	for _, d := range p.DisabilityTypes {
		if !d.Known() {
			return Profile{}, apierr.Invalid("unknown disability type %q", d)
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		out.DisabilityTypes = append(out.DisabilityTypes, d)
	}

	defPrefs := DefaultPreferences()
	lp := &out.LearningPreferences
	if lp.PreferredPace == "" {
		lp.PreferredPace = defPrefs.PreferredPace
	}
	if lp.AttentionSpan == "" {
		lp.AttentionSpan = defPrefs.AttentionSpan
	}
	if lp.ProcessingSpeed == "" {
		lp.ProcessingSpeed = defPrefs.ProcessingSpeed
	}
	switch lp.PreferredPace {
	case PaceSlow, PaceNormal, PaceFast:
	default:
		return Profile{}, apierr.Invalid("unknown preferredPace %q", lp.PreferredPace)
	}
	switch lp.AttentionSpan {
	case AttentionShort, AttentionMedium, AttentionLong:
	default:
		return Profile{}, apierr.Invalid("unknown attentionSpan %q", lp.AttentionSpan)
	}
	switch lp.ProcessingSpeed {
	case SpeedSlow, SpeedNormal, SpeedFast:
	default:
		return Profile{}, apierr.Invalid("unknown processingSpeed %q", lp.ProcessingSpeed)
	}

	defCog := DefaultCognitiveProfile()
	cp := &out.CognitiveProfile
	for _, f := range []struct {
		name string
		val  *Level
		def  Level
	}{
		{"workingMemoryCapacity", &cp.WorkingMemoryCapacity, defCog.WorkingMemoryCapacity},
		{"executiveFunctionLevel", &cp.ExecutiveFunctionLevel, defCog.ExecutiveFunctionLevel},
		{"languageProcessing", &cp.LanguageProcessing, defCog.LanguageProcessing},
	} {
		if *f.val == "" {
			*f.val = f.def
		}
		switch *f.val {
		case LevelLow, LevelMedium, LevelHigh:
		default:
			return Profile{}, apierr.Invalid("unknown %s %q", f.name, *f.val)
		}
	}

	ph := out.PerformanceHistory
	if math.IsNaN(ph.AverageAccuracy) || ph.AverageAccuracy < 0 || ph.AverageAccuracy > 1 {
		return Profile{}, apierr.Invalid("averageAccuracy must be within [0, 1], got %v", ph.AverageAccuracy)
	}
	if math.IsNaN(ph.AverageCompletionTime) || ph.AverageCompletionTime < 0 {
		return Profile{}, apierr.Invalid("averageCompletionTime must be non-negative, got %v", ph.AverageCompletionTime)
	}
	return out, nil
}

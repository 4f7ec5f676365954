package adaptation

import (
	"strings"

	"github.com/adaptiq/adaptiq-backend/internal/domain/learner"
)

var visualElements = []VisualElement{
	{Type: "diagram", Description: "Visual representation of the concept"},
	{Type: "infographic", Description: "Step-by-step visual guide"},
	{Type: "animation", Description: "Animated explanation"},
}

var scaffoldHints = []string{
	"Take your time and read each instruction carefully",
	"If you get stuck, try breaking the problem into smaller parts",
	"Remember to use the visual aids to help you understand",
	"Don't worry about making mistakes - they help you learn!",
}

const (
	confidenceBase = 70
	confidenceStep = 10
	confidenceCap  = 95
)

// Transform applies params to original. The original is never mutated.
func (e *Engine) Transform(original Content, params Parameters, profile learner.Profile) AdaptedContent {
	lesson := Lesson{
		ID:           original.ID,
		Title:        original.Title,
		Description:  original.Description,
		Instructions: original.Instructions,
		Subject:      original.Subject,
		Difficulty:   original.Difficulty,
		DurationMin:  original.DurationMin,
		Steps:        make([]AdaptedStep, len(original.Steps)),
	}
	for i, s := range original.Steps {
		lesson.Steps[i] = AdaptedStep{Step: s}
	}

	var formats Formats

	if params.TextComplexity == TextSimple {
		lesson.Instructions = Simplify(original.Instructions)
		lesson.Description = Simplify(original.Description)
	}

	if params.VisualSupport == SupportExtensive {
		lesson.VisualAids = &VisualAids{VisualCues: true, ColorCoding: true, IconSupport: true, ProgressIndicators: true}
		formats.Visual = &VisualFormat{
			Type:     "visual",
			Elements: append([]VisualElement(nil), visualElements...),
		}
	}

	if params.AudioSupport {
		narration := lesson.Instructions
		if narration == "" {
			narration = lesson.Description
		}
		formats.Audio = &AudioFormat{
			Type:            "audio",
			Narration:       narration,
			SoundEffects:    true,
			BackgroundMusic: false,
			Speed:           "normal",
		}
	}

	if params.Scaffolding == SupportExtensive {
		total := len(original.Steps)
		for i := range lesson.Steps {
			lesson.Steps[i].Scaffolding = &Scaffolding{
				PrerequisiteCheck: true,
				GuidedPractice:    true,
				ImmediateSupport:  true,
				StepNumber:        i + 1,
				TotalSteps:        total,
			}
		}
		lesson.Hints = append([]string(nil), scaffoldHints...)
	}

	formats.Interactive = InteractiveFormat{
		Type:            "interactive",
		InteractionType: params.InteractionType,
		AdaptiveElements: AdaptiveElements{
			DragAndDrop:     params.InteractionType == InteractDrag,
			ClickToReveal:   params.InteractionType == InteractClick,
			VoiceCommands:   params.InteractionType == InteractVoice,
			GestureControls: params.InteractionType == InteractGesture,
		},
	}

	return AdaptedContent{
		OriginalContent:    original,
		AdaptedContent:     lesson,
		AdaptationReason:   reason(params),
		ConfidenceScore:    confidence(profile),
		AlternativeFormats: formats,
		Parameters:         params,
	}
}

// reason keeps the template even when no clause applies, which leaves a
// double space in the sentence. Clients match on this exact text.
func reason(params Parameters) string {
	var clauses []string
	if params.TextComplexity == TextSimple {
		clauses = append(clauses, "simplified language for better comprehension")
	}
	if params.AudioSupport {
		clauses = append(clauses, "audio support for accessibility")
	}
	if params.Scaffolding == SupportExtensive {
		clauses = append(clauses, "additional guidance and support")
	}
	return "Content adapted with " + strings.Join(clauses, ", ") + " based on your learning profile."
}

// confidence is computed in hundredths so the result is an exact two-place value.
func confidence(profile learner.Profile) float64 {
	score := confidenceBase
	if profile.PerformanceHistory.AverageAccuracy > 0.8 {
		score += confidenceStep
	}
	if len(profile.DisabilityTypes) > 0 {
		score += confidenceStep
	}
	if score > confidenceCap {
		score = confidenceCap
	}
	return float64(score) / 100
}

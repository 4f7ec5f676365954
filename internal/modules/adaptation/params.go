package adaptation

type TextComplexity string

const (
	TextSimple   TextComplexity = "simple"
	TextModerate TextComplexity = "moderate"
	TextComplex  TextComplexity = "complex"
)

// Support is the minimal/moderate/extensive scale shared by visual support
// and scaffolding.
type Support string

const (
	SupportMinimal   Support = "minimal"
	SupportModerate  Support = "moderate"
	SupportExtensive Support = "extensive"
)

type InteractionType string

const (
	InteractClick   InteractionType = "click"
	InteractDrag    InteractionType = "drag"
	InteractVoice   InteractionType = "voice"
	InteractGesture InteractionType = "gesture"
)

type Pacing string

const (
	PacingSelf   Pacing = "self-paced"
	PacingGuided Pacing = "guided"
	PacingTimed  Pacing = "timed"
)

type FeedbackStyle string

const (
	FeedbackImmediate FeedbackStyle = "immediate"
	FeedbackDelayed   FeedbackStyle = "delayed"
	FeedbackSummary   FeedbackStyle = "summary"
)

type Repetition string

const (
	RepetitionLow    Repetition = "low"
	RepetitionMedium Repetition = "medium"
	RepetitionHigh   Repetition = "high"
)

// Parameters control how lesson content is transformed for one learner.
// They are derived on every request and never stored.
type Parameters struct {
	TextComplexity  TextComplexity  `json:"textComplexity"`
	VisualSupport   Support         `json:"visualSupport"`
	AudioSupport    bool            `json:"audioSupport"`
	InteractionType InteractionType `json:"interactionType"`
	Pacing          Pacing          `json:"pacing"`
	FeedbackStyle   FeedbackStyle   `json:"feedbackStyle"`
	RepetitionLevel Repetition      `json:"repetitionLevel"`
	Scaffolding     Support         `json:"scaffolding"`
}

// Baseline is the parameter set for a learner with no declared needs.
func Baseline() Parameters {
	return Parameters{
		TextComplexity:  TextModerate,
		VisualSupport:   SupportModerate,
		AudioSupport:    false,
		InteractionType: InteractClick,
		Pacing:          PacingSelf,
		FeedbackStyle:   FeedbackImmediate,
		RepetitionLevel: RepetitionMedium,
		Scaffolding:     SupportModerate,
	}
}

package adaptation

// Step is one ordered unit of a lesson.
type Step struct {
	Title      string `json:"title" yaml:"title"`
	Content    string `json:"content" yaml:"content"`
	VisualAids bool   `json:"visualAids" yaml:"visualAids"`
}

// Content is a lesson as authored, before any adaptation.
type Content struct {
	ID           string `json:"id" yaml:"id"`
	Title        string `json:"title" yaml:"title"`
	Description  string `json:"description,omitempty" yaml:"description"`
	Instructions string `json:"instructions,omitempty" yaml:"instructions"`
	Subject      string `json:"subject,omitempty" yaml:"subject"`
	Difficulty   string `json:"difficulty,omitempty" yaml:"difficulty"`
	DurationMin  int    `json:"duration,omitempty" yaml:"duration"`
	Steps        []Step `json:"steps" yaml:"steps"`
}

type Scaffolding struct {
	PrerequisiteCheck bool `json:"prerequisiteCheck"`
	GuidedPractice    bool `json:"guidedPractice"`
	ImmediateSupport  bool `json:"immediateSupport"`
	StepNumber        int  `json:"stepNumber"`
	TotalSteps        int  `json:"totalSteps"`
}

type AdaptedStep struct {
	Step
	Scaffolding *Scaffolding `json:"scaffolding,omitempty"`
}

type VisualAids struct {
	VisualCues         bool `json:"visualCues"`
	ColorCoding        bool `json:"colorCoding"`
	IconSupport        bool `json:"iconSupport"`
	ProgressIndicators bool `json:"progressIndicators"`
}

// Lesson is the adapted copy of Content handed to the renderer.
type Lesson struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description,omitempty"`
	Instructions string        `json:"instructions,omitempty"`
	Subject      string        `json:"subject,omitempty"`
	Difficulty   string        `json:"difficulty,omitempty"`
	DurationMin  int           `json:"duration,omitempty"`
	Steps        []AdaptedStep `json:"steps"`
	VisualAids   *VisualAids   `json:"visualAids,omitempty"`
	Hints        []string      `json:"hints,omitempty"`
}

type VisualElement struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

type VisualFormat struct {
	Type     string          `json:"type"`
	Elements []VisualElement `json:"elements"`
}

type AudioFormat struct {
	Type            string `json:"type"`
	Narration       string `json:"narration"`
	SoundEffects    bool   `json:"soundEffects"`
	BackgroundMusic bool   `json:"backgroundMusic"`
	Speed           string `json:"speed"`
}

type AdaptiveElements struct {
	DragAndDrop     bool `json:"dragAndDrop"`
	ClickToReveal   bool `json:"clickToReveal"`
	VoiceCommands   bool `json:"voiceCommands"`
	GestureControls bool `json:"gestureControls"`
}

type InteractiveFormat struct {
	Type             string           `json:"type"`
	InteractionType  InteractionType  `json:"interactionType"`
	AdaptiveElements AdaptiveElements `json:"adaptiveElements"`
}

// Formats holds the alternative renderings of a lesson. Interactive is always
// set; Simplified is only filled in by callers that run the content processor.
type Formats struct {
	Visual      *VisualFormat     `json:"visual,omitempty"`
	Audio       *AudioFormat      `json:"audio,omitempty"`
	Interactive InteractiveFormat `json:"interactive"`
	Simplified  *Processed        `json:"simplified,omitempty"`
}

type AdaptedContent struct {
	OriginalContent    Content    `json:"originalContent"`
	AdaptedContent     Lesson     `json:"adaptedContent"`
	AdaptationReason   string     `json:"adaptationReason"`
	ConfidenceScore    float64    `json:"confidenceScore"`
	AlternativeFormats Formats    `json:"alternativeFormats"`
	Parameters         Parameters `json:"parameters"`
}

package learner

// DisabilityType tags a support need declared on the profile-setup screen.
type DisabilityType string

const (
	Dyslexia               DisabilityType = "dyslexia"
	ADHD                   DisabilityType = "adhd"
	Autism                 DisabilityType = "autism"
	IntellectualDisability DisabilityType = "intellectual_disability"
	VisualImpairment       DisabilityType = "visual_impairment"
	HearingImpairment      DisabilityType = "hearing_impairment"
	MotorDisability        DisabilityType = "motor_disability"
	SpeechDisability       DisabilityType = "speech_disability"
)

var knownDisabilities = map[DisabilityType]struct{}{
	Dyslexia: {}, ADHD: {}, Autism: {}, IntellectualDisability: {},
	VisualImpairment: {}, HearingImpairment: {}, MotorDisability: {}, SpeechDisability: {},
}

func (d DisabilityType) Known() bool {
	_, ok := knownDisabilities[d]
	return ok
}

type Pace string

const (
	PaceSlow   Pace = "slow"
	PaceNormal Pace = "normal"
	PaceFast   Pace = "fast"
)

type AttentionSpan string

const (
	AttentionShort  AttentionSpan = "short"
	AttentionMedium AttentionSpan = "medium"
	AttentionLong   AttentionSpan = "long"
)

// Speed is shared by the processing-speed axis.
type Speed string

const (
	SpeedSlow   Speed = "slow"
	SpeedNormal Speed = "normal"
	SpeedFast   Speed = "fast"
)

// Level is the low/medium/high scale used by the cognitive profile.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

type LearningPreferences struct {
	VisualLearner      bool          `json:"visualLearner" yaml:"visualLearner"`
	AuditoryLearner    bool          `json:"auditoryLearner" yaml:"auditoryLearner"`
	KinestheticLearner bool          `json:"kinestheticLearner" yaml:"kinestheticLearner"`
	PreferredPace      Pace          `json:"preferredPace" yaml:"preferredPace"`
	AttentionSpan      AttentionSpan `json:"attentionSpan" yaml:"attentionSpan"`
	ProcessingSpeed    Speed         `json:"processingSpeed" yaml:"processingSpeed"`
}

type CognitiveProfile struct {
	WorkingMemoryCapacity  Level `json:"workingMemoryCapacity" yaml:"workingMemoryCapacity"`
	ExecutiveFunctionLevel Level `json:"executiveFunctionLevel" yaml:"executiveFunctionLevel"`
	LanguageProcessing     Level `json:"languageProcessing" yaml:"languageProcessing"`
}

type PerformanceHistory struct {
	AverageAccuracy       float64  `json:"averageAccuracy" yaml:"averageAccuracy"`
	AverageCompletionTime float64  `json:"averageCompletionTime" yaml:"averageCompletionTime"` // seconds
	StrugglingConcepts    []string `json:"strugglingConcepts" yaml:"strugglingConcepts"`
	MasteredConcepts      []string `json:"masteredConcepts" yaml:"masteredConcepts"`
}

// Profile is read-only for the duration of one adaptation call.
type Profile struct {
	ID                  string              `json:"id" yaml:"id"`
	DisabilityTypes     []DisabilityType    `json:"disabilityTypes" yaml:"disabilityTypes"`
	LearningPreferences LearningPreferences `json:"learningPreferences" yaml:"learningPreferences"`
	CognitiveProfile    CognitiveProfile    `json:"cognitiveProfile" yaml:"cognitiveProfile"`
	PerformanceHistory  PerformanceHistory  `json:"performanceHistory" yaml:"performanceHistory"`
}

// Has reports whether tag is declared. Tag order carries no meaning.
func (p Profile) Has(tag DisabilityType) bool {
	for _, d := range p.DisabilityTypes {
		if d == tag {
			return true
		}
	}
	return false
}

// DefaultPreferences mirrors the profile-setup screen's initial answers.
func DefaultPreferences() LearningPreferences {
	return LearningPreferences{
		PreferredPace:   PaceNormal,
		AttentionSpan:   AttentionMedium,
		ProcessingSpeed: SpeedNormal,
	}
}

func DefaultCognitiveProfile() CognitiveProfile {
	return CognitiveProfile{
		WorkingMemoryCapacity:  LevelMedium,
		ExecutiveFunctionLevel: LevelMedium,
		LanguageProcessing:     LevelMedium,
	}
}

package persona

import (
	"strconv"
	"strings"
)

// Stage identifies the attribute currently being collected. Transitions are
// strictly linear; a field written at an earlier stage is never overwritten
// by a later one.
type Stage int

const (
	StageName Stage = iota
	StageAge
	StageGender
	StageInterests
	StageProfession
	StageAppearance
	StageRelationship
	StageMood
	StageComplete
)

var stagePrompts = map[Stage]string{
	StageName:         "What is the name you want to give your companion?",
	StageAge:          "What is their age?",
	StageGender:       "What gender?",
	StageInterests:    "What do they like to do for fun?",
	StageProfession:   "What is their profession?",
	StageAppearance:   "What do they look like?",
	StageRelationship: "What is their relationship status?",
	StageMood:         "Thank you. Finally, describe their personality.",
}

const ageRetryPrompt = "Age should be a number.\nHow old is your bot?"

// Result is the outcome of consuming one onboarding input. Either Prompt is
// set (re-prompt or next question) or Done is true and Record/Tone carry the
// finished persona.
type Result struct {
	Prompt string
	Done   bool
	Record *Record
	Tone   string
}

// Onboarding is the slot-filling dialogue state for one user. It is not safe
// for concurrent use; callers serialize access per user.
type Onboarding struct {
	stage  Stage
	record Record
}

// NewOnboarding starts a fresh dialogue at the name stage.
func NewOnboarding() *Onboarding {
	return &Onboarding{stage: StageName}
}

// Stage returns the attribute currently being collected.
func (o *Onboarding) Stage() Stage {
	return o.stage
}

// Prompt returns the question for the current stage.
func (o *Onboarding) Prompt() string {
	return stagePrompts[o.stage]
}

// Advance consumes one input for the current stage. Invalid input never
// escalates: the stage stays put and the corrective prompt is re-issued,
// however many times it takes. On the final stage the completed record and
// its mood (the initial tone) are emitted and the dialogue is finished.
func (o *Onboarding) Advance(input string) Result {
	input = strings.TrimSpace(input)
	if input == "" {
		return Result{Prompt: o.Prompt()}
	}

	switch o.stage {
	case StageName:
		o.record.Name = input
	case StageAge:
		age, err := strconv.Atoi(input)
		if err != nil || age < 0 {
			return Result{Prompt: ageRetryPrompt}
		}
		o.record.Age = age
	case StageGender:
		o.record.Gender = input
	case StageInterests:
		o.record.Interests = input
	case StageProfession:
		o.record.Profession = input
	case StageAppearance:
		o.record.Appearance = input
	case StageRelationship:
		o.record.RelationshipStatus = input
	case StageMood:
		o.record.Mood = input
		o.stage = StageComplete
		rec := o.record
		return Result{Done: true, Record: &rec, Tone: rec.Mood}
	default:
		return Result{Done: true, Record: &o.record, Tone: o.record.Mood}
	}

	o.stage++
	return Result{Prompt: o.Prompt()}
}

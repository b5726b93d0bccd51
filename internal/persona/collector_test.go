package persona

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnboarding_CompletesAfterEightInputs(t *testing.T) {
	inputs := []string{
		"Alisa", "25", "Female", "Singing", "Singer",
		"Tall with red hair", "Single", "cheerful",
	}

	ob := NewOnboarding()
	require.Equal(t, StageName, ob.Stage())

	var final Result
	for i, in := range inputs {
		final = ob.Advance(in)
		if i < len(inputs)-1 {
			require.False(t, final.Done, "input %d should not complete onboarding", i)
			require.NotEmpty(t, final.Prompt)
		}
	}

	require.True(t, final.Done)
	require.NotNil(t, final.Record)
	assert.Equal(t, "Alisa", final.Record.Name)
	assert.Equal(t, 25, final.Record.Age)
	assert.Equal(t, "Female", final.Record.Gender)
	assert.Equal(t, "Singing", final.Record.Interests)
	assert.Equal(t, "Singer", final.Record.Profession)
	assert.Equal(t, "Tall with red hair", final.Record.Appearance)
	assert.Equal(t, "Single", final.Record.RelationshipStatus)
	assert.Equal(t, "cheerful", final.Record.Mood)
	assert.Equal(t, "cheerful", final.Tone, "mood doubles as the initial tone")
}

func TestOnboarding_AgeValidation(t *testing.T) {
	ob := NewOnboarding()
	ob.Advance("Alisa")
	require.Equal(t, StageAge, ob.Stage())

	accepted := []string{"25", "0"}
	rejected := []string{"twenty", "25.5", "", "-3"}

	for _, in := range rejected {
		res := ob.Advance(in)
		assert.False(t, res.Done)
		assert.NotEmpty(t, res.Prompt, "rejected input %q must re-prompt", in)
		assert.Equal(t, StageAge, ob.Stage(), "rejected input %q must not advance", in)
	}

	// An arbitrary number of consecutive invalid attempts still recovers.
	for i := 0; i < 50; i++ {
		ob.Advance("not a number")
	}
	require.Equal(t, StageAge, ob.Stage())

	res := ob.Advance(accepted[0])
	assert.False(t, res.Done)
	assert.Equal(t, StageGender, ob.Stage())

	// "0" is a valid age on a fresh run.
	ob2 := NewOnboarding()
	ob2.Advance("Bot")
	res2 := ob2.Advance("0")
	assert.Equal(t, StageGender, ob2.Stage())
	assert.NotEmpty(t, res2.Prompt)
}

func TestOnboarding_EmptyInputNeverAdvances(t *testing.T) {
	ob := NewOnboarding()
	res := ob.Advance("   ")
	assert.Equal(t, StageName, ob.Stage())
	assert.Equal(t, stagePrompts[StageName], res.Prompt)
}

func TestOnboarding_EarlierFieldsNeverOverwritten(t *testing.T) {
	ob := NewOnboarding()
	ob.Advance("Alisa")
	ob.Advance("25")
	ob.Advance("Female")
	assert.Equal(t, "Alisa", ob.record.Name)
	assert.Equal(t, 25, ob.record.Age)

	// Later inputs write only the field their stage owns.
	ob.Advance("Reading")
	assert.Equal(t, "Alisa", ob.record.Name)
	assert.Equal(t, "Female", ob.record.Gender)
	assert.Equal(t, "Reading", ob.record.Interests)
}

package persona

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord() *Record {
	return &Record{
		Name:               "Alisa",
		Age:                25,
		Gender:             "Female",
		Interests:          "Singing",
		Profession:         "Singer",
		Appearance:         "Tall",
		RelationshipStatus: "Single",
		Mood:               "cheerful",
	}
}

func TestCompile_FixedBlockOrder(t *testing.T) {
	rec := testRecord()
	style := func(r *Record) string { return "STYLE-BLOCK" }

	prompt := Compile(rec, "BASE-TEMPLATE", style)

	// Every block appears, in order.
	idxTemplate := strings.Index(prompt, "BASE-TEMPLATE")
	idxDisclaimer1 := strings.Index(prompt, disclaimer)
	idxFields := strings.Index(prompt, "Name: Alisa")
	idxStyle := strings.Index(prompt, "STYLE-BLOCK")
	idxDisclaimer2 := strings.LastIndex(prompt, disclaimer)
	idxOpening := strings.Index(prompt, opening)

	require.NotEqual(t, -1, idxTemplate)
	require.NotEqual(t, -1, idxFields)
	require.NotEqual(t, -1, idxStyle)
	require.NotEqual(t, -1, idxOpening)
	require.NotEqual(t, idxDisclaimer1, idxDisclaimer2, "disclaimer must appear twice")

	assert.Less(t, idxTemplate, idxDisclaimer1)
	assert.Less(t, idxDisclaimer1, idxFields)
	assert.Less(t, idxFields, idxStyle)
	assert.Less(t, idxStyle, idxDisclaimer2)
	assert.Less(t, idxDisclaimer2, idxOpening)
}

func TestCompile_Deterministic(t *testing.T) {
	rec := testRecord()
	a := Compile(rec, "base", DefaultStyle)
	b := Compile(rec, "base", DefaultStyle)
	assert.Equal(t, a, b)
}

func TestCompile_FieldBlock(t *testing.T) {
	prompt := Compile(testRecord(), "base", nil)
	assert.Contains(t, prompt, "Name: Alisa\nAge: 25\nGender: Female\nInterests: Singing\nProfession: Singer\nAppearance: Tall\nRelationship status: Single\nPersonality: cheerful")
}

func TestDefaultStyle_MoodRules(t *testing.T) {
	rec := testRecord()
	out := DefaultStyle(rec)
	assert.Contains(t, out, "Alisa")
	assert.Contains(t, out, "upbeat", "cheerful mood should map to the upbeat rule")

	rec.Mood = "completely unremarkable"
	rec.Age = 40
	fallback := DefaultStyle(rec)
	assert.Contains(t, fallback, "ordinary person")
}

package persona

import "fmt"

// Record is the completed set of companion attributes collected during
// onboarding. It is immutable once onboarding completes; the conversation
// created from it owns the only reference.
type Record struct {
	Name               string `json:"name"`
	Age                int    `json:"age"`
	Gender             string `json:"gender"`
	Interests          string `json:"interests"`
	Profession         string `json:"profession"`
	Appearance         string `json:"appearance"`
	RelationshipStatus string `json:"relationship_status"`
	Mood               string `json:"mood"`
}

// Describe renders the record as the fixed-order field block shown to the
// user after onboarding and embedded into the compiled prompt.
func (r *Record) Describe() string {
	return fmt.Sprintf(
		"Name: %s\nAge: %d\nGender: %s\nInterests: %s\nProfession: %s\nAppearance: %s\nRelationship status: %s\nPersonality: %s",
		r.Name, r.Age, r.Gender, r.Interests, r.Profession, r.Appearance, r.RelationshipStatus, r.Mood,
	)
}

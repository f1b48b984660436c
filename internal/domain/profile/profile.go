// Package profile contains the user profile domain model and the energy
// estimation rules applied to it.
package profile

import "strings"

// Profile describes the athlete a plan is generated for. Free-text health
// fields are carried verbatim into the prompt context and the constraint
// retrieval query.
type Profile struct {
	UserID           string
	FullName         string
	Age              int
	HeightCm         float64
	WeightKg         float64
	Gender           string
	ActivityLevel    string
	Goal             string
	HealthConditions string
	Allergies        string
	Injuries         string
	ExperienceLevel  string
}

// MergeFreeText concatenates a structured free-text field with its "other"
// override. Both parts are optional.
func MergeFreeText(structured, other string) string {
	structured = strings.TrimSpace(structured)
	other = strings.TrimSpace(other)
	switch {
	case structured == "":
		return other
	case other == "":
		return structured
	default:
		return structured + " " + other
	}
}

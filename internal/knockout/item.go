// Package knockout detects disqualifying job requirements, assesses them
// against a resume and reduces them to an overall risk level.
package knockout

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"atscheck/internal/textnorm"
)

// Category is the kind of requirement a knockout item represents.
type Category string

const (
	CategoryWorkAuthorization Category = "work_authorization"
	CategorySecurityClearance Category = "security_clearance"
	CategoryCertification     Category = "certification"
	CategoryDegree            Category = "degree"
	CategoryPhysical          Category = "physical"
	CategoryLocation          Category = "location"
	CategoryExperience        Category = "experience"
)

// CategoryOrder is the order in which detected items are reported.
var CategoryOrder = []Category{
	CategoryWorkAuthorization,
	CategorySecurityClearance,
	CategoryCertification,
	CategoryDegree,
	CategoryPhysical,
	CategoryLocation,
	CategoryExperience,
}

// Confirmation is the tri-state answer to "does the candidate meet this
// requirement". It encodes to JSON as true, false or an omitted field.
type Confirmation int8

const (
	Unset Confirmation = iota
	Met
	NotMet
)

// Confirmed converts a boolean answer.
func Confirmed(met bool) Confirmation {
	if met {
		return Met
	}
	return NotMet
}

// Bool returns the answer and whether one was given.
func (c Confirmation) Bool() (met, ok bool) {
	switch c {
	case Met:
		return true, true
	case NotMet:
		return false, true
	}
	return false, false
}

func (c Confirmation) String() string {
	switch c {
	case Met:
		return "met"
	case NotMet:
		return "not met"
	}
	return "unconfirmed"
}

func (c Confirmation) MarshalJSON() ([]byte, error) {
	switch c {
	case Met:
		return []byte("true"), nil
	case NotMet:
		return []byte("false"), nil
	}
	return []byte("null"), nil
}

func (c *Confirmation) UnmarshalJSON(b []byte) error {
	switch string(b) {
	case "true":
		*c = Met
	case "false":
		*c = NotMet
	case "null":
		*c = Unset
	default:
		return fmt.Errorf("userConfirmed must be true, false or null, got %s", b)
	}
	return nil
}

// Source records who set a confirmation.
type Source string

const (
	SourceAuto Source = "auto"
	SourceUser Source = "user"
)

// Item is one disqualifying requirement found in a job description. ID is a
// stable hash of the category and normalised evidence.
type Item struct {
	ID            string       `json:"id"`
	Category      Category     `json:"category"`
	Label         string       `json:"label"`
	Evidence      string       `json:"evidence"`
	UserConfirmed Confirmation `json:"userConfirmed,omitempty"`
	Source        Source       `json:"source,omitempty"`
}

// UserOwned reports whether the confirmation came from the user. A value with
// no provenance is treated as user-set so it is never overwritten.
func (it Item) UserOwned() bool {
	return it.Source == SourceUser || (it.Source == "" && it.UserConfirmed != Unset)
}

// WithUserAnswer returns a copy carrying a user-originated answer.
func (it Item) WithUserAnswer(met bool) Item {
	it.UserConfirmed = Confirmed(met)
	it.Source = SourceUser
	return it
}

// Confidence grades an automatic assessment.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// EnhancedItem is an Item after cross-referencing the resume. Only high
// confidence assessments pre-fill UserConfirmed.
type EnhancedItem struct {
	Item
	Confidence Confidence `json:"confidence,omitempty"`
	Reason     string     `json:"reason,omitempty"`
}

// Items strips enhancement data.
func Items(enhanced []EnhancedItem) []Item {
	out := make([]Item, len(enhanced))
	for i, e := range enhanced {
		out[i] = e.Item
	}
	return out
}

// ItemID hashes category and evidence into a stable identifier.
func ItemID(category Category, evidence string) string {
	sum := sha256.Sum256([]byte(string(category) + "\x00" + textnorm.Normalize(evidence)))
	return "ko-" + hex.EncodeToString(sum[:8])
}

func newItem(category Category, label, evidence string) Item {
	return Item{
		ID:       ItemID(category, evidence),
		Category: category,
		Label:    label,
		Evidence: evidence,
	}
}

// ApplyAnswers overlays stored user answers, keyed by item ID, onto items.
// Items without a stored answer are returned unchanged.
func ApplyAnswers(items []Item, answers map[string]bool) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		if met, ok := answers[it.ID]; ok {
			it = it.WithUserAnswer(met)
		}
		out[i] = it
	}
	return out
}

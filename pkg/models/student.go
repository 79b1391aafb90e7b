package models

import "time"

// ProjectType discriminates how the scoring service should match a student.
type ProjectType string

const (
	// ProjectTypeSpecific matches on the student's free-text description.
	ProjectTypeSpecific ProjectType = "specific"
	// ProjectTypeGeneral matches on the selected topics.
	ProjectTypeGeneral ProjectType = "general"
)

// IsValid reports whether the project type is one the scoring service accepts.
func (p ProjectType) IsValid() bool {
	return p == ProjectTypeSpecific || p == ProjectTypeGeneral
}

// Embedding models a student can choose on the settings page.
const (
	ModelBERT    = "bert"
	ModelSciBERT = "scibert"

	DefaultModel = ModelBERT
)

// ValidModels contains all selectable embedding models.
var ValidModels = []string{ModelBERT, ModelSciBERT}

// IsValidModel checks if the given model name is selectable.
func IsValidModel(model string) bool {
	for _, m := range ValidModels {
		if m == model {
			return true
		}
	}
	return false
}

// MinInterestTextLength is the shortest free-text description accepted.
const MinInterestTextLength = 10

// Student is the latest submission of a signed-in student.
// The ID is the session subject issued by the identity provider.
type Student struct {
	ID          string      `json:"id"`
	Text        *string     `json:"text,omitempty"`
	Topics      []TopicRef  `json:"topics,omitempty"`
	ProjectType ProjectType `json:"projectType,omitempty"`
	Model       string      `json:"model"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

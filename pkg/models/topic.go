package models

// Topic is static reference data students can pick instead of writing text.
type Topic struct {
	ID       int64    `json:"topicId" yaml:"id"`
	Label    string   `json:"label" yaml:"label"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// TopicRef is a topic as submitted with a suggestion request.
// The scoring service only needs the identifier, label and keywords are echoed for context.
type TopicRef struct {
	TopicID  int64    `json:"topicId"`
	Label    string   `json:"label,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

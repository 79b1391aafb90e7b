package models

import (
	"time"
)

// Suggestion is a stored (student, supervisor) pairing. At most one row exists
// per pair; the full set for a student is replaced on every new submission.
type Suggestion struct {
	StudentID    string    `json:"studentId"`
	SupervisorID string    `json:"supervisorId"`
	Similarity   float64   `json:"similarity"`
	Contacted    bool      `json:"contacted"`
	TopPaperID   *string   `json:"topPaperId,omitempty"`
	TopPaper     *TopPaper `json:"topPaper,omitempty"` // inline detail sent by the scoring service
	CreatedAt    time.Time `json:"createdAt"`
}

// TopPaper is the supervisor's research output closest to the student's interests.
type TopPaper struct {
	Title      string   `json:"title"`
	URL        string   `json:"url"`
	Similarity *float64 `json:"similarity,omitempty"`
}

// ScoredSupervisor is one entry of the scoring service's ranked list.
type ScoredSupervisor struct {
	SupervisorID string
	Similarity   float64
	TopPaperID   *string
	TopPaper     *TopPaper
}

// ResolvedSuggestion is a suggestion with the supervisor profile filled in
// from the directory service, ready to render.
type ResolvedSuggestion struct {
	SupervisorProfile
	Similarity float64   `json:"similarity"`
	Contacted  bool      `json:"contacted"`
	TopPaper   *TopPaper `json:"topPaper,omitempty"`
}

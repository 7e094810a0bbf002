package models

// Report is the per-profile status handed to the notifier.
type Report struct {
	Email  string       `json:"email"`
	Name   string       `json:"name"`
	Due    int          `json:"due"`
	Total  int          `json:"total"`
	Counts map[Site]int `json:"counts"`

	// Questions is set only when the profile has a Codolio URL.
	Questions *QuestionList `json:"questions,omitempty"`
}

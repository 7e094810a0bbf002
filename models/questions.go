package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UnknownLabel replaces a missing problem label, and the label "status"
// which would collide with the status key.
const UnknownLabel = "Unknown"

// QuestionList is the richer result extracted from a Codolio profile.
type QuestionList struct {
	TotalQuestions string         `json:"totalQuestions"`
	Result         []ProblemEntry `json:"result"`
}

// EmptyQuestionList is the default returned when extraction fails.
func EmptyQuestionList() QuestionList {
	return QuestionList{TotalQuestions: "0", Result: []ProblemEntry{}}
}

// SolvedCount returns the number of entries marked solved.
func (q QuestionList) SolvedCount() int {
	n := 0
	for _, e := range q.Result {
		if e.Solved() {
			n++
		}
	}
	return n
}

// ProblemEntry is one problem on a Codolio list. Status is 1 when solved.
// It is encoded as {"<label>": "<url>", "status": n}.
type ProblemEntry struct {
	Label  string
	URL    string
	Status int
}

// Solved reports whether the entry carries the solved marker.
func (e ProblemEntry) Solved() bool { return e.Status == 1 }

func (e ProblemEntry) MarshalJSON() ([]byte, error) {
	label := e.Label
	if label == "" || label == "status" {
		label = UnknownLabel
	}
	key, err := json.Marshal(label)
	if err != nil {
		return nil, err
	}
	val, err := json.Marshal(e.URL)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	buf.Write(key)
	buf.WriteByte(':')
	buf.Write(val)
	fmt.Fprintf(&buf, `,"status":%d}`, e.Status)
	return buf.Bytes(), nil
}

func (e *ProblemEntry) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = ProblemEntry{}
	for k, v := range raw {
		if k == "status" {
			if err := json.Unmarshal(v, &e.Status); err != nil {
				return fmt.Errorf("problem status: %w", err)
			}
			continue
		}
		e.Label = k
		if err := json.Unmarshal(v, &e.URL); err != nil {
			return fmt.Errorf("problem %q url: %w", k, err)
		}
	}
	return nil
}

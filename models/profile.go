package models

import "time"

// Profile is one tracked student as stored in the datastore.
type Profile struct {
	Email string
	Name  string

	// URLs maps each site to the student's profile page. A missing or
	// empty entry means the site is not configured.
	URLs map[Site]string

	// Counts holds the last recorded solved count per counted site.
	Counts map[Site]int

	// PrevRecord is the cumulative total recorded at PrevDate.
	PrevRecord int

	// PrevDate is when the profile was last checked; nil if never.
	PrevDate *time.Time
}

// DisplayName returns the name used in greetings.
func (p Profile) DisplayName() string {
	if p.Name == "" {
		return "Student"
	}
	return p.Name
}

// CountUpdate is the per-profile write issued after a check.
type CountUpdate struct {
	Email      string
	Counts     map[Site]int
	PrevRecord int
	PrevDate   time.Time
}

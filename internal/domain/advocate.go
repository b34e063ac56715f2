package domain

import (
	"strconv"
	"time"
)

// Advocate is the domain representation of a directory entry.
type Advocate struct {
	ID AdvocateID

	FirstName string
	LastName  string
	City      string
	Degree    string

	// Specialties is ordered as entered. Never nil for records read from a store.
	Specialties []string

	YearsOfExperience int
	// PhoneNumber is stored as an integer and is not validated for format.
	PhoneNumber int64

	CreatedAt time.Time
}

// FullName joins first and last name for display.
func (a Advocate) FullName() string {
	return a.FirstName + " " + a.LastName
}

// YearsOfExperienceText is the decimal rendering used for display and extended search.
func (a Advocate) YearsOfExperienceText() string {
	return strconv.Itoa(a.YearsOfExperience)
}

// PhoneNumberText is the decimal rendering used for display and extended search.
func (a Advocate) PhoneNumberText() string {
	return strconv.FormatInt(a.PhoneNumber, 10)
}

// Clone returns a copy that shares no slices with a.
func (a Advocate) Clone() Advocate {
	out := a
	out.Specialties = CloneSpecialties(a.Specialties)
	return out
}

// CloneSpecialties copies s, mapping nil to an empty slice.
func CloneSpecialties(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

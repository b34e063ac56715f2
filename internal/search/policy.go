// Package search holds the single matching policy shared by every place that
// filters advocates: the in-memory store, the Postgres store and the
// directory view's local strategy.
package search

import (
	"strings"

	"github.com/solace-advocates/advocate-directory-api/internal/domain"
)

// Field names a searchable advocate attribute. Values match the JSON field names.
type Field string

const (
	FieldFirstName         Field = "firstName"
	FieldLastName          Field = "lastName"
	FieldCity              Field = "city"
	FieldDegree            Field = "degree"
	FieldSpecialties       Field = "specialties"
	FieldYearsOfExperience Field = "yearsOfExperience"
	FieldPhoneNumber       Field = "phoneNumber"
)

// CoreFields are matched by default.
var CoreFields = []Field{FieldFirstName, FieldLastName, FieldCity, FieldDegree}

// ExtraFields are matched only by the extended policy. In Postgres they are
// served from the trigram-indexed search_extra shadow column.
var ExtraFields = []Field{FieldSpecialties, FieldYearsOfExperience, FieldPhoneNumber}

// Policy is a case-insensitive substring match over a set of fields.
// A record matches when any field contains the normalized term.
type Policy struct {
	fields []Field
}

// DefaultPolicy matches CoreFields.
func DefaultPolicy() Policy {
	return Policy{fields: CoreFields}
}

// ExtendedPolicy matches CoreFields and ExtraFields.
func ExtendedPolicy() Policy {
	fs := make([]Field, 0, len(CoreFields)+len(ExtraFields))
	fs = append(fs, CoreFields...)
	fs = append(fs, ExtraFields...)
	return Policy{fields: fs}
}

// PolicyFor picks the default or extended policy.
func PolicyFor(extended bool) Policy {
	if extended {
		return ExtendedPolicy()
	}
	return DefaultPolicy()
}

// Fields returns a copy of the matched fields in evaluation order.
func (p Policy) Fields() []Field {
	if p.fields == nil {
		return DefaultPolicy().Fields()
	}
	out := make([]Field, len(p.fields))
	copy(out, p.fields)
	return out
}

// Extended reports whether any non-core field is matched.
func (p Policy) Extended() bool {
	for _, f := range p.Fields() {
		for _, x := range ExtraFields {
			if f == x {
				return true
			}
		}
	}
	return false
}

// Normalize folds a raw term to the form compared against field values.
// Whitespace is significant and is not trimmed.
func Normalize(term string) string {
	return strings.ToLower(term)
}

// Matches reports whether a matches term. An empty term matches everything.
func (p Policy) Matches(a domain.Advocate, term string) bool {
	q := Normalize(term)
	if q == "" {
		return true
	}
	for _, f := range p.Fields() {
		if fieldContains(a, f, q) {
			return true
		}
	}
	return false
}

// Filter returns the advocates matching term, preserving input order.
// An empty term returns as unchanged.
func (p Policy) Filter(as []domain.Advocate, term string) []domain.Advocate {
	if Normalize(term) == "" {
		return as
	}
	out := make([]domain.Advocate, 0, len(as))
	for _, a := range as {
		if p.Matches(a, term) {
			out = append(out, a)
		}
	}
	return out
}

func fieldContains(a domain.Advocate, f Field, q string) bool {
	switch f {
	case FieldFirstName:
		return contains(a.FirstName, q)
	case FieldLastName:
		return contains(a.LastName, q)
	case FieldCity:
		return contains(a.City, q)
	case FieldDegree:
		return contains(a.Degree, q)
	case FieldSpecialties:
		for _, s := range a.Specialties {
			if contains(s, q) {
				return true
			}
		}
		return false
	case FieldYearsOfExperience:
		return contains(a.YearsOfExperienceText(), q)
	case FieldPhoneNumber:
		return contains(a.PhoneNumberText(), q)
	default:
		return false
	}
}

func contains(value, q string) bool {
	return strings.Contains(strings.ToLower(value), q)
}

// PolicyFromFields builds a policy from field names as reported by
// GET /api/search-policy. Unknown names are skipped; no known names yields
// the default policy.
func PolicyFromFields(names []string) Policy {
	known := ExtendedPolicy().Fields()
	fs := make([]Field, 0, len(names))
	for _, n := range names {
		for _, k := range known {
			if Field(n) == k {
				fs = append(fs, k)
				break
			}
		}
	}
	if len(fs) == 0 {
		return DefaultPolicy()
	}
	return Policy{fields: fs}
}

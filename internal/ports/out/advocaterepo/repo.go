package advocaterepo

import (
	"context"
	"time"

	"github.com/solace-advocates/advocate-directory-api/internal/domain"
	"github.com/solace-advocates/advocate-directory-api/internal/search"
)

// Advocate is the persistence shape used by the advocate repository.
// It is an internal record, not an HTTP DTO.
type Advocate struct {
	ID domain.AdvocateID

	FirstName string
	LastName  string
	City      string
	Degree    string
	// Specialties is persisted as a JSON array; nil is stored as [].
	Specialties []string

	YearsOfExperience int
	PhoneNumber       int64

	CreatedAt time.Time
}

// Query selects advocates by term under a matching policy.
type Query struct {
	Term   string
	Policy search.Policy
}

// Repository provides read access to persisted advocates plus the Create
// path used by seeding/import.
//
// Result ordering expectations:
//   - List/Search return records in the store's natural scan order. No sort is imposed.
type Repository interface {
	Create(ctx context.Context, a Advocate) error

	GetByID(ctx context.Context, id domain.AdvocateID) (Advocate, error)

	List(ctx context.Context) ([]Advocate, error)

	// Search returns every advocate matching q.Term under q.Policy.
	// An empty term behaves like List.
	Search(ctx context.Context, q Query) ([]Advocate, error)
}

// ToDomain converts a persistence record to the domain model.
func ToDomain(a Advocate) domain.Advocate {
	return domain.Advocate{
		ID:                a.ID,
		FirstName:         a.FirstName,
		LastName:          a.LastName,
		City:              a.City,
		Degree:            a.Degree,
		Specialties:       domain.CloneSpecialties(a.Specialties),
		YearsOfExperience: a.YearsOfExperience,
		PhoneNumber:       a.PhoneNumber,
		CreatedAt:         a.CreatedAt,
	}
}

// FromDomain converts a domain advocate to its persistence record.
func FromDomain(a domain.Advocate) Advocate {
	return Advocate{
		ID:                a.ID,
		FirstName:         a.FirstName,
		LastName:          a.LastName,
		City:              a.City,
		Degree:            a.Degree,
		Specialties:       domain.CloneSpecialties(a.Specialties),
		YearsOfExperience: a.YearsOfExperience,
		PhoneNumber:       a.PhoneNumber,
		CreatedAt:         a.CreatedAt,
	}
}

package httpapi

import (
	"time"

	"github.com/google/uuid"
	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/solace-advocates/advocate-directory-api/internal/domain"
)

// Advocate is the JSON shape of one directory entry.
type Advocate struct {
	ID                nullable.Nullable[openapi_types.UUID] `json:"id,omitempty"`
	FirstName         string                                `json:"firstName"`
	LastName          string                                `json:"lastName"`
	City              string                                `json:"city"`
	Degree            string                                `json:"degree"`
	Specialties       []string                              `json:"specialties"`
	YearsOfExperience int                                   `json:"yearsOfExperience"`
	PhoneNumber       int64                                 `json:"phoneNumber"`
	CreatedAt         nullable.Nullable[time.Time]          `json:"createdAt,omitempty"`
}

type ListAdvocatesResponse struct {
	Data []Advocate `json:"data"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

type SearchPolicyResponse struct {
	Fields   []string `json:"fields"`
	Extended bool     `json:"extended"`
}

func advocateFromDomain(a domain.Advocate) Advocate {
	out := Advocate{
		FirstName:         a.FirstName,
		LastName:          a.LastName,
		City:              a.City,
		Degree:            a.Degree,
		Specialties:       domain.CloneSpecialties(a.Specialties),
		YearsOfExperience: a.YearsOfExperience,
		PhoneNumber:       a.PhoneNumber,
	}
	if id, err := uuid.Parse(string(a.ID)); err == nil {
		out.ID = nullable.NewNullableWithValue(openapi_types.UUID(id))
	}
	if !a.CreatedAt.IsZero() {
		out.CreatedAt = nullable.NewNullableWithValue(a.CreatedAt.UTC())
	}
	return out
}

// Package seed holds the sample advocate directory used for local development
// and integration tests.
package seed

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/solace-advocates/advocate-directory-api/internal/app/advocates"
)

var specialtyCatalog = []string{
	"Bipolar",
	"LGBTQ",
	"Medication/Prescribing",
	"Suicide History/Attempts",
	"General Mental Health (anxiety, depression, stress, grief, life transitions)",
	"Men's issues",
	"Relationship Issues (family, friends, couple, etc)",
	"Trauma & PTSD",
	"Personality disorders",
	"Personal growth",
	"Substance use/abuse",
	"Pediatrics",
	"Women's issues (post-partum, infertility, family planning)",
	"Chronic pain",
	"Weight loss & nutrition",
	"Eating disorders",
	"Diabetic Diet and nutrition",
	"Coaching (leadership, career, academic and wellness)",
	"Life coaching",
	"Obsessive-compulsive disorders",
	"Neuropsychological evaluations & testing (ADHD testing)",
	"Attention and Hyperactivity (ADHD)",
	"Sleep issues",
	"Schizophrenia and psychotic disorders",
	"Learning disorders",
	"Domestic abuse",
}

// pick returns the catalog entries at the given indexes.
func pick(idx ...int) []string {
	out := make([]string, 0, len(idx))
	for _, i := range idx {
		out = append(out, specialtyCatalog[i%len(specialtyCatalog)])
	}
	return out
}

// Advocates returns a fresh copy of the seed data set.
func Advocates() []advocates.ImportAdvocateInput {
	return []advocates.ImportAdvocateInput{
		{FirstName: "John", LastName: "Doe", City: "New York", Degree: "MD", Specialties: pick(0, 4, 7), YearsOfExperience: 10, PhoneNumber: 5551234567},
		{FirstName: "Jane", LastName: "Smith", City: "Los Angeles", Degree: "PhD", Specialties: pick(1, 6), YearsOfExperience: 8, PhoneNumber: 5559876543},
		{FirstName: "Alice", LastName: "Johnson", City: "Chicago", Degree: "MSW", Specialties: pick(4, 9, 13), YearsOfExperience: 5, PhoneNumber: 5554567890},
		{FirstName: "Michael", LastName: "Brown", City: "Houston", Degree: "MD", Specialties: pick(2, 10), YearsOfExperience: 12, PhoneNumber: 5556543210},
		{FirstName: "Emily", LastName: "Davis", City: "Phoenix", Degree: "PhD", Specialties: pick(7, 15, 25), YearsOfExperience: 7, PhoneNumber: 5553210987},
		{FirstName: "Chris", LastName: "Martinez", City: "Philadelphia", Degree: "MSW", Specialties: pick(5, 17), YearsOfExperience: 9, PhoneNumber: 5557890123},
		{FirstName: "Jessica", LastName: "Taylor", City: "San Antonio", Degree: "MD", Specialties: pick(11, 21, 22), YearsOfExperience: 11, PhoneNumber: 5554561234},
		{FirstName: "David", LastName: "Harris", City: "San Diego", Degree: "PhD", Specialties: pick(3, 8, 19), YearsOfExperience: 6, PhoneNumber: 5557896543},
		{FirstName: "Laura", LastName: "Clark", City: "Dallas", Degree: "MSW", Specialties: pick(12, 14, 16), YearsOfExperience: 4, PhoneNumber: 5550123456},
		{FirstName: "Daniel", LastName: "Lewis", City: "San Jose", Degree: "MD", Specialties: pick(20, 23), YearsOfExperience: 13, PhoneNumber: 5553217654},
		{FirstName: "Sarah", LastName: "Lee", City: "Austin", Degree: "PhD", Specialties: pick(4, 18), YearsOfExperience: 10, PhoneNumber: 5551238765},
		{FirstName: "James", LastName: "King", City: "Jacksonville", Degree: "MSW", Specialties: pick(6, 7, 24), YearsOfExperience: 5, PhoneNumber: 5556540987},
		{FirstName: "Megan", LastName: "Green", City: "San Francisco", Degree: "MD", Specialties: pick(0, 2), YearsOfExperience: 14, PhoneNumber: 5553214321},
		{FirstName: "Joshua", LastName: "Walker", City: "Columbus", Degree: "PhD", Specialties: pick(9, 10, 17), YearsOfExperience: 9, PhoneNumber: 5556781234},
		{FirstName: "Amanda", LastName: "Hall", City: "Fort Worth", Degree: "MSW", Specialties: pick(13), YearsOfExperience: 3, PhoneNumber: 5559872345},
	}
}

// Decode reads a JSON array of advocates in the API field naming.
func Decode(r io.Reader) ([]advocates.ImportAdvocateInput, error) {
	var out []advocates.ImportAdvocateInput
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode advocates: %w", err)
	}
	return out, nil
}

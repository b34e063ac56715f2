package advocates

// ImportAdvocateInput is one advocate to be added to the directory.
// Specialties may be nil; it is stored as an empty list.
type ImportAdvocateInput struct {
	FirstName         string   `json:"firstName" validate:"required,max=100"`
	LastName          string   `json:"lastName" validate:"required,max=100"`
	City              string   `json:"city" validate:"required,max=100"`
	Degree            string   `json:"degree" validate:"required,max=50"`
	Specialties       []string `json:"specialties" validate:"omitempty,dive,max=200"`
	YearsOfExperience int      `json:"yearsOfExperience" validate:"gte=0,lte=100"`
	PhoneNumber       int64    `json:"phoneNumber" validate:"gte=0"`
}

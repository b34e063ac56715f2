package domain

// AdvocateID is the stable identifier of an advocate record.
// Stores assign it as a UUID; the domain treats it as opaque.
type AdvocateID string

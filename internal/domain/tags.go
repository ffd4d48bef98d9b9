package domain

// Tags is a free-form label set stored as a JSON column.
type Tags []string

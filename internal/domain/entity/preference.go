package entity

import "time"

// Preference is a single locally persisted user preference.
type Preference struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

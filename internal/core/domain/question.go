package domain

import "time"

// UnansweredQuestion is a query that produced no similarity hits.
type UnansweredQuestion struct {
	// ID is the store-assigned identifier.
	ID string `json:"id"`

	// Question is the exact query text.
	Question string `json:"question"`

	// Timestamp is when the query was recorded, in UTC.
	Timestamp time.Time `json:"timestamp"`
}

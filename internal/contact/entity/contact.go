package entity

import "time"

// Contact is a person whose birthday the service tracks.
type Contact struct {
	ID          int64
	Name        string
	Email       string
	DateOfBirth time.Time
}

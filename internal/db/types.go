package db

import (
	"time"

	"github.com/google/uuid"
)

// Stored values for analysis rows
const (
	ReportTypeCareerRoadmap = "career_roadmap"
	GapImportanceHigh       = "High"
)

// ProfileRow is the profiles table row
type ProfileRow struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Mobile    string    `json:"mobile,omitempty"`
	City      string    `json:"city,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileIdentity holds the columns written by UpsertProfile
type ProfileIdentity struct {
	Name   string
	Email  string
	Mobile string
	City   string
}

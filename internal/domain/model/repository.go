// Package model contains the domain types for the repository intelligence engine.
package model

import "time"

// Repository represents a GitHub repository as seen by the engine.
// ID is the sole identity key: two records with the same ID describe the
// same repository and are deduplicated on it.
type Repository struct {
	ID             int64
	FullName       string // "owner/name"
	Owner          string
	OwnerAvatarURL string
	Name           string
	URL            string
	Description    string
	Language       string
	Topics         []string
	Stars          int
	Forks          int
	OpenIssues     int
	License        string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// QualityScore is nil until the scorer has run. It is always recomputed
	// by the engine and never trusted from input.
	QualityScore *int
}

// Enrichment holds the optional per-repository augmentation fetched before
// enhanced scoring: the byte-weighted language breakdown and the number of
// top contributors.
type Enrichment struct {
	Languages        map[string]int
	ContributorCount int
}

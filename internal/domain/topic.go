package domain

import "time"

// Topic anchors filesystem paths and a search term that Flows attach to.
type Topic struct {
	ID         int64
	Name       string
	SearchText string

	LandingDir *string
	ArchiveDir *string
	StageDir   *string
	CatalogDir *string
	WorkDir    *string

	CreatedAt time.Time
	UpdatedAt *time.Time
}

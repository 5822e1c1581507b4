// Package types provides type definitions for structured data exchanged between cherrypick services.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/google/uuid"

// SourceType identifies which kind of content entry a bullet belongs to.
type SourceType string

// Source type constants
const (
	// SourceExperience marks bullets owned by a work experience entry
	SourceExperience SourceType = "experience"
	// SourceProject marks bullets owned by a project entry
	SourceProject SourceType = "project"
)

// Cardinality bounds for a non-skipped per-source bullet list
const (
	// MinBulletsPerSource is the schema's minimum bullet count per rendered source
	MinBulletsPerSource = 3
	// MaxBulletsPerSource is the schema's maximum bullet count per rendered source
	MaxBulletsPerSource = 5
)

// BulletCandidate is one bullet point available for selection within a source.
// Score is the precomputed similarity against the job description; higher is
// more relevant.
type BulletCandidate struct {
	ID         uuid.UUID  `json:"id"`
	SourceID   uuid.UUID  `json:"source_id"`
	SourceType SourceType `json:"source_type"`
	Content    string     `json:"content"`
	Score      float64    `json:"score"`
}

// SourceSelectionRequest carries everything needed to reconcile one source.
// Candidates must arrive in oracle rank order (descending similarity score);
// equal scores keep their arrival order. Proposed is the picker's raw output
// and must not be trusted: it may contain unknown IDs, duplicates, too few or
// too many entries.
type SourceSelectionRequest struct {
	SourceID   uuid.UUID
	SourceType SourceType
	Candidates []BulletCandidate
	Proposed   []uuid.UUID
}

// Outcome tags how a source's final bullet list was produced.
type Outcome string

// Outcome constants
const (
	// OutcomeSelected means the picker's own valid choices were used as-is
	OutcomeSelected Outcome = "selected"
	// OutcomeBackfilled means oracle-ranked candidates topped up an under-sized pick
	OutcomeBackfilled Outcome = "backfilled"
	// OutcomeSkipped means the source cannot field enough bullets and must be omitted
	OutcomeSkipped Outcome = "skipped"
)

// SourceSelectionResult is the validated per-source bullet list. A non-skipped
// result holds between MinBulletsPerSource and MaxBulletsPerSource bullets,
// each drawn from the request's candidate universe. A skipped result always
// carries an empty bullet list and must be omitted by the compositor.
type SourceSelectionResult struct {
	SourceID   uuid.UUID         `json:"source_id"`
	SourceType SourceType        `json:"source_type"`
	Outcome    Outcome           `json:"outcome"`
	Bullets    []BulletCandidate `json:"bullets"`
}

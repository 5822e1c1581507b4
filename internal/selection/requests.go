package selection

import (
	"github.com/google/uuid"

	"github.com/jmartell/cherrypick/internal/types"
)

// BuildRequest converts one source's slice of the match set into a
// SourceSelectionRequest. Matches must be in oracle rank order (descending
// score), which BulletsBySource preserves.
func BuildRequest(sourceID uuid.UUID, sourceType types.SourceType, matches []types.BulletMatch, proposed []uuid.UUID) types.SourceSelectionRequest {
	candidates := make([]types.BulletCandidate, 0, len(matches))
	for _, m := range matches {
		candidates = append(candidates, types.BulletCandidate{
			ID:         m.BulletID,
			SourceID:   sourceID,
			SourceType: sourceType,
			Content:    m.Content,
			Score:      m.SimilarityScore,
		})
	}
	return types.SourceSelectionRequest{
		SourceID:   sourceID,
		SourceType: sourceType,
		Candidates: candidates,
		Proposed:   proposed,
	}
}

// Package selection reconciles untrusted picker output against the oracle-ranked
// candidate universe, producing validated per-source bullet lists.
package selection

import (
	"github.com/google/uuid"

	"github.com/jmartell/cherrypick/internal/types"
)

// Reconcile turns the picker's raw proposed identifier list into a validated
// per-source selection, or a skip signal when the source cannot field enough
// bullets.
//
// The procedure:
//  1. Drop proposed IDs not present in the candidate universe, and
//     duplicates (first occurrence wins, picker order preserved).
//  2. With 3 or more valid picks, keep the picker's order and cap at 5.
//  3. With 0-2 valid picks, backfill from the candidate list in oracle rank
//     order until the combined list reaches 3.
//  4. If the universe itself has fewer than 3 candidates, return a skipped
//     result with an empty bullet list.
//
// Reconcile is pure and never fails: malformed picker output is data to be
// corrected, not an error. Calling it twice on the same request yields
// identical results.
func Reconcile(req types.SourceSelectionRequest) types.SourceSelectionResult {
	byID := make(map[uuid.UUID]types.BulletCandidate, len(req.Candidates))
	for _, c := range req.Candidates {
		byID[c.ID] = c
	}

	// Step 1: validate the proposed list.
	validated := make([]types.BulletCandidate, 0, len(req.Proposed))
	taken := make(map[uuid.UUID]bool, len(req.Proposed))
	for _, id := range req.Proposed {
		c, ok := byID[id]
		if !ok || taken[id] {
			continue
		}
		taken[id] = true
		validated = append(validated, c)
	}

	// Step 2: enough valid picks, trust the picker's ordering.
	if len(validated) >= types.MinBulletsPerSource {
		if len(validated) > types.MaxBulletsPerSource {
			validated = validated[:types.MaxBulletsPerSource]
		}
		return types.SourceSelectionResult{
			SourceID:   req.SourceID,
			SourceType: req.SourceType,
			Outcome:    types.OutcomeSelected,
			Bullets:    validated,
		}
	}

	// Step 3: backfill from the oracle ranking. Candidates arrive in
	// descending-score order; walking the slice keeps equal scores in their
	// stable input order.
	combined := validated
	for _, c := range req.Candidates {
		if len(combined) >= types.MinBulletsPerSource {
			break
		}
		if taken[c.ID] {
			continue
		}
		taken[c.ID] = true
		combined = append(combined, c)
	}

	// Step 4: the universe itself is too small.
	if len(combined) < types.MinBulletsPerSource {
		return types.SourceSelectionResult{
			SourceID:   req.SourceID,
			SourceType: req.SourceType,
			Outcome:    types.OutcomeSkipped,
			Bullets:    []types.BulletCandidate{},
		}
	}

	if len(combined) > types.MaxBulletsPerSource {
		combined = combined[:types.MaxBulletsPerSource]
	}
	return types.SourceSelectionResult{
		SourceID:   req.SourceID,
		SourceType: req.SourceType,
		Outcome:    types.OutcomeBackfilled,
		Bullets:    combined,
	}
}

package selection

import (
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/jmartell/cherrypick/internal/types"
)

// makeUniverse builds n candidates in oracle rank order with strictly
// descending scores.
func makeUniverse(sourceID uuid.UUID, n int) []types.BulletCandidate {
	candidates := make([]types.BulletCandidate, 0, n)
	for i := 0; i < n; i++ {
		candidates = append(candidates, types.BulletCandidate{
			ID:         uuid.New(),
			SourceID:   sourceID,
			SourceType: types.SourceExperience,
			Content:    "bullet",
			Score:      1.0 - float64(i)*0.1,
		})
	}
	return candidates
}

func ids(bullets []types.BulletCandidate) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(bullets))
	for _, b := range bullets {
		out = append(out, b.ID)
	}
	return out
}

func TestReconcile_SelectedKeepsPickerOrder(t *testing.T) {
	sourceID := uuid.New()
	universe := makeUniverse(sourceID, 6)

	// Picker proposes 4 valid IDs in its own (non-oracle) order.
	proposed := []uuid.UUID{universe[3].ID, universe[0].ID, universe[5].ID, universe[1].ID}
	result := Reconcile(types.SourceSelectionRequest{
		SourceID:   sourceID,
		SourceType: types.SourceExperience,
		Candidates: universe,
		Proposed:   proposed,
	})

	if result.Outcome != types.OutcomeSelected {
		t.Fatalf("expected outcome selected, got %s", result.Outcome)
	}
	if !reflect.DeepEqual(ids(result.Bullets), proposed) {
		t.Errorf("expected picker order preserved, got %v", ids(result.Bullets))
	}
}

func TestReconcile_SelectedTruncatesToCap(t *testing.T) {
	// Scenario B: six valid picks truncate to the first five.
	sourceID := uuid.New()
	universe := makeUniverse(sourceID, 6)

	proposed := ids(universe)
	result := Reconcile(types.SourceSelectionRequest{
		SourceID:   sourceID,
		Candidates: universe,
		Proposed:   proposed,
	})

	if result.Outcome != types.OutcomeSelected {
		t.Fatalf("expected outcome selected, got %s", result.Outcome)
	}
	if len(result.Bullets) != types.MaxBulletsPerSource {
		t.Fatalf("expected %d bullets, got %d", types.MaxBulletsPerSource, len(result.Bullets))
	}
	if !reflect.DeepEqual(ids(result.Bullets), proposed[:5]) {
		t.Errorf("expected first five picks kept, got %v", ids(result.Bullets))
	}
}

func TestReconcile_BackfillFromOracleRank(t *testing.T) {
	// Scenario A: duplicates and an unknown ID collapse to two valid picks;
	// backfill adds the top-ranked unused candidate.
	sourceID := uuid.New()
	universe := makeUniverse(sourceID, 6)
	b3 := universe[1].ID // ranked 2nd
	b7 := universe[3].ID // ranked 4th

	result := Reconcile(types.SourceSelectionRequest{
		SourceID:   sourceID,
		Candidates: universe,
		Proposed:   []uuid.UUID{b3, b3, b7, uuid.New()},
	})

	if result.Outcome != types.OutcomeBackfilled {
		t.Fatalf("expected outcome backfilled, got %s", result.Outcome)
	}
	if len(result.Bullets) != 3 {
		t.Fatalf("expected 3 bullets, got %d", len(result.Bullets))
	}

	// Valid picks come first in picker order; the backfill slot goes to the
	// top-ranked unused candidate (rank 1).
	want := []uuid.UUID{b3, b7, universe[0].ID}
	if !reflect.DeepEqual(ids(result.Bullets), want) {
		t.Errorf("expected %v, got %v", want, ids(result.Bullets))
	}
}

func TestReconcile_EmptyProposalBackfillsTopThree(t *testing.T) {
	sourceID := uuid.New()
	universe := makeUniverse(sourceID, 4)

	result := Reconcile(types.SourceSelectionRequest{
		SourceID:   sourceID,
		Candidates: universe,
		Proposed:   nil,
	})

	if result.Outcome != types.OutcomeBackfilled {
		t.Fatalf("expected outcome backfilled, got %s", result.Outcome)
	}
	if !reflect.DeepEqual(ids(result.Bullets), ids(universe[:3])) {
		t.Errorf("expected top three by oracle rank, got %v", ids(result.Bullets))
	}
}

func TestReconcile_SkippedWhenUniverseTooSmall(t *testing.T) {
	// Scenario C: two candidates total can never reach the minimum,
	// regardless of what the picker proposed.
	sourceID := uuid.New()
	universe := makeUniverse(sourceID, 2)

	for _, proposed := range [][]uuid.UUID{nil, ids(universe), {universe[0].ID}} {
		result := Reconcile(types.SourceSelectionRequest{
			SourceID:   sourceID,
			Candidates: universe,
			Proposed:   proposed,
		})
		if result.Outcome != types.OutcomeSkipped {
			t.Errorf("proposed %v: expected outcome skipped, got %s", proposed, result.Outcome)
		}
		if len(result.Bullets) != 0 {
			t.Errorf("proposed %v: skipped result must carry an empty list, got %d bullets", proposed, len(result.Bullets))
		}
	}
}

func TestReconcile_TieBreakStableOrder(t *testing.T) {
	// Equal scores keep their arrival order during backfill.
	sourceID := uuid.New()
	universe := makeUniverse(sourceID, 4)
	for i := range universe {
		universe[i].Score = 0.5
	}

	result := Reconcile(types.SourceSelectionRequest{
		SourceID:   sourceID,
		Candidates: universe,
		Proposed:   nil,
	})

	if !reflect.DeepEqual(ids(result.Bullets), ids(universe[:3])) {
		t.Errorf("expected stable input order on tied scores, got %v", ids(result.Bullets))
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	sourceID := uuid.New()
	universe := makeUniverse(sourceID, 5)
	req := types.SourceSelectionRequest{
		SourceID:   sourceID,
		Candidates: universe,
		Proposed:   []uuid.UUID{universe[2].ID, uuid.New()},
	}

	first := Reconcile(req)
	second := Reconcile(req)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical results on repeated invocation")
	}
}

func TestReconcile_NeverLeaksForeignOrDuplicateIDs(t *testing.T) {
	sourceID := uuid.New()
	universe := makeUniverse(sourceID, 6)
	foreign := makeUniverse(uuid.New(), 3)

	proposed := []uuid.UUID{
		foreign[0].ID, universe[4].ID, universe[4].ID,
		foreign[1].ID, universe[2].ID, universe[0].ID,
	}
	result := Reconcile(types.SourceSelectionRequest{
		SourceID:   sourceID,
		Candidates: universe,
		Proposed:   proposed,
	})

	if result.Outcome != types.OutcomeSelected {
		t.Fatalf("expected outcome selected, got %s", result.Outcome)
	}
	seen := make(map[uuid.UUID]bool)
	valid := make(map[uuid.UUID]bool)
	for _, c := range universe {
		valid[c.ID] = true
	}
	for _, b := range result.Bullets {
		if !valid[b.ID] {
			t.Errorf("result contains ID %s outside the candidate universe", b.ID)
		}
		if seen[b.ID] {
			t.Errorf("result contains duplicate ID %s", b.ID)
		}
		seen[b.ID] = true
	}
	if len(result.Bullets) > types.MaxBulletsPerSource {
		t.Errorf("result exceeds cap: %d bullets", len(result.Bullets))
	}
}

func TestBuildRequest_PreservesOracleOrder(t *testing.T) {
	sourceID := uuid.New()
	matches := []types.BulletMatch{
		{BulletID: uuid.New(), SimilarityScore: 0.9, Content: "first", SourceID: sourceID, SourceType: types.SourceProject},
		{BulletID: uuid.New(), SimilarityScore: 0.7, Content: "second", SourceID: sourceID, SourceType: types.SourceProject},
	}

	req := BuildRequest(sourceID, types.SourceProject, matches, nil)
	if len(req.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(req.Candidates))
	}
	if req.Candidates[0].ID != matches[0].BulletID || req.Candidates[1].ID != matches[1].BulletID {
		t.Errorf("candidate order does not match oracle order")
	}
	if req.Candidates[0].SourceType != types.SourceProject {
		t.Errorf("expected source type carried onto candidates")
	}
}

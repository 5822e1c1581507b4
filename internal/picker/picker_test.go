package picker

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jmartell/cherrypick/internal/db"
	"github.com/jmartell/cherrypick/internal/types"
)

// fakeClient returns a canned response per call, or an error
type fakeClient struct {
	response string
	err      error
}

func (f *fakeClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return f.response, f.err
}

func (f *fakeClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	return f.response, f.err
}

func (f *fakeClient) Model() string { return "fake" }
func (f *fakeClient) Close() error  { return nil }

func matchSet(sourceID uuid.UUID, n int) *types.MatchSet {
	set := &types.MatchSet{JobID: uuid.New()}
	for i := 0; i < n; i++ {
		set.MatchedBullets = append(set.MatchedBullets, types.BulletMatch{
			BulletID:        uuid.New(),
			SourceID:        sourceID,
			SourceType:      types.SourceExperience,
			Content:         fmt.Sprintf("bullet %d", i),
			SimilarityScore: 1.0 - float64(i)*0.1,
		})
	}
	return set
}

func testJob() *db.Job {
	return &db.Job{
		ID:                  uuid.New(),
		JobTitle:            "Platform Engineer",
		CompanyName:         "Acme",
		IsAnalyzed:          true,
		TopResponsibilities: []string{"Run the platform"},
	}
}

func TestPickAll_UsesModelChoicesWhenValid(t *testing.T) {
	sourceID := uuid.New()
	set := matchSet(sourceID, 5)

	// model picks ranks 4, 2, 0 in its own order
	picked := []uuid.UUID{
		set.MatchedBullets[4].BulletID,
		set.MatchedBullets[2].BulletID,
		set.MatchedBullets[0].BulletID,
	}
	response := fmt.Sprintf(`["%s", "%s", "%s"]`, picked[0], picked[1], picked[2])

	p := NewPicker(&fakeClient{response: response}, zap.NewNop())
	results, err := p.PickAll(context.Background(), testJob(), set)
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, types.OutcomeSelected, res.Outcome)
	require.Len(t, res.Bullets, 3)
	for i, id := range picked {
		assert.Equal(t, id, res.Bullets[i].ID)
	}
}

func TestPickAll_ModelErrorFallsBackToRankingOrder(t *testing.T) {
	sourceID := uuid.New()
	set := matchSet(sourceID, 4)

	p := NewPicker(&fakeClient{err: fmt.Errorf("model unavailable")}, zap.NewNop())
	results, err := p.PickAll(context.Background(), testJob(), set)
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, types.OutcomeBackfilled, res.Outcome)
	require.Len(t, res.Bullets, types.MinBulletsPerSource)
	for i := 0; i < types.MinBulletsPerSource; i++ {
		assert.Equal(t, set.MatchedBullets[i].BulletID, res.Bullets[i].ID)
	}
}

func TestPickAll_UnparseableResponseFallsBackToRankingOrder(t *testing.T) {
	sourceID := uuid.New()
	set := matchSet(sourceID, 4)

	p := NewPicker(&fakeClient{response: "I would pick the first three bullets."}, zap.NewNop())
	results, err := p.PickAll(context.Background(), testJob(), set)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, types.OutcomeBackfilled, results[0].Outcome)
}

func TestPickAll_HallucinatedIDsAreDropped(t *testing.T) {
	sourceID := uuid.New()
	set := matchSet(sourceID, 5)

	// one valid pick plus two IDs that don't exist in the universe
	response := fmt.Sprintf(`["%s", "%s", "%s"]`,
		set.MatchedBullets[1].BulletID, uuid.New(), uuid.New())

	p := NewPicker(&fakeClient{response: response}, zap.NewNop())
	results, err := p.PickAll(context.Background(), testJob(), set)
	require.NoError(t, err)

	res := results[0]
	assert.Equal(t, types.OutcomeBackfilled, res.Outcome)
	require.Len(t, res.Bullets, types.MinBulletsPerSource)
	assert.Equal(t, set.MatchedBullets[1].BulletID, res.Bullets[0].ID)

	universe := make(map[uuid.UUID]bool)
	for _, m := range set.MatchedBullets {
		universe[m.BulletID] = true
	}
	for _, b := range res.Bullets {
		assert.True(t, universe[b.ID], "bullet %s not in candidate universe", b.ID)
	}
}

func TestPickAll_UndersizedSourceIsSkipped(t *testing.T) {
	sourceID := uuid.New()
	set := matchSet(sourceID, 2)

	p := NewPicker(&fakeClient{response: "[]"}, zap.NewNop())
	results, err := p.PickAll(context.Background(), testJob(), set)
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, types.OutcomeSkipped, res.Outcome)
	assert.Empty(t, res.Bullets)
}

func TestPickAll_ResultsFollowOracleSourceOrder(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	set := &types.MatchSet{JobID: uuid.New()}
	for i := 0; i < 3; i++ {
		set.MatchedBullets = append(set.MatchedBullets, types.BulletMatch{
			BulletID: uuid.New(), SourceID: first, SourceType: types.SourceExperience,
			Content: "a", SimilarityScore: 0.9,
		})
	}
	for i := 0; i < 3; i++ {
		set.MatchedBullets = append(set.MatchedBullets, types.BulletMatch{
			BulletID: uuid.New(), SourceID: second, SourceType: types.SourceProject,
			Content: "b", SimilarityScore: 0.5,
		})
	}

	p := NewPicker(&fakeClient{response: "[]"}, zap.NewNop())
	results, err := p.PickAll(context.Background(), testJob(), set)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, first, results[0].SourceID)
	assert.Equal(t, second, results[1].SourceID)
	assert.Equal(t, types.SourceProject, results[1].SourceType)
}

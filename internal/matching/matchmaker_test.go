package matching

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jmartell/cherrypick/internal/db"
	"github.com/jmartell/cherrypick/internal/types"
)

type fakeStore struct {
	bullets []db.EmbeddedBullet
	skills  []db.EmbeddedSkill
}

func (f *fakeStore) ListEmbeddedBullets(ctx context.Context) ([]db.EmbeddedBullet, error) {
	return f.bullets, nil
}

func (f *fakeStore) ListEmbeddedSkills(ctx context.Context) ([]db.EmbeddedSkill, error) {
	return f.skills, nil
}

type fakeEmbedder struct {
	vector []float32
	byText map[string][]float32
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := f.byText[text]; ok {
		return v, nil
	}
	return f.vector, nil
}

func analyzedJob() *db.Job {
	return &db.Job{
		ID:                  uuid.New(),
		JobTitle:            "Backend Engineer",
		IsAnalyzed:          true,
		TopResponsibilities: []string{"Build distributed services", "Own the data pipeline"},
		HardSkills:          []string{"Go", "PostgreSQL"},
	}
}

func embeddedBullet(content string, vector []float32) db.EmbeddedBullet {
	return db.EmbeddedBullet{
		BulletID:   uuid.New(),
		SourceID:   uuid.New(),
		SourceType: types.SourceExperience,
		Content:    content,
		Vector:     vector,
	}
}

func TestMatch_RanksBulletsByDescendingSimilarity(t *testing.T) {
	low := embeddedBullet("low", []float32{0, 1})
	high := embeddedBullet("high", []float32{1, 0})
	mid := embeddedBullet("mid", []float32{1, 1})

	store := &fakeStore{bullets: []db.EmbeddedBullet{low, high, mid}}
	m := NewMatchmaker(store, &fakeEmbedder{vector: []float32{1, 0}}, zap.NewNop())

	set, err := m.Match(context.Background(), analyzedJob())
	require.NoError(t, err)
	require.Len(t, set.MatchedBullets, 3)

	assert.Equal(t, high.BulletID, set.MatchedBullets[0].BulletID)
	assert.Equal(t, mid.BulletID, set.MatchedBullets[1].BulletID)
	assert.Equal(t, low.BulletID, set.MatchedBullets[2].BulletID)
	assert.Equal(t, "high", set.MatchedBullets[0].Content)
}

func TestMatch_CapsBulletsAtTop15(t *testing.T) {
	store := &fakeStore{}
	for i := 0; i < TopBullets+10; i++ {
		store.bullets = append(store.bullets, embeddedBullet("b", []float32{1, 0}))
	}
	m := NewMatchmaker(store, &fakeEmbedder{vector: []float32{1, 0}}, zap.NewNop())

	set, err := m.Match(context.Background(), analyzedJob())
	require.NoError(t, err)
	assert.Len(t, set.MatchedBullets, TopBullets)
}

func TestMatch_TieBreakPreservesCorpusOrder(t *testing.T) {
	first := embeddedBullet("first", []float32{1, 0})
	second := embeddedBullet("second", []float32{1, 0})

	store := &fakeStore{bullets: []db.EmbeddedBullet{first, second}}
	m := NewMatchmaker(store, &fakeEmbedder{vector: []float32{1, 0}}, zap.NewNop())

	set, err := m.Match(context.Background(), analyzedJob())
	require.NoError(t, err)
	require.Len(t, set.MatchedBullets, 2)
	assert.Equal(t, first.BulletID, set.MatchedBullets[0].BulletID)
	assert.Equal(t, second.BulletID, set.MatchedBullets[1].BulletID)
}

func TestMatch_ExactSkillNameBeatsSemanticScore(t *testing.T) {
	exact := db.EmbeddedSkill{SkillID: uuid.New(), Name: "go", Vector: []float32{0, 1}}
	semantic := db.EmbeddedSkill{SkillID: uuid.New(), Name: "Golang", Vector: []float32{1, 0}}

	// every query embeds to {1, 0}, so "Golang" also scores a perfect cosine;
	// the exact name match must still rank first
	store := &fakeStore{skills: []db.EmbeddedSkill{semantic, exact}}
	m := NewMatchmaker(store, &fakeEmbedder{vector: []float32{1, 0}}, zap.NewNop())

	set, err := m.Match(context.Background(), analyzedJob())
	require.NoError(t, err)
	require.Len(t, set.MatchedSkills, 2)

	assert.Equal(t, exact.SkillID, set.MatchedSkills[0].SkillID)
	assert.True(t, set.MatchedSkills[0].ExactMatch)
	assert.Equal(t, 1.0, set.MatchedSkills[0].SimilarityScore)
	assert.False(t, set.MatchedSkills[1].ExactMatch)
}

func TestMatch_SkillsScoredPerHardSkillKeepingMax(t *testing.T) {
	gin := db.EmbeddedSkill{SkillID: uuid.New(), Name: "Gin", Vector: []float32{1, 0}}
	pgx := db.EmbeddedSkill{SkillID: uuid.New(), Name: "pgx", Vector: []float32{0, 1}}

	// each corpus skill aligns with a different hard skill; a single joined
	// query could not give both a perfect score
	store := &fakeStore{skills: []db.EmbeddedSkill{gin, pgx}}
	embedder := &fakeEmbedder{
		vector: []float32{1, 1},
		byText: map[string][]float32{
			"Go":         {1, 0},
			"PostgreSQL": {0, 1},
		},
	}
	m := NewMatchmaker(store, embedder, zap.NewNop())

	set, err := m.Match(context.Background(), analyzedJob())
	require.NoError(t, err)
	require.Len(t, set.MatchedSkills, 2)

	for _, match := range set.MatchedSkills {
		assert.InDelta(t, 1.0, match.SimilarityScore, 1e-6)
		assert.False(t, match.ExactMatch)
	}
}

func TestMatch_RejectsUnanalyzedJob(t *testing.T) {
	m := NewMatchmaker(&fakeStore{}, &fakeEmbedder{}, zap.NewNop())
	job := analyzedJob()
	job.IsAnalyzed = false

	_, err := m.Match(context.Background(), job)
	assert.Error(t, err)
}

func TestMatch_EmptyCorpusYieldsEmptySet(t *testing.T) {
	m := NewMatchmaker(&fakeStore{}, &fakeEmbedder{vector: []float32{1}}, zap.NewNop())

	set, err := m.Match(context.Background(), analyzedJob())
	require.NoError(t, err)
	assert.Empty(t, set.MatchedBullets)
	assert.Empty(t, set.MatchedSkills)
}

func TestBulletsBySource_PreservesRankOrderWithinGroup(t *testing.T) {
	src := uuid.New()
	other := uuid.New()
	set := types.MatchSet{MatchedBullets: []types.BulletMatch{
		{BulletID: uuid.New(), SourceID: src, SimilarityScore: 0.9},
		{BulletID: uuid.New(), SourceID: other, SimilarityScore: 0.8},
		{BulletID: uuid.New(), SourceID: src, SimilarityScore: 0.7},
	}}

	grouped := set.BulletsBySource()
	require.Len(t, grouped[src], 2)
	assert.Greater(t, grouped[src][0].SimilarityScore, grouped[src][1].SimilarityScore)
}

// Package matching ranks stored bullets and skills against an analyzed job
// using embedding similarity. Its output is the oracle ranking the rest of
// the tailoring pipeline reconciles against.
package matching

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jmartell/cherrypick/internal/db"
	"github.com/jmartell/cherrypick/internal/embedding"
	"github.com/jmartell/cherrypick/internal/types"
)

const (
	// TopBullets is how many bullets the oracle keeps per job
	TopBullets = 15
	// TopSkills is how many skills the oracle keeps per job
	TopSkills = 20
	// exactMatchScore is assigned when a skill name appears verbatim in the
	// job's hard skills. Exact matches rank ahead of semantic matches
	// regardless of score, so a perfectly aligned vector cannot outrank one.
	exactMatchScore = 1.0
)

// Store provides the embedded corpus the matchmaker ranks over
type Store interface {
	ListEmbeddedBullets(ctx context.Context) ([]db.EmbeddedBullet, error)
	ListEmbeddedSkills(ctx context.Context) ([]db.EmbeddedSkill, error)
}

// Matchmaker produces a MatchSet for an analyzed job
type Matchmaker struct {
	store    Store
	embedder embedding.Embedder
	logger   *zap.Logger
}

// NewMatchmaker creates a matchmaker over the given store and embedder
func NewMatchmaker(store Store, embedder embedding.Embedder, logger *zap.Logger) *Matchmaker {
	return &Matchmaker{store: store, embedder: embedder, logger: logger}
}

// Match ranks the embedded corpus against the job and returns the top bullets
// and skills. The job must already be analyzed: responsibilities drive the
// bullet ranking and hard skills drive the skill ranking.
func (m *Matchmaker) Match(ctx context.Context, job *db.Job) (*types.MatchSet, error) {
	if !job.IsAnalyzed {
		return nil, fmt.Errorf("job %s has not been analyzed", job.ID)
	}

	bullets, err := m.matchBullets(ctx, job)
	if err != nil {
		return nil, err
	}
	skills, err := m.matchSkills(ctx, job)
	if err != nil {
		return nil, err
	}

	m.logger.Info("match set generated",
		zap.String("job_id", job.ID.String()),
		zap.Int("matched_bullets", len(bullets)),
		zap.Int("matched_skills", len(skills)))

	return &types.MatchSet{
		JobID:          job.ID,
		MatchedBullets: bullets,
		MatchedSkills:  skills,
		GeneratedAt:    time.Now().UTC(),
	}, nil
}

func (m *Matchmaker) matchBullets(ctx context.Context, job *db.Job) ([]types.BulletMatch, error) {
	corpus, err := m.store.ListEmbeddedBullets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded bullets: %w", err)
	}
	if len(corpus) == 0 {
		return nil, nil
	}

	query := strings.Join(job.TopResponsibilities, "\n")
	queryVec, err := m.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed job responsibilities: %w", err)
	}

	matches := make([]types.BulletMatch, 0, len(corpus))
	for _, b := range corpus {
		matches = append(matches, types.BulletMatch{
			BulletID:        b.BulletID,
			SimilarityScore: embedding.Cosine(queryVec, b.Vector),
			Content:         b.Content,
			SourceType:      b.SourceType,
			SourceID:        b.SourceID,
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].SimilarityScore > matches[j].SimilarityScore
	})
	if len(matches) > TopBullets {
		matches = matches[:TopBullets]
	}
	return matches, nil
}

func (m *Matchmaker) matchSkills(ctx context.Context, job *db.Job) ([]types.SkillMatch, error) {
	corpus, err := m.store.ListEmbeddedSkills(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded skills: %w", err)
	}
	if len(corpus) == 0 || len(job.HardSkills) == 0 {
		return nil, nil
	}

	wanted := make(map[string]bool, len(job.HardSkills))
	for _, name := range job.HardSkills {
		wanted[strings.ToLower(strings.TrimSpace(name))] = true
	}

	// one semantic query per hard skill, keeping each corpus skill's best score
	best := make([]float64, len(corpus))
	for _, name := range job.HardSkills {
		queryVec, err := m.embedder.Embed(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to embed hard skill %q: %w", name, err)
		}
		for i, s := range corpus {
			if score := embedding.Cosine(queryVec, s.Vector); score > best[i] {
				best[i] = score
			}
		}
	}

	matches := make([]types.SkillMatch, 0, len(corpus))
	for i, s := range corpus {
		match := types.SkillMatch{SkillID: s.SkillID, SimilarityScore: best[i]}
		if wanted[strings.ToLower(s.Name)] {
			match.ExactMatch = true
			match.SimilarityScore = exactMatchScore
		}
		matches = append(matches, match)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].ExactMatch != matches[j].ExactMatch {
			return matches[i].ExactMatch
		}
		return matches[i].SimilarityScore > matches[j].SimilarityScore
	})
	if len(matches) > TopSkills {
		matches = matches[:TopSkills]
	}
	return matches, nil
}

// SkillIDs extracts the matched skill IDs in rank order
func SkillIDs(matches []types.SkillMatch) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.SkillID)
	}
	return ids
}

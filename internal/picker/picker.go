// Package picker asks the LLM to choose the strongest bullets for each
// source in a match set, then reconciles the model's answer against the
// similarity ranking so the output always satisfies the per-source
// cardinality contract no matter what the model returns.
package picker

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jmartell/cherrypick/internal/db"
	"github.com/jmartell/cherrypick/internal/llm"
	"github.com/jmartell/cherrypick/internal/selection"
	"github.com/jmartell/cherrypick/internal/types"
)

// maxConcurrentPicks bounds how many per-source LLM calls run at once
const maxConcurrentPicks = 4

// Picker selects bullets per source via the LLM with deterministic fallback
type Picker struct {
	client llm.Client
	logger *zap.Logger
}

// NewPicker creates a picker backed by the given LLM client
func NewPicker(client llm.Client, logger *zap.Logger) *Picker {
	return &Picker{client: client, logger: logger}
}

// PickAll runs the per-source selection for every source present in the match
// set. Sources are processed concurrently; results are returned in the order
// each source first appears in the oracle ranking. Model failures degrade to
// ranking-order backfill rather than failing the run.
func (p *Picker) PickAll(ctx context.Context, job *db.Job, set *types.MatchSet) ([]types.SourceSelectionResult, error) {
	grouped := set.BulletsBySource()

	var order []uuid.UUID
	seen := make(map[uuid.UUID]bool, len(grouped))
	for _, b := range set.MatchedBullets {
		if !seen[b.SourceID] {
			seen[b.SourceID] = true
			order = append(order, b.SourceID)
		}
	}

	results := make([]types.SourceSelectionResult, len(order))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentPicks)
	for i, sourceID := range order {
		g.Go(func() error {
			matches := grouped[sourceID]
			proposed := p.propose(gctx, job, matches)
			req := selection.BuildRequest(sourceID, matches[0].SourceType, matches, proposed)
			results[i] = selection.Reconcile(req)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, res := range results {
		if res.Outcome == types.OutcomeSkipped {
			p.logger.Warn("source skipped: fewer than three candidate bullets",
				zap.String("job_id", job.ID.String()),
				zap.String("source_id", res.SourceID.String()),
				zap.String("source_type", string(res.SourceType)))
		}
	}
	return results, nil
}

// propose asks the model which bullets to keep for one source. Any failure
// (transport, unparseable output, non-UUID entries) yields an empty proposal,
// which the reconciler fills from the ranking instead.
func (p *Picker) propose(ctx context.Context, job *db.Job, matches []types.BulletMatch) []uuid.UUID {
	response, err := p.client.GenerateJSON(ctx, buildPickPrompt(job, matches))
	if err != nil {
		p.logger.Warn("bullet pick request failed, falling back to ranking order",
			zap.String("source_id", matches[0].SourceID.String()),
			zap.Error(err))
		return nil
	}

	raw, err := llm.ExtractJSONArray(response)
	if err != nil {
		p.logger.Warn("bullet pick response unparseable, falling back to ranking order",
			zap.String("source_id", matches[0].SourceID.String()),
			zap.Error(err))
		return nil
	}

	proposed := make([]uuid.UUID, 0, len(raw))
	for _, entry := range raw {
		id, err := uuid.Parse(entry)
		if err != nil {
			p.logger.Debug("ignoring non-UUID entry in pick response", zap.String("entry", entry))
			continue
		}
		proposed = append(proposed, id)
	}
	return proposed
}

const pickPromptTemplate = `You are selecting resume bullet points for a job application.

Job title: %s
Company: %s
Key responsibilities:
%s

Below are candidate bullet points from one section of the resume, each with an ID.
Choose the %d to %d bullets that best demonstrate fit for this job.

Candidates:
%s

Respond with ONLY a JSON array of the chosen bullet IDs, strongest first.
Example: ["id-1", "id-2", "id-3"]`

func buildPickPrompt(job *db.Job, matches []types.BulletMatch) string {
	var responsibilities string
	for _, r := range job.TopResponsibilities {
		responsibilities += fmt.Sprintf("- %s\n", r)
	}

	var candidates string
	for _, m := range matches {
		candidates += fmt.Sprintf("- %s: %s\n", m.BulletID, m.Content)
	}

	return fmt.Sprintf(pickPromptTemplate,
		job.JobTitle, job.CompanyName, responsibilities,
		types.MinBulletsPerSource, types.MaxBulletsPerSource, candidates)
}

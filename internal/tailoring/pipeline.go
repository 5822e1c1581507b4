package tailoring

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jmartell/cherrypick/internal/db"
	"github.com/jmartell/cherrypick/internal/matching"
	"github.com/jmartell/cherrypick/internal/schemas"
	"github.com/jmartell/cherrypick/internal/types"
)

// DefaultRunTimeout bounds a background tailoring run end to end
const DefaultRunTimeout = 5 * time.Minute

// pipeline step labels surfaced through the status endpoint
const (
	stepMatching   = "matching content against job"
	stepSelecting  = "selecting bullets per source"
	stepAssembling = "assembling tailored resume"
	stepValidating = "validating result"
	totalSteps     = 4
)

// Store is the persistence surface the pipeline needs
type Store interface {
	GetJob(ctx context.Context, id uuid.UUID) (*db.Job, error)
	GetExperiencesByIDs(ctx context.Context, ids []uuid.UUID) ([]db.Experience, error)
	GetProjectsByIDs(ctx context.Context, ids []uuid.UUID) ([]db.Project, error)
	GetSkillsByIDs(ctx context.Context, ids []uuid.UUID) ([]db.Skill, error)
	ListEducation(ctx context.Context) ([]db.Education, error)
	EnsureTailoredResume(ctx context.Context, jobID uuid.UUID) (*db.TailoredResumeRecord, error)
	StartTailoredResume(ctx context.Context, jobID uuid.UUID, totalSteps int, firstStep string) error
	UpdateTailoredProgress(ctx context.Context, jobID uuid.UUID, completedSteps int, currentStep string) error
	CompleteTailoredResume(ctx context.Context, jobID uuid.UUID, result []byte) error
	FailTailoredResume(ctx context.Context, jobID uuid.UUID, message string) error
}

// Matcher produces the similarity ranking for a job
type Matcher interface {
	Match(ctx context.Context, job *db.Job) (*types.MatchSet, error)
}

// BulletPicker produces validated per-source selections
type BulletPicker interface {
	PickAll(ctx context.Context, job *db.Job, set *types.MatchSet) ([]types.SourceSelectionResult, error)
}

// Pipeline runs tailoring jobs and tracks their status
type Pipeline struct {
	store   Store
	matcher Matcher
	picker  BulletPicker
	logger  *zap.Logger
	timeout time.Duration
}

// NewPipeline creates a pipeline. A zero timeout uses DefaultRunTimeout.
func NewPipeline(store Store, matcher Matcher, picker BulletPicker, logger *zap.Logger, timeout time.Duration) *Pipeline {
	if timeout <= 0 {
		timeout = DefaultRunTimeout
	}
	return &Pipeline{store: store, matcher: matcher, picker: picker, logger: logger, timeout: timeout}
}

// Enqueue resets the job's tailoring record to pending and starts the run in
// the background. The returned record reflects the pending state; progress is
// polled through the status endpoint.
func (p *Pipeline) Enqueue(ctx context.Context, jobID uuid.UUID) (*db.TailoredResumeRecord, error) {
	job, err := p.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("job %s not found", jobID)
	}
	if !job.IsAnalyzed {
		return nil, fmt.Errorf("job %s must be analyzed before tailoring", jobID)
	}

	rec, err := p.store.EnsureTailoredResume(ctx, jobID)
	if err != nil {
		return nil, err
	}

	// the run outlives the HTTP request that triggered it
	go func() {
		runCtx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		if err := p.Run(runCtx, jobID); err != nil {
			p.logger.Error("tailoring run failed",
				zap.String("job_id", jobID.String()), zap.Error(err))
		}
	}()
	return rec, nil
}

// Run executes the full pipeline synchronously, recording progress and the
// terminal state on the job's tailoring record.
func (p *Pipeline) Run(ctx context.Context, jobID uuid.UUID) error {
	job, err := p.store.GetJob(ctx, jobID)
	if err != nil {
		return p.fail(ctx, jobID, err)
	}
	if job == nil {
		return p.fail(ctx, jobID, fmt.Errorf("job %s not found", jobID))
	}
	if !job.IsAnalyzed {
		return p.fail(ctx, jobID, fmt.Errorf("job %s has not been analyzed", jobID))
	}

	if err := p.store.StartTailoredResume(ctx, jobID, totalSteps, stepMatching); err != nil {
		return err
	}

	set, err := p.matcher.Match(ctx, job)
	if err != nil {
		return p.fail(ctx, jobID, fmt.Errorf("matching failed: %w", err))
	}

	if err := p.store.UpdateTailoredProgress(ctx, jobID, 1, stepSelecting); err != nil {
		return err
	}
	results, err := p.picker.PickAll(ctx, job, set)
	if err != nil {
		return p.fail(ctx, jobID, fmt.Errorf("bullet selection failed: %w", err))
	}

	if err := p.store.UpdateTailoredProgress(ctx, jobID, 2, stepAssembling); err != nil {
		return err
	}
	resume, err := p.assemble(ctx, job, set, results)
	if err != nil {
		return p.fail(ctx, jobID, err)
	}

	if err := p.store.UpdateTailoredProgress(ctx, jobID, 3, stepValidating); err != nil {
		return err
	}
	doc, err := schemas.ValidateTailoredResume(resume)
	if err != nil {
		return p.fail(ctx, jobID, err)
	}

	if err := p.store.CompleteTailoredResume(ctx, jobID, doc); err != nil {
		return err
	}

	p.logger.Info("tailoring run completed",
		zap.String("job_id", jobID.String()),
		zap.Int("experiences", len(resume.Experiences)),
		zap.Int("projects", len(resume.Projects)),
		zap.Int("bullets", resume.TotalBulletsSelected),
		zap.Int("skipped_sources", len(resume.SkippedSources)))
	return nil
}

// assemble fetches the entity rows behind every non-skipped selection and
// builds the final document
func (p *Pipeline) assemble(ctx context.Context, job *db.Job, set *types.MatchSet, results []types.SourceSelectionResult) (*types.TailoredResume, error) {
	var expIDs, projIDs []uuid.UUID
	for _, res := range results {
		if res.Outcome == types.OutcomeSkipped {
			continue
		}
		switch res.SourceType {
		case types.SourceExperience:
			expIDs = append(expIDs, res.SourceID)
		case types.SourceProject:
			projIDs = append(projIDs, res.SourceID)
		}
	}

	experiences, err := p.store.GetExperiencesByIDs(ctx, expIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load experiences: %w", err)
	}
	projects, err := p.store.GetProjectsByIDs(ctx, projIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	skillRows, err := p.store.GetSkillsByIDs(ctx, matching.SkillIDs(set.MatchedSkills))
	if err != nil {
		return nil, fmt.Errorf("failed to load skills: %w", err)
	}
	education, err := p.store.ListEducation(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load education: %w", err)
	}

	return Assemble(AssemblyInput{
		Job:           job,
		Results:       results,
		Experiences:   experiences,
		Projects:      projects,
		MatchedSkills: set.MatchedSkills,
		SkillRows:     skillRows,
		Education:     education,
	}), nil
}

// fail records the terminal failed state, preferring the original error
func (p *Pipeline) fail(ctx context.Context, jobID uuid.UUID, cause error) error {
	if err := p.store.FailTailoredResume(ctx, jobID, cause.Error()); err != nil {
		p.logger.Error("failed to record tailoring failure",
			zap.String("job_id", jobID.String()), zap.Error(err))
	}
	return cause
}

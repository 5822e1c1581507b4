package schemas

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmartell/cherrypick/internal/types"
)

func validResume() *types.TailoredResume {
	bullets := make([]types.TailoredBullet, 3)
	for i := range bullets {
		bullets[i] = types.TailoredBullet{ID: uuid.New(), Content: "Did a thing", SimilarityScore: 0.8}
	}
	return &types.TailoredResume{
		JobID:       uuid.New(),
		JobTitle:    "Backend Engineer",
		CompanyName: "Acme",
		Experiences: []types.TailoredExperience{{
			ID:           uuid.New(),
			CompanyName:  "Previous Co",
			RoleTitle:    "Engineer",
			StartDate:    time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
			Outcome:      types.OutcomeSelected,
			BulletPoints: bullets,
		}},
		Projects:             []types.TailoredProject{},
		Skills:               []types.TailoredSkill{{ID: uuid.New(), Name: "Go", SimilarityScore: 1.0}},
		Education:            []types.TailoredEducation{},
		GeneratedAt:          time.Now().UTC(),
		TotalBulletsSelected: 3,
		TotalSkillsSelected:  1,
	}
}

func TestValidateTailoredResume_AcceptsValidResume(t *testing.T) {
	doc, err := ValidateTailoredResume(validResume())
	require.NoError(t, err)
	assert.NotEmpty(t, doc)
}

func TestValidateTailoredResume_RejectsTooFewBullets(t *testing.T) {
	resume := validResume()
	resume.Experiences[0].BulletPoints = resume.Experiences[0].BulletPoints[:2]

	_, err := ValidateTailoredResume(resume)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.NotEmpty(t, ve.Errors)
}

func TestValidateTailoredResume_RejectsTooManyBullets(t *testing.T) {
	resume := validResume()
	for i := 0; i < 3; i++ {
		resume.Experiences[0].BulletPoints = append(resume.Experiences[0].BulletPoints,
			types.TailoredBullet{ID: uuid.New(), Content: "Extra"})
	}

	_, err := ValidateTailoredResume(resume)
	assert.Error(t, err)
}

func TestValidateTailoredResume_RejectsSkippedOutcome(t *testing.T) {
	// skipped sources must be omitted before the resume is built, so the
	// schema only admits selected and backfilled
	resume := validResume()
	resume.Experiences[0].Outcome = types.OutcomeSkipped

	_, err := ValidateTailoredResume(resume)
	assert.Error(t, err)
}

func TestValidateTailoredResume_RejectsEmptyJobTitle(t *testing.T) {
	resume := validResume()
	resume.JobTitle = ""

	_, err := ValidateTailoredResume(resume)
	assert.Error(t, err)
}

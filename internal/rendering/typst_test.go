package rendering

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jmartell/cherrypick/internal/types"
)

func date(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

func TestFormatDateRange(t *testing.T) {
	end := date(2025, time.March)

	assert.Equal(t, "Jan 2024 - Present", FormatDateRange(date(2024, time.January), nil, false))
	assert.Equal(t, "Jan 2024 - Present", FormatDateRange(date(2024, time.January), &end, true))
	assert.Equal(t, "Jan 2024 - Mar 2025", FormatDateRange(date(2024, time.January), &end, false))
}

func TestEscape(t *testing.T) {
	assert.Equal(t, `C\# and C\*\* \[sic\]`, Escape(`C# and C** [sic]`))
	assert.Equal(t, `50\$ \@launch`, Escape(`50$ @launch`))
	assert.Equal(t, "plain text", Escape("plain text"))
}

func TestBuildMarkup_IncludesAllSections(t *testing.T) {
	end := date(2023, time.June)
	resume := &types.TailoredResume{
		JobID:       uuid.New(),
		JobTitle:    "Platform Engineer",
		CompanyName: "Acme",
		Experiences: []types.TailoredExperience{{
			ID:          uuid.New(),
			CompanyName: "Previous Co",
			RoleTitle:   "Engineer",
			Location:    "Remote",
			StartDate:   date(2021, time.February),
			EndDate:     &end,
			Outcome:     types.OutcomeSelected,
			BulletPoints: []types.TailoredBullet{
				{ID: uuid.New(), Content: "Cut p99 latency by 40%"},
				{ID: uuid.New(), Content: "Migrated billing to PostgreSQL"},
				{ID: uuid.New(), Content: "Led the on-call rotation"},
			},
		}},
		Projects: []types.TailoredProject{{
			ID:           uuid.New(),
			Name:         "cachectl",
			Technologies: []string{"Go", "Redis"},
			Outcome:      types.OutcomeBackfilled,
			BulletPoints: []types.TailoredBullet{
				{ID: uuid.New(), Content: "Built the CLI"},
				{ID: uuid.New(), Content: "Added tracing"},
				{ID: uuid.New(), Content: "Wrote the docs"},
			},
		}},
		Skills: []types.TailoredSkill{
			{ID: uuid.New(), Name: "Go"},
			{ID: uuid.New(), Name: "PostgreSQL"},
		},
		Education: []types.TailoredEducation{{
			ID:          uuid.New(),
			Institution: "State University",
			Degree:      "BSc",
			FieldOfStudy: "Computer Science",
			StartDate:   date(2016, time.September),
		}},
	}

	markup := BuildMarkup(resume)

	assert.Contains(t, markup, "== Experience")
	assert.Contains(t, markup, "*Engineer*, Previous Co — Remote")
	assert.Contains(t, markup, "Feb 2021 - Jun 2023")
	assert.Contains(t, markup, "- Cut p99 latency by 40%")
	assert.Contains(t, markup, "== Projects")
	assert.Contains(t, markup, "*cachectl* — Go, Redis")
	assert.Contains(t, markup, "== Skills")
	assert.Contains(t, markup, "Go • PostgreSQL")
	assert.Contains(t, markup, "== Education")
	assert.Contains(t, markup, "*State University*, BSc in Computer Science")
}

func TestBuildMarkup_OmitsEmptySections(t *testing.T) {
	resume := &types.TailoredResume{
		JobID:    uuid.New(),
		JobTitle: "Engineer",
	}

	markup := BuildMarkup(resume)
	assert.NotContains(t, markup, "== Experience")
	assert.NotContains(t, markup, "== Projects")
	assert.NotContains(t, markup, "== Skills")
	assert.NotContains(t, markup, "== Education")
}

func TestBuildMarkup_EscapesUserContent(t *testing.T) {
	resume := &types.TailoredResume{
		JobID:    uuid.New(),
		JobTitle: "C# Developer",
	}

	markup := BuildMarkup(resume)
	assert.Contains(t, markup, `C\# Developer`)
}

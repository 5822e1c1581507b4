// Package tailoring orchestrates a full resume-tailoring run: ranking,
// per-source bullet selection, assembly into the final resume document, and
// the pollable status lifecycle around it.
package tailoring

import (
	"time"

	"github.com/google/uuid"

	"github.com/jmartell/cherrypick/internal/db"
	"github.com/jmartell/cherrypick/internal/types"
)

// AssemblyInput carries everything Assemble needs: the selection results plus
// the entity rows for every non-skipped source. Experiences and education
// arrive already sorted by start date descending; MatchedSkills is in oracle
// rank order.
type AssemblyInput struct {
	Job           *db.Job
	Results       []types.SourceSelectionResult
	Experiences   []db.Experience
	Projects      []db.Project
	MatchedSkills []types.SkillMatch
	SkillRows     []db.Skill
	Education     []db.Education
}

// Assemble builds the final tailored resume. Sources with a skipped outcome
// are omitted from the body and listed in SkippedSources; education is always
// included in full.
func Assemble(in AssemblyInput) *types.TailoredResume {
	bySource := make(map[uuid.UUID]types.SourceSelectionResult, len(in.Results))
	var skipped []uuid.UUID
	for _, res := range in.Results {
		bySource[res.SourceID] = res
		if res.Outcome == types.OutcomeSkipped {
			skipped = append(skipped, res.SourceID)
		}
	}

	totalBullets := 0

	var experiences []types.TailoredExperience
	for _, exp := range in.Experiences {
		res, ok := bySource[exp.ID]
		if !ok || res.Outcome == types.OutcomeSkipped {
			continue
		}
		experiences = append(experiences, types.TailoredExperience{
			ID:           exp.ID,
			CompanyName:  exp.CompanyName,
			RoleTitle:    exp.RoleTitle,
			Location:     exp.Location,
			StartDate:    exp.StartDate,
			EndDate:      exp.EndDate,
			IsCurrent:    exp.IsCurrent,
			Outcome:      res.Outcome,
			BulletPoints: toTailoredBullets(res.Bullets),
		})
		totalBullets += len(res.Bullets)
	}

	var projects []types.TailoredProject
	for _, proj := range in.Projects {
		res, ok := bySource[proj.ID]
		if !ok || res.Outcome == types.OutcomeSkipped {
			continue
		}
		projects = append(projects, types.TailoredProject{
			ID:           proj.ID,
			Name:         proj.Name,
			Description:  proj.Description,
			Technologies: proj.Technologies,
			Link:         proj.Link,
			Outcome:      res.Outcome,
			BulletPoints: toTailoredBullets(res.Bullets),
		})
		totalBullets += len(res.Bullets)
	}

	skillRowsByID := make(map[uuid.UUID]db.Skill, len(in.SkillRows))
	for _, row := range in.SkillRows {
		skillRowsByID[row.ID] = row
	}
	var skills []types.TailoredSkill
	for _, match := range in.MatchedSkills {
		row, ok := skillRowsByID[match.SkillID]
		if !ok {
			continue
		}
		skills = append(skills, types.TailoredSkill{
			ID:              row.ID,
			Name:            row.Name,
			Category:        row.Category,
			SimilarityScore: match.SimilarityScore,
		})
	}

	var education []types.TailoredEducation
	for _, edu := range in.Education {
		education = append(education, types.TailoredEducation{
			ID:           edu.ID,
			Institution:  edu.Institution,
			Degree:       edu.Degree,
			FieldOfStudy: edu.FieldOfStudy,
			Location:     edu.Location,
			StartDate:    edu.StartDate,
			EndDate:      edu.EndDate,
			GPA:          edu.GPA,
		})
	}

	return &types.TailoredResume{
		JobID:                in.Job.ID,
		JobTitle:             in.Job.JobTitle,
		CompanyName:          in.Job.CompanyName,
		Experiences:          orEmptyExperiences(experiences),
		Projects:             orEmptyProjects(projects),
		Skills:               orEmptySkills(skills),
		Education:            orEmptyEducation(education),
		GeneratedAt:          time.Now().UTC(),
		TotalBulletsSelected: totalBullets,
		TotalSkillsSelected:  len(skills),
		SkippedSources:       skipped,
	}
}

func toTailoredBullets(candidates []types.BulletCandidate) []types.TailoredBullet {
	bullets := make([]types.TailoredBullet, 0, len(candidates))
	for _, c := range candidates {
		bullets = append(bullets, types.TailoredBullet{
			ID:              c.ID,
			Content:         c.Content,
			SimilarityScore: c.Score,
		})
	}
	return bullets
}

// The schema requires the section arrays to be present, so nil slices are
// replaced with empty ones before marshaling.

func orEmptyExperiences(s []types.TailoredExperience) []types.TailoredExperience {
	if s == nil {
		return []types.TailoredExperience{}
	}
	return s
}

func orEmptyProjects(s []types.TailoredProject) []types.TailoredProject {
	if s == nil {
		return []types.TailoredProject{}
	}
	return s
}

func orEmptySkills(s []types.TailoredSkill) []types.TailoredSkill {
	if s == nil {
		return []types.TailoredSkill{}
	}
	return s
}

func orEmptyEducation(s []types.TailoredEducation) []types.TailoredEducation {
	if s == nil {
		return []types.TailoredEducation{}
	}
	return s
}

package matching

import (
	"github.com/spigell/intern-allocator/internal/roster"
)

// fallbackScore is the constant assigned by the extracted-resume path. That
// path has no per-job required skills to score against, so every hit gets
// the same placeholder instead of a computed overlap.
const fallbackScore = 0.5

// MatchAll scores one student against every posting with declared required
// skills. Output order equals traversal order: organizations as given, jobs
// within each as given. Postings with no required skills carry no matching
// signal and are skipped. Missing names and titles degrade to "Unknown";
// this never fails.
func MatchAll(student *roster.Student, organizations *roster.Organizations) *Matches {
	matches := &Matches{}
	if organizations == nil {
		return matches
	}

	var name string
	candidate := NewSkillSet("")
	if student != nil {
		name = student.Name
		candidate = NewSkillSet(student.Skills)
	}

	for _, org := range organizations.Items {
		if org == nil {
			continue
		}
		for _, job := range org.Jobs {
			if job == nil {
				continue
			}
			required := NewSkillSet(job.Skills)
			if required.Len() == 0 {
				continue
			}

			matches.Items = append(matches.Items, newMatch(
				name, org.OrgName, job.Title, Score(candidate, required),
			))
		}
	}

	return matches
}

// BestMatch returns the highest-scoring match for the student, first
// encountered winning ties, or nil when no posting could be scored.
func BestMatch(student *roster.Student, organizations *roster.Organizations) *Match {
	return MatchAll(student, organizations).Best()
}

// JobRecord is the minimal shape an external job lookup returns per hit.
type JobRecord struct {
	Company string
	Title   string
}

// JobLookup is the external job-board collaborator used by the
// extracted-resume path. Implementations query a single skill keyword with
// an optional experience-level filter.
type JobLookup interface {
	SearchJobs(skill, experience string) ([]JobRecord, error)
}

// ExtractedProfile is a loosely structured record produced by a resume
// extraction step. Skills may arrive as a comma-separated string or as a
// list of tokens.
type ExtractedProfile struct {
	Name   string `json:"name" mapstructure:"name"`
	Skills any    `json:"skills" mapstructure:"skills"`
}

// SkillSet normalizes the loose skills field the same way as the primary
// path, whatever shape it arrived in.
func (p *ExtractedProfile) SkillSet() *SkillSet {
	if p == nil {
		return NewSkillSet("")
	}

	switch skills := p.Skills.(type) {
	case string:
		return NewSkillSet(skills)
	case []string:
		return NewSkillSetFromTokens(skills)
	case []any:
		tokens := make([]string, 0, len(skills))
		for _, skill := range skills {
			if token, ok := skill.(string); ok {
				tokens = append(tokens, token)
			}
		}
		return NewSkillSetFromTokens(tokens)
	default:
		return NewSkillSet("")
	}
}

// MatchExtracted is the degraded fallback used when only an extracted resume
// is available: each skill token is looked up on the job board and every hit
// becomes a match with the constant placeholder score. A missing or failing
// lookup yields an empty list; no error ever propagates, so the caller
// always has something displayable.
func MatchExtracted(profile *ExtractedProfile, lookup JobLookup, experience string) *Matches {
	matches := &Matches{}
	if lookup == nil || profile == nil {
		return matches
	}

	for _, skill := range profile.SkillSet().Tokens() {
		records, err := lookup.SearchJobs(skill, experience)
		if err != nil {
			return &Matches{}
		}

		for _, record := range records {
			matches.Items = append(matches.Items, newMatch(
				profile.Name, record.Company, record.Title, fallbackScore,
			))
		}
	}

	return matches
}

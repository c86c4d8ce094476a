package matching

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

const (
	MatchStudentField      = "Student"
	MatchOrganizationField = "Organization"
	MatchKeyField          = "Key"
)

// Match is one scored (student, job) pairing ready for display. The Score
// field carries the contractual "NN%" rendering; the raw value is kept
// unexported for ranking and never changes after creation.
type Match struct {
	Student      string `json:"student"`
	Organization string `json:"organization"`
	Job          string `json:"job"`
	Score        string `json:"score"`

	raw float64
}

func newMatch(student, organization, job string, raw float64) *Match {
	return &Match{
		Student:      orUnknown(student),
		Organization: orUnknown(organization),
		Job:          orUnknown(job),
		Score:        FormatScore(raw),
		raw:          raw,
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// Raw returns the unformatted [0,1] score used for ranking.
func (m *Match) Raw() float64 {
	return m.raw
}

// Key identifies the pairing across runs. Used by the exclude file.
func (m *Match) Key() string {
	return fmt.Sprintf("%s/%s/%s", m.Student, m.Organization, m.Job)
}

func (m *Match) GetStringField(name string) string {
	switch name {
	case MatchStudentField:
		return m.Student
	case MatchOrganizationField:
		return m.Organization
	case MatchKeyField:
		return m.Key()

	default:
		return ""
	}
}

type Matches struct {
	Items []*Match
}

func (m *Matches) Len() int {
	return len(m.Items)
}

// Best returns the match with the maximum raw score. Ties go to the first
// encountered entry. Nil when the list is empty.
func (m *Matches) Best() *Match {
	var best *Match
	for _, match := range m.Items {
		if best == nil || match.raw > best.raw {
			best = match
		}
	}
	return best
}

// Exclude removes matches whose field value is in targets, preserving the
// order of the remaining entries. It returns the keys of removed matches.
func (m *Matches) Exclude(name string, targets []string) []string {
	excluded := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		excluded[target] = struct{}{}
	}

	var removed []string
	kept := m.Items[:0]
	for _, match := range m.Items {
		if _, ok := excluded[match.GetStringField(name)]; ok {
			removed = append(removed, match.Key())
			continue
		}
		kept = append(kept, match)
	}
	m.Items = kept

	return removed
}

// ExcludeBelow removes matches with a raw score under the threshold,
// preserving the order of the remaining entries. It returns the keys of
// removed matches.
func (m *Matches) ExcludeBelow(threshold float64) []string {
	var removed []string
	kept := m.Items[:0]
	for _, match := range m.Items {
		if match.raw < threshold {
			removed = append(removed, match.Key())
			continue
		}
		kept = append(kept, match)
	}
	m.Items = kept

	return removed
}

// ReportByOrganization groups matches for a quick per-organization overview.
func (m *Matches) ReportByOrganization() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, match := range m.Items {
		report[match.Organization] = append(report[match.Organization], map[string]string{
			"student": match.Student,
			"job":     match.Job,
			"score":   match.Score,
		})
	}
	return report
}

func (m *Matches) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "matches_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func (m *Matches) ToExcluded() *ExcludedMatches {
	excluded := &ExcludedMatches{}
	for _, match := range m.Items {
		excluded.Items = append(excluded.Items, &ExcludedMatch{
			Student:      match.Student,
			Organization: match.Organization,
			Job:          match.Job,
			ExcludedAt:   time.Now().UTC(),
		})
	}
	return excluded
}

// ExcludedMatches is the persisted list of pairings that should not be
// offered again, typically allocations from previous runs.
type ExcludedMatches struct {
	Items []*ExcludedMatch
}

type ExcludedMatch struct {
	Student      string
	Organization string
	Job          string
	ExcludedAt   time.Time
}

func GetExcludedMatchesFromFile(path string) (*ExcludedMatches, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedMatches{}, nil
	}

	var excluded ExcludedMatches
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

func (e *ExcludedMatches) Append(s *ExcludedMatches) {
	e.Items = append(e.Items, s.Items...)
}

// Keys returns the composite pairing keys, matching Match.Key.
func (e *ExcludedMatches) Keys() []string {
	keys := make([]string, 0, len(e.Items))
	for _, match := range e.Items {
		keys = append(keys, fmt.Sprintf("%s/%s/%s", match.Student, match.Organization, match.Job))
	}
	return keys
}

func (e *ExcludedMatches) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

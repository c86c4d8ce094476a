package filtering

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/intern-allocator/internal/matching"
)

type minScoreFilter struct {
	threshold float64
}

// NewMinScore creates a filter that removes matches below the configured
// minimum score.
func NewMinScore() Filter {
	return &minScoreFilter{}
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Disable(string) {}

func (f *minScoreFilter) IsEnabled() bool { return true }

func (f *minScoreFilter) Validate(cfg *Config) error {
	f.threshold = 0
	if cfg != nil {
		if cfg.MinimumScore < 0 || cfg.MinimumScore > 1 {
			return fmt.Errorf("minimum score must be within [0,1], got %v", cfg.MinimumScore)
		}
		f.threshold = cfg.MinimumScore
	}
	return nil
}

func (f *minScoreFilter) Apply(_ context.Context, deps Deps, m *matching.Matches) (*matching.Matches, Step, error) {
	initial := m.Len()
	if f.threshold <= 0 {
		return m, Step{Initial: initial, Dropped: 0, Left: m.Len()}, nil
	}

	excluded := m.ExcludeBelow(f.threshold)
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding matches below the minimum score",
			zap.Float64("minimum_score", f.threshold),
			zap.Strings("excluded_matches", excluded),
			zap.Int("matches_left", m.Len()),
		)
	}

	return m, Step{Initial: initial, Dropped: len(excluded), Left: m.Len()}, nil
}

func (f *minScoreFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: true, Details: map[string]string{
		"minimum_score": fmt.Sprintf("%.2f", f.threshold),
	}}
}

type organizationsFilter struct {
	organizations []string
}

// NewOrganizations creates a filter that removes matches for organizations
// excluded in the config.
func NewOrganizations() Filter {
	return &organizationsFilter{}
}

func (f *organizationsFilter) Name() string { return "organizations" }

func (f *organizationsFilter) Disable(string) {}

func (f *organizationsFilter) IsEnabled() bool { return true }

func (f *organizationsFilter) Validate(cfg *Config) error {
	f.organizations = nil
	if cfg != nil {
		f.organizations = append(f.organizations, cfg.Organizations...)
	}
	return nil
}

func (f *organizationsFilter) Apply(_ context.Context, deps Deps, m *matching.Matches) (*matching.Matches, Step, error) {
	initial := m.Len()
	if len(f.organizations) == 0 {
		return m, Step{Initial: initial, Dropped: 0, Left: m.Len()}, nil
	}

	excluded := m.Exclude(matching.MatchOrganizationField, f.organizations)
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding matches by organizations",
			zap.Strings("excluded_organizations", f.organizations),
			zap.Strings("excluded_matches", excluded),
			zap.Int("matches_left", m.Len()),
		)
	}

	return m, Step{Initial: initial, Dropped: len(excluded), Left: m.Len()}, nil
}

func (f *organizationsFilter) Status() Status {
	details := map[string]string{}
	if len(f.organizations) > 0 {
		details["organizations"] = strings.Join(f.organizations, ",")
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

type excludeFileFilter struct {
	path string
}

// NewExcludeFile creates a filter that removes pairings recorded in the
// exclude file, typically allocations from previous runs.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(string) {}

func (f *excludeFileFilter) IsEnabled() bool { return true }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.ExcludeFile)
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, m *matching.Matches) (*matching.Matches, Step, error) {
	initial := m.Len()
	if f.path == "" {
		return m, Step{Initial: initial, Dropped: 0, Left: m.Len()}, nil
	}

	excluded, err := matching.GetExcludedMatchesFromFile(f.path)
	// A missing file just means nothing was allocated yet.
	if errors.Is(err, fs.ErrNotExist) {
		return m, Step{Initial: initial, Dropped: 0, Left: m.Len()}, nil
	}
	if err != nil {
		return m, Step{}, fmt.Errorf("getting excluded matches from file: %w", err)
	}

	removed := m.Exclude(matching.MatchKeyField, excluded.Keys())
	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Info("excluding matches based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_matches", removed),
			zap.Int("matches_left", m.Len()),
		)
	}

	return m, Step{Initial: initial, Dropped: len(removed), Left: m.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

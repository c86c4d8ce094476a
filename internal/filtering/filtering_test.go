package filtering

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/intern-allocator/internal/matching"
	"github.com/spigell/intern-allocator/internal/roster"
)

func testMatches(t *testing.T) *matching.Matches {
	t.Helper()

	student := &roster.Student{Name: "Alice", Skills: "python,sql"}
	organizations := &roster.Organizations{
		Items: []*roster.Organization{
			{OrgName: "Acme", Jobs: []*roster.JobPosting{
				{Title: "Full Fit", Skills: "python,sql"},
				{Title: "Half Fit", Skills: "python,java"},
			}},
			{OrgName: "Globex", Jobs: []*roster.JobPosting{
				{Title: "No Fit", Skills: "cobol,fortran"},
			}},
		},
	}

	return matching.MatchAll(student, organizations)
}

func TestRunMinScoreFilter(t *testing.T) {
	matches := testMatches(t)

	cfg := &Config{MinimumScore: 0.5}
	steps := []Filter{NewMinScore()}

	left, err := Run(context.Background(), cfg, Deps{}, steps, matches)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if left.Len() != 2 {
		t.Fatalf("expected 2 matches above the threshold, got %d", left.Len())
	}

	for _, match := range left.Items {
		if match.Organization == "Globex" {
			t.Fatalf("expected the zero-score match to be dropped: %+v", match)
		}
	}
}

func TestMinScoreValidate(t *testing.T) {
	filter := NewMinScore()

	if err := filter.Validate(&Config{MinimumScore: 1.5}); err == nil {
		t.Fatalf("expected an error for a threshold above 1")
	}

	if err := filter.Validate(&Config{MinimumScore: 0.5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunOrganizationsFilter(t *testing.T) {
	matches := testMatches(t)

	cfg := &Config{Organizations: []string{"Acme"}}
	steps := []Filter{NewOrganizations()}

	left, err := Run(context.Background(), cfg, Deps{}, steps, matches)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if left.Len() != 1 || left.Items[0].Organization != "Globex" {
		t.Fatalf("expected only Globex to remain: %+v", left.Items)
	}
}

func TestRunExcludeFileFilter(t *testing.T) {
	matches := testMatches(t)
	path := filepath.Join(t.TempDir(), "excluded.json")

	// Record the full-fit pairing as already allocated.
	already := &matching.Matches{Items: []*matching.Match{matches.Items[0]}}
	if err := already.ToExcluded().ToFile(path); err != nil {
		t.Fatalf("writing exclude file: %v", err)
	}

	cfg := &Config{ExcludeFile: path}
	steps := []Filter{NewExcludeFile()}

	left, err := Run(context.Background(), cfg, Deps{}, steps, matches)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if left.Len() != 2 {
		t.Fatalf("expected 2 matches left, got %d", left.Len())
	}

	for _, match := range left.Items {
		if match.Job == "Full Fit" {
			t.Fatalf("expected the recorded pairing to be dropped: %+v", match)
		}
	}
}

func TestExcludeFileFilterMissingFile(t *testing.T) {
	matches := testMatches(t)

	cfg := &Config{ExcludeFile: filepath.Join(t.TempDir(), "missing.json")}
	steps := []Filter{NewExcludeFile()}

	left, err := Run(context.Background(), cfg, Deps{}, steps, matches)
	if err != nil {
		t.Fatalf("a missing exclude file must not fail the run: %v", err)
	}

	if left.Len() != 3 {
		t.Fatalf("expected all matches to survive, got %d", left.Len())
	}
}

func TestRunLogsSteps(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	matches := testMatches(t)
	cfg := &Config{MinimumScore: 0.5}
	steps := []Filter{NewMinScore(), NewOrganizations()}

	if _, err := Run(context.Background(), cfg, Deps{Logger: logger}, steps, matches); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stepEntries := observed.FilterMessage("filter step").All()
	if len(stepEntries) != 2 {
		t.Fatalf("expected 2 step entries, got %d", len(stepEntries))
	}

	ctx := stepEntries[0].ContextMap()
	if ctx["initial"] != int64(3) || ctx["dropped"] != int64(1) || ctx["left"] != int64(2) {
		t.Fatalf("unexpected step counters: %+v", ctx)
	}
}

func TestDisableByName(t *testing.T) {
	steps := []Filter{NewMinScore(), NewOrganizations()}

	DisableByName(steps, "min_score", "not needed")

	// min_score does not track a disabled state; the call must still be safe.
	for _, step := range steps {
		if !step.IsEnabled() {
			t.Fatalf("expected every step to remain enabled")
		}
	}
}

func TestDescribe(t *testing.T) {
	cfg := &Config{MinimumScore: 0.25, Organizations: []string{"Acme"}}
	steps := []Filter{NewMinScore(), NewOrganizations(), NewExcludeFile()}

	for _, step := range steps {
		if err := step.Validate(cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	statuses := Describe(steps)
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}

	if statuses[0].Name != "min_score" || statuses[0].Details["minimum_score"] != "0.25" {
		t.Fatalf("unexpected min_score status: %+v", statuses[0])
	}

	if statuses[1].Details["organizations"] != "Acme" {
		t.Fatalf("unexpected organizations status: %+v", statuses[1])
	}
}

package jobboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New(context.Background(), zap.NewNop(), server.URL, "test-token")
	client.backoff = time.Millisecond

	return client, server
}

func writePage(w http.ResponseWriter, page, pages int, items []map[string]string) {
	payload := map[string]any{
		"items":    items,
		"found":    len(items),
		"pages":    pages,
		"page":     page,
		"per_page": 100,
	}
	json.NewEncoder(w).Encode(payload)
}

func TestSearchSendsParamsAndAuth(t *testing.T) {
	var gotPath, gotSkill, gotExperience, gotAuth string

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSkill = r.URL.Query().Get("skill")
		gotExperience = r.URL.Query().Get("experience")
		gotAuth = r.Header.Get("Authorization")
		writePage(w, 0, 1, []map[string]string{
			{"company": "Acme", "title": "Backend Intern", "location": "Remote"},
		})
	}))

	ads, err := client.Search(&SearchParams{Skill: "python", Experience: "entry"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != SearchPath {
		t.Fatalf("expected path %q, got %q", SearchPath, gotPath)
	}
	if gotSkill != "python" || gotExperience != "entry" {
		t.Fatalf("unexpected query: skill=%q experience=%q", gotSkill, gotExperience)
	}
	if gotAuth != "Bearer test-token" {
		t.Fatalf("unexpected authorization header: %q", gotAuth)
	}

	if ads.Len() != 1 {
		t.Fatalf("expected 1 ad, got %d", ads.Len())
	}
	if ads.Items[0].Company != "Acme" || ads.Items[0].Title != "Backend Intern" {
		t.Fatalf("unexpected ad: %+v", ads.Items[0])
	}
}

func TestSearchAggregatesAllPages(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			writePage(w, 1, 2, []map[string]string{{"company": "Globex", "title": "Data Intern"}})
			return
		}
		writePage(w, 0, 2, []map[string]string{{"company": "Acme", "title": "Backend Intern"}})
	}))

	ads, err := client.Search(&SearchParams{Skill: "python"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ads.Len() != 2 {
		t.Fatalf("expected 2 ads across pages, got %d", ads.Len())
	}
	if ads.Items[1].Company != "Globex" {
		t.Fatalf("expected the second page ad last, got %+v", ads.Items[1])
	}
}

func TestRequestRetriesServerErrors(t *testing.T) {
	attempts := 0

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writePage(w, 0, 1, []map[string]string{{"company": "Acme", "title": "Backend Intern"}})
	}))
	client.MaxRetries = 2

	ads, err := client.Search(&SearchParams{Skill: "python"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if attempts != 2 {
		t.Fatalf("expected a retry after the server error, got %d attempts", attempts)
	}
	if ads.Len() != 1 {
		t.Fatalf("expected 1 ad, got %d", ads.Len())
	}
}

func TestRequestGivesUpAfterMaxRetries(t *testing.T) {
	attempts := 0

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	client.MaxRetries = 1

	if _, err := client.Search(&SearchParams{Skill: "python"}); err == nil {
		t.Fatalf("expected an error after exhausted retries")
	}

	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestSearchBadStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	if _, err := client.Search(&SearchParams{Skill: "python"}); err == nil {
		t.Fatalf("expected an error for a 404 response")
	}
}

func TestSearchJobsAdapter(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writePage(w, 0, 1, []map[string]string{
			{"company": "Acme", "title": "Backend Intern", "url": "https://jobs.example.com/1"},
		})
	}))

	records, err := client.SearchJobs("python", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	if records[0].Company != "Acme" || records[0].Title != "Backend Intern" {
		t.Fatalf("unexpected record: %+v", records[0])
	}
}

package httpapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/p-n-ai/pai-planner/internal/events"
)

func TestProgressEndpoints(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()

	for _, topic := range []string{"b", "a"} {
		rec := do(t, h, http.MethodPut, "/v1/users/u1/topics/"+topic+"/done", "")
		if rec.Code != http.StatusNoContent {
			t.Fatalf("PUT %s status = %d", topic, rec.Code)
		}
	}

	rec := do(t, h, http.MethodGet, "/v1/users/u1/progress", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d", rec.Code)
	}
	var body struct {
		UserID    string `json:"user_id"`
		Completed []struct {
			TopicID string `json:"topic_id"`
		} `json:"completed"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.UserID != "u1" || len(body.Completed) != 2 {
		t.Fatalf("body = %+v, want 2 completions for u1", body)
	}
	if body.Completed[0].TopicID != "a" {
		t.Errorf("completed[0] = %s, want a (sorted)", body.Completed[0].TopicID)
	}

	if rec := do(t, h, http.MethodDelete, "/v1/users/u1/topics/a/done", ""); rec.Code != http.StatusNoContent {
		t.Errorf("DELETE status = %d, want 204", rec.Code)
	}
	if rec := do(t, h, http.MethodDelete, "/v1/users/u1/topics/a/done", ""); rec.Code != http.StatusNotFound {
		t.Errorf("repeat DELETE status = %d, want 404", rec.Code)
	}
}

func TestProgress_UnknownUser(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()

	rec := do(t, h, http.MethodGet, "/v1/users/ghost/progress", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Completed []any `json:"completed"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Completed == nil || len(body.Completed) != 0 {
		t.Errorf("completed = %v, want empty list", body.Completed)
	}
}

func TestEventsRecorded(t *testing.T) {
	logger := events.NewMemoryLogger()
	h := newTestServer(t, Config{Events: logger}).Handler()

	body := `{"topics":[{"id":"a","difficulty_weight":2,"exam_importance":3}],"exam_date":"2025-01-03","user_id":"u1"}`
	if rec := do(t, h, http.MethodPost, "/v1/plans", body); rec.Code != http.StatusOK {
		t.Fatalf("POST /v1/plans status = %d", rec.Code)
	}
	do(t, h, http.MethodPut, "/v1/users/u1/topics/a/done", "")
	do(t, h, http.MethodDelete, "/v1/users/u1/topics/a/done", "")
	// Failed requests record nothing.
	do(t, h, http.MethodDelete, "/v1/users/u1/topics/a/done", "")

	got := logger.Events()
	want := []string{events.PlanGenerated, events.TopicCompleted, events.TopicReopened}
	if len(got) != len(want) {
		t.Fatalf("len(events) = %d, want %d", len(got), len(want))
	}
	for i, ev := range got {
		if ev.Type != want[i] || ev.UserID != "u1" {
			t.Errorf("events[%d] = %s/%s, want %s/u1", i, ev.Type, ev.UserID, want[i])
		}
		if !ev.CreatedAt.Equal(testNow) {
			t.Errorf("events[%d].CreatedAt = %v, want %v", i, ev.CreatedAt, testNow)
		}
	}
	if got[0].Data["study_days"] != 1 {
		t.Errorf("plan event study_days = %v, want 1", got[0].Data["study_days"])
	}
}

package httpapi

import (
	"net/http"
	"slices"
	"strings"

	"github.com/p-n-ai/pai-planner/internal/events"
	"github.com/p-n-ai/pai-planner/internal/progress"
)

func (s *Server) handleMarkDone(w http.ResponseWriter, r *http.Request) {
	user, topic := r.PathValue("user"), r.PathValue("topic")
	if err := s.progress.MarkDone(r.Context(), user, topic, s.clock.Now()); err != nil {
		writeErr(w, err)
		return
	}
	s.record(r.Context(), user, events.TopicCompleted, map[string]any{"topic_id": topic})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMarkUndone(w http.ResponseWriter, r *http.Request) {
	user, topic := r.PathValue("user"), r.PathValue("topic")
	if err := s.progress.MarkUndone(r.Context(), user, topic); err != nil {
		writeErr(w, err)
		return
	}
	s.record(r.Context(), user, events.TopicReopened, map[string]any{"topic_id": topic})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	done, err := s.progress.Completed(r.Context(), r.PathValue("user"))
	if err != nil {
		writeErr(w, err)
		return
	}

	completions := make([]progress.Completion, 0, len(done))
	for _, c := range done {
		completions = append(completions, c)
	}
	slices.SortFunc(completions, func(a, b progress.Completion) int {
		return strings.Compare(a.TopicID, b.TopicID)
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":   r.PathValue("user"),
		"completed": completions,
	})
}

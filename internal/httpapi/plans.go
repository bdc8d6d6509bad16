package httpapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/p-n-ai/pai-planner/internal/countdown"
	"github.com/p-n-ai/pai-planner/internal/events"
	"github.com/p-n-ai/pai-planner/internal/export"
	"github.com/p-n-ai/pai-planner/internal/plancache"
	"github.com/p-n-ai/pai-planner/internal/planner"
	"github.com/p-n-ai/pai-planner/internal/progress"
)

// planRequest is the body of plan endpoints. When Topics is absent the
// curriculum supplies them, optionally filtered by SubjectID.
type planRequest struct {
	Topics    []planner.Topic `json:"topics"`
	SubjectID string          `json:"subject_id,omitempty"`
	ExamDate  string          `json:"exam_date"`
	StartDate string          `json:"start_date,omitempty"`
	UserID    string          `json:"user_id,omitempty"`
}

type planResponse struct {
	Plan      planner.Plan     `json:"plan"`
	Countdown countdownBody    `json:"countdown"`
	Progress  *progressSummary `json:"progress,omitempty"`
}

type progressSummary struct {
	Total int          `json:"total"`
	Done  int          `json:"done"`
	Ratio float64      `json:"ratio"`
	Days  []daySummary `json:"days"`
}

type daySummary struct {
	Date  string `json:"date"`
	Total int    `json:"total"`
	Done  int    `json:"done"`
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := s.buildPlan(r.Context(), req)
	if err != nil {
		writeErr(w, err)
		return
	}

	resp := planResponse{
		Plan:      plan,
		Countdown: s.countdownBody(r, plan.ExamDate),
	}
	if req.UserID != "" {
		done, err := s.progress.Completed(r.Context(), req.UserID)
		if err != nil {
			writeErr(w, err)
			return
		}
		resp.Progress = toSummary(progress.Summarize(plan.Allocations, done))
	}

	s.record(r.Context(), req.UserID, events.PlanGenerated, planEventData(plan))
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExportPlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := s.buildPlan(r.Context(), req)
	if err != nil {
		writeErr(w, err)
		return
	}

	var done map[string]progress.Completion
	if req.UserID != "" {
		if done, err = s.progress.Completed(r.Context(), req.UserID); err != nil {
			writeErr(w, err)
			return
		}
	}

	names := map[string]string{}
	if s.topics != nil {
		for _, id := range plan.TopicIDs() {
			if t, ok := s.topics.GetTopic(id); ok {
				names[id] = t.Name
			}
		}
	}

	var buf bytes.Buffer
	if err := s.renderXLSX(&buf, plan, names, done); err != nil {
		writeErr(w, fmt.Errorf("export plan: %w", err))
		return
	}

	filename := fmt.Sprintf("study-plan-%s.xlsx", plan.ExamDate.Format(planner.DateLayout))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("plan export write failed", "error", err)
		return
	}
	s.record(r.Context(), req.UserID, events.PlanExported, planEventData(plan))
}

func planEventData(plan planner.Plan) map[string]any {
	return map[string]any{
		"exam_date":      plan.ExamDate.Format(planner.DateLayout),
		"available_days": plan.AvailableDays,
		"study_days":     len(plan.Allocations),
		"topics":         len(plan.TopicIDs()),
	}
}

// buildPlan validates req, then serves the plan from cache or generates it.
func (s *Server) buildPlan(ctx context.Context, req planRequest) (planner.Plan, error) {
	topics := req.Topics
	if topics == nil && s.topics != nil {
		topics = s.topics.PlannerTopics(req.SubjectID)
	}

	in, err := s.engine.Validate(planner.Request{
		Topics:    topics,
		ExamDate:  req.ExamDate,
		StartDate: req.StartDate,
	})
	if err != nil {
		return planner.Plan{}, err
	}

	var key string
	if s.cache != nil {
		key = plancache.Key(in)
		plan, err := s.cache.Get(ctx, key)
		if err == nil {
			slog.Debug("plan served from cache", "key", key)
			return plan, nil
		}
		if !errors.Is(err, plancache.ErrMiss) {
			slog.Warn("plan cache read failed", "error", err)
		}
	}

	plan := s.engine.Build(in)
	slog.Info("plan generated",
		"topics", len(in.Topics),
		"available_days", plan.AvailableDays,
		"study_days", len(plan.Allocations),
	)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, plan); err != nil {
			slog.Warn("plan cache write failed", "error", err)
		}
	}
	return plan, nil
}

func toSummary(s progress.Summary) *progressSummary {
	out := &progressSummary{
		Total: s.Total,
		Done:  s.Done,
		Ratio: s.Ratio(),
		Days:  make([]daySummary, 0, len(s.Days)),
	}
	for _, d := range s.Days {
		out.Days = append(out.Days, daySummary{
			Date:  d.Date.Format(planner.DateLayout),
			Total: d.Total,
			Done:  d.Done,
		})
	}
	return out
}

type countdownBody struct {
	countdown.Status
	Target string `json:"target"`
	Label  string `json:"label"`
}

func (s *Server) countdownBody(r *http.Request, target time.Time) countdownBody {
	st := s.classifier.Status(target)
	lang := countdown.Match(r.Header.Get("Accept-Language"), s.lang)
	return countdownBody{
		Status: st,
		Target: target.Format(planner.DateLayout),
		Label:  countdown.Label(lang, st),
	}
}

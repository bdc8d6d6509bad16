package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/p-n-ai/pai-planner/internal/countdown"
	"github.com/p-n-ai/pai-planner/internal/planner"
)

func (s *Server) handleCountdown(w http.ResponseWriter, r *http.Request) {
	target, err := parseTarget(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.countdownBody(r, target))
}

// handleCountdownStream pushes a countdown every interval until the client
// disconnects or the deadline passes.
func (s *Server) handleCountdownStream(w http.ResponseWriter, r *http.Request) {
	target, err := parseTarget(r)
	if err != nil {
		writeErr(w, err)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	ctx := conn.CloseRead(r.Context())
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		body := s.countdownBody(r, target)
		if err := wsjson.Write(ctx, conn, body); err != nil {
			slog.Debug("countdown stream ended", "error", err)
			return
		}
		if body.Tier == countdown.TierPast {
			conn.Close(websocket.StatusNormalClosure, "deadline passed")
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func parseTarget(r *http.Request) (time.Time, error) {
	v := r.URL.Query().Get("target")
	d, err := planner.ParseDate(v)
	if err != nil {
		return time.Time{}, &planner.InvalidDateError{Field: "target", Value: v, Err: errors.Unwrap(err)}
	}
	return d, nil
}

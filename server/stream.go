package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/TFMV/skillgraph/physics"
	"github.com/TFMV/skillgraph/scheduler"
)

const writeWait = 5 * time.Second

// streamMessage is the outgoing websocket message format.
type streamMessage struct {
	Type     string            `json:"type"` // "snapshot" or "cleared"
	Snapshot *physics.Snapshot `json:"snapshot,omitempty"`
}

func (s *Server) upgrader() *websocket.Upgrader {
	u := &websocket.Upgrader{}
	if s.cfg.AllowAll {
		u.CheckOrigin = func(r *http.Request) bool { return true }
	}
	return u
}

// handleStream pushes every new snapshot to the client, at most once per
// frame. Snapshots are polled, so a slow client skips ticks instead of
// slowing the simulation.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	// The client never sends anything useful; reading detects close
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					s.logger.Debug("websocket read", "error", err)
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(scheduler.FrameInterval(s.cfg.FrameRate))
	defer ticker.Stop()

	var last *physics.Snapshot
	sentAny := false
	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case <-s.done:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return
		case <-ticker.C:
		}

		snap := s.sched.Snapshot()
		if snap == last {
			continue
		}

		msg := streamMessage{Type: "snapshot", Snapshot: snap}
		if snap == nil {
			msg.Type = "cleared"
		}
		last = snap
		if snap == nil && !sentAny {
			continue
		}

		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			s.logger.Debug("websocket write", "error", err)
			return
		}
		sentAny = true
	}
}

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/TFMV/skillgraph/analysis"
	"github.com/TFMV/skillgraph/ingest"
	"github.com/TFMV/skillgraph/models"
	"github.com/TFMV/skillgraph/render"
)

// maxBodyBytes caps uploaded networks and resumes
const maxBodyBytes = 4 << 20

var errNoAnalyzer = errors.New("analysis service is not configured")

type loadResponse struct {
	GraphID string `json:"graphId"`
	Nodes   int    `json:"nodes"`
	Links   int    `json:"links"`
	Dropped int    `json:"dropped"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Ticks   uint64 `json:"ticks"`
	GraphID string `json:"graphId,omitempty"`
}

type analyzeRequest struct {
	Resume string `json:"resume"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP status codes
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrMalformed), errors.Is(err, analysis.ErrEmptyResume):
		status = http.StatusBadRequest
	case errors.Is(err, errNoAnalyzer):
		status = http.StatusServiceUnavailable
	case errors.Is(err, analysis.ErrBadResponse):
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeBodyError answers 413 for bodies over maxBodyBytes and 400 otherwise
func writeBodyError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge,
			map[string]string{"error": fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)})
		return
	}
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
}

// handleLoad replaces the running simulation with the posted network. The
// body is analysis JSON unless ?format= names another ingest format.
func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	proc, err := ingest.GetProcessor(r.URL.Query().Get("format"), s.logger, s.cfg.MaxNodes)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeBodyError(w, err)
		return
	}

	g, err := proc.ProcessData(data)
	if err != nil {
		var verr *models.ValidationError
		if !errors.As(err, &verr) {
			// Format-level problems (bad CSV header) are the client's too
			err = fmt.Errorf("%w: %v", models.ErrMalformed, err)
		}
		s.writeError(w, err)
		return
	}

	s.load(w, g)
}

func (s *Server) load(w http.ResponseWriter, g *models.Graph) {
	s.sched.Load(g)
	writeJSON(w, http.StatusCreated, loadResponse{
		GraphID: g.ID,
		Nodes:   g.Len(),
		Links:   g.LinkCount(),
		Dropped: len(g.Dropped()),
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.analyzer == nil {
		s.writeError(w, errNoAnalyzer)
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeBodyError(w, err)
		return
	}

	g, err := s.analyzer.SkillNetwork(r.Context(), req.Resume)
	if err != nil {
		if errors.Is(err, models.ErrMalformed) {
			// The model answered with an unusable network
			err = fmt.Errorf("%w: %v", analysis.ErrBadResponse, err)
		}
		s.writeError(w, err)
		return
	}
	s.load(w, g)
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.sched.Stop()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Status: s.sched.Status().String(),
		Ticks:  s.sched.Ticks(),
	}
	if snap := s.sched.Snapshot(); snap != nil {
		resp.GraphID = snap.GraphID
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := s.sched.Snapshot()
	if snap == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no network loaded"})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleRender(format, contentType string) http.HandlerFunc {
	renderer, err := render.GetRenderer(format)
	if err != nil {
		panic(err)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		snap := s.sched.Snapshot()
		if snap == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no network loaded"})
			return
		}
		out, err := renderer.Render(snap, s.renderOptions(format))
		if err != nil {
			s.writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(out)
	}
}

const indexPage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Skill Network</title>
  <style>
    body { margin: 0; background: #1e3a8a; font-family: sans-serif; color: #fff; }
    #view { display: block; margin: 24px auto; max-width: 960px; }
    p { text-align: center; }
  </style>
</head>
<body>
  <p id="status">waiting for a network&hellip;</p>
  <div id="view"></div>
  <script>
    const view = document.getElementById('view');
    const status = document.getElementById('status');
    let pending = false;
    const ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws');
    ws.onmessage = (ev) => {
      const msg = JSON.parse(ev.data);
      if (msg.type === 'cleared') { view.innerHTML = ''; status.textContent = 'stopped'; return; }
      status.textContent = 'tick ' + msg.snapshot.tick;
      if (pending) return;
      pending = true;
      fetch('/api/network/svg').then(r => r.ok ? r.text() : '').then(svg => { view.innerHTML = svg; pending = false; });
    };
  </script>
</body>
</html>
`

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, indexPage)
}

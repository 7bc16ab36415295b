package server

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"

	"github.com/matzehuels/topoviz/pkg/core/interact"
	"github.com/matzehuels/topoviz/pkg/errors"
	"github.com/matzehuels/topoviz/pkg/pipeline"
	"github.com/matzehuels/topoviz/pkg/topology"
)

type sceneFormat struct {
	name        string
	contentType string
}

var (
	formatSVG      = sceneFormat{pipeline.FormatSVG, "image/svg+xml"}
	formatPNG      = sceneFormat{pipeline.FormatPNG, "image/png"}
	formatDOT      = sceneFormat{pipeline.FormatDOT, "text/vnd.graphviz; charset=utf-8"}
	formatGraphviz = sceneFormat{pipeline.FormatGraphviz, "image/svg+xml"}
)

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status     string `json:"status"`
	Generation string `json:"generation"`
	Running    bool   `json:"running"`
	Clients    int    `json:"clients"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sc := s.vis.Scene()
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:     "ok",
		Generation: sc.Generation,
		Running:    sc.Running,
		Clients:    s.hub.ClientCount(),
	})
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.vis.Scene())
}

func (s *Server) handleSceneAs(f sceneFormat) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var scale float64
		if v := r.URL.Query().Get("scale"); v != "" {
			var err error
			if scale, err = strconv.ParseFloat(v, 64); err != nil || scale <= 0 || scale > 8 {
				s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "scale must be in (0, 8]"))
				return
			}
		}
		data, err := pipeline.RenderFormat(r.Context(), s.vis.Scene(), f.name, scale)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", f.contentType)
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(data)
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.vis.Snapshot())
}

// EventsResponse is the body of POST /api/events.
type EventsResponse struct {
	Accepted int `json:"accepted"`
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	var wire []interact.WireEvent
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, DefaultMaxBody)).Decode(&wire); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidEvent, err, "decode events"))
		return
	}
	events := make([]interact.Event, 0, len(wire))
	for i, we := range wire {
		ev, err := we.Event()
		if err != nil {
			s.logger.Debug("rejected event", "index", i, "type", we.Type)
			s.writeError(w, r, err)
			return
		}
		events = append(events, ev)
	}
	s.vis.Enqueue(events...)
	writeJSON(w, http.StatusAccepted, EventsResponse{Accepted: len(events)})
}

// Diagnostic is one record dropped while adapting a topology.
type Diagnostic struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ReplaceResponse is the body of PUT /api/topology and the reload route.
type ReplaceResponse struct {
	Generation  string       `json:"generation"`
	Nodes       int          `json:"nodes"`
	Edges       int          `json:"edges"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	format, err := formatFromContentType(r.Header.Get("Content-Type"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := topology.Read(http.MaxBytesReader(w, r.Body, DefaultMaxBody), format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.replace(w, r, t)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if s.src == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "no source configured"))
		return
	}
	t, err := s.src.Load(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.replace(w, r, t)
}

func (s *Server) replace(w http.ResponseWriter, r *http.Request, t *topology.Topology) {
	diags := make([]Diagnostic, 0)
	for _, d := range s.vis.ReplaceContext(r.Context(), t) {
		diags = append(diags, Diagnostic{Code: string(d.Code), Message: d.Message})
	}
	sc := s.vis.Scene()
	writeJSON(w, http.StatusOK, ReplaceResponse{
		Generation:  sc.Generation,
		Nodes:       len(sc.Nodes),
		Edges:       len(sc.Edges),
		Diagnostics: diags,
	})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.vis.Start()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.vis.Stop()
	w.WriteHeader(http.StatusNoContent)
}

func formatFromContentType(ct string) (topology.Format, error) {
	if ct == "" {
		return topology.FormatJSON, nil
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeUnsupported, err, "content type %q", ct)
	}
	switch mt {
	case "application/json":
		return topology.FormatJSON, nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		return topology.FormatYAML, nil
	case "application/toml":
		return topology.FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported content type %q", mt)
}

package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/matzehuels/railyard/pkg/ast"
	"github.com/matzehuels/railyard/pkg/buildinfo"
	"github.com/matzehuels/railyard/pkg/errors"
	"github.com/matzehuels/railyard/pkg/observability"
	"github.com/matzehuels/railyard/pkg/pipeline"
	"github.com/matzehuels/railyard/pkg/railroad"
)

// Request is the body of the /v1 endpoints. Exactly one of Pattern and
// Tree selects the input; an empty body lays out the empty pattern.
type Request struct {
	Pattern  string           `json:"pattern,omitempty"`
	Flags    string           `json:"flags,omitempty"`
	Tree     json.RawMessage  `json:"tree,omitempty"`
	Config   *railroad.Config `json:"config,omitempty"`
	Measurer string           `json:"measurer,omitempty"`

	// Render only
	Style      string  `json:"style,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
	Seed       uint64  `json:"seed,omitempty"`
	ShowLabels bool    `json:"show_labels,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:     "image/svg+xml",
	pipeline.FormatDOT:     "image/svg+xml",
	pipeline.FormatPNG:     "image/png",
	pipeline.FormatPDF:     "application/pdf",
	pipeline.FormatJSON:    "application/json",
	pipeline.FormatMsgpack: "application/msgpack",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	opts, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tree, err := s.runner.Parse(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := ast.Marshal(tree)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeBytes(w, "application/json", data)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{pipeline.FormatJSON}
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeBytes(w, contentTypes[pipeline.FormatJSON], res.Artifacts[pipeline.FormatJSON])
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	opts, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeBytes(w, contentTypes[format], res.Artifacts[format])
}

// decode reads the request body into pipeline options layered over the
// server defaults.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	var req Request
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil && err != io.EOF {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}

	opts := s.base
	opts.Formats = append([]string(nil), s.base.Formats...)
	opts.Logger = s.logger
	opts.Pattern = req.Pattern
	opts.Flags = req.Flags
	if len(req.Tree) > 0 {
		if req.Pattern != "" {
			return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "pattern and tree are mutually exclusive")
		}
		tree, err := ast.Unmarshal(req.Tree)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Tree = tree
	}
	if req.Config != nil {
		cfg := *req.Config
		opts.Config = &cfg
	}
	if req.Measurer != "" {
		opts.Measurer = req.Measurer
	}
	if req.Style != "" {
		opts.Style = req.Style
	}
	if req.Scale > 0 {
		opts.Scale = req.Scale
	}
	if req.Seed != 0 {
		opts.Seed = req.Seed
	}
	opts.ShowLabels = opts.ShowLabels || req.ShowLabels
	return opts, nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if errors.IsValidation(err) {
		status = http.StatusBadRequest
	} else {
		observability.HTTP().OnError(r.Context(), r.Method, r.Host, r.URL.Path, err)
		s.logger.Error("request failed", "id", RequestIDFrom(r.Context()), "path", r.URL.Path, "error", err)
	}

	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, ErrorResponse{
		Code:      code,
		Message:   errors.UserMessage(err),
		RequestID: RequestIDFrom(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeBytes(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

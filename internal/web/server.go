// Package web implements the dashboard: navigation pages, text and document
// input forms, and playback/download of generated audio.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/book-expert/logger"

	"github.com/book-expert/tts-dashboard/internal/core"
	"github.com/book-expert/tts-dashboard/internal/pipeline"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Pages rendered by the dashboard.
const (
	pageHome     = "home"
	pageText     = "text"
	pageDocument = "document"
	pagePreview  = "preview"
	pageSystem   = "system"
)

const layoutTemplate = "templates/layout.html"

// Server serves the dashboard over HTTP.
type Server struct {
	pipe             *pipeline.Pipeline
	store            core.ObjectStore
	log              *logger.Logger
	synthesisTimeout time.Duration
	templates        map[string]*template.Template
}

// NewServer creates the dashboard server and parses its page templates.
func NewServer(
	pipe *pipeline.Pipeline,
	store core.ObjectStore,
	log *logger.Logger,
	synthesisTimeout time.Duration,
) (*Server, error) {
	templates := make(map[string]*template.Template)

	for _, page := range []string{pageHome, pageText, pageDocument, pagePreview, pageSystem} {
		parsed, err := template.ParseFS(
			templatesFS,
			layoutTemplate,
			"templates/"+page+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template for page %q: %w", page, err)
		}

		templates[page] = parsed
	}

	return &Server{
		pipe:             pipe,
		store:            store,
		log:              log,
		synthesisTimeout: synthesisTimeout,
		templates:        templates,
	}, nil
}

// Handler returns the dashboard's route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("POST /demo", s.handleDemo)
	mux.HandleFunc("GET /text", s.handleTextForm)
	mux.HandleFunc("POST /text", s.handleTextGenerate)
	mux.HandleFunc("GET /document", s.handleDocumentForm)
	mux.HandleFunc("POST /document", s.handleDocumentPreview)
	mux.HandleFunc("POST /document/convert", s.handleDocumentConvert)
	mux.HandleFunc("GET /system", s.handleSystem)
	mux.HandleFunc("GET /audio/{key}", s.handleAudio)
	mux.HandleFunc("HEAD /audio/{key}", s.handleAudioStat)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /api/speech", s.handleAPISpeech)
	mux.HandleFunc("POST /api/document", s.handleAPIDocument)

	return mux
}

// render executes a page template into a buffer first, so a template error
// becomes a 500 instead of a half-written page.
func (s *Server) render(w http.ResponseWriter, page string, data *pageData) {
	parsed, ok := s.templates[page]
	if !ok {
		s.log.Error("Unknown page template %q", page)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	var buf bytes.Buffer

	err := parsed.ExecuteTemplate(&buf, "layout", data)
	if err != nil {
		s.log.Error("Failed to render page %q: %v", page, err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	_, writeErr := buf.WriteTo(w)
	if writeErr != nil {
		s.log.Warn("Failed to write page %q: %v", page, writeErr)
	}
}

// JSON API used by the command-line client. The same pipeline backs both the
// HTML pages and these endpoints.
package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/book-expert/tts-dashboard/internal/pipeline"
)

// apiResult is the JSON shape of a successful synthesis.
type apiResult struct {
	Key             string  `json:"key"`
	FileName        string  `json:"file_name"`
	VoiceName       string  `json:"voice_name"`
	SizeBytes       int64   `json:"size_bytes"`
	DurationSeconds float64 `json:"duration_seconds"`
	SampleRate      int     `json:"sample_rate"`
	AudioURL        string  `json:"audio_url"`
}

// apiError is the JSON shape of a failed request.
type apiError struct {
	Error string `json:"error"`
}

// handleAPISpeech synthesizes the "text" form value and returns the stored
// object's metadata as JSON.
func (s *Server) handleAPISpeech(w http.ResponseWriter, r *http.Request) {
	gender, err := pipeline.ParseGender(r.FormValue("gender"))
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, err.Error())

		return
	}

	input := r.FormValue("text")
	if strings.TrimSpace(input) == "" {
		s.writeJSONError(w, http.StatusBadRequest, msgTextRequired)

		return
	}

	ctx, cancel := s.synthesisContext(r.Context())
	defer cancel()

	result, err := s.pipe.GenerateSpeech(ctx, input, gender, r.FormValue("filename"))
	if err != nil {
		s.log.Error("API speech synthesis failed: %v", err)
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())

		return
	}

	s.writeJSON(w, http.StatusOK, newAPIResult(result))
}

// handleAPIDocument converts an uploaded document and returns the stored
// object's metadata as JSON.
func (s *Server) handleAPIDocument(w http.ResponseWriter, r *http.Request) {
	fileData, fileName, err := readUpload(r)
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, err.Error())

		return
	}

	gender, err := pipeline.ParseGender(r.FormValue("gender"))
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, err.Error())

		return
	}

	ctx, cancel := s.synthesisContext(r.Context())
	defer cancel()

	result, err := s.pipe.GenerateSpeechFromDocument(
		ctx,
		fileData,
		fileName,
		gender,
		r.FormValue("filename"),
	)
	if err != nil {
		s.log.Error("API document synthesis failed: %v", err)
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())

		return
	}

	s.writeJSON(w, http.StatusOK, newAPIResult(result))
}

func newAPIResult(result *pipeline.Result) apiResult {
	return apiResult{
		Key:             result.Key,
		FileName:        result.FileName,
		VoiceName:       result.VoiceName,
		SizeBytes:       result.Size,
		DurationSeconds: result.Duration.Seconds(),
		SampleRate:      result.SampleRate,
		AudioURL:        "/audio/" + result.Key,
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		s.log.Warn("Failed to encode JSON response: %v", err)
	}
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, apiError{Error: message})
}

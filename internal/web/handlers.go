package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/book-expert/tts-dashboard/internal/core"
	"github.com/book-expert/tts-dashboard/internal/pipeline"
	"github.com/book-expert/tts-dashboard/internal/ttsutil"
)

// Upload and form limits.
const (
	maxUploadBytes = 10 << 20 // 10 MB
	uuidKeyPrefix  = 37       // uuid (36 chars) plus the joining dash
)

// User-facing messages.
const (
	msgTextRequired      = "Enter some text to convert."
	msgFileRequired      = "Choose a document to upload."
	msgFileTooLarge      = "Document exceeds the 10 MB upload limit."
	msgSpeechGenerated   = "Speech generated with the %s voice."
	msgDocumentConverted = "Document converted to speech."
	msgDemoGenerated     = "Demo clip generated."
)

func (s *Server) handleHome(w http.ResponseWriter, _ *http.Request) {
	data := &pageData{Title: "Home", Active: pageHome}

	grouped, err := s.pipe.AvailableVoices()
	if err != nil {
		s.log.Warn("Failed to list voices for home page: %v", err)
	} else {
		data.Voices = newVoicesView(grouped, 0)
	}

	s.render(w, pageHome, data)
}

func (s *Server) handleDemo(w http.ResponseWriter, r *http.Request) {
	data := &pageData{Title: "Home", Active: pageHome}

	gender, err := pipeline.ParseGender(r.FormValue("gender"))
	if err != nil {
		data.Error = err.Error()
		s.render(w, pageHome, data)

		return
	}

	ctx, cancel := s.synthesisContext(r.Context())
	defer cancel()

	result, err := s.pipe.GenerateSpeech(
		ctx,
		demoText(gender),
		gender,
		fmt.Sprintf("demo_%s.wav", gender),
	)
	if err != nil {
		s.log.Error("Demo synthesis failed: %v", err)
		data.Error = "Failed to generate demo: " + err.Error()
		s.render(w, pageHome, data)

		return
	}

	data.Success = msgDemoGenerated
	data.Result = newResultView(result)

	grouped, voicesErr := s.pipe.AvailableVoices()
	if voicesErr == nil {
		data.Voices = newVoicesView(grouped, 0)
	}

	s.render(w, pageHome, data)
}

func (s *Server) handleTextForm(w http.ResponseWriter, _ *http.Request) {
	s.render(w, pageText, &pageData{
		Title:   "Text to Speech",
		Active:  pageText,
		Gender:  string(core.VoiceGenderMale),
		OutName: "speech_male.wav",
	})
}

func (s *Server) handleTextGenerate(w http.ResponseWriter, r *http.Request) {
	input := r.FormValue("text")
	genderValue := r.FormValue("gender")
	outName := r.FormValue("filename")

	data := &pageData{
		Title:   "Text to Speech",
		Active:  pageText,
		Gender:  genderValue,
		Text:    input,
		OutName: outName,
	}

	gender, err := pipeline.ParseGender(genderValue)
	if err != nil {
		data.Error = err.Error()
		s.render(w, pageText, data)

		return
	}

	if strings.TrimSpace(input) == "" {
		data.Error = msgTextRequired
		s.render(w, pageText, data)

		return
	}

	ctx, cancel := s.synthesisContext(r.Context())
	defer cancel()

	result, err := s.pipe.GenerateSpeech(ctx, input, gender, outName)
	if err != nil {
		s.log.Error("Text synthesis failed: %v", err)
		data.Error = "Failed to generate speech: " + err.Error()
		s.render(w, pageText, data)

		return
	}

	data.Success = fmt.Sprintf(msgSpeechGenerated, gender)
	data.Result = newResultView(result)

	s.render(w, pageText, data)
}

func (s *Server) handleDocumentForm(w http.ResponseWriter, _ *http.Request) {
	s.render(w, pageDocument, &pageData{
		Title:   "Document to Speech",
		Active:  pageDocument,
		Gender:  string(core.VoiceGenderMale),
		Formats: strings.Join(s.pipe.SupportedFormats(), ", "),
	})
}

// handleDocumentPreview extracts the uploaded document and shows the preview
// with word/character/duration metrics before any synthesis happens.
func (s *Server) handleDocumentPreview(w http.ResponseWriter, r *http.Request) {
	data := &pageData{
		Title:   "Document to Speech",
		Active:  pageDocument,
		Gender:  r.FormValue("gender"),
		Formats: strings.Join(s.pipe.SupportedFormats(), ", "),
	}

	fileData, fileName, err := readUpload(r)
	if err != nil {
		data.Error = err.Error()
		s.render(w, pageDocument, data)

		return
	}

	extracted, err := s.pipe.ExtractDocument(fileData, fileName)
	if err != nil {
		data.Error = "Error processing document: " + err.Error()
		s.render(w, pageDocument, data)

		return
	}

	gender, err := pipeline.ParseGender(r.FormValue("gender"))
	if err != nil {
		data.Error = err.Error()
		s.render(w, pageDocument, data)

		return
	}

	data.Preview = &previewView{
		DocName:     fileName,
		Preview:     ttsutil.Truncate(extracted, previewCharLimit),
		FullText:    extracted,
		Words:       ttsutil.WordCount(extracted),
		Chars:       len(extracted),
		EstDuration: ttsutil.FormatDuration(ttsutil.EstimateSpeechSeconds(extracted)),
		Gender:      string(gender),
		OutputName: ttsutil.SanitizeFilename(
			fmt.Sprintf("doc_%s_%s.wav", ttsutil.BaseName(fileName), gender),
		),
		Legend: estimatedWPMLegend,
	}
	data.Success = "Uploaded: " + fileName

	s.render(w, pagePreview, data)
}

// handleDocumentConvert synthesizes the previously extracted text.
func (s *Server) handleDocumentConvert(w http.ResponseWriter, r *http.Request) {
	extracted := r.FormValue("text")
	genderValue := r.FormValue("gender")
	outName := r.FormValue("filename")

	data := &pageData{
		Title:   "Document to Speech",
		Active:  pageDocument,
		Gender:  genderValue,
		Formats: strings.Join(s.pipe.SupportedFormats(), ", "),
	}

	gender, err := pipeline.ParseGender(genderValue)
	if err != nil {
		data.Error = err.Error()
		s.render(w, pageDocument, data)

		return
	}

	if strings.TrimSpace(extracted) == "" {
		data.Error = msgTextRequired
		s.render(w, pageDocument, data)

		return
	}

	ctx, cancel := s.synthesisContext(r.Context())
	defer cancel()

	result, err := s.pipe.GenerateSpeech(ctx, extracted, gender, outName)
	if err != nil {
		s.log.Error("Document synthesis failed: %v", err)
		data.Error = "Conversion failed: " + err.Error()
		s.render(w, pageDocument, data)

		return
	}

	data.Success = msgDocumentConverted
	data.Result = newResultView(result)

	s.render(w, pageDocument, data)
}

func (s *Server) handleSystem(w http.ResponseWriter, _ *http.Request) {
	info, defaultGender := s.pipe.EngineInfo()

	system := &systemView{
		EngineName:    info.Name,
		Languages:     info.Languages,
		Details:       info.Details,
		DefaultGender: string(defaultGender),
		MaleCount:     0,
		FemaleCount:   0,
		Voices:        voicesView{Male: []string{}, Female: []string{}},
	}

	data := &pageData{Title: "System Info", Active: pageSystem, System: system}

	grouped, err := s.pipe.AvailableVoices()
	if err != nil {
		data.Error = "Voice listing unavailable: " + err.Error()
	} else {
		system.MaleCount = len(grouped[core.VoiceGenderMale])
		system.FemaleCount = len(grouped[core.VoiceGenderFemale])
		system.Voices = *newVoicesView(grouped, voiceListLimit)
	}

	s.render(w, pageSystem, data)
}

func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	audioData, err := s.store.Download(r.Context(), key)
	if err != nil {
		s.log.Warn("Audio key %q not found: %v", key, err)
		http.NotFound(w, r)

		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(audioData)))

	if r.URL.Query().Get("download") == "1" {
		w.Header().Set(
			"Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", downloadName(key)),
		)
	}

	_, writeErr := w.Write(audioData)
	if writeErr != nil {
		s.log.Warn("Failed to stream audio %q: %v", key, writeErr)
	}
}

// handleAudioStat answers HEAD requests with the stored clip's size, so
// clients can size a download without fetching the audio.
func (s *Server) handleAudioStat(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	size, err := s.store.Size(r.Context(), key)
	if err != nil {
		s.log.Warn("Audio key %q not found: %v", key, err)
		http.NotFound(w, r)

		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.WriteHeader(http.StatusOK)
}

// healthStatus is the /healthz response body.
type healthStatus struct {
	Status      string `json:"status"`
	Engine      string `json:"engine"`
	VoiceCount  int    `json:"voice_count"`
	VoicesError string `json:"voices_error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	info, _ := s.pipe.EngineInfo()
	status := healthStatus{
		Status:      "ok",
		Engine:      info.Name,
		VoiceCount:  0,
		VoicesError: "",
	}

	grouped, err := s.pipe.AvailableVoices()
	if err != nil {
		status.Status = "degraded"
		status.VoicesError = err.Error()
	} else {
		status.VoiceCount = len(grouped[core.VoiceGenderMale]) +
			len(grouped[core.VoiceGenderFemale])
	}

	w.Header().Set("Content-Type", "application/json")

	encodeErr := json.NewEncoder(w).Encode(status)
	if encodeErr != nil {
		s.log.Warn("Failed to encode health response: %v", encodeErr)
	}
}

// synthesisContext bounds a synthesis call with the configured timeout.
func (s *Server) synthesisContext(parent context.Context) (context.Context, context.CancelFunc) {
	if s.synthesisTimeout <= 0 {
		return context.WithCancel(parent)
	}

	return context.WithTimeout(parent, s.synthesisTimeout)
}

// readUpload reads the multipart "document" field, enforcing the size cap.
func readUpload(r *http.Request) (data []byte, filename string, err error) {
	parseErr := r.ParseMultipartForm(maxUploadBytes)
	if parseErr != nil {
		return nil, "", errors.New(msgFileRequired)
	}

	file, header, formErr := r.FormFile("document")
	if formErr != nil {
		return nil, "", errors.New(msgFileRequired)
	}

	defer func() {
		_ = file.Close()
	}()

	// Read one byte past the cap so an oversized upload is rejected
	// rather than silently truncated.
	data, readErr := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if readErr != nil {
		return nil, "", fmt.Errorf("failed to read upload: %w", readErr)
	}

	if len(data) > maxUploadBytes {
		return nil, "", errors.New(msgFileTooLarge)
	}

	return data, header.Filename, nil
}

// downloadName strips the uuid prefix from an object key, recovering the
// user-facing filename.
func downloadName(key string) string {
	if len(key) > uuidKeyPrefix {
		return key[uuidKeyPrefix:]
	}

	return key
}

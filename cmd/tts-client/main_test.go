package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFakeDashboard stands in for a running tts-dashboard. It answers the JSON
// API and serves a fixed WAV payload.
func newFakeDashboard(t *testing.T, wav []byte) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","engine":"Mock Engine"}`))
	})

	synthesize := func(w http.ResponseWriter, r *http.Request) {
		result := synthesisResult{
			Key:             "abc-out.wav",
			FileName:        "out.wav",
			VoiceName:       "Mock David (male)",
			SizeBytes:       int64(len(wav)),
			DurationSeconds: 1.5,
			SampleRate:      22050,
			AudioURL:        "/audio/abc-out.wav",
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}

	mux.HandleFunc("POST /api/speech", synthesize)
	mux.HandleFunc("POST /api/document", synthesize)

	mux.HandleFunc("GET /audio/{key}", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "audio/wav")
		_, _ = w.Write(wav)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

func TestCheckHealth(t *testing.T) {
	t.Parallel()

	server := newFakeDashboard(t, []byte("RIFF"))

	err := checkHealth(server.Client(), server.URL)
	require.NoError(t, err)
}

func TestCheckHealth_Unhealthy(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"degraded"}`))
		},
	))
	t.Cleanup(server.Close)

	err := checkHealth(server.Client(), server.URL)
	require.ErrorIs(t, err, errServiceNotHealthy)
}

func TestConvertTextAndDownload(t *testing.T) {
	t.Parallel()

	wav := []byte("RIFF-fake-wav-bytes")
	server := newFakeDashboard(t, wav)

	flags := appFlags{
		text:     "Hello there.",
		document: "",
		gender:   "male",
		output:   "",
		baseURL:  server.URL,
		health:   false,
	}

	result, err := convertText(context.Background(), server.Client(), flags)
	require.NoError(t, err)
	assert.Equal(t, "out.wav", result.FileName)
	assert.Equal(t, "Mock David (male)", result.VoiceName)

	outputPath := filepath.Join(t.TempDir(), "saved.wav")

	err = downloadAudio(context.Background(), server.Client(), server.URL, result, outputPath)
	require.NoError(t, err)

	saved, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, wav, saved)
}

func TestConvertDocument(t *testing.T) {
	t.Parallel()

	server := newFakeDashboard(t, []byte("RIFF"))

	docPath := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(docPath, []byte("Some notes."), 0o600))

	flags := appFlags{
		text:     "",
		document: docPath,
		gender:   "female",
		output:   "notes.wav",
		baseURL:  server.URL,
		health:   false,
	}

	result, err := convertDocument(context.Background(), server.Client(), flags)
	require.NoError(t, err)
	assert.Equal(t, "out.wav", result.FileName)
}

func TestConvertDocument_MissingFile(t *testing.T) {
	t.Parallel()

	server := newFakeDashboard(t, []byte("RIFF"))

	flags := appFlags{
		text:     "",
		document: filepath.Join(t.TempDir(), "missing.txt"),
		gender:   "male",
		output:   "",
		baseURL:  server.URL,
		health:   false,
	}

	_, err := convertDocument(context.Background(), server.Client(), flags)
	require.Error(t, err)
}

func TestDoSynthesis_APIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"text cannot be empty"}`))
		},
	))
	t.Cleanup(server.Close)

	req, err := http.NewRequestWithContext(
		context.Background(),
		http.MethodPost,
		server.URL+"/api/speech",
		nil,
	)
	require.NoError(t, err)

	_, err = doSynthesis(server.Client(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "text cannot be empty")
}

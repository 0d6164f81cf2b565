// Mock engine used by tests and for running the dashboard without a
// platform synthesizer installed.
package speech

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/book-expert/tts-dashboard/internal/audio"
	"github.com/book-expert/tts-dashboard/internal/core"
)

const (
	mockSampleRate = 22050
	mockChannels   = 1
	mockBitDepth   = 16
	mockFilePerms  = 0o600
)

// MockEngine implements core.Synthesizer by writing a short silent WAV file.
// It records the last request for assertions.
type MockEngine struct {
	mu          sync.Mutex
	lastRequest core.SynthesisRequest
	voices      []core.Voice
	failErr     error
}

// NewMockEngine creates a mock engine reporting one voice per gender, named
// so both gender substring rules match something.
func NewMockEngine() *MockEngine {
	return &MockEngine{
		mu:          sync.Mutex{},
		lastRequest: core.SynthesisRequest{Text: "", VoiceID: "", RateWPM: 0},
		voices: []core.Voice{
			{ID: "mock-david", Name: "Mock David (male)", Language: "en-US"},
			{ID: "mock-zira", Name: "Mock Zira (female)", Language: "en-US"},
		},
		failErr: nil,
	}
}

// SetVoices overrides the reported voice list.
func (m *MockEngine) SetVoices(voices []core.Voice) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.voices = voices
}

// FailWith makes every Synthesize and Voices call return err.
func (m *MockEngine) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failErr = err
}

// LastRequest returns the most recent synthesis request.
func (m *MockEngine) LastRequest() core.SynthesisRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.lastRequest
}

// Synthesize writes a silent WAV whose length scales with the word count, so
// duration probing in callers sees plausible values.
func (m *MockEngine) Synthesize(
	_ context.Context,
	req core.SynthesisRequest,
	outputPath string,
) error {
	if strings.TrimSpace(req.Text) == "" {
		return ErrTextEmpty
	}

	if outputPath == "" {
		return ErrOutputPathEmpty
	}

	m.mu.Lock()
	m.lastRequest = req
	failErr := m.failErr
	m.mu.Unlock()

	if failErr != nil {
		return failErr
	}

	// A tenth of a second of silence per word.
	words := len(strings.Fields(req.Text))
	pcm := make([]byte, words*mockSampleRate*2/10)
	data := audio.EncodeHeader(pcm, mockSampleRate, mockChannels, mockBitDepth)

	err := os.WriteFile(outputPath, data, mockFilePerms)
	if err != nil {
		return fmt.Errorf("failed to write mock audio: %w", err)
	}

	return nil
}

// Voices reports the configured mock voices.
func (m *MockEngine) Voices() ([]core.Voice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failErr != nil {
		return nil, m.failErr
	}

	return m.voices, nil
}

// Info describes the engine for the system page.
func (m *MockEngine) Info() core.EngineInfo {
	return core.EngineInfo{
		Name:      "Mock Engine",
		Languages: []string{"English"},
		Details: map[string]string{
			"type": "mock",
		},
	}
}

// Package core defines the core interfaces and domain types for the TTS dashboard.
package core

import "context"

// ObjectStore defines the interface for interacting with a key-value blob store.
// Size reports a stored object's byte count without downloading it.
type ObjectStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, key string, data []byte) error
	Size(ctx context.Context, key string) (int64, error)
}

// VoiceGender classifies an engine-reported voice by name.
type VoiceGender string

// Recognized voice genders.
const (
	VoiceGenderMale   VoiceGender = "male"
	VoiceGenderFemale VoiceGender = "female"
)

// Voice describes a single voice reported by a speech engine.
type Voice struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language,omitempty"`
}

// EngineInfo describes a speech engine for display on the system page.
type EngineInfo struct {
	Name      string
	Languages []string
	Details   map[string]string
}

// SynthesisRequest holds the parameters for a single synthesis job.
// This allows for per-request customization of the TTS output.
type SynthesisRequest struct {
	Text    string
	VoiceID string
	RateWPM int
}

// Synthesizer defines the interface for a platform speech engine.
// Synthesize writes a WAV file to outputPath for the given request.
type Synthesizer interface {
	Synthesize(ctx context.Context, req SynthesisRequest, outputPath string) error
	Voices() ([]Voice, error)
	Info() EngineInfo
}

// Package pipeline implements the text-to-speech pipeline: normalize the
// input, select a voice by gender, synthesize a WAV file and store it in the
// audio object store.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/book-expert/logger"
	"github.com/google/uuid"

	"github.com/book-expert/tts-dashboard/internal/audio"
	"github.com/book-expert/tts-dashboard/internal/core"
	"github.com/book-expert/tts-dashboard/internal/document"
	"github.com/book-expert/tts-dashboard/internal/text"
	"github.com/book-expert/tts-dashboard/internal/ttsutil"
)

// Static errors.
var (
	ErrTextEmpty      = errors.New("text cannot be empty")
	ErrNoVoicesFound  = errors.New("speech engine reports no voices")
	ErrUnknownGender  = errors.New("unknown voice gender")
	ErrNothingToSpeak = errors.New("text is empty after normalization")
)

// Voice name substrings used to classify engine-reported voices. Vendors bake
// these into system voice names (e.g. "Microsoft David Desktop").
var (
	femaleNameHints = []string{"female", "zira"}
	maleNameHints   = []string{"male", "david"}
)

// Result describes a stored synthesis artifact.
type Result struct {
	Key        string
	FileName   string
	VoiceName  string
	Size       int64
	Duration   time.Duration
	SampleRate int
}

// Pipeline wires the text processor, document processor, speech engine and
// audio store together.
type Pipeline struct {
	textProcessor *text.Processor
	docProcessor  *document.Processor
	engine        core.Synthesizer
	store         core.ObjectStore
	log           *logger.Logger
	defaultGender core.VoiceGender
	rateWPM       int
}

// Options holds the pipeline's synthesis defaults.
type Options struct {
	DefaultGender core.VoiceGender
	RateWPM       int
}

// New creates a pipeline around the given engine and store.
func New(
	engine core.Synthesizer,
	store core.ObjectStore,
	log *logger.Logger,
	opts Options,
) *Pipeline {
	gender := opts.DefaultGender
	if gender == "" {
		gender = core.VoiceGenderMale
	}

	return &Pipeline{
		textProcessor: text.NewProcessor(),
		docProcessor:  document.NewProcessor(),
		engine:        engine,
		store:         store,
		log:           log,
		defaultGender: gender,
		rateWPM:       opts.RateWPM,
	}
}

// ParseGender maps a form value to a VoiceGender.
func ParseGender(value string) (core.VoiceGender, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "male", "":
		return core.VoiceGenderMale, nil
	case "female":
		return core.VoiceGenderFemale, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownGender, value)
	}
}

// PreprocessText exposes the normalization step on its own, for previews.
func (p *Pipeline) PreprocessText(input string) string {
	return p.textProcessor.Process(input)
}

// ExtractDocument extracts plain text from an uploaded document.
func (p *Pipeline) ExtractDocument(data []byte, filename string) (string, error) {
	extracted, err := p.docProcessor.Extract(data, filename)
	if err != nil {
		return "", fmt.Errorf("failed to extract document %q: %w", filename, err)
	}

	return extracted, nil
}

// SupportedFormats reports the accepted upload extensions.
func (p *Pipeline) SupportedFormats() []string {
	return p.docProcessor.SupportedFormats()
}

// GenerateSpeech normalizes input, synthesizes it with a voice of the
// requested gender and stores the WAV under a fresh object key.
func (p *Pipeline) GenerateSpeech(
	ctx context.Context,
	input string,
	gender core.VoiceGender,
	filename string,
) (*Result, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrTextEmpty
	}

	processed := p.textProcessor.Process(input)
	if processed == "" {
		return nil, ErrNothingToSpeak
	}

	voice, err := p.selectVoice(gender)
	if err != nil {
		return nil, err
	}

	audioData, err := p.synthesize(ctx, processed, voice)
	if err != nil {
		return nil, err
	}

	key, storedName := p.objectKey(filename, gender)

	err = p.store.Upload(ctx, key, audioData)
	if err != nil {
		return nil, fmt.Errorf("failed to upload audio for key '%s': %w", key, err)
	}

	result := &Result{
		Key:        key,
		FileName:   storedName,
		VoiceName:  voice.Name,
		Size:       int64(len(audioData)),
		Duration:   0,
		SampleRate: 0,
	}

	p.fillAudioMetadata(result, audioData)

	p.log.Info("Generated speech: key=%s voice=%s size=%d", key, voice.Name, result.Size)

	return result, nil
}

// GenerateSpeechFromDocument extracts a document's text and speaks it.
func (p *Pipeline) GenerateSpeechFromDocument(
	ctx context.Context,
	data []byte,
	docName string,
	gender core.VoiceGender,
	filename string,
) (*Result, error) {
	extracted, err := p.ExtractDocument(data, docName)
	if err != nil {
		return nil, err
	}

	if filename == "" {
		filename = fmt.Sprintf("doc_%s_%s.wav", ttsutil.BaseName(docName), gender)
	}

	return p.GenerateSpeech(ctx, extracted, gender, filename)
}

// AvailableVoices groups the engine's voices by gender. A voice whose name
// matches neither rule set is excluded from both groups.
func (p *Pipeline) AvailableVoices() (map[core.VoiceGender][]core.Voice, error) {
	voices, err := p.engine.Voices()
	if err != nil {
		return nil, fmt.Errorf("failed to list voices: %w", err)
	}

	grouped := map[core.VoiceGender][]core.Voice{
		core.VoiceGenderMale:   {},
		core.VoiceGenderFemale: {},
	}

	for _, voice := range voices {
		switch classifyVoice(voice) {
		case core.VoiceGenderFemale:
			grouped[core.VoiceGenderFemale] = append(grouped[core.VoiceGenderFemale], voice)
		case core.VoiceGenderMale:
			grouped[core.VoiceGenderMale] = append(grouped[core.VoiceGenderMale], voice)
		}
	}

	return grouped, nil
}

// EngineInfo describes the engine and pipeline defaults for the system page.
func (p *Pipeline) EngineInfo() (core.EngineInfo, core.VoiceGender) {
	return p.engine.Info(), p.defaultGender
}

// selectVoice returns the first voice matching the requested gender, falling
// back to the engine's first voice when nothing matches.
func (p *Pipeline) selectVoice(gender core.VoiceGender) (core.Voice, error) {
	voices, err := p.engine.Voices()
	if err != nil {
		return core.Voice{}, fmt.Errorf("failed to list voices: %w", err)
	}

	if len(voices) == 0 {
		return core.Voice{}, ErrNoVoicesFound
	}

	for _, voice := range voices {
		if classifyVoice(voice) == gender {
			return voice, nil
		}
	}

	p.log.Warn("No %s voice found, falling back to %q", gender, voices[0].Name)

	return voices[0], nil
}

// classifyVoice applies the substring rules. The female check runs first:
// "female" contains "male", so the reverse order would misclassify every
// female voice.
func classifyVoice(voice core.Voice) core.VoiceGender {
	name := strings.ToLower(voice.Name)

	for _, hint := range femaleNameHints {
		if strings.Contains(name, hint) {
			return core.VoiceGenderFemale
		}
	}

	for _, hint := range maleNameHints {
		if strings.Contains(name, hint) {
			return core.VoiceGenderMale
		}
	}

	return ""
}

// synthesize runs the engine against a temp file and returns the WAV bytes.
func (p *Pipeline) synthesize(
	ctx context.Context,
	processed string,
	voice core.Voice,
) ([]byte, error) {
	tempFile, err := os.CreateTemp("", "tts-output-*.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file for tts output: %w", err)
	}

	tempPath := tempFile.Name()

	closeErr := tempFile.Close()
	if closeErr != nil {
		return nil, fmt.Errorf("failed to close temp file '%s': %w", tempPath, closeErr)
	}

	defer func() {
		removeErr := os.Remove(tempPath)
		if removeErr != nil && !os.IsNotExist(removeErr) {
			p.log.Warn("Failed to remove temp file '%s': %v", tempPath, removeErr)
		}
	}()

	req := core.SynthesisRequest{
		Text:    processed,
		VoiceID: voice.ID,
		RateWPM: p.rateWPM,
	}

	err = p.engine.Synthesize(ctx, req, tempPath)
	if err != nil {
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}

	audioData, err := os.ReadFile(tempPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data from temp file: %w", err)
	}

	return audioData, nil
}

// objectKey builds the store key and the user-facing download name.
func (p *Pipeline) objectKey(filename string, gender core.VoiceGender) (key, storedName string) {
	if strings.TrimSpace(filename) == "" {
		filename = fmt.Sprintf("speech_%s.wav", gender)
	}

	storedName = ttsutil.EnsureWAVExtension(ttsutil.SanitizeFilename(filename))
	key = uuid.NewString() + "-" + storedName

	return key, storedName
}

// fillAudioMetadata probes the WAV header; probing failure is not fatal
// because some engines emit headers the probe does not know.
func (p *Pipeline) fillAudioMetadata(result *Result, audioData []byte) {
	info, err := audio.Probe(audioData)
	if err != nil {
		p.log.Warn("Could not probe generated audio %s: %v", result.Key, err)

		return
	}

	result.Duration = info.Duration
	result.SampleRate = info.SampleRate
}

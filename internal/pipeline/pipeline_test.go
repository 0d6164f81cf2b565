// Package pipeline_test tests the text-to-speech pipeline.
package pipeline_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/book-expert/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/tts-dashboard/internal/core"
	"github.com/book-expert/tts-dashboard/internal/pipeline"
	"github.com/book-expert/tts-dashboard/internal/speech"
)

var errMockUpload = errors.New("mock upload error")

// mockObjectStore is a mock implementation of the ObjectStore interface.
type mockObjectStore struct {
	uploadShouldFail bool
	uploadedKey      string
	uploadedData     []byte
}

func (m *mockObjectStore) Download(_ context.Context, _ string) ([]byte, error) {
	return m.uploadedData, nil
}

func (m *mockObjectStore) Upload(_ context.Context, key string, data []byte) error {
	if m.uploadShouldFail {
		return errMockUpload
	}

	m.uploadedKey = key
	m.uploadedData = data

	return nil
}

func (m *mockObjectStore) Size(_ context.Context, _ string) (int64, error) {
	return int64(len(m.uploadedData)), nil
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()

	log, err := logger.New(t.TempDir(), "pipeline-test.log")
	require.NoError(t, err)
	t.Cleanup(func() { _ = log.Close() })

	return log
}

func newTestPipeline(t *testing.T) (*pipeline.Pipeline, *speech.MockEngine, *mockObjectStore) {
	t.Helper()

	engine := speech.NewMockEngine()
	store := &mockObjectStore{uploadShouldFail: false, uploadedKey: "", uploadedData: nil}

	pipe := pipeline.New(engine, store, newTestLogger(t), pipeline.Options{
		DefaultGender: core.VoiceGenderMale,
		RateWPM:       175,
	})

	return pipe, engine, store
}

func TestGenerateSpeech_MaleVoice(t *testing.T) {
	t.Parallel()

	pipe, engine, store := newTestPipeline(t)

	result, err := pipe.GenerateSpeech(
		context.Background(),
		"Dr. Smith won't attend.",
		core.VoiceGenderMale,
		"",
	)
	require.NoError(t, err)

	assert.Equal(t, "Mock David (male)", result.VoiceName)
	assert.Equal(t, "speech_male.wav", result.FileName)
	assert.True(t, strings.HasSuffix(result.Key, "-speech_male.wav"))
	assert.Equal(t, result.Key, store.uploadedKey)
	assert.Positive(t, result.Size)
	assert.Positive(t, result.Duration)
	assert.Equal(t, 22050, result.SampleRate)

	// The engine must receive normalized text, never the raw input.
	assert.Equal(t, "Doctor Smith will not attend.", engine.LastRequest().Text)
	assert.Equal(t, "mock-david", engine.LastRequest().VoiceID)
	assert.Equal(t, 175, engine.LastRequest().RateWPM)
}

func TestGenerateSpeech_FemaleVoice(t *testing.T) {
	t.Parallel()

	pipe, engine, _ := newTestPipeline(t)

	result, err := pipe.GenerateSpeech(
		context.Background(),
		"Hello there.",
		core.VoiceGenderFemale,
		"greeting.wav",
	)
	require.NoError(t, err)

	assert.Equal(t, "Mock Zira (female)", result.VoiceName)
	assert.Equal(t, "greeting.wav", result.FileName)
	assert.Equal(t, "mock-zira", engine.LastRequest().VoiceID)
}

func TestGenerateSpeech_SanitizesFilename(t *testing.T) {
	t.Parallel()

	pipe, _, _ := newTestPipeline(t)

	result, err := pipe.GenerateSpeech(
		context.Background(),
		"Hello.",
		core.VoiceGenderMale,
		"my speech/take:1",
	)
	require.NoError(t, err)
	assert.Equal(t, "my_speech_take_1.wav", result.FileName)
}

func TestGenerateSpeech_EmptyText(t *testing.T) {
	t.Parallel()

	pipe, _, _ := newTestPipeline(t)

	_, err := pipe.GenerateSpeech(context.Background(), "   ", core.VoiceGenderMale, "")
	require.ErrorIs(t, err, pipeline.ErrTextEmpty)
}

func TestGenerateSpeech_NothingLeftAfterNormalization(t *testing.T) {
	t.Parallel()

	pipe, _, _ := newTestPipeline(t)

	_, err := pipe.GenerateSpeech(context.Background(), "@#$%^&", core.VoiceGenderMale, "")
	require.ErrorIs(t, err, pipeline.ErrNothingToSpeak)
}

func TestGenerateSpeech_FallbackVoice(t *testing.T) {
	t.Parallel()

	pipe, engine, _ := newTestPipeline(t)
	engine.SetVoices([]core.Voice{
		{ID: "english", Name: "english", Language: "en"},
	})

	result, err := pipe.GenerateSpeech(
		context.Background(),
		"Fallback please.",
		core.VoiceGenderFemale,
		"",
	)
	require.NoError(t, err)
	assert.Equal(t, "english", result.VoiceName)
}

func TestGenerateSpeech_NoVoices(t *testing.T) {
	t.Parallel()

	pipe, engine, _ := newTestPipeline(t)
	engine.SetVoices(nil)

	_, err := pipe.GenerateSpeech(context.Background(), "Hello.", core.VoiceGenderMale, "")
	require.ErrorIs(t, err, pipeline.ErrNoVoicesFound)
}

func TestGenerateSpeech_UploadFailure(t *testing.T) {
	t.Parallel()

	pipe, _, store := newTestPipeline(t)
	store.uploadShouldFail = true

	_, err := pipe.GenerateSpeech(context.Background(), "Hello.", core.VoiceGenderMale, "")
	require.ErrorIs(t, err, errMockUpload)
}

func TestGenerateSpeech_EngineFailure(t *testing.T) {
	t.Parallel()

	pipe, engine, _ := newTestPipeline(t)
	errBoom := errors.New("synthesis broke")
	engine.FailWith(errBoom)

	_, err := pipe.GenerateSpeech(context.Background(), "Hello.", core.VoiceGenderMale, "")
	require.ErrorIs(t, err, errBoom)
}

func TestGenerateSpeechFromDocument(t *testing.T) {
	t.Parallel()

	pipe, engine, _ := newTestPipeline(t)

	result, err := pipe.GenerateSpeechFromDocument(
		context.Background(),
		[]byte("A short report, etc."),
		"quarterly report.txt",
		core.VoiceGenderFemale,
		"",
	)
	require.NoError(t, err)

	assert.Equal(t, "doc_quarterly_report_female.wav", result.FileName)
	assert.Equal(t, "A short report, etcetera", engine.LastRequest().Text)
}

func TestGenerateSpeechFromDocument_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	pipe, _, _ := newTestPipeline(t)

	_, err := pipe.GenerateSpeechFromDocument(
		context.Background(),
		[]byte("data"),
		"slides.pptx",
		core.VoiceGenderMale,
		"",
	)
	require.Error(t, err)
}

func TestAvailableVoices(t *testing.T) {
	t.Parallel()

	pipe, engine, _ := newTestPipeline(t)
	engine.SetVoices([]core.Voice{
		{ID: "v1", Name: "Microsoft David Desktop", Language: "en-US"},
		{ID: "v2", Name: "Microsoft Zira Desktop", Language: "en-US"},
		{ID: "v3", Name: "english (female)", Language: "en"},
		{ID: "v4", Name: "plain-voice", Language: "en"},
	})

	grouped, err := pipe.AvailableVoices()
	require.NoError(t, err)

	require.Len(t, grouped[core.VoiceGenderMale], 1)
	require.Len(t, grouped[core.VoiceGenderFemale], 2)
	assert.Equal(t, "Microsoft David Desktop", grouped[core.VoiceGenderMale][0].Name)
}

func TestParseGender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected core.VoiceGender
		wantErr  bool
	}{
		{"male", "male", core.VoiceGenderMale, false},
		{"female", "female", core.VoiceGenderFemale, false},
		{"mixed case", " Female ", core.VoiceGenderFemale, false},
		{"empty defaults to male", "", core.VoiceGenderMale, false},
		{"garbage", "robot", "", true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			gender, err := pipeline.ParseGender(testCase.input)
			if testCase.wantErr {
				require.ErrorIs(t, err, pipeline.ErrUnknownGender)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.expected, gender)
		})
	}
}

func TestEngineInfo(t *testing.T) {
	t.Parallel()

	pipe, _, _ := newTestPipeline(t)

	info, gender := pipe.EngineInfo()
	assert.Equal(t, "Mock Engine", info.Name)
	assert.Equal(t, core.VoiceGenderMale, gender)
}

package ttsutil_test

import (
	"path/filepath"
	"testing"

	"github.com/book-expert/tts-dashboard/internal/ttsutil"
)

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"clean name untouched", "speech_male.wav", "speech_male.wav"},
		{"path separators replaced", "a/b\\c.wav", "a_b_c.wav"},
		{"shell noise replaced", `re<po>rt:"v1"?*.wav`, "re_po_rt__v1___.wav"},
		{"spaces replaced", "my report.wav", "my_report.wav"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			result := ttsutil.SanitizeFilename(testCase.input)
			if result != testCase.expected {
				t.Errorf("Expected %q, got %q", testCase.expected, result)
			}
		})
	}
}

func TestEnsureWAVExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"already wav", "out.wav", "out.wav"},
		{"upper case wav", "out.WAV", "out.WAV"},
		{"no extension", "out", "out.wav"},
		{"other extension", "out.txt", "out.txt.wav"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			result := ttsutil.EnsureWAVExtension(testCase.input)
			if result != testCase.expected {
				t.Errorf("Expected %q, got %q", testCase.expected, result)
			}
		})
	}
}

func TestGetFileExtension(t *testing.T) {
	t.Parallel()

	if got := ttsutil.GetFileExtension("report.PDF"); got != "pdf" {
		t.Errorf("Expected pdf, got %q", got)
	}

	if got := ttsutil.GetFileExtension("noext"); got != "" {
		t.Errorf("Expected empty extension, got %q", got)
	}
}

func TestBaseName(t *testing.T) {
	t.Parallel()

	if got := ttsutil.BaseName("docs/chapter one.docx"); got != "chapter one" {
		t.Errorf("Expected 'chapter one', got %q", got)
	}
}

func TestEstimateSpeechSeconds(t *testing.T) {
	t.Parallel()

	// 150 words at 150 wpm is one minute.
	words := make([]byte, 0, 150*2)
	for range 150 {
		words = append(words, 'a', ' ')
	}

	got := ttsutil.EstimateSpeechSeconds(string(words))
	if got != 60 {
		t.Errorf("Expected 60 seconds, got %f", got)
	}
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		seconds  float64
		expected string
	}{
		{"seconds only", 45.23, "45.2s"},
		{"minutes and seconds", 330.5, "5m 30.5s"},
		{"hours and minutes", 4500, "1h 15m"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			result := ttsutil.FormatDuration(testCase.seconds)
			if result != testCase.expected {
				t.Errorf("Expected %q, got %q", testCase.expected, result)
			}
		})
	}
}

func TestFormatFileSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		bytes    int64
		expected string
	}{
		{"bytes", 512, "512 B"},
		{"kilobytes", 2048, "2.0 KB"},
		{"megabytes", 5 * 1024 * 1024, "5.0 MB"},
		{"gigabytes", 3 * 1024 * 1024 * 1024, "3.0 GB"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			result := ttsutil.FormatFileSize(testCase.bytes)
			if result != testCase.expected {
				t.Errorf("Expected %q, got %q", testCase.expected, result)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	if got := ttsutil.Truncate("hello", 10); got != "hello" {
		t.Errorf("Expected untouched text, got %q", got)
	}

	if got := ttsutil.Truncate("hello world", 5); got != "hello..." {
		t.Errorf("Expected truncated text, got %q", got)
	}
}

func TestEnsureDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "outputs")

	err := ttsutil.EnsureDir(dir)
	if err != nil {
		t.Fatalf("EnsureDir failed: %v", err)
	}

	// Second call on an existing directory must not fail.
	err = ttsutil.EnsureDir(dir)
	if err != nil {
		t.Fatalf("EnsureDir on existing dir failed: %v", err)
	}
}

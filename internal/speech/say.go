// AVFoundation engine via the macOS `say` binary.
package speech

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/book-expert/tts-dashboard/internal/core"
)

// SayEngine synthesizes speech through the macOS `say` binary.
type SayEngine struct {
	binaryPath string
	rateWPM    int
}

func newSayEngine(cfg Config) (*SayEngine, error) {
	binaryPath, err := findExecutable("say")
	if err != nil {
		return nil, fmt.Errorf("say not found: %w", err)
	}

	return &SayEngine{
		binaryPath: binaryPath,
		rateWPM:    cfg.RateWPM,
	}, nil
}

// Synthesize writes a WAV file for req.Text to outputPath.
func (e *SayEngine) Synthesize(
	ctx context.Context,
	req core.SynthesisRequest,
	outputPath string,
) error {
	if strings.TrimSpace(req.Text) == "" {
		return ErrTextEmpty
	}

	if outputPath == "" {
		return ErrOutputPathEmpty
	}

	args := []string{
		"-o", outputPath,
		"--file-format=WAVE",
		"--data-format=LEI16@22050",
	}

	rate := req.RateWPM
	if rate == 0 {
		rate = e.rateWPM
	}

	if rate > 0 {
		args = append(args, "-r", strconv.Itoa(rate))
	}

	if req.VoiceID != "" && req.VoiceID != "default" {
		args = append(args, "-v", req.VoiceID)
	}

	// With no text argument, say reads from stdin.
	cmd := exec.CommandContext(ctx, e.binaryPath, args...)
	cmd.Stdin = strings.NewReader(req.Text)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("say execution failed: %w - output: %s", err, string(output))
	}

	return verifyOutput(outputPath)
}

// Voices reports the installed system voices from `say -v ?`.
func (e *SayEngine) Voices() ([]core.Voice, error) {
	cmd := exec.Command(e.binaryPath, "-v", "?")

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to list say voices: %w", err)
	}

	return parseSayVoices(string(output)), nil
}

// Info describes the engine for the system page.
func (e *SayEngine) Info() core.EngineInfo {
	return core.EngineInfo{
		Name:      "macOS say (AVFoundation)",
		Languages: []string{"English"},
		Details: map[string]string{
			"binary": e.binaryPath,
			"type":   "offline",
		},
	}
}

// parseSayVoices parses `say -v ?` output.
//
// Example line:
//
//	Samantha            en_US    # Hello! My name is Samantha.
func parseSayVoices(output string) []core.Voice {
	lines := strings.Split(output, "\n")
	voices := make([]core.Voice, 0, len(lines))

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		before, _, _ := strings.Cut(line, "#")

		fields := strings.Fields(before)
		if len(fields) < 2 {
			continue
		}

		language := fields[len(fields)-1]
		name := strings.Join(fields[:len(fields)-1], " ")

		voices = append(voices, core.Voice{
			ID:       name,
			Name:     name,
			Language: language,
		})
	}

	return voices
}

// eSpeak / eSpeak-NG engine, the default on Linux.
package speech

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/book-expert/tts-dashboard/internal/core"
)

// espeak --voices column layout: Pty Language Age/Gender VoiceName File ...
const espeakVoiceFields = 5

// ESpeakEngine synthesizes speech through the espeak-ng (or espeak) binary.
type ESpeakEngine struct {
	binaryPath string
	rateWPM    int
}

func newESpeakEngine(cfg Config) (*ESpeakEngine, error) {
	binaryPath, err := findExecutable("espeak-ng", "espeak")
	if err != nil {
		return nil, fmt.Errorf("eSpeak not found: %w", err)
	}

	return &ESpeakEngine{
		binaryPath: binaryPath,
		rateWPM:    cfg.RateWPM,
	}, nil
}

// Synthesize writes a WAV file for req.Text to outputPath. Text is passed on
// stdin so length is never limited by the argument list.
func (e *ESpeakEngine) Synthesize(
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

	args := []string{"--stdin", "-w", outputPath}

	rate := req.RateWPM
	if rate == 0 {
		rate = e.rateWPM
	}

	if rate > 0 {
		args = append(args, "-s", strconv.Itoa(rate))
	}

	if req.VoiceID != "" && req.VoiceID != "default" {
		args = append(args, "-v", req.VoiceID)
	}

	cmd := exec.CommandContext(ctx, e.binaryPath, args...)
	cmd.Stdin = strings.NewReader(req.Text)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("espeak execution failed: %w - output: %s", err, string(output))
	}

	return verifyOutput(outputPath)
}

// Voices reports the engine's installed voices. The display name carries the
// gender espeak reports so the gender substring selection works on every
// platform, not only where vendors bake the gender into the voice name.
func (e *ESpeakEngine) Voices() ([]core.Voice, error) {
	cmd := exec.Command(e.binaryPath, "--voices")

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to list espeak voices: %w", err)
	}

	return parseESpeakVoices(string(output)), nil
}

// Info describes the engine for the system page.
func (e *ESpeakEngine) Info() core.EngineInfo {
	return core.EngineInfo{
		Name:      "eSpeak NG",
		Languages: []string{"English"},
		Details: map[string]string{
			"binary": e.binaryPath,
			"type":   "offline",
		},
	}
}

// parseESpeakVoices parses `espeak --voices` output.
//
// Example line:
//
//	 5  en-gb          M  english             other/en-gb
func parseESpeakVoices(output string) []core.Voice {
	lines := strings.Split(output, "\n")
	voices := make([]core.Voice, 0, len(lines))

	for lineNumber, line := range lines {
		// Skip the header line and blanks.
		if lineNumber == 0 || strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < espeakVoiceFields {
			continue
		}

		language := fields[1]
		gender := genderFromAgeField(fields[2])
		voiceName := fields[3]

		displayName := voiceName
		if gender != "" {
			displayName = fmt.Sprintf("%s (%s)", voiceName, gender)
		}

		voices = append(voices, core.Voice{
			ID:       voiceName,
			Name:     displayName,
			Language: language,
		})
	}

	return voices
}

// genderFromAgeField maps espeak's Age/Gender column ("M", "F", "23M", "-")
// to a lower-case gender word, or "" when unspecified.
func genderFromAgeField(field string) string {
	switch {
	case strings.Contains(field, "M"):
		return "male"
	case strings.Contains(field, "F"):
		return "female"
	default:
		return ""
	}
}

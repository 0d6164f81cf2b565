// Windows SAPI engine via PowerShell and System.Speech.
package speech

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/book-expert/tts-dashboard/internal/core"
)

// SAPI rate is a -10..10 scale; the neutral point corresponds to roughly
// 175 words per minute.
const (
	sapiNeutralWPM  = 175
	sapiWPMPerStep  = 25
	sapiRateMinimum = -10
	sapiRateMaximum = 10
)

// SAPIEngine synthesizes speech through System.Speech on Windows.
type SAPIEngine struct {
	shellPath string
	rateWPM   int
}

func newSAPIEngine(cfg Config) (*SAPIEngine, error) {
	shellPath, err := findExecutable("powershell", "pwsh")
	if err != nil {
		return nil, fmt.Errorf("PowerShell not found: %w", err)
	}

	return &SAPIEngine{
		shellPath: shellPath,
		rateWPM:   cfg.RateWPM,
	}, nil
}

// Synthesize writes a WAV file for req.Text to outputPath. The text travels
// over stdin; only the output path, rate and voice name are interpolated into
// the script, all three escaped as single-quoted PowerShell literals.
func (e *SAPIEngine) Synthesize(
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

	var script strings.Builder

	script.WriteString("Add-Type -AssemblyName System.Speech; ")
	script.WriteString("$s = New-Object System.Speech.Synthesis.SpeechSynthesizer; ")
	script.WriteString("$s.SetOutputToWaveFile(" + psQuote(outputPath) + "); ")

	rate := req.RateWPM
	if rate == 0 {
		rate = e.rateWPM
	}

	if rate > 0 {
		script.WriteString("$s.Rate = " + strconv.Itoa(sapiRate(rate)) + "; ")
	}

	if req.VoiceID != "" && req.VoiceID != "default" {
		script.WriteString("$s.SelectVoice(" + psQuote(req.VoiceID) + "); ")
	}

	script.WriteString("$s.Speak([Console]::In.ReadToEnd()); $s.Dispose()")

	cmd := exec.CommandContext(ctx, e.shellPath, "-NoProfile", "-Command", script.String())
	cmd.Stdin = strings.NewReader(req.Text)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("sapi execution failed: %w - output: %s", err, string(output))
	}

	return verifyOutput(outputPath)
}

// Voices reports the installed SAPI voices, one "Name|Culture" pair per line.
func (e *SAPIEngine) Voices() ([]core.Voice, error) {
	script := "Add-Type -AssemblyName System.Speech; " +
		"(New-Object System.Speech.Synthesis.SpeechSynthesizer).GetInstalledVoices() | " +
		"ForEach-Object { $_.VoiceInfo.Name + '|' + $_.VoiceInfo.Culture }"

	cmd := exec.Command(e.shellPath, "-NoProfile", "-Command", script)

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to list sapi voices: %w", err)
	}

	return parseSAPIVoices(string(output)), nil
}

// Info describes the engine for the system page.
func (e *SAPIEngine) Info() core.EngineInfo {
	return core.EngineInfo{
		Name:      "Windows SAPI (System.Speech)",
		Languages: []string{"English"},
		Details: map[string]string{
			"shell": e.shellPath,
			"type":  "offline",
		},
	}
}

// parseSAPIVoices parses "Name|Culture" lines, e.g.
//
//	Microsoft David Desktop|en-US
//	Microsoft Zira Desktop|en-US
func parseSAPIVoices(output string) []core.Voice {
	lines := strings.Split(output, "\n")
	voices := make([]core.Voice, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		name, culture, _ := strings.Cut(trimmed, "|")

		voices = append(voices, core.Voice{
			ID:       name,
			Name:     name,
			Language: culture,
		})
	}

	return voices
}

// sapiRate converts words per minute to the SAPI -10..10 scale.
func sapiRate(wpm int) int {
	rate := (wpm - sapiNeutralWPM) / sapiWPMPerStep

	if rate < sapiRateMinimum {
		return sapiRateMinimum
	}

	if rate > sapiRateMaximum {
		return sapiRateMaximum
	}

	return rate
}

// psQuote wraps s in single quotes for PowerShell, doubling embedded quotes.
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

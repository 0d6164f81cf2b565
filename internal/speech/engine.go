// Package speech provides platform speech engines behind the core.Synthesizer
// interface. Each engine shells out to the platform's synthesis binary and
// writes a WAV file, the same way the system voices are reached on every
// desktop OS.
package speech

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/book-expert/tts-dashboard/internal/core"
)

// EngineType names a selectable speech engine.
type EngineType string

// Supported engine types.
const (
	EngineTypeAuto   EngineType = "auto"
	EngineTypeESpeak EngineType = "espeak"
	EngineTypeSay    EngineType = "say"  // macOS only
	EngineTypeSAPI   EngineType = "sapi" // Windows only
	EngineTypeMock   EngineType = "mock"
)

func (e EngineType) String() string {
	return string(e)
}

// Static errors.
var (
	ErrUnsupportedEngine = errors.New("unsupported speech engine")
	ErrWrongPlatform     = errors.New("engine not available on this platform")
	ErrTextEmpty         = errors.New("text cannot be empty")
	ErrOutputPathEmpty   = errors.New("output path cannot be empty")
	ErrNoAudioProduced   = errors.New("engine produced no audio output")
)

// Config holds the engine selection and default synthesis parameters.
type Config struct {
	Engine  string
	RateWPM int
}

// New creates the speech engine named by cfg.Engine, resolving "auto" to the
// platform default.
func New(cfg Config) (core.Synthesizer, error) {
	engineType := EngineType(cfg.Engine)
	if engineType == EngineTypeAuto || engineType == "" {
		engineType = bestForPlatform()
	}

	switch engineType {
	case EngineTypeMock:
		return NewMockEngine(), nil
	case EngineTypeESpeak:
		return newESpeakEngine(cfg)
	case EngineTypeSay:
		if runtime.GOOS != "darwin" {
			return nil, fmt.Errorf("%w: say requires macOS", ErrWrongPlatform)
		}

		return newSayEngine(cfg)
	case EngineTypeSAPI:
		if runtime.GOOS != "windows" {
			return nil, fmt.Errorf("%w: sapi requires Windows", ErrWrongPlatform)
		}

		return newSAPIEngine(cfg)
	case EngineTypeAuto:
		// Resolved above; unreachable.
		fallthrough
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEngine, cfg.Engine)
	}
}

// bestForPlatform returns the recommended engine for the current platform.
func bestForPlatform() EngineType {
	switch runtime.GOOS {
	case "windows":
		return EngineTypeSAPI
	case "darwin":
		return EngineTypeSay
	default:
		return EngineTypeESpeak
	}
}

// findExecutable returns the first candidate found in PATH.
func findExecutable(candidates ...string) (string, error) {
	for _, candidate := range candidates {
		path, err := exec.LookPath(candidate)
		if err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("%w: none of %v found in PATH", ErrWrongPlatform, candidates)
}

// verifyOutput confirms the engine actually wrote audio to outputPath.
func verifyOutput(outputPath string) error {
	info, err := os.Stat(outputPath)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNoAudioProduced, outputPath)
	}

	if info.Size() == 0 {
		return fmt.Errorf("%w: %s is empty", ErrNoAudioProduced, outputPath)
	}

	return nil
}

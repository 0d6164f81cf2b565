// View models passed to the page templates. All display formatting happens
// here so the templates stay free of logic.
package web

import (
	"github.com/book-expert/tts-dashboard/internal/core"
	"github.com/book-expert/tts-dashboard/internal/pipeline"
	"github.com/book-expert/tts-dashboard/internal/ttsutil"
)

// Caps applied to UI listings.
const (
	previewCharLimit   = 500
	voiceListLimit     = 5
	defaultDemoMale    = "Hello! This is a demo of the male voice."
	defaultDemoFemale  = "Hello! This is a demo of the female voice."
	estimatedWPMLegend = "estimated at 150 words per minute"
)

// resultView describes a generated clip for display.
type resultView struct {
	FileName    string
	VoiceName   string
	Size        string
	Duration    string
	SampleRate  int
	AudioURL    string
	DownloadURL string
}

// voicesView groups voice names for the home and system pages.
type voicesView struct {
	Male   []string
	Female []string
}

// previewView describes an extracted document before conversion.
type previewView struct {
	DocName     string
	Preview     string
	FullText    string
	Words       int
	Chars       int
	EstDuration string
	Gender      string
	OutputName  string
	Legend      string
}

// systemView describes the engine for the system page. MaleCount and
// FemaleCount are the full totals; Voices holds the capped display lists.
type systemView struct {
	EngineName    string
	Languages     []string
	Details       map[string]string
	DefaultGender string
	MaleCount     int
	FemaleCount   int
	Voices        voicesView
}

// pageData is the root template context for every page.
type pageData struct {
	Title   string
	Active  string
	Error   string
	Success string
	Gender  string
	Text    string
	OutName string
	Formats string
	Result  *resultView
	Voices  *voicesView
	Preview *previewView
	System  *systemView
}

// newResultView formats a pipeline result for display.
func newResultView(result *pipeline.Result) *resultView {
	return &resultView{
		FileName:    result.FileName,
		VoiceName:   result.VoiceName,
		Size:        ttsutil.FormatFileSize(result.Size),
		Duration:    ttsutil.FormatDuration(result.Duration.Seconds()),
		SampleRate:  result.SampleRate,
		AudioURL:    "/audio/" + result.Key,
		DownloadURL: "/audio/" + result.Key + "?download=1",
	}
}

// newVoicesView flattens grouped voices to display names, capped per group.
func newVoicesView(grouped map[core.VoiceGender][]core.Voice, limit int) *voicesView {
	view := &voicesView{Male: []string{}, Female: []string{}}

	for _, voice := range grouped[core.VoiceGenderMale] {
		if limit > 0 && len(view.Male) >= limit {
			break
		}

		view.Male = append(view.Male, voice.Name)
	}

	for _, voice := range grouped[core.VoiceGenderFemale] {
		if limit > 0 && len(view.Female) >= limit {
			break
		}

		view.Female = append(view.Female, voice.Name)
	}

	return view
}

// demoText returns the fixed demo sentence for a gender.
func demoText(gender core.VoiceGender) string {
	if gender == core.VoiceGenderFemale {
		return defaultDemoFemale
	}

	return defaultDemoMale
}

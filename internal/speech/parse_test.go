package speech

import (
	"testing"
)

const espeakVoicesOutput = `Pty Language Age/Gender VoiceName          File          Other Languages
 5  af             M  afrikaans            other/af
 5  en-gb          M  english              default
 5  en-us          M  us-english           r/en-us
 7  en-sc          F  en-scottish          other/en-sc
 5  xx             -  genderless           other/xx
`

func TestParseESpeakVoices(t *testing.T) {
	t.Parallel()

	voices := parseESpeakVoices(espeakVoicesOutput)
	if len(voices) != 5 {
		t.Fatalf("Expected 5 voices, got %d", len(voices))
	}

	first := voices[0]
	if first.ID != "afrikaans" {
		t.Errorf("Expected ID 'afrikaans', got %q", first.ID)
	}

	if first.Name != "afrikaans (male)" {
		t.Errorf("Expected gendered display name, got %q", first.Name)
	}

	if first.Language != "af" {
		t.Errorf("Expected language 'af', got %q", first.Language)
	}

	scottish := voices[3]
	if scottish.Name != "en-scottish (female)" {
		t.Errorf("Expected female display name, got %q", scottish.Name)
	}

	genderless := voices[4]
	if genderless.Name != "genderless" {
		t.Errorf("Expected plain display name, got %q", genderless.Name)
	}
}

const sayVoicesOutput = `Alex                en_US    # Most people recognize me by my voice.
Samantha            en_US    # Hello! My name is Samantha.
Ting-Ting           zh_CN    # 您好，我叫Ting-Ting。
`

func TestParseSayVoices(t *testing.T) {
	t.Parallel()

	voices := parseSayVoices(sayVoicesOutput)
	if len(voices) != 3 {
		t.Fatalf("Expected 3 voices, got %d", len(voices))
	}

	if voices[1].ID != "Samantha" || voices[1].Language != "en_US" {
		t.Errorf("Unexpected voice parsed: %+v", voices[1])
	}
}

const sapiVoicesOutput = `Microsoft David Desktop|en-US
Microsoft Zira Desktop|en-US

`

func TestParseSAPIVoices(t *testing.T) {
	t.Parallel()

	voices := parseSAPIVoices(sapiVoicesOutput)
	if len(voices) != 2 {
		t.Fatalf("Expected 2 voices, got %d", len(voices))
	}

	if voices[0].Name != "Microsoft David Desktop" {
		t.Errorf("Unexpected voice name %q", voices[0].Name)
	}

	if voices[1].Language != "en-US" {
		t.Errorf("Unexpected culture %q", voices[1].Language)
	}
}

func TestSAPIRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		wpm      int
		expected int
	}{
		{"neutral", 175, 0},
		{"faster", 225, 2},
		{"slower", 125, -2},
		{"clamped high", 1000, 10},
		{"clamped low", 1, -6},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			result := sapiRate(testCase.wpm)
			if result != testCase.expected {
				t.Errorf("Expected %d, got %d", testCase.expected, result)
			}
		})
	}
}

func TestPSQuote(t *testing.T) {
	t.Parallel()

	if got := psQuote(`C:\out's.wav`); got != `'C:\out''s.wav'` {
		t.Errorf("Unexpected quoting: %q", got)
	}
}

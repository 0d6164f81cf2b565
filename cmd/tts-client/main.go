// Command-line client for the tts-dashboard JSON API. Converts a text string
// or a document to speech through a running dashboard and saves the WAV.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Flag names.
const (
	flagText     = "text"
	flagDocument = "document"
	flagGender   = "gender"
	flagOutput   = "output"
	flagURL      = "url"
	flagHealth   = "health"
)

// Flag descriptions.
const (
	flagTextDesc     = "Text to convert to speech"
	flagDocumentDesc = "Document file (.txt, .pdf, .docx) to convert to speech"
	flagGenderDesc   = "Voice gender: male or female"
	flagOutputDesc   = "Output file path (.wav)"
	flagURLDesc      = "Base URL of the tts-dashboard"
	flagHealthDesc   = "Check dashboard health and exit"
)

// Defaults.
const (
	defaultGender     = "male"
	defaultURL        = "http://127.0.0.1:8080"
	defaultOutputFile = "output.wav"
	requestTimeout    = 5 * time.Minute
	healthTimeout     = 10 * time.Second
	outputFilePerms   = 0o644
)

// Static errors.
var (
	errEitherTextOrDocument = errors.New("either --text or --document must be provided")
	errCannotSpecifyBoth    = errors.New("cannot specify both --text and --document")
	errServiceNotHealthy    = errors.New("dashboard is not healthy")
)

// appFlags holds the parsed command-line flag values.
type appFlags struct {
	text     string
	document string
	gender   string
	output   string
	baseURL  string
	health   bool
}

// synthesisResult mirrors the dashboard's JSON API response.
type synthesisResult struct {
	Key             string  `json:"key"`
	FileName        string  `json:"file_name"`
	VoiceName       string  `json:"voice_name"`
	SizeBytes       int64   `json:"size_bytes"`
	DurationSeconds float64 `json:"duration_seconds"`
	SampleRate      int     `json:"sample_rate"`
	AudioURL        string  `json:"audio_url"`
}

// apiError mirrors the dashboard's JSON error response.
type apiError struct {
	Error string `json:"error"`
}

func main() {
	err := run()
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	flags := parseFlags()
	client := &http.Client{Timeout: requestTimeout}

	if flags.health {
		return checkHealth(client, flags.baseURL)
	}

	if flags.text == "" && flags.document == "" {
		flag.Usage()

		return errEitherTextOrDocument
	}

	if flags.text != "" && flags.document != "" {
		return errCannotSpecifyBoth
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	var (
		result *synthesisResult
		err    error
	)

	if flags.text != "" {
		result, err = convertText(ctx, client, flags)
	} else {
		result, err = convertDocument(ctx, client, flags)
	}

	if err != nil {
		return err
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = result.FileName
	}

	if outputPath == "" {
		outputPath = defaultOutputFile
	}

	err = downloadAudio(ctx, client, flags.baseURL, result, outputPath)
	if err != nil {
		return err
	}

	fmt.Printf("Generated: %s (voice: %s, %.1fs)\n",
		outputPath, result.VoiceName, result.DurationSeconds)

	return nil
}

// parseFlags defines and parses command-line flags, returning them in a struct.
func parseFlags() appFlags {
	var flags appFlags

	flag.StringVar(&flags.text, flagText, "", flagTextDesc)
	flag.StringVar(&flags.document, flagDocument, "", flagDocumentDesc)
	flag.StringVar(&flags.gender, flagGender, defaultGender, flagGenderDesc)
	flag.StringVar(&flags.output, flagOutput, "", flagOutputDesc)
	flag.StringVar(&flags.baseURL, flagURL, defaultURL, flagURLDesc)
	flag.BoolVar(&flags.health, flagHealth, false, flagHealthDesc)
	flag.Parse()

	return flags
}

// checkHealth queries /healthz and prints the outcome.
func checkHealth(client *http.Client, baseURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("failed to build health request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	var status struct {
		Status string `json:"status"`
		Engine string `json:"engine"`
	}

	err = json.NewDecoder(resp.Body).Decode(&status)
	if err != nil {
		return fmt.Errorf("failed to decode health response: %w", err)
	}

	if status.Status != "ok" {
		return fmt.Errorf("%w: status=%s", errServiceNotHealthy, status.Status)
	}

	fmt.Printf("Dashboard is healthy (engine: %s)\n", status.Engine)

	return nil
}

// convertText posts the text to /api/speech.
func convertText(
	ctx context.Context,
	client *http.Client,
	flags appFlags,
) (*synthesisResult, error) {
	form := url.Values{
		"text":     {flags.text},
		"gender":   {flags.gender},
		"filename": {filepath.Base(flags.output)},
	}
	if flags.output == "" {
		form.Set("filename", "")
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		flags.baseURL+"/api/speech",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build speech request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return doSynthesis(client, req)
}

// convertDocument uploads the document to /api/document.
func convertDocument(
	ctx context.Context,
	client *http.Client,
	flags appFlags,
) (*synthesisResult, error) {
	fileData, err := os.ReadFile(flags.document)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %q: %w", flags.document, err)
	}

	var body strings.Builder

	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("document", filepath.Base(flags.document))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}

	_, err = part.Write(fileData)
	if err != nil {
		return nil, fmt.Errorf("failed to write upload body: %w", err)
	}

	err = writer.WriteField("gender", flags.gender)
	if err != nil {
		return nil, fmt.Errorf("failed to write gender field: %w", err)
	}

	if flags.output != "" {
		err = writer.WriteField("filename", filepath.Base(flags.output))
		if err != nil {
			return nil, fmt.Errorf("failed to write filename field: %w", err)
		}
	}

	err = writer.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		flags.baseURL+"/api/document",
		strings.NewReader(body.String()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build document request: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())

	return doSynthesis(client, req)
}

// doSynthesis executes a synthesis request and decodes the JSON result.
func doSynthesis(client *http.Client, req *http.Request) (*synthesisResult, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesis request failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError

		decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr)
		if decodeErr == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("dashboard returned %s: %s", resp.Status, apiErr.Error)
		}

		return nil, fmt.Errorf("dashboard returned %s", resp.Status)
	}

	var result synthesisResult

	err = json.NewDecoder(resp.Body).Decode(&result)
	if err != nil {
		return nil, fmt.Errorf("failed to decode synthesis response: %w", err)
	}

	return &result, nil
}

// downloadAudio fetches the generated WAV and writes it to outputPath.
func downloadAudio(
	ctx context.Context,
	client *http.Client,
	baseURL string,
	result *synthesisResult,
	outputPath string,
) error {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		baseURL+result.AudioURL,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("audio download failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("audio download returned %s", resp.Status)
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read audio body: %w", err)
	}

	err = os.WriteFile(outputPath, audioData, outputFilePerms)
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", outputPath, err)
	}

	return nil
}

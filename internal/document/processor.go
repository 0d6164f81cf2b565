// Package document extracts plain text from uploaded documents.
//
// Dispatch is by file extension: TXT is decoded directly, PDF pages and DOCX
// paragraphs are extracted through their parsers and joined with newlines.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/book-expert/tts-dashboard/internal/ttsutil"
)

// Supported file extensions, without the leading dot.
const (
	FormatTXT  = "txt"
	FormatPDF  = "pdf"
	FormatDOCX = "docx"
)

// Static errors.
var (
	ErrFilenameEmpty     = errors.New("filename is required to determine the document type")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNoTextFound       = errors.New("no text found in document")
)

// Processor extracts text from uploaded document bytes.
type Processor struct {
	supportedFormats []string
}

// NewProcessor creates a document processor for the supported formats.
func NewProcessor() *Processor {
	return &Processor{
		supportedFormats: []string{FormatTXT, FormatPDF, FormatDOCX},
	}
}

// SupportedFormats returns the accepted file extensions.
func (p *Processor) SupportedFormats() []string {
	return p.supportedFormats
}

// Extract returns the plain text of the document held in data. The filename
// is used only for extension dispatch and is matched case-insensitively.
func (p *Processor) Extract(data []byte, filename string) (string, error) {
	if filename == "" {
		return "", ErrFilenameEmpty
	}

	var (
		extracted string
		err       error
	)

	switch format := ttsutil.GetFileExtension(filename); format {
	case FormatTXT:
		extracted, err = extractTXT(data)
	case FormatPDF:
		extracted, err = extractPDF(data)
	case FormatDOCX:
		extracted, err = extractDOCX(data)
	default:
		return "", fmt.Errorf(
			"%w %q: supported formats are %s",
			ErrUnsupportedFormat,
			format,
			strings.Join(p.supportedFormats, ", "),
		)
	}

	if err != nil {
		return "", err
	}

	if strings.TrimSpace(extracted) == "" {
		return "", ErrNoTextFound
	}

	return extracted, nil
}

// extractTXT decodes plain text, tolerating UTF-8 and UTF-16 byte order marks.
func extractTXT(data []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())

	decoded, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", fmt.Errorf("failed to decode text file: %w", err)
	}

	return string(decoded), nil
}

// extractPDF extracts the text of every page, joined with newlines, matching
// the per-page extraction behavior users expect from the document preview.
func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var builder strings.Builder

	totalPages := reader.NumPage()
	for pageNumber := 1; pageNumber <= totalPages; pageNumber++ {
		page := reader.Page(pageNumber)
		if page.V.IsNull() {
			continue
		}

		pageText, textErr := page.GetPlainText(nil)
		if textErr != nil {
			// A single unreadable page does not void the whole document.
			continue
		}

		builder.WriteString(pageText)
		builder.WriteString("\n")
	}

	return builder.String(), nil
}

// extractDOCX extracts the text of every paragraph, joined with newlines.
func extractDOCX(data []byte) (string, error) {
	parsed, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}

	var builder strings.Builder

	for _, item := range parsed.Document.Body.Items {
		paragraph, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}

		builder.WriteString(paragraph.String())
		builder.WriteString("\n")
	}

	return builder.String(), nil
}

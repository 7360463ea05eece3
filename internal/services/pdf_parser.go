package services

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/pkg/errors"
)

// DocumentExtractor turns an uploaded resume or job description into plain
// text. Failures wrap ErrExtractionFailed.
type DocumentExtractor interface {
	ExtractText(filename string, data []byte) (string, error)
}

type PDFParserService interface {
	DocumentExtractor
	ExtractTextFromFile(path string) (string, error)
}

type pdfParserService struct{}

func NewPDFParserService() PDFParserService {
	return &pdfParserService{}
}

// ExtractText dispatches on the file extension: .pdf is parsed, .txt and
// .md are taken verbatim.
func (p *pdfParserService) ExtractText(filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return p.extractPDF(data)
	case ".txt", ".md":
		if !utf8.Valid(data) {
			return "", errors.Wrapf(ErrExtractionFailed, "%s is not valid UTF-8 text", filename)
		}
		text := CleanText(string(data))
		if text == "" {
			return "", errors.Wrapf(ErrExtractionFailed, "%s is empty", filename)
		}
		return text, nil
	default:
		return "", errors.Wrapf(ErrExtractionFailed, "unsupported document type: %s", filename)
	}
}

func (p *pdfParserService) ExtractTextFromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(ErrExtractionFailed, "failed to read %s: %v", path, err)
	}
	return p.ExtractText(filepath.Base(path), data)
}

func (p *pdfParserService) extractPDF(data []byte) (text string, err error) {
	// The pdf package panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = errors.Wrapf(ErrExtractionFailed, "corrupt PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.Wrap(ErrExtractionFailed, fmt.Sprintf("failed to open PDF: %v", err))
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Keep whatever the other pages yield
			continue
		}

		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n\n")
	}

	text = CleanText(textBuilder.String())
	if text == "" {
		return "", errors.Wrap(ErrExtractionFailed, "no text content found in PDF")
	}

	return text, nil
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}

// Package docs converts uploaded documents into plain text.
//
// Supported formats:
//   - .pdf   text operators of each page content stream (pdfcpu)
//   - .docx  word/document.xml paragraphs
//   - .html  visible body text (goquery)
//   - .txt, .md and anything else: read as UTF-8, invalid bytes dropped
package docs

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// DefaultMaxFileSize bounds a single upload.
const DefaultMaxFileSize = 25 << 20

// Format identifies how a file is read.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDocx Format = "docx"
	FormatHTML Format = "html"
	FormatText Format = "text"
)

// Config controls an Extractor.
type Config struct {
	MaxFileSize int64
	Cache       *TextCache
	Logger      *zap.Logger
}

// Extractor turns file bytes into text.
type Extractor struct {
	cfg    Config
	logger *zap.Logger
}

// NewExtractor creates an Extractor, filling in defaults.
func NewExtractor(cfg Config) *Extractor {
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Extractor{cfg: cfg, logger: cfg.Logger}
}

// Detect returns the format for a filename based on its extension.
// Unknown extensions are treated as text.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDocx
	case ".html", ".htm":
		return FormatHTML
	default:
		return FormatText
	}
}

// Extract returns the plain text of one uploaded file.
func (e *Extractor) Extract(filename string, data []byte) (string, error) {
	if int64(len(data)) > e.cfg.MaxFileSize {
		return "", fmt.Errorf("file too large: %d bytes (max %d)", len(data), e.cfg.MaxFileSize)
	}

	format := Detect(filename)
	key := ContentHash(data) + "." + string(format)
	if e.cfg.Cache != nil {
		if text, ok := e.cfg.Cache.Get(key); ok {
			e.logger.Debug("extraction cache hit", zap.String("file", filename))
			return text, nil
		}
	}

	var (
		text string
		err  error
	)
	switch format {
	case FormatPDF:
		text, err = extractPDF(data)
	case FormatDocx:
		text, err = extractDocx(data)
	case FormatHTML:
		text, err = extractHTML(data)
	default:
		text = decodeText(data)
	}
	if err != nil {
		return "", fmt.Errorf("extract %s (%s): %w", filename, format, err)
	}

	e.logger.Info("document extracted",
		zap.String("file", filename),
		zap.String("format", string(format)),
		zap.Int("chars", utf8.RuneCountInString(text)))

	if e.cfg.Cache != nil {
		if err := e.cfg.Cache.Set(key, text); err != nil {
			e.logger.Warn("extraction cache write failed", zap.Error(err))
		}
	}
	return text, nil
}

// decodeText reads bytes as UTF-8, dropping invalid sequences.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	var sb strings.Builder
	sb.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r != utf8.RuneError || size > 1 {
			sb.WriteRune(r)
		}
		data = data[size:]
	}
	return sb.String()
}

// Package docx converts word-processor documents to HTML.
//
// Modern .docx files are unpacked as ZIP archives and their document.xml
// parsed into paragraphs. Legacy .doc files use a pre-ZIP binary container
// this package cannot parse; their conversion is best-effort and degrades to
// a fixed placeholder instead of failing the import.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/clauseworks/importkit/internal/core/domain"
	"github.com/clauseworks/importkit/internal/core/ports/driven"
	"github.com/clauseworks/importkit/internal/normalisers/plaintext"
)

// MIME types for word-processor formats.
const (
	MIMETypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMETypeDoc  = "application/msword"
)

// PlaceholderHTML replaces the body of a legacy document that could not be
// converted. The degradation is deliberate: legacy format support is
// best-effort, and a placeholder beats a failed import.
const PlaceholderHTML = "<p>This document could not be converted automatically. " +
	"Please paste its contents manually.</p>"

// Ensure both normalisers implement the interface.
var (
	_ driven.Normaliser = (*Normaliser)(nil)
	_ driven.Normaliser = (*LegacyNormaliser)(nil)
)

// Normaliser handles modern .docx documents.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{MIMETypeDocx}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise converts a .docx document to HTML. Conversion failures
// propagate; unlike legacy .doc files there is no placeholder fallback.
func (n *Normaliser) Normalise(_ context.Context, raw *driven.RawContent) (*domain.ImportedContent, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content, err := ToHTML(raw.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConversionFailed, err)
	}

	return &domain.ImportedContent{
		Name:           raw.Name,
		Content:        content,
		SourceMIMEType: raw.MIMEType,
	}, nil
}

// LegacyNormaliser handles legacy .doc documents.
type LegacyNormaliser struct{}

// NewLegacy creates a normaliser for legacy .doc documents.
func NewLegacy() *LegacyNormaliser {
	return &LegacyNormaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *LegacyNormaliser) SupportedMIMETypes() []string {
	return []string{MIMETypeDoc}
}

// Priority returns the selection priority.
func (n *LegacyNormaliser) Priority() int {
	return 50
}

// Normalise attempts conversion and degrades to PlaceholderHTML when the
// body cannot be parsed. It never returns a conversion error.
func (n *LegacyNormaliser) Normalise(_ context.Context, raw *driven.RawContent) (*domain.ImportedContent, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content, err := ToHTML(raw.Content)
	if err != nil {
		content = PlaceholderHTML
	}

	return &domain.ImportedContent{
		Name:           raw.Name,
		Content:        content,
		SourceMIMEType: raw.MIMEType,
	}, nil
}

// ToHTML extracts the paragraphs of an OOXML word-processing document and
// renders them as escaped <p> elements.
func ToHTML(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open document archive: %w", err)
	}

	text, err := extractDocumentXML(reader)
	if err != nil {
		return "", err
	}

	var paragraphs []string
	for _, para := range text {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		paragraphs = append(paragraphs, "<p>"+plaintext.EscapeHTML(para)+"</p>")
	}

	if len(paragraphs) == 0 {
		return domain.EmptyContentHTML, nil
	}
	return strings.Join(paragraphs, "\n"), nil
}

// documentXML mirrors the parts of word/document.xml we read.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// extractDocumentXML returns one string per paragraph of word/document.xml.
func extractDocumentXML(reader *zip.Reader) ([]string, error) {
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open document.xml: %w", err)
		}

		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read document.xml: %w", err)
		}

		var doc documentXML
		if err := xml.Unmarshal(content, &doc); err != nil {
			return nil, fmt.Errorf("parse document.xml: %w", err)
		}

		paragraphs := make([]string, 0, len(doc.Body.Paragraphs))
		for _, para := range doc.Body.Paragraphs {
			var sb strings.Builder
			for _, r := range para.Runs {
				for _, t := range r.Text {
					sb.WriteString(t.Content)
				}
			}
			paragraphs = append(paragraphs, sb.String())
		}
		return paragraphs, nil
	}

	return nil, fmt.Errorf("no word/document.xml in archive")
}

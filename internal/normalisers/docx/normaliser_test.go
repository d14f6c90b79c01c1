package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clauseworks/importkit/internal/core/domain"
	"github.com/clauseworks/importkit/internal/core/ports/driven"
)

// buildDocx assembles a minimal OOXML archive with the given paragraph texts.
func buildDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		fmt.Fprintf(&body, `<w:p><w:r><w:t>%s</w:t></w:r></w:p>`, p)
	}
	body.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write(body.Bytes())
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func TestToHTML(t *testing.T) {
	data := buildDocx(t, "First paragraph", "Second paragraph")

	got, err := ToHTML(data)

	require.NoError(t, err)
	assert.Equal(t, "<p>First paragraph</p>\n<p>Second paragraph</p>", got)
}

func TestToHTML_EscapesMarkup(t *testing.T) {
	data := buildDocx(t, "Smith &amp; Co")

	got, err := ToHTML(data)

	require.NoError(t, err)
	assert.Equal(t, "<p>Smith &amp; Co</p>", got)
}

func TestToHTML_EmptyDocument(t *testing.T) {
	data := buildDocx(t)

	got, err := ToHTML(data)

	require.NoError(t, err)
	assert.Equal(t, domain.EmptyContentHTML, got)
}

func TestToHTML_NotAnArchive(t *testing.T) {
	_, err := ToHTML([]byte("\xd0\xcf\x11\xe0 legacy binary blob"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "open document archive")
}

func TestToHTML_MissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("other.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte("unrelated"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = ToHTML(buf.Bytes())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no word/document.xml")
}

func TestNormalise_Docx(t *testing.T) {
	n := New()

	got, err := n.Normalise(context.Background(), &driven.RawContent{
		Name:     "brief.docx",
		Content:  buildDocx(t, "Hello"),
		MIMEType: MIMETypeDocx,
	})

	require.NoError(t, err)
	assert.Equal(t, "<p>Hello</p>", got.Content)
	assert.Equal(t, MIMETypeDocx, got.SourceMIMEType)
}

func TestNormalise_DocxConversionFailure(t *testing.T) {
	_, err := New().Normalise(context.Background(), &driven.RawContent{
		Name:     "broken.docx",
		Content:  []byte("not a zip"),
		MIMEType: MIMETypeDocx,
	})

	assert.ErrorIs(t, err, domain.ErrConversionFailed)
}

func TestNormalise_LegacyDegradesToPlaceholder(t *testing.T) {
	n := NewLegacy()

	got, err := n.Normalise(context.Background(), &driven.RawContent{
		Name:     "memo.doc",
		Content:  []byte("\xd0\xcf\x11\xe0 legacy binary blob"),
		MIMEType: MIMETypeDoc,
	})

	require.NoError(t, err)
	assert.Equal(t, PlaceholderHTML, got.Content)
}

func TestNormalise_LegacyZipPackagedDocConverts(t *testing.T) {
	// Some producers mislabel OOXML files as application/msword.
	got, err := NewLegacy().Normalise(context.Background(), &driven.RawContent{
		Name:     "memo.doc",
		Content:  buildDocx(t, "Hello"),
		MIMEType: MIMETypeDoc,
	})

	require.NoError(t, err)
	assert.Equal(t, "<p>Hello</p>", got.Content)
}

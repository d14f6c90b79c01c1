package domain

import "strings"

// ImportedContent is the normalised output of an import: a display title and
// a well-formed HTML fragment. Content is never empty; empty sources
// normalise to "<p></p>".
type ImportedContent struct {
	// Name is the display title derived from the source filename or page title.
	Name string `json:"name"`
	// Content is the normalised HTML fragment.
	Content string `json:"content"`
	// SourceMIMEType is the MIME type of the source representation, where known.
	SourceMIMEType string `json:"source_mime_type,omitempty"`
}

// EmptyContentHTML is the placeholder fragment used when a source produced
// no content at all.
const EmptyContentHTML = "<p></p>"

// knownExtensions are the file extensions stripped when deriving a document
// title from a source filename. Order matters: longer suffixes first so
// ".markdown" is not matched as ".md"-plus-junk.
var knownExtensions = []string{
	".markdown", ".docx", ".html", ".htm", ".doc", ".txt", ".md",
}

// DeriveTitle strips exactly one trailing known extension (case-insensitive)
// from a source name. Names without a known extension are returned unchanged.
func DeriveTitle(name string) string {
	lower := strings.ToLower(name)
	for _, ext := range knownExtensions {
		if strings.HasSuffix(lower, ext) && len(name) > len(ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

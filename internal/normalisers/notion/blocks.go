// Package notion converts Notion block lists to HTML.
//
// Known limitations, by design: bulleted and numbered list items both render
// as <li> inside a <ul> (the ordered/unordered distinction is not preserved),
// and only the first page of blocks is converted.
package notion

import (
	"strings"

	"github.com/jomei/notionapi"

	"github.com/clauseworks/importkit/internal/core/domain"
	"github.com/clauseworks/importkit/internal/normalisers/plaintext"
)

// Checkbox glyphs for to-do blocks.
const (
	glyphChecked   = "☑" // ☑
	glyphUnchecked = "☐" // ☐
)

// BlocksToHTML converts an ordered block list to an HTML fragment.
// Blocks with no extractable text are skipped; consecutive <li> fragments
// are merged into a single <ul> per maximal run; an empty result becomes
// the "<p></p>" placeholder.
func BlocksToHTML(blocks []notionapi.Block) string {
	var fragments []string
	for _, block := range blocks {
		if fragment, ok := blockToHTML(block); ok {
			fragments = append(fragments, fragment)
		}
	}

	fragments = mergeListItems(fragments)

	if len(fragments) == 0 {
		return domain.EmptyContentHTML
	}
	return strings.Join(fragments, "\n")
}

// blockToHTML maps a single block to its HTML fragment.
// Returns false for blocks that produce no output.
//
//nolint:gocyclo // Type switch over the supported block types
func blockToHTML(block notionapi.Block) (string, bool) {
	switch b := block.(type) {
	case *notionapi.ParagraphBlock:
		return wrapRichText("p", b.Paragraph.RichText)

	case *notionapi.Heading1Block:
		return wrapRichText("h1", b.Heading1.RichText)

	case *notionapi.Heading2Block:
		return wrapRichText("h2", b.Heading2.RichText)

	case *notionapi.Heading3Block:
		return wrapRichText("h3", b.Heading3.RichText)

	case *notionapi.BulletedListItemBlock:
		return wrapRichText("li", b.BulletedListItem.RichText)

	case *notionapi.NumberedListItemBlock:
		// Rendered as <li> like bulleted items; ordering is not preserved.
		return wrapRichText("li", b.NumberedListItem.RichText)

	case *notionapi.ToDoBlock:
		text := RichTextToHTML(b.ToDo.RichText)
		if text == "" {
			return "", false
		}
		glyph := glyphUnchecked
		if b.ToDo.Checked {
			glyph = glyphChecked
		}
		return "<p>" + glyph + " " + text + "</p>", true

	case *notionapi.CodeBlock:
		text := RichTextToHTML(b.Code.RichText)
		if text == "" {
			return "", false
		}
		return "<pre><code>" + text + "</code></pre>", true

	case *notionapi.QuoteBlock:
		return wrapRichText("blockquote", b.Quote.RichText)

	case *notionapi.DividerBlock:
		return "<hr>", true

	case *notionapi.CalloutBlock:
		text := RichTextToHTML(b.Callout.RichText)
		if text == "" {
			return "", false
		}
		if b.Callout.Icon != nil && b.Callout.Icon.Emoji != nil {
			text = string(*b.Callout.Icon.Emoji) + " " + text
		}
		return "<aside>" + text + "</aside>", true

	case *notionapi.ToggleBlock:
		// No HTML equivalent worth preserving; fall back to a paragraph.
		return wrapRichText("p", b.Toggle.RichText)

	default:
		// Unmapped block kinds keep their text as a plain paragraph;
		// textless ones produce no output.
		if withText, ok := block.(interface{ GetRichTextString() string }); ok {
			if text := strings.TrimSpace(withText.GetRichTextString()); text != "" {
				return "<p>" + plaintext.EscapeHTML(text) + "</p>", true
			}
		}
		return "", false
	}
}

// wrapRichText renders rich text inside the given tag, skipping empty runs.
func wrapRichText(tag string, richText []notionapi.RichText) (string, bool) {
	text := RichTextToHTML(richText)
	if text == "" {
		return "", false
	}
	return "<" + tag + ">" + text + "</" + tag + ">", true
}

// RichTextToHTML converts rich text runs to inline HTML. Each run is
// escaped first, then annotation wrappers are applied in a fixed order
// (bold, italic, strikethrough, underline, code — innermost to outermost),
// with a hyperlink anchor wrapping the whole run last. The order is
// deterministic and significant.
func RichTextToHTML(richText []notionapi.RichText) string {
	var sb strings.Builder
	for _, rt := range richText {
		text := plaintext.EscapeHTML(rt.PlainText)
		if text == "" {
			continue
		}

		if a := rt.Annotations; a != nil {
			if a.Bold {
				text = "<strong>" + text + "</strong>"
			}
			if a.Italic {
				text = "<em>" + text + "</em>"
			}
			if a.Strikethrough {
				text = "<s>" + text + "</s>"
			}
			if a.Underline {
				text = "<u>" + text + "</u>"
			}
			if a.Code {
				text = "<code>" + text + "</code>"
			}
		}

		if rt.Href != "" {
			text = `<a href="` + plaintext.EscapeHTML(rt.Href) + `">` + text + "</a>"
		}

		sb.WriteString(text)
	}
	return sb.String()
}

// mergeListItems wraps each maximal run of consecutive <li> fragments in a
// single <ul>. A lone list item still gets wrapped.
func mergeListItems(fragments []string) []string {
	var result []string
	var run []string

	flush := func() {
		if len(run) == 0 {
			return
		}
		result = append(result, "<ul>"+strings.Join(run, "")+"</ul>")
		run = nil
	}

	for _, fragment := range fragments {
		if strings.HasPrefix(fragment, "<li>") {
			run = append(run, fragment)
			continue
		}
		flush()
		result = append(result, fragment)
	}
	flush()

	return result
}

// ExtractTitle concatenates the plain text of a title property's rich text.
// Pages without a readable title fall back to "Untitled".
func ExtractTitle(richText []notionapi.RichText) string {
	var sb strings.Builder
	for _, rt := range richText {
		sb.WriteString(rt.PlainText)
	}
	if sb.Len() == 0 {
		return "Untitled"
	}
	return sb.String()
}

package format

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Command names understood by RichText.
const (
	RichTextBold       = "bold"
	RichTextItalic     = "italic"
	RichTextUnderline  = "underline"
	RichTextInsertText = "insertText"
	RichTextClear      = "clear"
)

// RichTextCommand describes one editing action applied to rich content.
// Arg carries the inserted text for insertText and is ignored otherwise.
type RichTextCommand struct {
	Name string
	Arg  string
}

// RichText maps (current content, command) to the next content. The
// transform is pure: it owns no document state, and the presentation layer
// is responsible for applying the result to whatever widget it uses. Output
// is always sanitized to the formatting mark-up the engine allows.
func RichText(content string, cmd RichTextCommand) (string, error) {
	switch cmd.Name {
	case RichTextBold:
		return toggleMark(content, "strong"), nil
	case RichTextItalic:
		return toggleMark(content, "em"), nil
	case RichTextUnderline:
		return toggleMark(content, "u"), nil
	case RichTextInsertText:
		return SanitizeMarkup(content + html.EscapeString(cmd.Arg)), nil
	case RichTextClear:
		return strings.TrimSpace(plainPolicy().Sanitize(content)), nil
	default:
		return "", &FormatError{Input: cmd.Name, Reason: "unknown rich text command"}
	}
}

// toggleMark wraps the whole content in the given mark, or unwraps it when
// the content is already wrapped. Empty content stays empty.
func toggleMark(content, tag string) string {
	cleaned := SanitizeMarkup(content)
	if cleaned == "" {
		return ""
	}
	open, closing := "<"+tag+">", "</"+tag+">"
	if strings.HasPrefix(cleaned, open) && strings.HasSuffix(cleaned, closing) {
		inner := cleaned[len(open) : len(cleaned)-len(closing)]
		// Unwrap only when the mark spans the whole content; "<u>a</u>b<u>c</u>"
		// is not wrapped even though it starts and ends with the mark.
		if !strings.Contains(inner, closing) {
			return inner
		}
	}
	return open + cleaned + closing
}

// SanitizeMarkup reduces arbitrary HTML to the formatting marks the engine
// allows. Renderers call it before embedding rich content as raw HTML; values
// written through Set bypass the rich text transform and arrive unsanitized.
func SanitizeMarkup(raw string) string {
	return strings.TrimSpace(markPolicy().Sanitize(raw))
}

var (
	markPolicyOnce  sync.Once
	markPolicyInst  *bluemonday.Policy
	plainPolicyOnce sync.Once
	plainPolicyInst *bluemonday.Policy
)

func markPolicy() *bluemonday.Policy {
	markPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("strong", "em", "u", "b", "i", "p", "br")
		markPolicyInst = policy
	})
	return markPolicyInst
}

func plainPolicy() *bluemonday.Policy {
	plainPolicyOnce.Do(func() {
		plainPolicyInst = bluemonday.StrictPolicy()
	})
	return plainPolicyInst
}

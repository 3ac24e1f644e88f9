package format_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/format"
	"github.com/goliatone/go-formflow/pkg/schema"
)

func TestPhoneProgressiveGrouping(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{raw: "", want: ""},
		{raw: "abc", want: ""},
		{raw: "1", want: "1"},
		{raw: "123", want: "123"},
		{raw: "1234", want: "(123) 4"},
		{raw: "123456", want: "(123) 456"},
		{raw: "1234567", want: "(123) 456-7"},
		{raw: "1234567890", want: "(123) 456-7890"},
		{raw: "+1 (234) 567-8901 ext 2", want: "(123) 456-7890"},
		{raw: "12345678901234", want: "(123) 456-7890"},
	}

	for _, tc := range cases {
		if got := format.Phone(tc.raw); got != tc.want {
			t.Fatalf("Phone(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestPhoneIdempotent(t *testing.T) {
	inputs := []string{"", "1", "12", "123", "1234", "12345", "123456", "1234567", "12345678", "123456789", "1234567890"}
	for _, raw := range inputs {
		once := format.Phone(raw)
		twice := format.Phone(once)
		if once != twice {
			t.Fatalf("Phone not idempotent for %q: first %q, second %q", raw, once, twice)
		}
	}
}

func TestCurrency(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "integer", raw: "12", want: "12.00"},
		{name: "rounds", raw: "3.456", want: "3.46"},
		{name: "pads", raw: " 5.5 ", want: "5.50"},
		{name: "negative", raw: "-2", want: "-2.00"},
		{name: "empty clears", raw: "", want: ""},
		{name: "double dot", raw: "12.3.4", wantErr: true},
		{name: "words", raw: "twelve", wantErr: true},
		{name: "nan literal", raw: "NaN", wantErr: true},
		{name: "infinity", raw: "+Inf", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := format.Currency(tc.raw)
			if tc.wantErr {
				var ferr *format.FormatError
				if !errors.As(err, &ferr) {
					t.Fatalf("Currency(%q) err = %v, want *FormatError", tc.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Currency(%q) unexpected error: %v", tc.raw, err)
			}
			if got != tc.want {
				t.Fatalf("Currency(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestToggleOptionMembership(t *testing.T) {
	// Check A, then C, then uncheck A: exactly "C" remains.
	value := format.ToggleOption("", "A", true)
	value = format.ToggleOption(value, "C", true)
	value = format.ToggleOption(value, "A", false)
	if value != "C" {
		t.Fatalf("membership value = %q, want %q", value, "C")
	}

	// Re-checking an already checked option neither duplicates nor reorders.
	value = format.ToggleOption("A,B", "A", true)
	if value != "A,B" {
		t.Fatalf("re-check changed value: %q", value)
	}

	// Unchecking an absent option is a no-op.
	if got := format.ToggleOption("A,B", "Z", false); got != "A,B" {
		t.Fatalf("uncheck absent = %q, want A,B", got)
	}

	// Order tracks the order options were checked.
	value = ""
	for _, opt := range []string{"B", "A", "C"} {
		value = format.ToggleOption(value, opt, true)
	}
	if value != "B,A,C" {
		t.Fatalf("check order lost: %q", value)
	}
}

func TestSplitOptions(t *testing.T) {
	got := format.SplitOptions(" A, B ,,C ")
	want := []string{"A", "B", "C"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if format.SplitOptions("  ") != nil {
		t.Fatalf("blank value should yield no options")
	}
	if !format.HasOption("A,B", "B") || format.HasOption("A,B", "Z") {
		t.Fatalf("HasOption membership wrong")
	}
}

func TestEncodeFile(t *testing.T) {
	uri, preview := format.EncodeFile("passport.png", "image/png", []byte{0x89, 0x50})
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Fatalf("unexpected data URI: %q", uri)
	}
	if preview == nil {
		t.Fatalf("image selection should yield a preview handle")
	}
	if preview.URL() == "" || preview.Released() {
		t.Fatalf("fresh preview should have a URL and not be released")
	}

	preview.Release()
	preview.Release() // idempotent
	if !preview.Released() {
		t.Fatalf("preview should report released")
	}

	uri, preview = format.EncodeFile("resume.pdf", "application/pdf", []byte("%PDF"))
	if !strings.HasPrefix(uri, "data:application/pdf;base64,") {
		t.Fatalf("unexpected data URI: %q", uri)
	}
	if preview != nil {
		t.Fatalf("non-image selection should not yield a preview")
	}

	uri, _ = format.EncodeFile("blob", "", []byte{1})
	if !strings.HasPrefix(uri, "data:application/octet-stream;base64,") {
		t.Fatalf("missing MIME should default to octet-stream: %q", uri)
	}
}

func TestRichTextCommands(t *testing.T) {
	bolded, err := format.RichText("hello", format.RichTextCommand{Name: format.RichTextBold})
	if err != nil {
		t.Fatalf("bold: %v", err)
	}
	if bolded != "<strong>hello</strong>" {
		t.Fatalf("bold = %q", bolded)
	}

	// Toggling again unwraps.
	plain, err := format.RichText(bolded, format.RichTextCommand{Name: format.RichTextBold})
	if err != nil {
		t.Fatalf("bold toggle: %v", err)
	}
	if plain != "hello" {
		t.Fatalf("bold toggle = %q, want hello", plain)
	}

	italic, _ := format.RichText("x", format.RichTextCommand{Name: format.RichTextItalic})
	if italic != "<em>x</em>" {
		t.Fatalf("italic = %q", italic)
	}
	underlined, _ := format.RichText("x", format.RichTextCommand{Name: format.RichTextUnderline})
	if underlined != "<u>x</u>" {
		t.Fatalf("underline = %q", underlined)
	}

	inserted, err := format.RichText("<strong>a</strong>", format.RichTextCommand{Name: format.RichTextInsertText, Arg: "<script>x</script>"})
	if err != nil {
		t.Fatalf("insertText: %v", err)
	}
	if strings.Contains(inserted, "<script>") {
		t.Fatalf("script tag survived insert: %q", inserted)
	}
	if !strings.Contains(inserted, "<strong>a</strong>") {
		t.Fatalf("existing mark-up lost: %q", inserted)
	}

	cleared, err := format.RichText("<strong>a</strong><em>b</em>", format.RichTextCommand{Name: format.RichTextClear})
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if cleared != "ab" {
		t.Fatalf("clear = %q, want ab", cleared)
	}

	if _, err := format.RichText("x", format.RichTextCommand{Name: "outdent"}); err == nil {
		t.Fatalf("unknown command should fail")
	}
}

func TestRichTextSanitizesHostileMarkup(t *testing.T) {
	got, err := format.RichText(`<img src=x onerror=alert(1)><strong>ok</strong>`, format.RichTextCommand{Name: format.RichTextBold})
	if err != nil {
		t.Fatalf("bold: %v", err)
	}
	if strings.Contains(got, "img") || strings.Contains(got, "onerror") {
		t.Fatalf("hostile markup survived: %q", got)
	}
}

func TestApplyDispatch(t *testing.T) {
	phone := schema.Field{ID: "phone", Type: schema.FieldTypePhone, Label: "Phone"}
	got, err := format.Apply(phone, "123-456-7890")
	if err != nil {
		t.Fatalf("apply phone: %v", err)
	}
	if got != "(123) 456-7890" {
		t.Fatalf("apply phone = %q", got)
	}

	fee := schema.Field{ID: "application-fee", Type: schema.FieldTypeCurrency, Label: "Fee"}
	if _, err := format.Apply(fee, "12.3.4"); err != nil {
		var ferr *format.FormatError
		if !errors.As(err, &ferr) {
			t.Fatalf("expected *FormatError, got %T", err)
		}
		if ferr.Field != "application-fee" {
			t.Fatalf("error field = %q, want application-fee", ferr.Field)
		}
	} else {
		t.Fatalf("expected currency format error")
	}

	text := schema.Field{ID: "full-name", Type: schema.FieldTypeText, Label: "Full Name"}
	if got, _ := format.Apply(text, "  Jane Doe "); got != "  Jane Doe " {
		t.Fatalf("text should pass through unchanged, got %q", got)
	}
}

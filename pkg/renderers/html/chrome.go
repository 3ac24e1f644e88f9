package html

// ChromeClass is a typed identifier for the semantic CSS classes the embedded
// templates emit. Integrators style against these instead of markup structure.
type ChromeClass string

const (
	ClassForm    ChromeClass = "ff-form"
	ClassHeader  ChromeClass = "ff-header"
	ClassStatus  ChromeClass = "ff-status"
	ClassFields  ChromeClass = "ff-fields"
	ClassField   ChromeClass = "ff-field"
	ClassLabel   ChromeClass = "ff-label"
	ClassControl ChromeClass = "ff-control"
	ClassError   ChromeClass = "ff-error"
	ClassCaption ChromeClass = "ff-caption"
	ClassPreview ChromeClass = "ff-preview"
	ClassActions ChromeClass = "ff-actions"
	ClassInvalid ChromeClass = "ff-invalid"
	ClassFilled  ChromeClass = "ff-filled"
)

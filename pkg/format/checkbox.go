package format

import "strings"

// ToggleOption adds or removes an option from a checkbox-group membership
// value. The value is the comma-joined sequence of checked options in the
// order they were checked; membership is a set operation, so duplicates are
// impossible and unchecking removes the option wherever it sits.
func ToggleOption(current, option string, checked bool) string {
	option = strings.TrimSpace(option)
	if option == "" {
		return current
	}

	options := SplitOptions(current)
	if checked {
		if HasOption(current, option) {
			return strings.Join(options, ",")
		}
		return strings.Join(append(options, option), ",")
	}

	kept := make([]string, 0, len(options))
	for _, o := range options {
		if o != option {
			kept = append(kept, o)
		}
	}
	return strings.Join(kept, ",")
}

// SplitOptions returns the checked options inside a membership value,
// trimmed, with empty entries dropped.
func SplitOptions(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// HasOption reports whether option is currently checked in the value.
func HasOption(value, option string) bool {
	for _, o := range SplitOptions(value) {
		if o == option {
			return true
		}
	}
	return false
}

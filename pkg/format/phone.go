package format

import "fmt"

// Phone normalizes free-form phone input to the national (AAA) BBB-CCCC
// grouping, inserting groups progressively as digits become available:
// up to three digits stay bare, four to six digits render as "(AAA) BBB",
// seven to ten as "(AAA) BBB-CCCC". Digits past the tenth are dropped.
// Phone never fails and is idempotent over its own output.
func Phone(raw string) string {
	digits := make([]byte, 0, 10)
	for i := 0; i < len(raw) && len(digits) < 10; i++ {
		if c := raw[i]; c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}

	switch {
	case len(digits) == 0:
		return ""
	case len(digits) <= 3:
		return string(digits)
	case len(digits) <= 6:
		return fmt.Sprintf("(%s) %s", digits[:3], digits[3:])
	default:
		return fmt.Sprintf("(%s) %s-%s", digits[:3], digits[3:6], digits[6:])
	}
}

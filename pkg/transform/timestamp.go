package transform

import "strings"

// CanonicalTimestamp converts an ISO-8601 string without zone designator into
// the restricted form the index expects: at most three fractional digits and
// a trailing "Z". A string already ending in "Z" is treated as its unsuffixed
// form, so the function is idempotent on its own output.
func CanonicalTimestamp(s string) string {
	s = strings.TrimSuffix(s, "Z")

	if strings.Contains(s, ".") {
		parts := strings.Split(s, ".")
		if len(parts) == 2 && len(parts[1]) > 3 {
			return parts[0] + "." + parts[1][:3] + "Z"
		}
	}

	return s + "Z"
}

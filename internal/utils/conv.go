package utils

import "strconv"

// IntParam parses an integer query value. Anything unparseable comes
// back as 0 so the caller's own defaulting and clamping kick in.
func IntParam(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

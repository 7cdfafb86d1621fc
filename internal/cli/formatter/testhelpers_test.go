package formatter

import "regexp"

// ansiPattern matches ANSI escape sequences.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// stripANSI makes rendered output comparable regardless of terminal profile.
func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

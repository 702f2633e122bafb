package card

import "strings"

// Measurer returns the rendered width of s.
type Measurer func(s string) float64

// Wrap breaks message into lines no wider than maxWidth, filling each line
// greedily with whole words. A single word wider than maxWidth gets a line of
// its own rather than being split.
func Wrap(measure Measurer, message string, maxWidth float64) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(message) {
		if line == "" {
			line = word
			continue
		}
		candidate := line + " " + word
		if measure(candidate) > maxWidth {
			lines = append(lines, line)
			line = word
			continue
		}
		line = candidate
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

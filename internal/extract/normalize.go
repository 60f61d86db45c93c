package extract

import "strings"

// NormalizeLines splits text on newlines, trims every line and drops the ones
// left empty. Order is preserved.
func NormalizeLines(text string) Lines {
	raw := strings.Split(text, "\n")
	lines := make(Lines, 0, len(raw))
	for _, ln := range raw {
		if trimmed := strings.TrimSpace(ln); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

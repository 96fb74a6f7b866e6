package quiz

import (
	"regexp"
	"strings"
)

var (
	openingFence = regexp.MustCompile("^```[A-Za-z0-9_+.-]*[ \t]*\n?")
	closingFence = regexp.MustCompile("\n?[ \t]*```$")
)

// NormalizeNewlines converts CRLF and lone CR line endings to LF.
func NormalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// StripCodeFences removes a leading ```lang marker and a trailing ``` marker
// that models often wrap around their output.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(NormalizeNewlines(s))
	if strings.HasPrefix(s, "```") {
		s = openingFence.ReplaceAllString(s, "")
	}
	if strings.HasSuffix(s, "```") {
		s = closingFence.ReplaceAllString(s, "")
	}
	return strings.TrimSpace(s)
}

// FindFirstJSON returns the first balanced {...} or [...] span in s, or "".
// Brackets inside JSON strings are ignored.
func FindFirstJSON(s string) string {
	start := strings.IndexAny(s, "{[")
	if start == -1 {
		return ""
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

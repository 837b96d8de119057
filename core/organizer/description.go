package organizer

import (
	"html"
	"strings"
)

const (
	descBlockStart = `<div class="container">`
	descLabelStart = `<label>`
	descLabelEnd   = `</label>`
	descValueStart = `<p style="font-weight: 600; color: #0062cc;">`
	descValueEnd   = `</p>`
)

// TextToHTML renders `key:value` lines as profile description blocks.
// Lines are expected to have been checked with ValidDescription.
func TextToHTML(text string) string {
	var b strings.Builder
	for _, line := range strings.Split(normalizeNewlines(text), "\n") {
		idx := strings.Index(line, ":")
		if line == "" || idx < 0 {
			continue
		}
		b.WriteString(descBlockStart + "\n")
		b.WriteString("<div>" + descLabelStart + html.EscapeString(line[:idx]) + descLabelEnd + "</div>\n")
		b.WriteString("<div>" + descValueStart + html.EscapeString(line[idx+1:]) + descValueEnd + "</div>\n")
		b.WriteString("</div>\n")
	}
	return b.String()
}

// HTMLToText is the inverse of TextToHTML. Malformed blocks are skipped.
func HTMLToText(description string) string {
	blocks := strings.Split(description, descBlockStart)
	lines := make([]string, 0, len(blocks))
	for _, block := range blocks[1:] {
		key, ok := between(block, descLabelStart, descLabelEnd)
		if !ok {
			continue
		}
		value, ok := between(block, descValueStart, descValueEnd)
		if !ok {
			continue
		}
		lines = append(lines, html.UnescapeString(key)+":"+html.UnescapeString(value))
	}
	return strings.Join(lines, "\n")
}

// DefaultDescription is the description of a freshly created student.
func DefaultDescription(email string) string {
	return TextToHTML("Email:" + email)
}

func between(s, start, end string) (string, bool) {
	i := strings.Index(s, start)
	if i < 0 {
		return "", false
	}
	s = s[i+len(start):]
	j := strings.Index(s, end)
	if j < 0 {
		return "", false
	}
	return s[:j], true
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

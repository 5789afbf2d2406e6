// Package message assembles the final commit message from a rendered title
// and an optional body.
package message

import (
	"fmt"
	"strings"
)

// MaxSubjectLength is the recommended maximum length for commit subject lines.
const MaxSubjectLength = 72

// CommitMessage is a commit split into its git sections.
type CommitMessage struct {
	Title  string
	Body   string
	Footer string // trailers such as "Refs:" or "Signed-off-by:"
}

// New builds a CommitMessage from a rendered title and a free-form body.
// Trailer lines in body are moved to Footer.
func New(title, body string) *CommitMessage {
	cm := &CommitMessage{Title: strings.TrimSpace(title)}
	body = strings.ReplaceAll(body, "\r\n", "\n")
	if strings.TrimSpace(body) != "" {
		cm.parseBodyAndFooter(strings.Split(body, "\n"))
	}
	return cm
}

func (cm *CommitMessage) parseBodyAndFooter(lines []string) {
	var bodyLines, footerLines []string
	inFooter := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !inFooter && isFooterLine(trimmed) {
			inFooter = true
		}
		if inFooter {
			footerLines = append(footerLines, line)
		} else {
			bodyLines = append(bodyLines, line)
		}
	}

	cm.Body = strings.TrimSpace(strings.Join(bodyLines, "\n"))
	cm.Footer = strings.TrimSpace(strings.Join(footerLines, "\n"))
}

// isFooterLine checks if a line starts a git trailer block.
func isFooterLine(line string) bool {
	footerPrefixes := []string{
		"BREAKING CHANGE:",
		"BREAKING-CHANGE:",
		"Refs:",
		"Closes:",
		"Fixes:",
		"Resolves:",
		"See:",
		"Co-authored-by:",
		"Signed-off-by:",
		"Reviewed-by:",
		"Acked-by:",
	}

	upper := strings.ToUpper(line)
	for _, prefix := range footerPrefixes {
		if strings.HasPrefix(upper, strings.ToUpper(prefix)) {
			return true
		}
	}
	return false
}

// Format returns the message as handed to 'git commit -m'.
func (cm *CommitMessage) Format() string {
	parts := []string{cm.Title}
	if cm.Body != "" {
		parts = append(parts, "", cm.Body)
	}
	if cm.Footer != "" {
		parts = append(parts, "", cm.Footer)
	}
	return strings.Join(parts, "\n")
}

// Warnings lists style problems that do not block the commit.
func (cm *CommitMessage) Warnings() []string {
	var warnings []string
	if cm.SubjectExceedsLength() {
		warnings = append(warnings, fmt.Sprintf(
			"subject line exceeds %d characters (%d chars)", MaxSubjectLength, len([]rune(cm.Title))))
	}
	if strings.HasSuffix(cm.Title, ".") {
		warnings = append(warnings, "subject line ends with a period")
	}
	return warnings
}

// SubjectExceedsLength reports whether the title is longer than MaxSubjectLength.
func (cm *CommitMessage) SubjectExceedsLength() bool {
	return len([]rune(cm.Title)) > MaxSubjectLength
}

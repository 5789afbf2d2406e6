package git

import (
	"fmt"
	"regexp"
	"strings"

	apperrors "github.com/preguito/preguito/internal/pkg/errors"
)

var (
	hashPattern         = regexp.MustCompile(`(?i)^[a-f0-9]{4,40}$`)
	refForbiddenChars   = regexp.MustCompile(`[\x00-\x1f\x7f ~^:?*\[\\]`)
	refForbiddenPattern = regexp.MustCompile(`\.\.|\.lock(/|$)|@\{|//`)
)

// ValidateHash checks that hash looks like an abbreviated or full commit id.
func ValidateHash(hash string) error {
	if !hashPattern.MatchString(hash) {
		return apperrors.NewInvalidArgumentsError(
			fmt.Sprintf("invalid git hash: %q. Expected 4-40 hexadecimal characters", hash))
	}
	return nil
}

// ValidateRefName applies git's ref naming rules. kind names the ref in
// error messages, e.g. "branch".
func ValidateRefName(name, kind string) error {
	invalid := func(reason string) error {
		return apperrors.NewInvalidArgumentsError(fmt.Sprintf("invalid %s name: %q. %s", kind, name, reason))
	}

	switch {
	case strings.TrimSpace(name) == "":
		return apperrors.NewInvalidArgumentsError(kind + " name cannot be empty")
	case strings.HasPrefix(name, "-"):
		return invalid("Cannot start with '-'")
	case strings.HasSuffix(name, "."):
		return invalid("Cannot end with '.'")
	case strings.HasSuffix(name, "/"):
		return invalid("Cannot end with '/'")
	case refForbiddenChars.MatchString(name):
		return invalid("Contains forbidden characters")
	case refForbiddenPattern.MatchString(name):
		return invalid("Contains forbidden pattern")
	}
	return nil
}

// ValidateBranchName validates a branch name.
func ValidateBranchName(branch string) error {
	return ValidateRefName(branch, "branch")
}

// ValidateTagName validates a tag name.
func ValidateTagName(tag string) error {
	return ValidateRefName(tag, "tag")
}

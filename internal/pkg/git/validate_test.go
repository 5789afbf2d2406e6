package git

import (
	"testing"

	apperrors "github.com/preguito/preguito/internal/pkg/errors"
)

func TestValidateHash(t *testing.T) {
	tests := []struct {
		hash    string
		wantErr bool
	}{
		{"abc1234", false},
		{"ABCD", false},
		{"0123456789abcdef0123456789abcdef01234567", false},
		{"abc", true},
		{"", true},
		{"xyz1234", true},
		{"abc1234; rm -rf /", true},
		{"0123456789abcdef0123456789abcdef012345678", true},
	}

	for _, tt := range tests {
		t.Run(tt.hash, func(t *testing.T) {
			err := ValidateHash(tt.hash)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateHash(%q) error = %v, wantErr %v", tt.hash, err, tt.wantErr)
			}
			if err != nil && !apperrors.HasCode(err, apperrors.ErrInvalidArguments) {
				t.Errorf("expected ErrInvalidArguments, got %v", apperrors.CodeOf(err))
			}
		})
	}
}

func TestValidateRefName(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		wantErr bool
	}{
		{"simple", "main", false},
		{"nested", "feature/login-page", false},
		{"version", "v1.2.3", false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"leading dash", "-main", true},
		{"trailing dot", "main.", true},
		{"trailing slash", "feature/", true},
		{"space", "my branch", true},
		{"tilde", "main~1", true},
		{"caret", "main^", true},
		{"colon", "a:b", true},
		{"question", "what?", true},
		{"star", "feat*", true},
		{"bracket", "feat[1]", true},
		{"backslash", `feat\x`, true},
		{"double dot", "a..b", true},
		{"lock suffix", "main.lock", true},
		{"lock component", "a.lock/b", true},
		{"reflog syntax", "main@{1}", true},
		{"double slash", "a//b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRefName(tt.ref, "branch")
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRefName(%q) error = %v, wantErr %v", tt.ref, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTagAndBranchNames(t *testing.T) {
	if err := ValidateTagName("v2.0.0"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := ValidateTagName("bad tag")
	if err == nil {
		t.Fatal("expected error for tag with space")
	}
	appErr := apperrors.GetAppError(err)
	if appErr == nil || appErr.Message != `invalid tag name: "bad tag". Contains forbidden characters` {
		t.Errorf("unexpected error message: %v", err)
	}

	err = ValidateBranchName("")
	if err == nil || apperrors.GetAppError(err).Message != "branch name cannot be empty" {
		t.Errorf("unexpected error: %v", err)
	}
}

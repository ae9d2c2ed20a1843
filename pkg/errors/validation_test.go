package errors

import (
	"strings"
	"testing"
)

func TestValidateUserID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"numeric telegram id", "123456789", false},
		{"prefixed", "tg-42", false},
		{"underscore", "local_user", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 200), true},
		{"path traversal", "..", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"null byte", "a\x00b", true},
		{"newline", "a\nb", true},
		{"hidden", ".cache", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUserID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUserID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateUserID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateCardName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain", "bg1_gold.png", false},
		{"upper ext", "BG1_GOLD.PNG", false},
		{"double dot stem", "winter..v2_gold.png", false},
		{"dot stem", ".hidden_gold.png", false},

		{"empty", "", true},
		{"wrong ext", "bg1_gold.jpg", true},
		{"traversal", "../secret.png", true},
		{"nested", "a/b.png", true},
		{"backslash", "a\\b.png", true},
		{"parent", "..", true},
		{"null byte", "a\x00.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCardName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCardName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

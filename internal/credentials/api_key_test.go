package credentials

import (
	"strings"
	"testing"
)

func TestGenerateAPIKey(t *testing.T) {
	key, err := GenerateAPIKey()
	if err != nil {
		t.Fatalf("GenerateAPIKey() error = %v", err)
	}

	if !strings.HasPrefix(key, KeyPrefix) {
		t.Errorf("key %q missing prefix %q", key, KeyPrefix)
	}
	if !ValidAPIKeyFormat(key) {
		t.Errorf("generated key %q failed format check", key)
	}

	other, err := GenerateAPIKey()
	if err != nil {
		t.Fatalf("GenerateAPIKey() error = %v", err)
	}
	if key == other {
		t.Error("two generated keys are identical")
	}
}

func TestValidAPIKeyFormat(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want bool
	}{
		{"missing prefix", "abc123", false},
		{"prefix only", "gb_", false},
		{"wrong length", "gb_deadbeef", false},
		{"non-hex payload", "gb_" + strings.Repeat("zz", 24), false},
		{"well formed", "gb_" + strings.Repeat("ab", 24), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidAPIKeyFormat(tt.key); got != tt.want {
				t.Errorf("ValidAPIKeyFormat(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestVerifyAPIKey(t *testing.T) {
	configured := []string{
		"gb_" + strings.Repeat("ab", 24),
		"gb_" + strings.Repeat("cd", 24),
	}

	if !VerifyAPIKey(configured[1], configured) {
		t.Error("VerifyAPIKey() = false for a configured key")
	}
	if VerifyAPIKey("gb_"+strings.Repeat("ef", 24), configured) {
		t.Error("VerifyAPIKey() = true for an unknown key")
	}
	if VerifyAPIKey("", configured) {
		t.Error("VerifyAPIKey() = true for an empty key")
	}
	if VerifyAPIKey(configured[0], nil) {
		t.Error("VerifyAPIKey() = true with no configured keys")
	}
}

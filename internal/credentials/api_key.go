package credentials

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// KeyPrefix identifies GerniBide API keys at a glance in logs and configs
const KeyPrefix = "gb_"

// keyBytes of entropy per generated key
const keyBytes = 24

// GenerateAPIKey generates a new random API key with the gb_ prefix
func GenerateAPIKey() (string, error) {
	raw := make([]byte, keyBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return KeyPrefix + hex.EncodeToString(raw), nil
}

// ValidAPIKeyFormat reports whether a string looks like a generated key.
// It rejects malformed keys before any comparison work.
func ValidAPIKeyFormat(key string) bool {
	if !strings.HasPrefix(key, KeyPrefix) {
		return false
	}
	hexPart := key[len(KeyPrefix):]
	if len(hexPart) != keyBytes*2 {
		return false
	}
	_, err := hex.DecodeString(hexPart)
	return err == nil
}

// VerifyAPIKey checks a presented key against the configured set in constant
// time per comparison
func VerifyAPIKey(presented string, configured []string) bool {
	ok := false
	for _, key := range configured {
		if len(key) == len(presented) &&
			subtle.ConstantTimeCompare([]byte(key), []byte(presented)) == 1 {
			ok = true
		}
	}
	return ok
}

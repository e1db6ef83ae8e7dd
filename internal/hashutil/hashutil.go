package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashStrings returns a SHA256 hash of the provided strings with newline separators.
func HashStrings(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ScriptChecksum fingerprints a set of SQL scripts in execution order, so a
// reordered or edited input yields a different value.
func ScriptChecksum(scripts ...[]byte) string {
	parts := make([]string, len(scripts))
	for i, s := range scripts {
		parts[i] = string(s)
	}
	return HashStrings(parts...)
}

package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// InputHash fingerprints a summarization input together with the options
// that shaped it, so a manifest can be matched against a later replay.
type InputHash Hash

func (h InputHash) String() string { return Hash(h).String() }

// ComputeInputHash builds a deterministic fingerprint from the input
// description and the ordered option fields.
func ComputeInputHash(input string, fields ...string) InputHash {
	var data strings.Builder
	data.WriteString(input)
	for _, f := range fields {
		data.WriteString("|")
		data.WriteString(f)
	}
	return InputHash(NewHash([]byte(data.String())))
}

// FormatOptionField renders an option value for hashing
func FormatOptionField(name string, value interface{}) string {
	return fmt.Sprintf("%s=%v", name, value)
}

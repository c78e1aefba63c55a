package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// HashAlgorithm represents the hashing algorithm to use
type HashAlgorithm string

const (
	SHA256 HashAlgorithm = "sha256"
)

// Hasher provides hashing over strings and field sets
type Hasher struct {
	algorithm HashAlgorithm
}

// NewHasher creates a new hasher with the specified algorithm
func NewHasher(algorithm HashAlgorithm) *Hasher {
	return &Hasher{
		algorithm: algorithm,
	}
}

// DefaultHasher returns a hasher with the default algorithm
func DefaultHasher() *Hasher {
	return NewHasher(SHA256)
}

// Hash computes a hash of the input data
func (h *Hasher) Hash(data []byte) string {
	switch h.algorithm {
	case SHA256:
		hash := sha256.Sum256(data)
		return hex.EncodeToString(hash[:])
	default:
		hash := sha256.Sum256(data)
		return hex.EncodeToString(hash[:])
	}
}

// HashString computes a hash of a string
func (h *Hasher) HashString(s string) string {
	return h.Hash([]byte(s))
}

// HashFields computes a hash from multiple fields.
// Fields are sorted and joined with "|" so argument order does not matter.
func (h *Hasher) HashFields(fields ...string) string {
	sorted := make([]string, len(fields))
	copy(sorted, fields)
	sort.Strings(sorted)

	return h.HashString(strings.Join(sorted, "|"))
}

// Fingerprint derives a stable machine hash from OS identifiers.
type Fingerprint struct {
	hasher *Hasher
	salt   string
}

// NewFingerprint creates a fingerprint generator salted with the app name,
// so two applications on the same machine get unrelated hashes.
func NewFingerprint(hasher *Hasher, appName string) *Fingerprint {
	if hasher == nil {
		hasher = DefaultHasher()
	}
	return &Fingerprint{hasher: hasher, salt: appName}
}

// Generate hashes the machine id together with the OS name.
// Empty identifiers are skipped; an all-empty input still hashes the salt.
func (f *Fingerprint) Generate(goos string, ids ...string) string {
	fields := []string{"app:" + f.salt, "os:" + goos}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		fields = append(fields, "id:"+strings.ToLower(id))
	}
	return f.hasher.HashFields(fields...)
}

// Short returns the first 8 characters of a hash for display
func Short(fullHash string) string {
	if len(fullHash) < 8 {
		return fullHash
	}
	return fullHash[:8]
}

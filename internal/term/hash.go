package term

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainTerm is the domain prefix for term content hashes.
// The version suffix enables future algorithm migration.
const DomainTerm = "reql/term/v1"

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Hash computes the content-addressed identity of a term tree.
// Structurally equal trees hash identically regardless of how they were built.
func Hash(t *Term) (string, error) {
	canonical, err := EncodeCanonical(t)
	if err != nil {
		return "", fmt.Errorf("hash term: %w", err)
	}
	return hashWithDomain(DomainTerm, canonical), nil
}

// MustHash is like Hash but panics on error.
// Use only in tests or when the tree is known to be encodable.
func MustHash(t *Term) string {
	h, err := Hash(t)
	if err != nil {
		panic(err)
	}
	return h
}

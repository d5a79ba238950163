// Package commitment implements the salted hash commitment primitive:
// hash(canonicalBallot || 0x7C || salt), lowercase hex. Every
// commitment records which algorithm produced it so that verification
// replays the same function.
package commitment

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"sort"

	"golang.org/x/crypto/blake2b"
)

// Separator is inserted between the canonical ballot bytes and the
// salt before hashing. It prevents prefix ambiguity between distinct
// (value, salt) pairs.
const Separator byte = 0x7C

// HashHexLen is the length of a hex-encoded 256-bit commitment hash.
const HashHexLen = 64

const (
	AlgorithmSHA256  = "sha256"
	AlgorithmBlake2b = "blake2b"
	// DefaultAlgorithm is the legacy default.
	DefaultAlgorithm = AlgorithmSHA256
)

type hashFunc func(data []byte) [32]byte

var algorithms = map[string]hashFunc{
	AlgorithmSHA256:  sha256.Sum256,
	AlgorithmBlake2b: blake2b.Sum256,
}

// Algorithms returns the registered algorithm names, sorted.
func Algorithms() []string {
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Supported reports whether the named algorithm is registered.
func Supported(name string) bool {
	_, ok := algorithms[name]
	return ok
}

func preimage(canonical, salt []byte) []byte {
	data := make([]byte, 0, len(canonical)+1+len(salt))
	data = append(data, canonical...)
	data = append(data, Separator)
	data = append(data, salt...)
	return data
}

// Commit hashes the canonical ballot bytes with the salt using the
// default algorithm and returns the lowercase hex digest.
func Commit(canonical, salt []byte) string {
	digest, err := CommitWith(DefaultAlgorithm, canonical, salt)
	if err != nil {
		// DefaultAlgorithm is always registered.
		panic(err)
	}
	return digest
}

// CommitWith is Commit under a named algorithm.
func CommitWith(algorithm string, canonical, salt []byte) (string, error) {
	h, ok := algorithms[algorithm]
	if !ok {
		return "", fmt.Errorf("unknown commitment algorithm %q", algorithm)
	}
	sum := h(preimage(canonical, salt))
	return hex.EncodeToString(sum[:]), nil
}

// Verify recomputes the commitment for (canonical, salt) under the
// default algorithm and compares it to expected in constant time.
// Malformed or non-lowercase hex yields false.
func Verify(canonical, salt []byte, expected string) bool {
	return VerifyWith(DefaultAlgorithm, canonical, salt, expected)
}

// VerifyWith is Verify under a named algorithm.
func VerifyWith(algorithm string, canonical, salt []byte, expected string) bool {
	if !IsHashHex(expected) {
		return false
	}
	computed, err := CommitWith(algorithm, canonical, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(expected)) == 1
}

// IsHashHex reports whether s is exactly 64 characters of lowercase
// hexadecimal, the wire format for commitment hashes.
func IsHashHex(s string) bool {
	if len(s) != HashHexLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

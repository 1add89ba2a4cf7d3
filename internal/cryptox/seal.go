// Package cryptox protects locally persisted values against silent
// corruption. A sealed value is a BLAKE2b-256 digest followed by the payload;
// Open refuses any value whose digest does not match.
package cryptox

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/blake2b"
)

// ErrChecksumMismatch is returned by Open when the stored digest does not
// match the payload, or the value is too short to carry one.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// DigestSize is the length of the digest prefix added by Seal.
const DigestSize = blake2b.Size256

// Seal returns digest(payload) ‖ payload. The input is not modified.
func Seal(payload []byte) []byte {
	sum := blake2b.Sum256(payload)

	sealed := make([]byte, 0, DigestSize+len(payload))
	sealed = append(sealed, sum[:]...)
	return append(sealed, payload...)
}

// Open verifies a value produced by Seal and returns its payload.
// The returned slice aliases sealed.
func Open(sealed []byte) ([]byte, error) {
	if len(sealed) < DigestSize {
		return nil, ErrChecksumMismatch
	}
	digest, payload := sealed[:DigestSize], sealed[DigestSize:]

	sum := blake2b.Sum256(payload)
	if subtle.ConstantTimeCompare(digest, sum[:]) == 0 {
		return nil, ErrChecksumMismatch
	}
	return payload, nil
}

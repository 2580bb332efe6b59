// Package host verifies the shared PIN that the host uses to approve a
// player's progress and to unlock the admin console.
package host

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/awnumar/memguard"
)

// DefaultPINDigest is the SHA-256 digest of the stock PIN. Installations are
// expected to replace it.
const DefaultPINDigest = "ab7a9032a205045ac82ea11013ba03e55acd10c9f2e8db7fb45d92d5caf3b057"

// ErrBadDigest is returned when a configured digest is not 64 hex characters.
var ErrBadDigest = errors.New("PIN digest must be 64 hex characters")

// Authority holds the configured PIN digest sealed in a memguard enclave.
// The digest is only decrypted into locked memory for the duration of a
// comparison. Clear PINs are never retained.
type Authority struct {
	enclave *memguard.Enclave
}

// New builds an Authority from the hex form of the PIN digest.
func New(digestHex string) (*Authority, error) {
	digestHex = strings.ToLower(strings.TrimSpace(digestHex))
	if len(digestHex) != sha256.Size*2 {
		return nil, ErrBadDigest
	}
	raw, err := hex.DecodeString(digestHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDigest, err)
	}
	return &Authority{
		// NewEnclave wipes raw.
		enclave: memguard.NewEnclave(raw),
	}, nil
}

// Verify reports whether pin matches the configured digest. The compare is
// constant time.
func (a *Authority) Verify(pin string) bool {
	sum := sha256.Sum256([]byte(pin))
	defer memguard.WipeBytes(sum[:])

	buf, err := a.enclave.Open()
	if err != nil {
		return false
	}
	defer buf.Destroy()
	return buf.EqualTo(sum[:])
}

// DigestPIN returns the hex SHA-256 digest of pin, the form expected in
// configuration.
func DigestPIN(pin string) string {
	sum := sha256.Sum256([]byte(pin))
	return hex.EncodeToString(sum[:])
}

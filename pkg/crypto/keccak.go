// Package crypto holds the hashing and key primitives shared by the state and
// signature packages: Keccak-256, Ethereum personal message hashing, address
// derivation with EIP-55 checksums and a zeroing wrapper for secret bytes.
package crypto

import (
	"golang.org/x/crypto/sha3"
)

// HashLength is the size of a Keccak-256 digest
const HashLength = 32

// Keccak256 computes the legacy (pre-NIST) Keccak-256 digest of the concatenated inputs
func Keccak256(data ...[]byte) [HashLength]byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	var out [HashLength]byte
	h.Sum(out[:0])
	return out
}

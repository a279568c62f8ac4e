package crypto

import (
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// uncompressedPublicKeyLength is 0x04 || X || Y
const uncompressedPublicKeyLength = 65

// PublicKeyToAddress derives the account address from an uncompressed secp256k1
// public key: the last 20 bytes of keccak256(X || Y)
func PublicKeyToAddress(uncompressed []byte) (common.Address, error) {
	if len(uncompressed) != uncompressedPublicKeyLength || uncompressed[0] != 0x04 {
		return common.Address{}, fmt.Errorf("invalid uncompressed public key of length %d", len(uncompressed))
	}
	digest := Keccak256(uncompressed[1:])
	return common.BytesToAddress(digest[HashLength-common.AddressLength:]), nil
}

// ChecksumAddress renders addr in EIP-55 mixed case: a hex letter is upper case
// when the matching nibble of keccak256(lowercase hex) is 8 or more.
func ChecksumAddress(addr common.Address) string {
	lower := []byte(hex.EncodeToString(addr[:]))
	digest := Keccak256(lower)

	for i, c := range lower {
		if c < 'a' {
			continue
		}
		nibble := digest[i/2]
		if i%2 == 0 {
			nibble >>= 4
		}
		if nibble&0x0f >= 8 {
			lower[i] = c - 'a' + 'A'
		}
	}
	return "0x" + string(lower)
}

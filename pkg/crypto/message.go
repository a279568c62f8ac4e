package crypto

import (
	"strconv"
)

const messagePrefix = "\x19Ethereum Signed Message:\n"

// HashMessage computes the Ethereum personal message hash of msg:
// keccak256("\x19Ethereum Signed Message:\n" + len(msg) + msg)
func HashMessage(msg []byte) [HashLength]byte {
	return Keccak256([]byte(messagePrefix), []byte(strconv.Itoa(len(msg))), msg)
}

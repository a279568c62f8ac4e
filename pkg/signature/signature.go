// Package signature signs state hashes and recovers or verifies their signers
// using recoverable secp256k1 ECDSA over the Ethereum personal message hash.
package signature

import (
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/statechannels/native-utils/pkg/crypto"
	"github.com/statechannels/native-utils/pkg/types"
)

const (
	// Length is the size of a wire signature r || s || v
	Length = 65

	// recoveryIDOffset is added to the recovery id to form the wire v byte
	recoveryIDOffset = 27

	privateKeyLength = 32
)

// RecoverableSignature is an ECDSA signature plus the id needed to recover its public key
type RecoverableSignature struct {
	R          [32]byte
	S          [32]byte
	RecoveryID byte
}

// Parse decodes a 65 byte r || s || v signature with v in {27, 28}
func Parse(b []byte) (RecoverableSignature, error) {
	var sig RecoverableSignature
	if len(b) != Length {
		return sig, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSignatureLength, Length, len(b))
	}
	v := b[64]
	if v != recoveryIDOffset && v != recoveryIDOffset+1 {
		return sig, fmt.Errorf("%w: %d", ErrInvalidRecoveryID, v)
	}
	copy(sig.R[:], b[:32])
	copy(sig.S[:], b[32:64])
	sig.RecoveryID = v - recoveryIDOffset
	return sig, nil
}

// Bytes returns the 65 byte wire form
func (s RecoverableSignature) Bytes() []byte {
	out := make([]byte, Length)
	copy(out[:32], s.R[:])
	copy(out[32:64], s.S[:])
	out[64] = s.RecoveryID + recoveryIDOffset
	return out
}

// Hex returns the 0x-prefixed wire form
func (s RecoverableSignature) Hex() string {
	return hexutil.Encode(s.Bytes())
}

// compact returns the form expected by ecdsa.RecoverCompact: v || r || s
func (s RecoverableSignature) compact() []byte {
	out := make([]byte, Length)
	out[0] = s.RecoveryID + recoveryIDOffset
	copy(out[1:33], s.R[:])
	copy(out[33:], s.S[:])
	return out
}

// StateSignature pairs a signature with the raw state hash it was produced for
type StateSignature struct {
	Hash      types.Bytes32
	Signature RecoverableSignature
}

// Sign signs the personal message hash of stateHash. privateKey is consumed: it is
// zeroed before Sign returns, whether or not signing succeeded.
func Sign(stateHash types.Bytes32, privateKey []byte) (*StateSignature, error) {
	return crypto.WithSecret(privateKey, func(secret *crypto.SecretBytes) (*StateSignature, error) {
		if secret.Len() != privateKeyLength {
			return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPrivateKey, privateKeyLength, secret.Len())
		}

		var scalar secp256k1.ModNScalar
		defer scalar.Zero()
		if overflow := scalar.SetByteSlice(secret.Bytes()); overflow || scalar.IsZero() {
			return nil, fmt.Errorf("%w: scalar out of range", ErrInvalidPrivateKey)
		}

		key := secp256k1.NewPrivateKey(&scalar)
		defer key.Zero()

		digest := crypto.HashMessage(stateHash[:])
		compact := ecdsa.SignCompact(key, digest[:], false)

		recoveryID := compact[0] - recoveryIDOffset
		if recoveryID > 1 {
			return nil, fmt.Errorf("unsupported recovery id %d", recoveryID)
		}

		sig := RecoverableSignature{RecoveryID: recoveryID}
		copy(sig.R[:], compact[1:33])
		copy(sig.S[:], compact[33:65])
		normalizeS(&sig)

		return &StateSignature{Hash: stateHash, Signature: sig}, nil
	})
}

// normalizeS rewrites s as n - s when s > n/2, flipping the recovery id so the
// signature still recovers the same key
func normalizeS(sig *RecoverableSignature) {
	var s secp256k1.ModNScalar
	s.SetBytes(&sig.S)
	if !s.IsOverHalfOrder() {
		return
	}
	s.Negate()
	sig.S = s.Bytes()
	sig.RecoveryID ^= 1
}

// IsLowS reports whether s is in the lower half of the curve order
func (s RecoverableSignature) IsLowS() bool {
	var scalar secp256k1.ModNScalar
	overflow := scalar.SetBytes(&s.S)
	return overflow == 0 && !scalar.IsOverHalfOrder()
}

func recoverPublicKey(stateHash types.Bytes32, sig RecoverableSignature) (*secp256k1.PublicKey, [32]byte, error) {
	digest := crypto.HashMessage(stateHash[:])
	pub, _, err := ecdsa.RecoverCompact(sig.compact(), digest[:])
	if err != nil {
		return nil, digest, fmt.Errorf("%w: %v", ErrUnrecoverable, err)
	}
	return pub, digest, nil
}

// RecoverAddress returns the EIP-55 checksummed address of the key that signed stateHash
func RecoverAddress(stateHash types.Bytes32, sig RecoverableSignature) (string, error) {
	pub, _, err := recoverPublicKey(stateHash, sig)
	if err != nil {
		return "", err
	}
	addr, err := crypto.PublicKeyToAddress(pub.SerializeUncompressed())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnrecoverable, err)
	}
	return crypto.ChecksumAddress(addr), nil
}

// Verify reports whether sig is a valid signature of stateHash by the key it recovers to.
// Unrecoverable signatures are reported as false.
func Verify(stateHash types.Bytes32, sig RecoverableSignature) bool {
	pub, digest, err := recoverPublicKey(stateHash, sig)
	if err != nil {
		return false
	}

	var r, s secp256k1.ModNScalar
	if r.SetBytes(&sig.R) != 0 || s.SetBytes(&sig.S) != 0 {
		return false
	}
	return ecdsa.NewSignature(&r, &s).Verify(digest[:], pub)
}

// VerifySignature reports whether signature is a valid signature of stateHash made by
// address. Malformed address or signature bytes are errors; a well-formed signature
// by another key is false.
func VerifySignature(stateHash types.Bytes32, address string, signature []byte) (bool, error) {
	expected, err := types.ParseAddress(address)
	if err != nil {
		return false, err
	}
	sig, err := Parse(signature)
	if err != nil {
		return false, err
	}
	if !Verify(stateHash, sig) {
		return false, nil
	}

	recovered, err := RecoverAddress(stateHash, sig)
	if err != nil {
		return false, nil
	}
	return strings.EqualFold(recovered, crypto.ChecksumAddress(expected)), nil
}

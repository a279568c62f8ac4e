package signature

import "errors"

var (
	// ErrInvalidPrivateKey is returned when the key is not a valid secp256k1 scalar
	ErrInvalidPrivateKey = errors.New("invalid private key")

	// ErrInvalidSignatureLength is returned when a wire signature is not 65 bytes
	ErrInvalidSignatureLength = errors.New("invalid signature length")

	// ErrInvalidRecoveryID is returned when the v byte is neither 27 nor 28
	ErrInvalidRecoveryID = errors.New("invalid recovery ID")

	// ErrUnrecoverable is returned when no public key can be recovered from a signature
	ErrUnrecoverable = errors.New("invalid signature")
)

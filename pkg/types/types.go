package types

import (
	"bytes"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// MaxUint48 is the largest value representable by Uint48
const MaxUint48 = 1<<48 - 1

// Bytes is an arbitrary-length byte string. Its wire form is 0x-prefixed lowercase hex.
type Bytes []byte

// BytesFromHex decodes a hex string. The 0x prefix is optional and input is case-insensitive.
func BytesFromHex(s string) (Bytes, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty string", ErrInvalidHex)
	}
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	} else {
		s = "0x" + s[2:]
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	return Bytes(b), nil
}

// Hex returns the 0x-prefixed lowercase hex encoding
func (b Bytes) Hex() string {
	return hexutil.Encode(b)
}

// Equal reports whether both byte strings hold the same bytes
func (b Bytes) Equal(other Bytes) bool {
	return bytes.Equal(b, other)
}

// Bytes32 is a byte string of exactly 32 bytes
type Bytes32 [32]byte

// NewBytes32 copies b into a Bytes32, failing with a *LengthError unless len(b) == 32
func NewBytes32(b []byte) (Bytes32, error) {
	var out Bytes32
	if len(b) != len(out) {
		return out, &LengthError{Type: "bytes32", Expected: len(out), Got: len(b)}
	}
	copy(out[:], b)
	return out, nil
}

// Bytes32FromHex decodes a hex string holding exactly 32 bytes
func Bytes32FromHex(s string) (Bytes32, error) {
	b, err := BytesFromHex(s)
	if err != nil {
		return Bytes32{}, err
	}
	return NewBytes32(b)
}

// Hex returns the 0x-prefixed lowercase hex encoding
func (b Bytes32) Hex() string {
	return hexutil.Encode(b[:])
}

// Uint48 is an unsigned integer bounded by 2^48-1
type Uint48 uint64

// NewUint48 validates v against the 48-bit bound
func NewUint48(v uint64) (Uint48, error) {
	if v > MaxUint48 {
		return 0, &RangeError{Type: "uint48", Value: fmt.Sprintf("%d", v)}
	}
	return Uint48(v), nil
}

// Uint48FromInt64 validates a signed native integer as a Uint48
func Uint48FromInt64(v int64) (Uint48, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegative, v)
	}
	return NewUint48(uint64(v))
}

// Uint256 is an unsigned 256-bit integer value
type Uint256 struct {
	v uint256.Int
}

// NewUint256 builds a Uint256 from a native integer
func NewUint256(v uint64) Uint256 {
	var u Uint256
	u.v.SetUint64(v)
	return u
}

// Uint256FromInt64 builds a Uint256 from a signed native integer, rejecting negative values
func Uint256FromInt64(v int64) (Uint256, error) {
	if v < 0 {
		return Uint256{}, fmt.Errorf("%w: %d", ErrNegative, v)
	}
	return NewUint256(uint64(v)), nil
}

// ParseUint256 parses a decimal string or a 0x-prefixed hex string. Leading zeros are allowed.
func ParseUint256(s string) (Uint256, error) {
	var u Uint256
	if s == "" {
		return u, fmt.Errorf("%w: empty string", ErrInvalidUint256)
	}
	if s[0] == '-' {
		return u, fmt.Errorf("%w: %s", ErrNegative, s)
	}

	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		digits := strings.TrimLeft(s[2:], "0")
		if digits == "" {
			if len(s) == 2 {
				return u, fmt.Errorf("%w: %q has no digits", ErrInvalidUint256, s)
			}
			return u, nil
		}
		if len(digits) > 64 {
			return u, &RangeError{Type: "uint256", Value: s}
		}
		if err := u.v.SetFromHex("0x" + digits); err != nil {
			return Uint256{}, fmt.Errorf("%w: %q: %v", ErrInvalidUint256, s, err)
		}
		return u, nil
	}

	for _, c := range s {
		if c < '0' || c > '9' {
			return u, fmt.Errorf("%w: %q is not a decimal number", ErrInvalidUint256, s)
		}
	}
	if err := u.v.SetFromDecimal(s); err != nil {
		if err == uint256.ErrBig256Range {
			return Uint256{}, &RangeError{Type: "uint256", Value: s}
		}
		return Uint256{}, fmt.Errorf("%w: %q: %v", ErrInvalidUint256, s, err)
	}
	return u, nil
}

// Int returns a copy of the underlying integer
func (u Uint256) Int() *uint256.Int {
	return u.v.Clone()
}

// Big returns the value as a big.Int
func (u Uint256) Big() *big.Int {
	return u.v.ToBig()
}

// Bytes32 returns the big-endian 32-byte representation
func (u Uint256) Bytes32() [32]byte {
	return u.v.Bytes32()
}

// Eq reports whether both values are equal
func (u Uint256) Eq(other Uint256) bool {
	return u.v.Eq(&other.v)
}

// String returns the decimal representation
func (u Uint256) String() string {
	return u.v.Dec()
}

// ParseAddress decodes a 20-byte hex address of any casing. The 0x prefix is optional.
// Checksum casing is not enforced.
func ParseAddress(s string) (common.Address, error) {
	b, err := BytesFromHex(s)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(b) != common.AddressLength {
		return common.Address{}, fmt.Errorf("%w: %w", ErrInvalidAddress,
			&LengthError{Type: "address", Expected: common.AddressLength, Got: len(b)})
	}
	return common.BytesToAddress(b), nil
}

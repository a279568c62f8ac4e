// Package abi implements the head/tail ABI encoding used by the on-chain
// adjudicator to hash channel and state data.
//
// Values are first converted into a Token tree. The set of token kinds is
// closed: Bool, Address, Uint, FixedBytes, Bytes, Array and Tuple. Array is the
// variable-length T[] form and always carries a length word; Tuple is dynamic
// only when one of its members is.
package abi

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Kind identifies the variant held by a Token
type Kind uint8

const (
	KindBool Kind = iota
	KindAddress
	KindUint
	KindFixedBytes
	KindBytes
	KindArray
	KindTuple
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindAddress:
		return "address"
	case KindUint:
		return "uint"
	case KindFixedBytes:
		return "fixedBytes"
	case KindBytes:
		return "bytes"
	case KindArray:
		return "array"
	case KindTuple:
		return "tuple"
	default:
		return "unknown"
	}
}

// Token is one node of the token tree. Only the field matching Kind is meaningful.
type Token struct {
	Kind     Kind
	Bool     bool
	Address  common.Address
	Uint     uint256.Int
	Bytes    []byte  // FixedBytes (at most 32 bytes) and Bytes
	Children []Token // Array and Tuple
}

// Bool creates a bool token
func Bool(b bool) Token {
	return Token{Kind: KindBool, Bool: b}
}

// Address creates an address token
func Address(a common.Address) Token {
	return Token{Kind: KindAddress, Address: a}
}

// Uint creates a uint256 token
func Uint(v *uint256.Int) Token {
	t := Token{Kind: KindUint}
	t.Uint.Set(v)
	return t
}

// Uint64 creates a uint256 token from a native integer
func Uint64(v uint64) Token {
	t := Token{Kind: KindUint}
	t.Uint.SetUint64(v)
	return t
}

// FixedBytes creates a bytesN token. b must be at most 32 bytes long.
func FixedBytes(b []byte) Token {
	return Token{Kind: KindFixedBytes, Bytes: b}
}

// Bytes creates a dynamic bytes token
func Bytes(b []byte) Token {
	return Token{Kind: KindBytes, Bytes: b}
}

// Array creates a variable-length array token
func Array(elems ...Token) Token {
	return Token{Kind: KindArray, Children: elems}
}

// Tuple creates a tuple token whose members are encoded in order
func Tuple(members ...Token) Token {
	return Token{Kind: KindTuple, Children: members}
}

// Sequence converts each item with conv and wraps the results in an Array token
func Sequence[T any](items []T, conv func(T) Token) Token {
	elems := make([]Token, len(items))
	for i, item := range items {
		elems[i] = conv(item)
	}
	return Array(elems...)
}

// IsDynamic reports whether the token is encoded in the tail region
func (t Token) IsDynamic() bool {
	switch t.Kind {
	case KindBytes, KindArray:
		return true
	case KindTuple:
		for _, c := range t.Children {
			if c.IsDynamic() {
				return true
			}
		}
		return false
	default:
		return false
	}
}

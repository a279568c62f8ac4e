package abi

import (
	"github.com/holiman/uint256"
)

const wordSize = 32

// Encode serializes the tokens as a top-level argument list
func Encode(tokens ...Token) []byte {
	out := make([]byte, 0, encodedSize(tokens))
	return appendHeadTail(out, tokens)
}

// EncodeSequence converts items with conv and encodes the resulting array as a single argument
func EncodeSequence[T any](items []T, conv func(T) Token) []byte {
	return Encode(Sequence(items, conv))
}

// headSize is the number of bytes a token occupies in the head region
func headSize(t Token) int {
	if t.IsDynamic() {
		return wordSize
	}
	if t.Kind == KindTuple {
		size := 0
		for _, c := range t.Children {
			size += headSize(c)
		}
		return size
	}
	return wordSize
}

func appendHeadTail(out []byte, tokens []Token) []byte {
	headLen := 0
	for _, t := range tokens {
		headLen += headSize(t)
	}

	var tail []byte
	for _, t := range tokens {
		if t.IsDynamic() {
			out = appendUint64Word(out, uint64(headLen+len(tail)))
			tail = appendToken(tail, t)
			continue
		}
		out = appendToken(out, t)
	}
	return append(out, tail...)
}

func appendToken(out []byte, t Token) []byte {
	switch t.Kind {
	case KindBool:
		if t.Bool {
			return appendUint64Word(out, 1)
		}
		return appendUint64Word(out, 0)
	case KindAddress:
		var word [wordSize]byte
		copy(word[wordSize-len(t.Address):], t.Address[:])
		return append(out, word[:]...)
	case KindUint:
		word := t.Uint.Bytes32()
		return append(out, word[:]...)
	case KindFixedBytes:
		var word [wordSize]byte
		copy(word[:], t.Bytes)
		return append(out, word[:]...)
	case KindBytes:
		out = appendUint64Word(out, uint64(len(t.Bytes)))
		out = append(out, t.Bytes...)
		return append(out, make([]byte, padding(len(t.Bytes)))...)
	case KindArray:
		out = appendUint64Word(out, uint64(len(t.Children)))
		return appendHeadTail(out, t.Children)
	case KindTuple:
		return appendHeadTail(out, t.Children)
	default:
		return out
	}
}

func appendUint64Word(out []byte, v uint64) []byte {
	word := uint256.NewInt(v).Bytes32()
	return append(out, word[:]...)
}

func padding(n int) int {
	return (wordSize - n%wordSize) % wordSize
}

// encodedSize is a capacity hint for Encode
func encodedSize(tokens []Token) int {
	size := 0
	for _, t := range tokens {
		size += headSize(t)
		if t.IsDynamic() {
			size += tailSize(t)
		}
	}
	return size
}

func tailSize(t Token) int {
	switch t.Kind {
	case KindBytes:
		return wordSize + len(t.Bytes) + padding(len(t.Bytes))
	case KindArray:
		return wordSize + encodedSize(t.Children)
	case KindTuple:
		return encodedSize(t.Children)
	default:
		return wordSize
	}
}

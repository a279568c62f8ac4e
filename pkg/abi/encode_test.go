package abi

import (
	"bytes"
	"math/big"
	"testing"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func word(v uint64) []byte {
	w := uint256.NewInt(v).Bytes32()
	return w[:]
}

func concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

func mustType(t *testing.T, typ string, components []gethabi.ArgumentMarshaling) gethabi.Type {
	t.Helper()
	ty, err := gethabi.NewType(typ, "", components)
	require.NoError(t, err)
	return ty
}

func pack(t *testing.T, types []gethabi.Type, values ...interface{}) []byte {
	t.Helper()
	args := make(gethabi.Arguments, len(types))
	for i, ty := range types {
		args[i] = gethabi.Argument{Type: ty}
	}
	out, err := args.Pack(values...)
	require.NoError(t, err)
	return out
}

// TestEncodeStatic tests the inline layout of static values
func TestEncodeStatic(t *testing.T) {
	addr := common.HexToAddress("0x19E7E376E7C213B7E7e7e46cc70A5dD086DAff2A")
	paddedAddr := append(make([]byte, 12), addr.Bytes()...)

	fixed := FixedBytes([]byte{0xab, 0xcd})
	paddedFixed := append([]byte{0xab, 0xcd}, make([]byte, 30)...)

	tests := []struct {
		name     string
		tokens   []Token
		expected []byte
	}{
		{"bool true", []Token{Bool(true)}, word(1)},
		{"bool false", []Token{Bool(false)}, word(0)},
		{"uint", []Token{Uint64(0x0102)}, word(0x0102)},
		{"address", []Token{Address(addr)}, paddedAddr},
		{"fixed bytes right padded", []Token{fixed}, paddedFixed},
		{"static tuple inline", []Token{Tuple(Uint64(1), Bool(true))}, concat(word(1), word(1))},
		{"no tokens", nil, []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Encode(tt.tokens...))
		})
	}
}

// TestEncodeDynamic tests offsets, length words and padding of dynamic values
func TestEncodeDynamic(t *testing.T) {
	t.Run("empty bytes", func(t *testing.T) {
		assert.Equal(t, concat(word(0x20), word(0)), Encode(Bytes(nil)))
	})

	t.Run("bytes padded to word", func(t *testing.T) {
		payload := []byte{0x01, 0x02, 0x03}
		expected := concat(word(0x20), word(3), append(payload, make([]byte, 29)...))
		assert.Equal(t, expected, Encode(Bytes(payload)))
	})

	t.Run("bytes of exactly one word", func(t *testing.T) {
		payload := bytes.Repeat([]byte{0x11}, 32)
		assert.Equal(t, concat(word(0x20), word(32), payload), Encode(Bytes(payload)))
	})

	t.Run("empty array", func(t *testing.T) {
		assert.Equal(t, concat(word(0x20), word(0)), Encode(Array()))
	})

	t.Run("static then dynamic", func(t *testing.T) {
		expected := concat(word(7), word(0x40), word(1), append([]byte{0xff}, make([]byte, 31)...))
		assert.Equal(t, expected, Encode(Uint64(7), Bytes([]byte{0xff})))
	})

	t.Run("dynamic tuple goes to tail", func(t *testing.T) {
		tok := Tuple(Uint64(0), Bytes(nil))
		assert.True(t, tok.IsDynamic())
		expected := concat(word(0x20), word(0), word(0x40), word(0))
		assert.Equal(t, expected, Encode(tok))
	})
}

// TestIsDynamic tests the dynamic classification of each kind
func TestIsDynamic(t *testing.T) {
	assert.False(t, Bool(true).IsDynamic())
	assert.False(t, Uint64(1).IsDynamic())
	assert.False(t, Address(common.Address{}).IsDynamic())
	assert.False(t, FixedBytes(nil).IsDynamic())
	assert.True(t, Bytes(nil).IsDynamic())
	assert.True(t, Array().IsDynamic())
	assert.True(t, Array(Uint64(1)).IsDynamic())
	assert.False(t, Tuple(Uint64(1), Address(common.Address{})).IsDynamic())
	assert.True(t, Tuple(Uint64(1), Array()).IsDynamic())
	assert.True(t, Tuple(Tuple(Bytes(nil))).IsDynamic())
}

// TestEncodeMatchesGeth tests that the encoder agrees with go-ethereum's packer
func TestEncodeMatchesGeth(t *testing.T) {
	uint256Ty := mustType(t, "uint256", nil)
	addressTy := mustType(t, "address", nil)
	addressArrTy := mustType(t, "address[]", nil)
	bytes32Ty := mustType(t, "bytes32", nil)
	bytes32ArrTy := mustType(t, "bytes32[]", nil)
	bytesTy := mustType(t, "bytes", nil)
	boolTy := mustType(t, "bool", nil)
	itemsTy := mustType(t, "tuple[]", []gethabi.ArgumentMarshaling{
		{Name: "destination", Type: "bytes32"},
		{Name: "amount", Type: "uint256"},
	})

	p1 := common.HexToAddress("0x19E7E376E7C213B7E7e7e46cc70A5dD086DAff2A")
	p2 := common.HexToAddress("0x90F8bf6A479f320ead074411a4B0e7944Ea8c9C1")
	var d1, d2 [32]byte
	d2[0], d2[31] = 0x11, 0x22

	t.Run("channel id preimage", func(t *testing.T) {
		expected := pack(t, []gethabi.Type{uint256Ty, addressArrTy, uint256Ty},
			big.NewInt(4), []common.Address{p1, p2}, big.NewInt(9))
		got := Encode(Uint64(4), Sequence([]common.Address{p1, p2}, Address), Uint64(9))
		assert.Equal(t, hexutil.Encode(expected), hexutil.Encode(got))
	})

	t.Run("state hash preimage", func(t *testing.T) {
		expected := pack(t, []gethabi.Type{uint256Ty, boolTy, bytes32Ty, bytes32Ty, bytes32Ty},
			big.NewInt(5), true, d1, d2, d2)
		got := Encode(Uint64(5), Bool(true), FixedBytes(d1[:]), FixedBytes(d2[:]), FixedBytes(d2[:]))
		assert.Equal(t, expected, got)
	})

	t.Run("app part preimage", func(t *testing.T) {
		appData := bytes.Repeat([]byte{0xaa}, 45)
		expected := pack(t, []gethabi.Type{uint256Ty, addressTy, bytesTy}, big.NewInt(60), p2, appData)
		got := Encode(Uint64(60), Address(p2), Bytes(appData))
		assert.Equal(t, expected, got)
	})

	t.Run("destinations", func(t *testing.T) {
		expected := pack(t, []gethabi.Type{bytes32Ty, bytes32ArrTy}, d2, [][32]byte{d1, d2})
		got := Encode(FixedBytes(d2[:]), Sequence([][32]byte{d1, d2}, func(d [32]byte) Token {
			return FixedBytes(d[:])
		}))
		assert.Equal(t, expected, got)
	})

	t.Run("allocation items", func(t *testing.T) {
		type item struct {
			Destination [32]byte
			Amount      *big.Int
		}
		items := []item{
			{Destination: d1, Amount: big.NewInt(1)},
			{Destination: d2, Amount: new(big.Int).Lsh(big.NewInt(1), 200)},
		}
		expected := pack(t, []gethabi.Type{itemsTy}, items)
		got := EncodeSequence(items, func(i item) Token {
			amount, _ := uint256.FromBig(i.Amount)
			return Tuple(FixedBytes(i.Destination[:]), Uint(amount))
		})
		assert.Equal(t, expected, got)
	})

	t.Run("empty address list", func(t *testing.T) {
		expected := pack(t, []gethabi.Type{uint256Ty, addressArrTy, uint256Ty},
			big.NewInt(1), []common.Address{}, big.NewInt(2))
		got := Encode(Uint64(1), Sequence([]common.Address{}, Address), Uint64(2))
		assert.Equal(t, expected, got)
	})
}

// TestSequence tests that sequences keep item order
func TestSequence(t *testing.T) {
	tok := Sequence([]uint64{3, 1, 2}, Uint64)
	require.Equal(t, KindArray, tok.Kind)
	require.Len(t, tok.Children, 3)
	assert.Equal(t, uint64(3), tok.Children[0].Uint.Uint64())
	assert.Equal(t, uint64(2), tok.Children[2].Uint.Uint64())

	empty := Sequence[uint64](nil, Uint64)
	assert.Equal(t, concat(word(0x20), word(0)), Encode(empty))
}

func TestUintCopiesValue(t *testing.T) {
	v := uint256.NewInt(5)
	tok := Uint(v)
	v.SetUint64(6)
	assert.Equal(t, uint64(5), tok.Uint.Uint64())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "tuple", KindTuple.String())
	assert.Equal(t, "fixedBytes", KindFixedBytes.String())
	assert.Equal(t, "unknown", Kind(99).String())
}

func BenchmarkEncodeAllocation(b *testing.B) {
	items := make([]Token, 16)
	for i := range items {
		items[i] = Tuple(FixedBytes(bytes.Repeat([]byte{byte(i)}, 32)), Uint64(uint64(i)))
	}
	tok := Array(items...)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Encode(tok)
	}
}

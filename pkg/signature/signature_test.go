package signature

import (
	"bytes"
	"errors"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/statechannels/native-utils/pkg/crypto"
	"github.com/statechannels/native-utils/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKeyHex     = "0x1111111111111111111111111111111111111111111111111111111111111111"
	testKeyAddress = "0x19E7E376E7C213B7E7e7e46cc70A5dD086DAff2A"
	ganacheKeyHex  = "0x4f3edf983ac636a65a842ce7c78d9aa706d3b113bce9c46f30d7d21715b23b1d"
	ganacheAddress = "0x90F8bf6A479f320ead074411a4B0e7944Ea8c9C1"
)

// freshKey returns a new copy of the key on every call since Sign wipes its input
func freshKey(t testing.TB, s string) []byte {
	t.Helper()
	b, err := hexutil.Decode(s)
	require.NoError(t, err)
	return b
}

func mustHash(t testing.TB, s string) types.Bytes32 {
	t.Helper()
	h, err := types.Bytes32FromHex(s)
	require.NoError(t, err)
	return h
}

// TestSignGolden tests signatures of reference state hashes
func TestSignGolden(t *testing.T) {
	tests := []struct {
		name      string
		stateHash string
		expected  string
	}{
		{
			name:      "allocation state",
			stateHash: "0x6f7f55df748881ffecf962126c13ff2a6d8b25b4c109379213d88beccb57c1d0",
			expected:  "0x37dcbae28fd26e8b08c4c3c965ec043f210b46cdfa49fc57b796981904d9f5413ff720d9e5143e0dc987655142fcef71850cc01b68e43380a9d3e337aafb9cc51b",
		},
		{
			name:      "guarantee state",
			stateHash: "0x1f3026e3d30b01d7e7aa514dd5c5fa3c86b0cd48fe48f5bdc50c73c9a1ddfec9",
			expected:  "0x4d861fe514ea069c4355a586cc2d370d5e809da03fbaa8a629614225f1a3a54076a7df1a35c4cd1e2c2870edb7baf6cc679e1467f883f50a4f5e99cf22d852081b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash := mustHash(t, tt.stateHash)
			signed, err := Sign(hash, freshKey(t, testKeyHex))
			require.NoError(t, err)

			assert.Equal(t, hash, signed.Hash)
			assert.Equal(t, tt.expected, signed.Signature.Hex())

			addr, err := RecoverAddress(hash, signed.Signature)
			require.NoError(t, err)
			assert.Equal(t, testKeyAddress, addr)
			assert.True(t, Verify(hash, signed.Signature))
		})
	}
}

// TestSignMatchesGeth tests that signatures equal go-ethereum's over the same digest
func TestSignMatchesGeth(t *testing.T) {
	for i := byte(0); i < 16; i++ {
		hash := types.Bytes32(crypto.Keccak256([]byte{i}))
		keyBytes := crypto.Keccak256([]byte("key"), []byte{i})

		ethKey, err := ethcrypto.ToECDSA(keyBytes[:])
		require.NoError(t, err)
		digest := crypto.HashMessage(hash[:])
		expected, err := ethcrypto.Sign(digest[:], ethKey)
		require.NoError(t, err)

		signed, err := Sign(hash, bytes.Clone(keyBytes[:]))
		require.NoError(t, err)

		got := signed.Signature.Bytes()
		assert.Equal(t, expected[:64], got[:64])
		assert.Equal(t, expected[64]+27, got[64])

		addr, err := RecoverAddress(hash, signed.Signature)
		require.NoError(t, err)
		assert.Equal(t, ethcrypto.PubkeyToAddress(ethKey.PublicKey).Hex(), addr)
	}
}

// TestSignZeroesKey tests that the key buffer is wiped on success and on failure
func TestSignZeroesKey(t *testing.T) {
	hash := types.Bytes32{1}

	t.Run("success", func(t *testing.T) {
		key := freshKey(t, ganacheKeyHex)
		_, err := Sign(hash, key)
		require.NoError(t, err)
		assert.Equal(t, make([]byte, 32), key)
	})

	t.Run("out of range key", func(t *testing.T) {
		key := bytes.Repeat([]byte{0xff}, 32)
		_, err := Sign(hash, key)
		require.ErrorIs(t, err, ErrInvalidPrivateKey)
		assert.Equal(t, make([]byte, 32), key)
	})

	t.Run("wrong length key", func(t *testing.T) {
		key := bytes.Repeat([]byte{0x11}, 31)
		_, err := Sign(hash, key)
		require.ErrorIs(t, err, ErrInvalidPrivateKey)
		assert.Equal(t, make([]byte, 31), key)
	})
}

// TestSignRejectsInvalidKeys tests scalar validation
func TestSignRejectsInvalidKeys(t *testing.T) {
	order := secp256k1.S256().N.Bytes()

	tests := []struct {
		name string
		key  []byte
	}{
		{"empty", nil},
		{"short", make([]byte, 16)},
		{"long", make([]byte, 33)},
		{"zero", make([]byte, 32)},
		{"curve order", order},
		{"all ones", bytes.Repeat([]byte{0xff}, 32)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Sign(types.Bytes32{}, bytes.Clone(tt.key))
			assert.ErrorIs(t, err, ErrInvalidPrivateKey)
		})
	}
}

// TestSignProducesLowS tests canonical s over many digests
func TestSignProducesLowS(t *testing.T) {
	for i := 0; i < 64; i++ {
		hash := types.Bytes32(crypto.Keccak256([]byte{byte(i), 0x42}))
		signed, err := Sign(hash, freshKey(t, ganacheKeyHex))
		require.NoError(t, err)
		assert.True(t, signed.Signature.IsLowS())
		assert.LessOrEqual(t, signed.Signature.RecoveryID, byte(1))
	}
}

// TestHighSStillVerifies tests that the malleated form of a signature verifies and
// recovers the same signer
func TestHighSStillVerifies(t *testing.T) {
	hash := mustHash(t, "0x6f7f55df748881ffecf962126c13ff2a6d8b25b4c109379213d88beccb57c1d0")
	signed, err := Sign(hash, freshKey(t, testKeyHex))
	require.NoError(t, err)

	high := signed.Signature
	var s secp256k1.ModNScalar
	s.SetBytes(&high.S)
	s.Negate()
	high.S = s.Bytes()
	high.RecoveryID ^= 1

	assert.False(t, high.IsLowS())
	assert.True(t, Verify(hash, high))

	addr, err := RecoverAddress(hash, high)
	require.NoError(t, err)
	assert.Equal(t, testKeyAddress, addr)
}

// TestParse tests decoding of wire signatures
func TestParse(t *testing.T) {
	valid := make([]byte, 65)
	valid[0] = 0xaa
	valid[63] = 0xbb

	t.Run("round trip", func(t *testing.T) {
		for _, v := range []byte{27, 28} {
			b := bytes.Clone(valid)
			b[64] = v
			sig, err := Parse(b)
			require.NoError(t, err)
			assert.Equal(t, v-27, sig.RecoveryID)
			assert.Equal(t, byte(0xaa), sig.R[0])
			assert.Equal(t, byte(0xbb), sig.S[31])
			assert.Equal(t, b, sig.Bytes())
		}
	})

	t.Run("bad length", func(t *testing.T) {
		for _, n := range []int{0, 1, 64, 66} {
			b := make([]byte, n)
			if n > 0 {
				b[n-1] = 27
			}
			_, err := Parse(b)
			assert.ErrorIs(t, err, ErrInvalidSignatureLength, "length %d", n)
		}
	})

	t.Run("bad recovery id", func(t *testing.T) {
		for _, v := range []byte{0, 1, 26, 29, 35, 255} {
			b := bytes.Clone(valid)
			b[64] = v
			_, err := Parse(b)
			assert.ErrorIs(t, err, ErrInvalidRecoveryID, "v %d", v)
		}
	})
}

// TestRecoverAddressFailures tests signatures that no key can have produced
func TestRecoverAddressFailures(t *testing.T) {
	hash := types.Bytes32{7}

	zero := RecoverableSignature{}
	_, err := RecoverAddress(hash, zero)
	assert.ErrorIs(t, err, ErrUnrecoverable)
	assert.False(t, Verify(hash, zero))

	overflow := RecoverableSignature{}
	for i := range overflow.R {
		overflow.R[i] = 0xff
		overflow.S[i] = 0xff
	}
	_, err = RecoverAddress(hash, overflow)
	assert.True(t, errors.Is(err, ErrUnrecoverable))
	assert.False(t, Verify(hash, overflow))
}

// TestVerifyWrongHash tests that a signature over a different hash recovers another signer
func TestVerifyWrongHash(t *testing.T) {
	hash := types.Bytes32{1}
	signed, err := Sign(hash, freshKey(t, testKeyHex))
	require.NoError(t, err)

	other := types.Bytes32{2}
	addr, err := RecoverAddress(other, signed.Signature)
	if err == nil {
		assert.NotEqual(t, testKeyAddress, addr)
	}

	ok, err := VerifySignature(other, testKeyAddress, signed.Signature.Bytes())
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestVerifySignature tests verification against an expected address
func TestVerifySignature(t *testing.T) {
	hash := mustHash(t, "0x1f3026e3d30b01d7e7aa514dd5c5fa3c86b0cd48fe48f5bdc50c73c9a1ddfec9")
	signed, err := Sign(hash, freshKey(t, testKeyHex))
	require.NoError(t, err)
	sig := signed.Signature.Bytes()

	tests := []struct {
		name     string
		address  string
		sig      []byte
		expected bool
		err      error
	}{
		{"checksummed signer", testKeyAddress, sig, true, nil},
		{"lowercase signer", "0x19e7e376e7c213b7e7e7e46cc70a5dd086daff2a", sig, true, nil},
		{"other address", ganacheAddress, sig, false, nil},
		{"malformed address", "0x1234", sig, false, types.ErrInvalidAddress},
		{"short signature", testKeyAddress, sig[:64], false, ErrInvalidSignatureLength},
		{"bad v", testKeyAddress, append(bytes.Clone(sig[:64]), 0x01), false, ErrInvalidRecoveryID},
		{"zero signature", testKeyAddress, append(make([]byte, 64), 27), false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := VerifySignature(hash, tt.address, tt.sig)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
		})
	}
}

func BenchmarkSign(b *testing.B) {
	hash := types.Bytes32{1}
	key, err := hexutil.Decode(testKeyHex)
	require.NoError(b, err)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Sign(hash, bytes.Clone(key))
	}
}

func BenchmarkRecoverAddress(b *testing.B) {
	hash := types.Bytes32{1}
	signed, err := Sign(hash, freshKey(b, testKeyHex))
	require.NoError(b, err)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = RecoverAddress(hash, signed.Signature)
	}
}

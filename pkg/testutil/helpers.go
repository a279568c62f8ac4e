package testutil

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/statechannels/native-utils/pkg/crypto"
	"github.com/statechannels/native-utils/pkg/wire"
)

// Participant is a channel participant with a known signing key
type Participant struct {
	PrivateKey string
	Address    string
}

var (
	// Alice and Bob are the participants used by the reference fixtures
	Alice = Participant{
		PrivateKey: "0x8da4ef21b864d2cc526dbdb2a120bd2874c36c9d0a1fb7f8c63d7f7a8b41de8f",
		Address:    "0x63FaC9201494f0bd17B9892B9fae4d52fe3BD377",
	}
	Bob = Participant{
		PrivateKey: "0x4f3edf983ac636a65a842ce7c78d9aa706d3b113bce9c46f30d7d21715b23b1d",
		Address:    "0x90F8bf6A479f320ead074411a4B0e7944Ea8c9C1",
	}
)

const (
	ZeroAddress = "0x0000000000000000000000000000000000000000"
	ZeroBytes32 = "0x0000000000000000000000000000000000000000000000000000000000000000"
)

// CreateTestParticipants derives n participants from fixed seeds, so repeated runs see the same addresses
func CreateTestParticipants(t *testing.T, n int) []Participant {
	participants := make([]Participant, n)
	for i := 0; i < n; i++ {
		seed := crypto.Keccak256([]byte(fmt.Sprintf("participant-%d", i)))
		key := secp256k1.PrivKeyFromBytes(seed[:])

		addr, err := crypto.PublicKeyToAddress(key.PubKey().SerializeUncompressed())
		if err != nil {
			if t != nil {
				t.Fatalf("Failed to derive address for participant %d: %v", i, err)
			}
			return nil
		}
		participants[i] = Participant{
			PrivateKey: "0x" + hex.EncodeToString(seed[:]),
			Address:    crypto.ChecksumAddress(addr),
		}
	}
	return participants
}

// CreateTestChannel creates a channel on chain 1 with the given participants
func CreateTestChannel(participants []Participant, nonce uint64) wire.Channel {
	addresses := make([]string, len(participants))
	for i, p := range participants {
		addresses[i] = p.Address
	}
	return wire.Channel{
		ChainID:      "1",
		ChannelNonce: wire.Uint256(strconv.FormatUint(nonce, 10)),
		Participants: addresses,
	}
}

// CreateTestState creates a non-final state allocating amount to the zero destination
func CreateTestState(channel wire.Channel, turnNum uint64, amount string) *wire.State {
	return &wire.State{
		TurnNum: json.Number(strconv.FormatUint(turnNum, 10)),
		Channel: channel,

		ChallengeDuration: "60",
		Outcome: []wire.AssetOutcome{{
			AssetHolderAddress: ZeroAddress,
			AllocationItems:    []wire.AllocationItem{{Destination: ZeroBytes32, Amount: wire.Uint256(amount)}},
		}},
		AppDefinition: ZeroAddress,
		AppData:       "0x",
	}
}

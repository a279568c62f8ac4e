package state

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/statechannels/native-utils/pkg/abi"
	"github.com/statechannels/native-utils/pkg/crypto"
	"github.com/statechannels/native-utils/pkg/types"
)

// State is one versioned snapshot of a channel
type State struct {
	TurnNum           types.Uint48
	IsFinal           bool
	Channel           Channel
	ChallengeDuration types.Uint48
	Outcome           Outcome
	AppDefinition     common.Address
	AppData           types.Bytes
}

// HashAppPart returns keccak256(encode(challengeDuration, appDefinition, appData))
func (s *State) HashAppPart() types.Bytes32 {
	return crypto.Keccak256(abi.Encode(
		abi.Uint64(uint64(s.ChallengeDuration)),
		abi.Address(s.AppDefinition),
		abi.Bytes(s.AppData),
	))
}

// Hash returns the state hash that participants sign
func (s *State) Hash() types.Bytes32 {
	channelID := s.Channel.ID()
	appPart := s.HashAppPart()
	outcomeHash := s.Outcome.Hash()

	return crypto.Keccak256(abi.Encode(
		abi.Uint64(uint64(s.TurnNum)),
		abi.Bool(s.IsFinal),
		abi.FixedBytes(channelID[:]),
		abi.FixedBytes(appPart[:]),
		abi.FixedBytes(outcomeHash[:]),
	))
}

// Mover returns the participant whose turn follows this state, or false for a channel
// without participants
func (s *State) Mover() (common.Address, bool) {
	n := uint64(len(s.Channel.Participants))
	if n == 0 {
		return common.Address{}, false
	}
	return s.Channel.Participants[uint64(s.TurnNum)%n], true
}

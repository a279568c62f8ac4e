// Package state models Nitro channels, outcomes and states and computes the
// hashes the adjudicator contract derives from them.
package state

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/statechannels/native-utils/pkg/abi"
	"github.com/statechannels/native-utils/pkg/crypto"
	"github.com/statechannels/native-utils/pkg/types"
)

// Channel is the fixed identity of a state channel
type Channel struct {
	ChainID      types.Uint256
	ChannelNonce types.Uint256
	Participants []common.Address
}

// ID returns keccak256(encode(chainId, participants, channelNonce))
func (c *Channel) ID() types.Bytes32 {
	return crypto.Keccak256(abi.Encode(
		abi.Uint(c.ChainID.Int()),
		abi.Sequence(c.Participants, abi.Address),
		abi.Uint(c.ChannelNonce.Int()),
	))
}

// SameIdentity reports whether both channels share chainId and channelNonce
func (c *Channel) SameIdentity(other *Channel) bool {
	return c.ChainID.Eq(other.ChainID) && c.ChannelNonce.Eq(other.ChannelNonce)
}

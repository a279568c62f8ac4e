// Package nitro exposes the channel utilities as operations over wire values:
// hex strings in, hex strings and typed errors out.
package nitro

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/statechannels/native-utils/pkg/crypto"
	"github.com/statechannels/native-utils/pkg/signature"
	"github.com/statechannels/native-utils/pkg/transition"
	"github.com/statechannels/native-utils/pkg/wire"
	"go.uber.org/zap"
)

// ErrSignerMismatch is returned when a peer update is not signed by the participant
// whose turn it was
var ErrSignerMismatch = errors.New("signature verification failed")

// Utils binds the channel hashing, signing and transition operations to their
// JSON wire forms. It holds no protocol state and is safe for concurrent use.
type Utils struct {
	logger *zap.Logger
}

// NewUtils creates a Utils that logs through l. A nil logger discards output.
func NewUtils(l *zap.Logger) *Utils {
	if l == nil {
		l = zap.NewNop()
	}
	return &Utils{logger: l}
}

// GetChannelId returns the channel id as hex
func (u *Utils) GetChannelId(c *wire.Channel) (string, error) {
	channel, err := wire.ToChannel(c)
	if err != nil {
		return "", err
	}
	return channel.ID().Hex(), nil
}

// EncodeOutcome returns the ABI encoding of the state's outcome
func (u *Utils) EncodeOutcome(s *wire.State) (string, error) {
	st, err := wire.ToState(s, "state")
	if err != nil {
		return "", err
	}
	return hexutil.Encode(st.Outcome.Encode()), nil
}

// HashAppPart returns the hash of challengeDuration, appDefinition and appData
func (u *Utils) HashAppPart(s *wire.State) (string, error) {
	st, err := wire.ToState(s, "state")
	if err != nil {
		return "", err
	}
	return st.HashAppPart().Hex(), nil
}

// HashOutcome returns the outcome hash
func (u *Utils) HashOutcome(s *wire.State) (string, error) {
	st, err := wire.ToState(s, "state")
	if err != nil {
		return "", err
	}
	return st.Outcome.Hash().Hex(), nil
}

// HashState returns the state hash
func (u *Utils) HashState(s *wire.State) (string, error) {
	st, err := wire.ToState(s, "state")
	if err != nil {
		return "", err
	}
	return st.Hash().Hex(), nil
}

// HashMessage returns the Ethereum personal message hash of the hex encoded message
func (u *Utils) HashMessage(message string) (string, error) {
	msg, err := wire.ToBytes(message, "message")
	if err != nil {
		return "", err
	}
	digest := crypto.HashMessage(msg)
	return hexutil.Encode(digest[:]), nil
}

// SignState hashes and signs the state. The decoded key bytes are wiped after use.
func (u *Utils) SignState(s *wire.State, privateKey string) (*wire.StateSignature, error) {
	st, err := wire.ToState(s, "state")
	if err != nil {
		return nil, err
	}
	key, err := wire.ToBytes(privateKey, "privateKey")
	if err != nil {
		// the message of a hex error may echo key material
		return nil, fmt.Errorf("%w: privateKey is not valid hex", signature.ErrInvalidPrivateKey)
	}

	signed, err := signature.Sign(st.Hash(), key)
	if err != nil {
		return nil, err
	}
	u.logger.Sugar().Debugw("Signed state", "turnNum", st.TurnNum, "hash", signed.Hash.Hex())
	return wire.FromStateSignature(signed), nil
}

// RecoverAddress returns the checksummed address that signed the state
func (u *Utils) RecoverAddress(s *wire.State, sig string) (string, error) {
	st, err := wire.ToState(s, "state")
	if err != nil {
		return "", err
	}
	parsed, err := wire.ToSignature(sig, "signature")
	if err != nil {
		return "", err
	}
	return signature.RecoverAddress(st.Hash(), parsed)
}

// VerifySignature reports whether sig over hash was produced by address
func (u *Utils) VerifySignature(hash, address, sig string) (bool, error) {
	h, err := wire.ToBytes32(hash, "hash")
	if err != nil {
		return false, err
	}
	addr, err := wire.ToAddress(address, "address")
	if err != nil {
		return false, err
	}
	sigBytes, err := wire.ToBytes(sig, "signature")
	if err != nil {
		return false, err
	}
	return signature.VerifySignature(h, addr.Hex(), sigBytes)
}

// RequireValidTransition applies the protocol transition rules to a pair of states
func (u *Utils) RequireValidTransition(from, to *wire.State) (transition.Status, error) {
	fromState, err := wire.ToState(from, "from")
	if err != nil {
		return 0, err
	}
	toState, err := wire.ToState(to, "to")
	if err != nil {
		return 0, err
	}

	status, err := transition.RequireValidTransition(fromState, toState)
	if err != nil {
		u.logger.Sugar().Debugw("Rejected transition", "from", fromState.TurnNum, "to", toState.TurnNum, "error", err)
		return 0, err
	}
	return status, nil
}

// ValidatePeerUpdate checks a state received from a peer: the transition from the
// current state must be valid and the update must be signed by the participant
// whose turn follows the current state.
func (u *Utils) ValidatePeerUpdate(from, to *wire.State, sig string) (transition.Status, error) {
	fromState, err := wire.ToState(from, "from")
	if err != nil {
		return 0, err
	}
	toState, err := wire.ToState(to, "to")
	if err != nil {
		return 0, err
	}
	parsed, err := wire.ToSignature(sig, "signature")
	if err != nil {
		return 0, err
	}

	status, err := transition.RequireValidTransition(fromState, toState)
	if err != nil {
		u.logger.Sugar().Debugw("Rejected peer update", "from", fromState.TurnNum, "to", toState.TurnNum, "error", err)
		return 0, err
	}

	mover, ok := fromState.Mover()
	if !ok {
		return 0, fmt.Errorf("%w: channel has no participants", ErrSignerMismatch)
	}
	signer, err := signature.RecoverAddress(toState.Hash(), parsed)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSignerMismatch, err)
	}
	if !strings.EqualFold(signer, mover.Hex()) {
		u.logger.Sugar().Debugw("Peer update signed by wrong participant", "expected", mover.Hex(), "signer", signer)
		return 0, fmt.Errorf("%w: expected %s, got %s", ErrSignerMismatch, mover.Hex(), signer)
	}
	return status, nil
}

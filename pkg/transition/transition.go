// Package transition decides whether one channel state may legally follow another.
package transition

import (
	"errors"

	"github.com/statechannels/native-utils/pkg/state"
)

// Status is the result of a transition that broke no protocol rule
type Status int

const (
	// StatusValid means the transition is legal without further checks
	StatusValid Status = iota
	// StatusNeedsAppValidation means the protocol rules hold but the application
	// rules of the channel must still be checked
	StatusNeedsAppValidation
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "Valid"
	case StatusNeedsAppValidation:
		return "NeedsAppValidation"
	default:
		return "Unknown"
	}
}

// Rules broken by an invalid transition, usable with errors.Is
var (
	ErrTurnNumMustIncrement   = errors.New("turnNum must increment by one")
	ErrChannelIdentityChanged = errors.New("channel identity changed")
	ErrImmutableFieldChanged  = errors.New("immutable field changed")
	ErrOutcomeChangeForbidden = errors.New("Outcome change forbidden")
	ErrIsFinalRetrograde      = errors.New("transition from a final state to a non-final state")
	ErrAppDataChangeForbidden = errors.New("appData change forbidden")
)

// Violation names the rule broken by a transition and the field that broke it
type Violation struct {
	Rule  error
	Field string
}

func (v *Violation) Error() string {
	if v.Field != "" && (v.Rule == ErrChannelIdentityChanged || v.Rule == ErrImmutableFieldChanged) {
		return v.Field + " must not change"
	}
	return v.Rule.Error()
}

func (v *Violation) Is(target error) bool {
	return v.Rule == target
}

func (v *Violation) Unwrap() error {
	return v.Rule
}

// Name returns the short name of the broken rule
func (v *Violation) Name() string {
	switch v.Rule {
	case ErrTurnNumMustIncrement:
		return "TurnNumMustIncrement"
	case ErrChannelIdentityChanged:
		return "ChannelIdentityChanged"
	case ErrImmutableFieldChanged:
		return "ImmutableFieldChanged"
	case ErrOutcomeChangeForbidden:
		return "OutcomeChangeForbidden"
	case ErrIsFinalRetrograde:
		return "IsFinalRetrograde"
	case ErrAppDataChangeForbidden:
		return "AppDataChangeForbidden"
	default:
		return "Unknown"
	}
}

func violation(rule error, field string) *Violation {
	return &Violation{Rule: rule, Field: field}
}

// RequireValidTransition checks the protocol rules for moving from one state to the
// next. Rules are applied in a fixed order and the first broken one is returned as a
// *Violation. Neither state is modified.
func RequireValidTransition(from, to *state.State) (Status, error) {
	if uint64(to.TurnNum) != uint64(from.TurnNum)+1 {
		return 0, violation(ErrTurnNumMustIncrement, "turnNum")
	}
	if !from.Channel.ChainID.Eq(to.Channel.ChainID) {
		return 0, violation(ErrChannelIdentityChanged, "chainId")
	}
	if !from.Channel.ChannelNonce.Eq(to.Channel.ChannelNonce) {
		return 0, violation(ErrChannelIdentityChanged, "channelNonce")
	}
	if from.AppDefinition != to.AppDefinition {
		return 0, violation(ErrImmutableFieldChanged, "appDefinition")
	}
	if from.ChallengeDuration != to.ChallengeDuration {
		return 0, violation(ErrImmutableFieldChanged, "challengeDuration")
	}

	if to.IsFinal {
		if !from.Outcome.Equal(to.Outcome) {
			return 0, violation(ErrOutcomeChangeForbidden, "outcome")
		}
		return StatusValid, nil
	}

	if from.IsFinal {
		return 0, violation(ErrIsFinalRetrograde, "isFinal")
	}

	// every participant signs twice before the setup phase is over
	if uint64(to.TurnNum) < 2*uint64(len(to.Channel.Participants)) {
		if !from.Outcome.Equal(to.Outcome) {
			return 0, violation(ErrOutcomeChangeForbidden, "outcome")
		}
		if !from.AppData.Equal(to.AppData) {
			return 0, violation(ErrAppDataChangeForbidden, "appData")
		}
		return StatusValid, nil
	}

	return StatusNeedsAppValidation, nil
}

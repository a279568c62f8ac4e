package state

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/statechannels/native-utils/pkg/abi"
	"github.com/statechannels/native-utils/pkg/crypto"
	"github.com/statechannels/native-utils/pkg/types"
)

// OutcomeType tags the variant of an AssetOutcome. The values are part of the encoding.
type OutcomeType uint8

const (
	OutcomeTypeAllocation OutcomeType = 0
	OutcomeTypeGuarantee  OutcomeType = 1
)

func (t OutcomeType) String() string {
	switch t {
	case OutcomeTypeAllocation:
		return "allocation"
	case OutcomeTypeGuarantee:
		return "guarantee"
	default:
		return "unknown"
	}
}

// AllocationItem pays amount to destination
type AllocationItem struct {
	Destination types.Bytes32
	Amount      types.Uint256
}

// Token converts the item to Tuple(destination, amount)
func (a AllocationItem) Token() abi.Token {
	return abi.Tuple(abi.FixedBytes(a.Destination[:]), abi.Uint(a.Amount.Int()))
}

// Guarantee redirects the funds of a target channel to an ordered list of destinations
type Guarantee struct {
	TargetChannelID types.Bytes32
	Destinations    []types.Bytes32
}

// Token converts the guarantee to Tuple(targetChannelId, destinations)
func (g Guarantee) Token() abi.Token {
	return abi.Tuple(
		abi.FixedBytes(g.TargetChannelID[:]),
		abi.Sequence(g.Destinations, func(d types.Bytes32) abi.Token {
			return abi.FixedBytes(d[:])
		}),
	)
}

// AssetOutcome describes how the funds of one asset holder are distributed.
// Exactly one of Allocation and Guarantee is meaningful, selected by Type.
type AssetOutcome struct {
	AssetHolderAddress common.Address
	Type               OutcomeType
	Allocation         []AllocationItem
	Guarantee          Guarantee
}

// NewAllocationOutcome builds an allocation asset outcome
func NewAllocationOutcome(assetHolder common.Address, items []AllocationItem) AssetOutcome {
	return AssetOutcome{AssetHolderAddress: assetHolder, Type: OutcomeTypeAllocation, Allocation: items}
}

// NewGuaranteeOutcome builds a guarantee asset outcome
func NewGuaranteeOutcome(assetHolder common.Address, guarantee Guarantee) AssetOutcome {
	return AssetOutcome{AssetHolderAddress: assetHolder, Type: OutcomeTypeGuarantee, Guarantee: guarantee}
}

// Token converts the asset outcome to the nested form the asset holder contracts decode:
// Tuple(holder, Bytes(encode(Tuple(type, Bytes(encode(payload))))))
func (o AssetOutcome) Token() abi.Token {
	var payload []byte
	switch o.Type {
	case OutcomeTypeGuarantee:
		payload = abi.Encode(o.Guarantee.Token())
	default:
		payload = abi.EncodeSequence(o.Allocation, AllocationItem.Token)
	}

	labelled := abi.Encode(abi.Tuple(abi.Uint64(uint64(o.Type)), abi.Bytes(payload)))
	return abi.Tuple(abi.Address(o.AssetHolderAddress), abi.Bytes(labelled))
}

// Outcome is the ordered list of asset outcomes of a state
type Outcome []AssetOutcome

// Token converts the outcome to an Array of asset outcome tuples
func (o Outcome) Token() abi.Token {
	return abi.Sequence(o, AssetOutcome.Token)
}

// Encode returns the ABI encoding of the outcome
func (o Outcome) Encode() []byte {
	return abi.Encode(o.Token())
}

// Hash returns keccak256(encode(Bytes(encode(outcome))))
func (o Outcome) Hash() types.Bytes32 {
	return crypto.Keccak256(abi.Encode(abi.Bytes(o.Encode())))
}

// Equal compares outcomes by their canonical encoding
func (o Outcome) Equal(other Outcome) bool {
	return bytes.Equal(o.Encode(), other.Encode())
}

// Package wire converts the camelCase JSON representation of channels, states and
// signatures into validated domain values. Validation failures are collected per
// field and reported together.
package wire

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/statechannels/native-utils/pkg/state"
	"github.com/statechannels/native-utils/pkg/types"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

type Channel struct {
	ChainID      Uint256  `json:"chainId"`
	ChannelNonce Uint256  `json:"channelNonce"`
	Participants []string `json:"participants"`
}

type AllocationItem struct {
	Destination string  `json:"destination"`
	Amount      Uint256 `json:"amount"`
}

type Guarantee struct {
	TargetChannelID string   `json:"targetChannelId"`
	Destinations    []string `json:"destinations"`
}

// AssetOutcome carries either allocationItems or guarantee. Asset is accepted as an
// alias of AssetHolderAddress.
type AssetOutcome struct {
	AssetHolderAddress string           `json:"assetHolderAddress,omitempty"`
	Asset              string           `json:"asset,omitempty"`
	AllocationItems    []AllocationItem `json:"allocationItems,omitempty"`
	Guarantee          *Guarantee       `json:"guarantee,omitempty"`
}

type State struct {
	TurnNum           Uint48         `json:"turnNum"`
	IsFinal           bool           `json:"isFinal"`
	Channel           Channel        `json:"channel"`
	ChallengeDuration Uint48         `json:"challengeDuration"`
	Outcome           []AssetOutcome `json:"outcome"`
	AppDefinition     string         `json:"appDefinition"`
	AppData           string         `json:"appData"`
}

func parseAddress(s string, path *field.Path) (common.Address, *field.Error) {
	if s == "" {
		return common.Address{}, field.Required(path, "")
	}
	addr, err := types.ParseAddress(s)
	if err != nil {
		return common.Address{}, field.Invalid(path, s, err.Error())
	}
	return addr, nil
}

func (c *Channel) toDomain(path *field.Path) (state.Channel, field.ErrorList) {
	var allErrors field.ErrorList
	var out state.Channel

	var ferr *field.Error
	if out.ChainID, ferr = c.ChainID.parse(path.Child("chainId")); ferr != nil {
		allErrors = append(allErrors, ferr)
	}
	if out.ChannelNonce, ferr = c.ChannelNonce.parse(path.Child("channelNonce")); ferr != nil {
		allErrors = append(allErrors, ferr)
	}

	out.Participants = make([]common.Address, len(c.Participants))
	for i, p := range c.Participants {
		if out.Participants[i], ferr = parseAddress(p, path.Child("participants").Index(i)); ferr != nil {
			allErrors = append(allErrors, ferr)
		}
	}
	return out, allErrors
}

func (a *AssetOutcome) toDomain(path *field.Path) (state.AssetOutcome, field.ErrorList) {
	var allErrors field.ErrorList

	holderText, holderPath := a.AssetHolderAddress, path.Child("assetHolderAddress")
	if holderText == "" && a.Asset != "" {
		holderText, holderPath = a.Asset, path.Child("asset")
	}
	holder, ferr := parseAddress(holderText, holderPath)
	if ferr != nil {
		allErrors = append(allErrors, ferr)
	} else if a.AssetHolderAddress != "" && a.Asset != "" {
		// the alias may differ in case only
		alias, aerr := parseAddress(a.Asset, path.Child("asset"))
		switch {
		case aerr != nil:
			allErrors = append(allErrors, aerr)
		case alias != holder:
			allErrors = append(allErrors, field.Invalid(path.Child("asset"), a.Asset, "conflicts with assetHolderAddress"))
		}
	}

	switch {
	case a.AllocationItems != nil && a.Guarantee != nil:
		allErrors = append(allErrors, field.Invalid(path, "allocationItems,guarantee", "exactly one of allocationItems or guarantee must be set"))
		return state.AssetOutcome{}, allErrors
	case a.Guarantee != nil:
		g, errs := a.Guarantee.toDomain(path.Child("guarantee"))
		allErrors = append(allErrors, errs...)
		return state.NewGuaranteeOutcome(holder, g), allErrors
	case a.AllocationItems != nil:
		items := make([]state.AllocationItem, len(a.AllocationItems))
		for i := range a.AllocationItems {
			itemPath := path.Child("allocationItems").Index(i)
			item := &a.AllocationItems[i]
			if items[i].Destination, ferr = parseBytes32(item.Destination, itemPath.Child("destination")); ferr != nil {
				allErrors = append(allErrors, ferr)
			}
			if items[i].Amount, ferr = item.Amount.parse(itemPath.Child("amount")); ferr != nil {
				allErrors = append(allErrors, ferr)
			}
		}
		return state.NewAllocationOutcome(holder, items), allErrors
	default:
		allErrors = append(allErrors, field.Required(path.Child("allocationItems"), "one of allocationItems or guarantee is required"))
		return state.AssetOutcome{}, allErrors
	}
}

func (g *Guarantee) toDomain(path *field.Path) (state.Guarantee, field.ErrorList) {
	var allErrors field.ErrorList
	var out state.Guarantee

	var ferr *field.Error
	if out.TargetChannelID, ferr = parseBytes32(g.TargetChannelID, path.Child("targetChannelId")); ferr != nil {
		allErrors = append(allErrors, ferr)
	}
	out.Destinations = make([]types.Bytes32, len(g.Destinations))
	for i, d := range g.Destinations {
		if out.Destinations[i], ferr = parseBytes32(d, path.Child("destinations").Index(i)); ferr != nil {
			allErrors = append(allErrors, ferr)
		}
	}
	return out, allErrors
}

func (s *State) toDomain(path *field.Path) (*state.State, field.ErrorList) {
	var allErrors field.ErrorList
	out := &state.State{IsFinal: s.IsFinal}

	var ferr *field.Error
	if out.TurnNum, ferr = parseUint48(s.TurnNum, path.Child("turnNum")); ferr != nil {
		allErrors = append(allErrors, ferr)
	}
	if out.ChallengeDuration, ferr = parseUint48(s.ChallengeDuration, path.Child("challengeDuration")); ferr != nil {
		allErrors = append(allErrors, ferr)
	}

	var errs field.ErrorList
	out.Channel, errs = s.Channel.toDomain(path.Child("channel"))
	allErrors = append(allErrors, errs...)

	out.Outcome = make(state.Outcome, len(s.Outcome))
	for i := range s.Outcome {
		out.Outcome[i], errs = s.Outcome[i].toDomain(path.Child("outcome").Index(i))
		allErrors = append(allErrors, errs...)
	}

	if out.AppDefinition, ferr = parseAddress(s.AppDefinition, path.Child("appDefinition")); ferr != nil {
		allErrors = append(allErrors, ferr)
	}
	if out.AppData, ferr = parseBytes(s.AppData, path.Child("appData")); ferr != nil {
		allErrors = append(allErrors, ferr)
	}
	return out, allErrors
}

// ToChannel validates c, reporting errors under the "channel" path
func ToChannel(c *Channel) (*state.Channel, error) {
	out, errs := c.toDomain(field.NewPath("channel"))
	if len(errs) > 0 {
		return nil, newInputError(errs)
	}
	return &out, nil
}

// ToState validates s, reporting errors under name
func ToState(s *State, name string) (*state.State, error) {
	out, errs := s.toDomain(field.NewPath(name))
	if len(errs) > 0 {
		return nil, newInputError(errs)
	}
	return out, nil
}

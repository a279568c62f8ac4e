package wire

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/statechannels/native-utils/pkg/types"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Uint256 holds the text of a uint256 as received: a decimal string, a 0x hex
// string or a bare JSON integer
type Uint256 string

func (u *Uint256) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*u = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*u = Uint256(s)
	default:
		*u = Uint256(b)
	}
	return nil
}

func (u Uint256) parse(path *field.Path) (types.Uint256, *field.Error) {
	if u == "" {
		return types.Uint256{}, field.Required(path, "")
	}
	v, err := types.ParseUint256(string(u))
	if err != nil {
		return types.Uint256{}, field.Invalid(path, string(u), err.Error())
	}
	return v, nil
}

// Uint48 holds a JSON integer bounded by 2^48-1
type Uint48 = json.Number

func parseUint48(n Uint48, path *field.Path) (types.Uint48, *field.Error) {
	s := n.String()
	if s == "" {
		return 0, field.Required(path, "")
	}
	if strings.HasPrefix(s, "-") {
		return 0, field.Invalid(path, s, types.ErrNegative.Error())
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, field.Invalid(path, s, "must be a non-negative integer below 2^48")
	}
	u, err := types.NewUint48(v)
	if err != nil {
		return 0, field.Invalid(path, s, err.Error())
	}
	return u, nil
}

func parseBytes32(s string, path *field.Path) (types.Bytes32, *field.Error) {
	if s == "" {
		return types.Bytes32{}, field.Required(path, "")
	}
	b, err := types.Bytes32FromHex(s)
	if err != nil {
		return types.Bytes32{}, field.Invalid(path, s, err.Error())
	}
	return b, nil
}

func parseBytes(s string, path *field.Path) (types.Bytes, *field.Error) {
	if s == "" {
		return nil, field.Required(path, "")
	}
	b, err := types.BytesFromHex(s)
	if err != nil {
		return nil, field.Invalid(path, s, err.Error())
	}
	return b, nil
}

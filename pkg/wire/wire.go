package wire

import (
	"encoding/json"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/statechannels/native-utils/pkg/signature"
	"github.com/statechannels/native-utils/pkg/types"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Decode reads a single JSON document from r into v
func Decode(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		inputErr := newInputError(field.ErrorList{field.Invalid(field.NewPath("body"), "", errors.Wrap(err, "failed to parse JSON").Error())})
		inputErr.cause = err
		return inputErr
	}
	return nil
}

// ToBytes decodes a hex field
func ToBytes(s string, name string) (types.Bytes, error) {
	b, ferr := parseBytes(s, field.NewPath(name))
	if ferr != nil {
		return nil, newInputError(field.ErrorList{ferr})
	}
	return b, nil
}

// ToBytes32 decodes a 32 byte hex field
func ToBytes32(s string, name string) (types.Bytes32, error) {
	b, ferr := parseBytes32(s, field.NewPath(name))
	if ferr != nil {
		return types.Bytes32{}, newInputError(field.ErrorList{ferr})
	}
	return b, nil
}

// ToAddress decodes a 20 byte address field
func ToAddress(s string, name string) (common.Address, error) {
	addr, ferr := parseAddress(s, field.NewPath(name))
	if ferr != nil {
		return common.Address{}, newInputError(field.ErrorList{ferr})
	}
	return addr, nil
}

// ToSignature decodes a 65 byte r || s || v hex signature. Length and recovery id
// failures keep their signature package sentinel.
func ToSignature(s string, name string) (signature.RecoverableSignature, error) {
	b, err := ToBytes(s, name)
	if err != nil {
		return signature.RecoverableSignature{}, err
	}
	sig, err := signature.Parse(b)
	if err != nil {
		return signature.RecoverableSignature{}, errors.Wrapf(err, "%s", name)
	}
	return sig, nil
}

// StateSignature is the wire form of a signed state hash
type StateSignature struct {
	Hash      string `json:"hash"`
	Signature string `json:"signature"`
}

// FromStateSignature renders a signature result
func FromStateSignature(s *signature.StateSignature) *StateSignature {
	return &StateSignature{
		Hash:      s.Hash.Hex(),
		Signature: s.Signature.Hex(),
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/statechannels/native-utils/pkg/nitro"
	"github.com/statechannels/native-utils/pkg/wire"
	"github.com/urfave/cli/v2"
)

// openInput opens a file path, or stdin for "-"
func openInput(c *cli.Context, path string) (io.ReadCloser, error) {
	if path == "" {
		return nil, fmt.Errorf("input path is required")
	}
	if path == "-" {
		return io.NopCloser(c.App.Reader), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}

func readJSON(c *cli.Context, path string, v interface{}) error {
	r, err := openInput(c, path)
	if err != nil {
		return err
	}
	defer r.Close()
	return wire.Decode(r, v)
}

func readState(c *cli.Context, path string) (*wire.State, error) {
	var s wire.State
	if err := readJSON(c, path, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func writeResult(c *cli.Context, v interface{}) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func channelIDCommand(c *cli.Context) error {
	u, done, err := newUtils(c)
	if err != nil {
		return err
	}
	defer done()

	var channel wire.Channel
	if err := readJSON(c, c.Args().First(), &channel); err != nil {
		return err
	}
	id, err := u.GetChannelId(&channel)
	if err != nil {
		return err
	}
	return writeResult(c, map[string]string{"result": id})
}

func stateCommand(op func(u *nitro.Utils, s *wire.State) (string, error)) cli.ActionFunc {
	return func(c *cli.Context) error {
		u, done, err := newUtils(c)
		if err != nil {
			return err
		}
		defer done()

		s, err := readState(c, c.Args().First())
		if err != nil {
			return err
		}
		result, err := op(u, s)
		if err != nil {
			return err
		}
		return writeResult(c, map[string]string{"result": result})
	}
}

func hashMessageCommand(c *cli.Context) error {
	u, done, err := newUtils(c)
	if err != nil {
		return err
	}
	defer done()

	hash, err := u.HashMessage(c.Args().First())
	if err != nil {
		return err
	}
	return writeResult(c, map[string]string{"result": hash})
}

func signStateCommand(c *cli.Context) error {
	u, done, err := newUtils(c)
	if err != nil {
		return err
	}
	defer done()

	s, err := readState(c, c.Args().First())
	if err != nil {
		return err
	}
	signed, err := u.SignState(s, c.String("private-key"))
	if err != nil {
		return err
	}
	return writeResult(c, signed)
}

func recoverAddressCommand(c *cli.Context) error {
	u, done, err := newUtils(c)
	if err != nil {
		return err
	}
	defer done()

	s, err := readState(c, c.Args().First())
	if err != nil {
		return err
	}
	addr, err := u.RecoverAddress(s, c.String("signature"))
	if err != nil {
		return err
	}
	return writeResult(c, map[string]string{"result": addr})
}

func verifySignatureCommand(c *cli.Context) error {
	u, done, err := newUtils(c)
	if err != nil {
		return err
	}
	defer done()

	ok, err := u.VerifySignature(c.String("hash"), c.String("address"), c.String("signature"))
	if err != nil {
		return err
	}
	return writeResult(c, map[string]bool{"valid": ok})
}

func validateTransitionCommand(c *cli.Context) error {
	u, done, err := newUtils(c)
	if err != nil {
		return err
	}
	defer done()

	if c.String("from") == "-" && c.String("to") == "-" {
		return fmt.Errorf("only one of --from and --to can read stdin")
	}
	from, err := readState(c, c.String("from"))
	if err != nil {
		return err
	}
	to, err := readState(c, c.String("to"))
	if err != nil {
		return err
	}

	validate := func() (fmt.Stringer, error) { return u.RequireValidTransition(from, to) }
	if sig := c.String("signature"); sig != "" {
		validate = func() (fmt.Stringer, error) { return u.ValidatePeerUpdate(from, to, sig) }
	}
	status, err := validate()
	if err != nil {
		return err
	}
	return writeResult(c, map[string]string{"status": status.String()})
}

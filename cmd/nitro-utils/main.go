package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/statechannels/native-utils/pkg/config"
	"github.com/statechannels/native-utils/pkg/logger"
	"github.com/statechannels/native-utils/pkg/nitro"
	"github.com/statechannels/native-utils/pkg/server"
	"github.com/statechannels/native-utils/pkg/wire"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "nitro-utils",
		Usage: "Nitro state channel hashing, signing and transition validation",
		Description: `Computes the channel ids, outcome encodings and state hashes the Nitro
adjudicator derives on chain, signs and recovers state signatures and checks
whether one state may follow another.

Every operation is available as a subcommand reading JSON from a file or
stdin ("-"), and over HTTP through the serve command.`,
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "Enable verbose logging",
				EnvVars: []string{config.EnvVerbose},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Serve the operations as JSON over HTTP",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Value:   config.DefaultPort,
						Usage:   "HTTP server port",
						EnvVars: []string{config.EnvPort},
					},
					&cli.Float64Flag{
						Name:    "rate-limit",
						Value:   config.DefaultRateLimit,
						Usage:   "Sustained requests per second, 0 disables rate limiting",
						EnvVars: []string{config.EnvRateLimit},
					},
					&cli.IntFlag{
						Name:    "rate-burst",
						Value:   config.DefaultRateBurst,
						Usage:   "Maximum burst of requests",
						EnvVars: []string{config.EnvRateBurst},
					},
					&cli.BoolFlag{
						Name:    "enable-signing",
						Usage:   "Expose POST /state/sign, which accepts private keys",
						EnvVars: []string{config.EnvEnableSigning},
					},
				},
				Action: runServer,
			},
			{
				Name:      "channel-id",
				Usage:     "Compute the id of a channel",
				ArgsUsage: "<channel.json|->",
				Action:    channelIDCommand,
			},
			{
				Name:      "encode-outcome",
				Usage:     "ABI encode the outcome of a state",
				ArgsUsage: "<state.json|->",
				Action:    stateCommand(func(u *nitro.Utils, s *wire.State) (string, error) { return u.EncodeOutcome(s) }),
			},
			{
				Name:      "hash-app-part",
				Usage:     "Hash the challenge duration, app definition and app data of a state",
				ArgsUsage: "<state.json|->",
				Action:    stateCommand(func(u *nitro.Utils, s *wire.State) (string, error) { return u.HashAppPart(s) }),
			},
			{
				Name:      "hash-outcome",
				Usage:     "Hash the outcome of a state",
				ArgsUsage: "<state.json|->",
				Action:    stateCommand(func(u *nitro.Utils, s *wire.State) (string, error) { return u.HashOutcome(s) }),
			},
			{
				Name:      "hash-state",
				Usage:     "Compute the hash participants sign for a state",
				ArgsUsage: "<state.json|->",
				Action:    stateCommand(func(u *nitro.Utils, s *wire.State) (string, error) { return u.HashState(s) }),
			},
			{
				Name:      "hash-message",
				Usage:     "Compute the Ethereum personal message hash of hex data",
				ArgsUsage: "<0x-hex>",
				Action:    hashMessageCommand,
			},
			{
				Name:      "sign-state",
				Usage:     "Sign the hash of a state",
				ArgsUsage: "<state.json|->",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "private-key",
						Usage:    "secp256k1 private key (hex)",
						EnvVars:  []string{config.EnvPrivateKey},
						Required: true,
					},
				},
				Action: signStateCommand,
			},
			{
				Name:      "recover-address",
				Usage:     "Recover the address that signed a state",
				ArgsUsage: "<state.json|->",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "signature",
						Usage:    "65 byte signature (hex)",
						Required: true,
					},
				},
				Action: recoverAddressCommand,
			},
			{
				Name:  "verify-signature",
				Usage: "Check that a signature over a state hash was made by an address",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "hash", Usage: "state hash (hex)", Required: true},
					&cli.StringFlag{Name: "address", Usage: "expected signer", Required: true},
					&cli.StringFlag{Name: "signature", Usage: "65 byte signature (hex)", Required: true},
				},
				Action: verifySignatureCommand,
			},
			{
				Name:  "validate-transition",
				Usage: "Check whether one state may follow another",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Usage: "current state (file or -)", Required: true},
					&cli.StringFlag{Name: "to", Usage: "next state (file or -)", Required: true},
					&cli.StringFlag{Name: "signature", Usage: "signature of the next state; also checks it was made by the participant whose turn it was"},
				},
				Action: validateTransitionCommand,
			},
		},
	}
}

func newUtils(c *cli.Context) (*nitro.Utils, func(), error) {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: c.Bool("verbose")})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return nitro.NewUtils(l), func() { _ = l.Sync() }, nil
}

func runServer(c *cli.Context) error {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: c.Bool("verbose")})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	cfg := &config.ServerConfig{
		Port:          c.Int("port"),
		RateLimit:     c.Float64("rate-limit"),
		RateBurst:     c.Int("rate-burst"),
		EnableSigning: c.Bool("enable-signing"),
		Verbose:       c.Bool("verbose"),
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.EnableSigning {
		l.Sugar().Warnw("Signing endpoint enabled, private keys will be accepted over HTTP")
	}

	srv := server.NewServer(cfg, nitro.NewUtils(l), l)
	if err := srv.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	l.Sugar().Infow("nitro-utils server running", "port", cfg.Port, "rate_limit", cfg.RateLimit, "signing", cfg.EnableSigning)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	l.Sugar().Infow("Shutting down")
	return srv.Stop()
}

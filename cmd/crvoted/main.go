// crvoted is the commit-reveal voting service daemon. It exposes the
// HTTP API backed by a pebble or in-memory key-value store.
package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/urfave/cli/v2"
	"github.com/vocdoni/arbo/memdb"
	"github.com/vocdoni/commit-reveal/engine"
	"github.com/vocdoni/commit-reveal/log"
	"github.com/vocdoni/commit-reveal/service"
	"github.com/vocdoni/commit-reveal/storage"
	"github.com/vocdoni/commit-reveal/template"
	"github.com/vocdoni/commit-reveal/util"
	"github.com/vocdoni/commit-reveal/verifier"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/metadb"
)

var (
	hostFlag = &cli.StringFlag{
		Name:    "host",
		Value:   "0.0.0.0",
		Usage:   "Network interface to bind the API server to",
		EnvVars: []string{"HOST"},
	}
	portFlag = &cli.IntFlag{
		Name:    "port",
		Value:   8080,
		Usage:   "Port to bind the API server to",
		EnvVars: []string{"PORT"},
	}
	databaseURLFlag = &cli.StringFlag{
		Name:    "database-url",
		Value:   "pebble://./crvoted-data",
		Usage:   "Database location, pebble://<path> or memory://",
		EnvVars: []string{"DATABASE_URL"},
	}
	logLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Value:   log.LogLevelInfo,
		Usage:   "Log level (debug, info, warn, error)",
		EnvVars: []string{"LOG_LEVEL"},
	}
	logFormatFlag = &cli.StringFlag{
		Name:    "log-format",
		Value:   log.FormatText,
		Usage:   "Log format (text or json)",
		EnvVars: []string{"LOG_FORMAT"},
	}
	signerKeyFlag = &cli.StringFlag{
		Name:    "signer-key",
		Usage:   "Hex encoded secp256k1 private key used to sign verification reports",
		EnvVars: []string{"SIGNER_KEY"},
	}
)

func main() {
	app := &cli.App{
		Name:  "crvoted",
		Usage: "commit-reveal voting service",
		Flags: []cli.Flag{
			hostFlag,
			portFlag,
			databaseURLFlag,
			logLevelFlag,
			logFormatFlag,
			signerKeyFlag,
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDatabase parses the database URL and opens the matching backend.
func openDatabase(rawURL string) (db.Database, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid database URL %q: %w", rawURL, err)
	}
	switch u.Scheme {
	case "memory":
		return memdb.New(), nil
	case "pebble":
		dir := u.Host + u.Path
		if dir == "" {
			return nil, fmt.Errorf("pebble database URL needs a path")
		}
		database, err := metadb.New(db.TypePebble, dir)
		if err != nil {
			return nil, fmt.Errorf("could not open pebble database at %s: %w", dir, err)
		}
		return database, nil
	default:
		return nil, fmt.Errorf("unsupported database scheme %q", u.Scheme)
	}
}

func run(cliCtx *cli.Context) error {
	log.Init(cliCtx.String(logLevelFlag.Name), cliCtx.String(logFormatFlag.Name), "stdout")

	database, err := openDatabase(cliCtx.String(databaseURLFlag.Name))
	if err != nil {
		return err
	}
	store := storage.New(database)

	registry := template.DefaultRegistry()
	eng := engine.New(store, registry)

	var verifierOpts []verifier.Option
	if rawKey := cliCtx.String(signerKeyFlag.Name); rawKey != "" {
		key, err := ethcrypto.HexToECDSA(util.TrimHex(rawKey))
		if err != nil {
			return fmt.Errorf("invalid signer key: %w", err)
		}
		verifierOpts = append(verifierOpts, verifier.WithSigningKey(key))
		log.Infow("report signing enabled", "signer", ethcrypto.PubkeyToAddress(key.PublicKey).Hex())
	}
	vf := verifier.New(store, registry, verifierOpts...)

	ctx := context.Background()
	apiService := service.NewAPI(eng, vf, cliCtx.String(hostFlag.Name), cliCtx.Int(portFlag.Name))
	if err := apiService.Start(ctx); err != nil {
		return err
	}
	log.Infow("service started",
		"host", cliCtx.String(hostFlag.Name),
		"port", cliCtx.Int(portFlag.Name),
		"database", cliCtx.String(databaseURLFlag.Name),
		"templates", registry.IDs())

	// Wait for the termination signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Infow("received signal, shutting down", "signal", sig.String())
	apiService.Stop()
	return nil
}

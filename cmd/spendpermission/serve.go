package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	spendpermission "github.com/base-spend-permission/go"
	"github.com/base-spend-permission/go/config"
	sphttp "github.com/base-spend-permission/go/http"
	"github.com/base-spend-permission/go/internal/logger"
)

var serveFlags struct {
	listen string
}

var serveCmd = &cli.Command{
	Name:   "serve",
	Usage:  "serve the spend permission UI",
	Action: runServeCmd,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:        "listen",
			Usage:       "address to listen on, overrides LISTEN_ADDR",
			Destination: &serveFlags.listen,
		},
	},
}

func runServeCmd(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sdk := newServeSDK(ctx, cfg, c.Bool(devWalletFlag.Name))
	defer sdk.Close()

	client, err := newClient(cfg, sdk,
		spendpermission.WithAfterCreateHook(spendpermission.HandoffHook(os.Stdout)),
	)
	if err != nil {
		return err
	}

	addr := cfg.ListenAddr
	if serveFlags.listen != "" {
		addr = serveFlags.listen
	}

	logger.Info("starting spend permission server",
		zap.String("addr", addr),
		zap.String("network", cfg.Network),
		zap.String("spender", cfg.Spender),
		zap.String("token", cfg.Token),
	)

	page := sphttp.DefaultPageConfig()
	page.TokenDecimals = cfg.TokenDecimals

	server := sphttp.NewServer(client,
		sphttp.WithPageConfig(page),
		sphttp.WithServerLogger(logger.Named("http")),
	)
	return server.ListenAndServe(ctx, addr)
}

// newServeSDK keeps the server up when the wallet SDK cannot be set up.
// The error is logged once and the page reports not_initialized on every action.
func newServeSDK(ctx context.Context, cfg *config.Config, devWallet bool) *spendpermission.SDK {
	sdk, err := newSDK(ctx, cfg, devWallet, nil)
	if err != nil {
		logger.Error("failed to initialize wallet sdk; actions will report not_initialized",
			zap.String("provider", cfg.ProviderURL),
			zap.Error(err),
		)
		return nil
	}
	return sdk
}

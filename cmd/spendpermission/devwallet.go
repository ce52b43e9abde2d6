package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/base-spend-permission/go/internal/logger"
)

var devWalletFlags struct {
	listen string
}

var devWalletCmd = &cli.Command{
	Name:        "dev-wallet",
	Usage:       "serve a local key wallet over JSON-RPC",
	Description: "dev-wallet exposes wallet_connect, eth_requestAccounts and eth_signTypedData_v4 for the key in DEV_WALLET_PRIVATE_KEY (or a random key). Point WALLET_PROVIDER_URL at it.",
	Action:      runDevWalletCmd,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:        "listen",
			Usage:       "address to listen on",
			Value:       "127.0.0.1:8545",
			Destination: &devWalletFlags.listen,
		},
	},
}

func runDevWalletCmd(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	wallet, err := newDevWallet(cfg, nil)
	if err != nil {
		return err
	}
	rpcServer, err := wallet.NewServer()
	if err != nil {
		return err
	}
	defer rpcServer.Stop()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              devWalletFlags.listen,
		Handler:           rpcServer,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("dev wallet listening",
			zap.String("addr", devWalletFlags.listen),
			zap.String("address", wallet.Address()),
			zap.Int64s("chainIds", cfg.ChainIDs()),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

package main

import (
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/base-spend-permission/go/internal/logger"
)

func main() {
	app := &cli.App{
		Name:  "spendpermission",
		Usage: "create and sign Spend Permission Manager permissions for a backend wallet",
		Description: `spendpermission connects a wallet, builds a SpendPermission for the
   configured backend wallet and token, and asks the wallet to sign it with
   eth_signTypedData_v4. The signed permission is printed so it can be pasted
   into the backend approve and spend scripts.

   CONFIGURATION

   Settings are read from the environment and from a .env file in the
   working directory. BACKEND_WALLET_ADDRESS and REWARDS_CONTRACT_ADDRESS are
   required; the VITE_ prefixed names are accepted as well.

   WALLET_PROVIDER_URL points at the wallet's JSON-RPC endpoint. When
   DEV_WALLET_PRIVATE_KEY is set (or --dev-wallet is passed) a local key
   wallet is used in-process instead.
`,
		Flags: []cli.Flag{
			&devWalletFlag,
		},
		Commands: []*cli.Command{
			serveCmd,
			createCmd,
			devWalletCmd,
		},
	}

	err := app.Run(os.Args)
	_ = logger.Sync()
	if err != nil {
		logger.Log.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	spendpermission "github.com/base-spend-permission/go"
	sphttp "github.com/base-spend-permission/go/http"
	"github.com/base-spend-permission/go/internal/logger"
	evmsigners "github.com/base-spend-permission/go/signers/evm"
)

var createFlags struct {
	allowance string
	yes       bool
}

var createCmd = &cli.Command{
	Name:        "create",
	Usage:       "connect, create and sign one spend permission, then print it",
	Description: "create runs the whole flow once from the terminal and prints the block to paste into the backend scripts.",
	Action:      runCreateCmd,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:        "allowance",
			Usage:       "allowance per period in whole tokens",
			Value:       sphttp.DefaultAllowance,
			Destination: &createFlags.allowance,
		},
		&cli.BoolFlag{
			Name:        "yes",
			Aliases:     []string{"y"},
			Usage:       "approve dev wallet prompts without asking",
			Destination: &createFlags.yes,
		},
	},
}

func runCreateCmd(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var approve evmsigners.Approver
	if !createFlags.yes {
		approve = promptApprover(bufio.NewReader(os.Stdin))
	}

	sdk, err := newSDK(c.Context, cfg, c.Bool(devWalletFlag.Name), approve)
	if err != nil {
		return err
	}
	defer sdk.Close()

	client, err := newClient(cfg, sdk)
	if err != nil {
		return err
	}

	account, err := client.Connect(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Connected: %s\n", account.Short())

	signed, err := client.CreatePermission(c.Context, createFlags.allowance)
	if err != nil {
		return err
	}
	logger.Info("permission signed")

	return spendpermission.WriteHandoff(c.App.Writer, *signed)
}

// promptApprover asks on the terminal before the dev wallet answers a request.
func promptApprover(in *bufio.Reader) evmsigners.Approver {
	return func(_ context.Context, method string) error {
		fmt.Fprintf(os.Stderr, "Approve %s? [y/N] ", method)
		line, err := in.ReadString('\n')
		if err != nil {
			return fmt.Errorf("request %s rejected: %w", method, err)
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return nil
		}
		return fmt.Errorf("user rejected the request")
	}
}

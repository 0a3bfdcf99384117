package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func connectCmd() *cobra.Command {
	var t transport
	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Ask the wallet for its account and a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := t.open(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if !t.viaHTTP && t.listen == "" && wire.Config.Redirect.Listen == "" {
				fmt.Println("Paste the redirect URL here once the wallet returns.")
			}
			res, err := svc.Connect(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Connected.\nWallet: %s\n", res.WalletPublicKey)
			return nil
		},
	}
	t.bind(cmd.Flags())
	return cmd
}

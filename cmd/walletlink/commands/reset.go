package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func resetCmd() *cobra.Command {
	var keepKey bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Forget the wallet session and delete the dapp keypair",
		Long: "Forget the wallet session and delete the dapp keypair. The wallet " +
			"will treat the next connect as a new dapp.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.Sessions.Clear(); err != nil {
				return err
			}
			if keepKey {
				fmt.Println("Session cleared.")
				return nil
			}
			if err := wire.KeyPairs.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Session cleared and keypair deleted.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&keepKey, "keep-key", false, "only forget the session")
	return cmd
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"walletlink/internal/crypto"
	"walletlink/internal/domain"
)

// handle: apply a redirect URL the OS launched us with.
func handleCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "handle <redirect-url>",
		Short: "Apply a wallet redirect URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op := domain.OpConnect
			switch kind {
			case "connect":
			case "sign", string(domain.OpSignTransaction):
				op = domain.OpSignTransaction
			default:
				return fmt.Errorf("--kind must be connect or sign")
			}

			svc := wire.Wallet(nil, nil, nil)
			snap, err := svc.Handle(cmd.Context(), op, args[0])
			if err != nil {
				return err
			}
			switch {
			case snap.Connect != nil:
				fmt.Printf("Connected.\nWallet: %s\n", snap.Connect.WalletPublicKey)
			case snap.Signed != nil:
				fmt.Printf("Signed (%d bytes):\n%s\n", len(snap.Signed), crypto.B64(snap.Signed))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "connect", "connect or sign")
	return cmd
}

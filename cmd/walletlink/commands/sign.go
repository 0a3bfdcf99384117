package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"walletlink/internal/chain"
	"walletlink/internal/crypto"
)

func signCmd() *cobra.Command {
	var (
		t      transport
		submit bool
		opaque bool
	)
	cmd := &cobra.Command{
		Use:   "sign <payload-file>",
		Short: "Have the wallet sign a transaction",
		Long: "Have the wallet sign the transaction in <payload-file> (base64 text or raw " +
			"wire bytes). Requires a prior connect.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := t.open(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			signed, err := svc.Sign(cmd.Context(), chain.FileSource{Path: args[0], AllowOpaque: opaque})
			if err != nil {
				return err
			}
			fmt.Printf("Signed (%d bytes):\n%s\n", len(signed), crypto.B64(signed))

			if !submit {
				return nil
			}
			id, err := svc.Submit(cmd.Context(), signed)
			if err != nil {
				return err
			}
			fmt.Printf("Submitted: %s\n", id)
			return nil
		},
	}
	t.bind(cmd.Flags())
	cmd.Flags().BoolVar(&submit, "submit", false, "send the signed transaction to solana.rpc_url")
	cmd.Flags().BoolVar(&opaque, "opaque", false, "accept payloads that are not Solana transactions")
	return cmd
}

package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"walletlink/internal/crypto"
	"walletlink/internal/services/keypair"
)

func pubkeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pubkey",
		Short: "Print the dapp public key and fingerprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			kp, err := wire.KeyPairs.Require(cmd.Context())
			if errors.Is(err, keypair.ErrNotFound) {
				return fmt.Errorf("no keypair yet; run init")
			}
			if err != nil {
				return err
			}
			fmt.Printf("Public key:  %s\nFingerprint: %s\n",
				crypto.B58(kp.PublicKey[:]), crypto.Fingerprint(kp.PublicKey))
			return nil
		},
	}
	return cmd
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"walletlink/internal/crypto"
)

func initCmd() *cobra.Command {
	var writeConfig bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the dapp encryption keypair (idempotent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			kp, err := wire.KeyPairs.GetOrCreate(cmd.Context())
			if err != nil {
				return err
			}
			if writeConfig {
				if err := wire.Config.Save(); err != nil {
					return err
				}
				fmt.Printf("Config written to %s\n", wire.Config.Home)
			}
			fmt.Printf("Keypair ready.\nPublic key:  %s\nFingerprint: %s\n",
				crypto.B58(kp.PublicKey[:]), crypto.Fingerprint(kp.PublicKey))
			return nil
		},
	}
	cmd.Flags().BoolVar(&writeConfig, "write-config", false, "also write the effective config to <home>/config.yaml")
	return cmd
}

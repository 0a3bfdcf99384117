package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"walletlink/internal/log"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored wallet session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, ok, err := wire.Sessions.Current()
			if err != nil {
				return err
			}
			if !ok {
				fmt.Printf("Not connected (%s).\n", wire.Sessions.Cluster())
				return nil
			}
			fmt.Printf("Connected on %s\n", ws.Cluster)
			fmt.Printf("Wallet:    %s\n", ws.WalletPublicKey)
			fmt.Printf("Session:   %s\n", log.Truncate(ws.Session, 16))
			fmt.Printf("Peer key:  %s\n", ws.PeerPublicKey)
			if ws.ConnectedUTC != 0 {
				fmt.Printf("Since:     %s\n", time.Unix(ws.ConnectedUTC, 0).Format(time.RFC3339))
			}
			return nil
		},
	}
}

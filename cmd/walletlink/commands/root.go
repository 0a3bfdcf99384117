package commands

import (
	"os"

	"github.com/spf13/cobra"

	"walletlink/internal/app"
	"walletlink/internal/log"
)

var (
	home       string
	configPath string
	logLevel   string
	passphrase string
	wire       *app.Wire
)

func Execute() error {
	root := &cobra.Command{
		Use:          "walletlink",
		Short:        "Connect to a mobile wallet and get transactions signed over deep links",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				home = app.DefaultHome()
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			cfg, err := app.LoadConfig(home, configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			log.SetLevel(cfg.LogLevel)
			if passphrase == "" {
				passphrase = os.Getenv("WALLETLINK_PASSPHRASE")
			}
			cfg.KeyPair.Passphrase = passphrase

			wire, err = app.NewWire(cfg)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if wire == nil {
				return nil
			}
			return wire.Close()
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "state dir (default ~/.walletlink or $WALLETLINK_HOME)")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default <home>/config.yaml)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase sealing the keypair file (or $WALLETLINK_PASSPHRASE)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		initCmd(),
		pubkeyCmd(),
		resetCmd(),
		connectCmd(),
		signCmd(),
		handleCmd(),
		statusCmd(),
	)
	return root.Execute()
}

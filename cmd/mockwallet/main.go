package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"walletlink/internal/domain"
	"walletlink/internal/log"
	"walletlink/internal/peer/mock"
)

func main() {
	var (
		addr     string
		opts     mock.Options
		connEnc  string
		signEnc  string
		logLevel string
	)
	root := &cobra.Command{
		Use:          "mockwallet",
		Short:        "Serve a simulated wallet that answers deep-link requests over HTTP",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.SetLevel(logLevel)
			opts.ConnectEncoding = domain.Encoding(connEnc)
			opts.SignEncoding = domain.Encoding(signEnc)

			w, err := mock.New(opts)
			if err != nil {
				return err
			}
			log.Infof("mock wallet %s listening on %s", w.PublicKey(), addr)
			fmt.Printf("Set peer.base_url to http://%s/ul/v1\n", addr)
			return newRouter(w).Run(addr)
		},
	}
	f := root.Flags()
	f.StringVar(&addr, "addr", "127.0.0.1:8090", "listen address")
	f.StringVar(&connEnc, "connect-encoding", "base58", "framing of connect redirects (base58|base64)")
	f.StringVar(&signEnc, "sign-encoding", "base58", "framing of sign redirects (base58|base64)")
	f.StringVar(&opts.RejectCode, "reject", "", "answer every request with this error code, e.g. 4001")
	f.StringVar(&opts.RejectMessage, "reject-message", "", "errorMessage sent with --reject")
	f.BoolVar(&opts.OmitSignPeerKey, "omit-sign-key", false, "leave the encryption key off sign redirects")
	f.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

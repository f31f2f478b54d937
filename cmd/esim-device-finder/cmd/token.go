package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/esim-device-finder/internal/api/client"
)

func tokenCmd(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Request a partner API access token",
		Long:  "Runs the client-credentials exchange and prints the masked token and its cache expiry.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := s.loadConfig()
			if err != nil {
				return err
			}
			comps := buildComponents(cfg, newLogger(cfg))

			tok, err := comps.svc.Token(cmd.Context())
			if err != nil {
				return err
			}

			tw := newTabWriter(cmd.OutOrStdout())
			tw.writef("Token:\t%s\n", maskToken(tok))
			if cached, ok := comps.cache.Get(); ok {
				tw.writef("Cached until:\t%s\n", cached.ExpiresAt.Format(time.RFC3339))
			}
			return tw.finish()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Clear the token cached by a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv := s.server()
			if srv == "" {
				return fmt.Errorf("--server is required")
			}
			if err := apiclient.New(srv).ClearToken(cmd.Context()); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "token cache cleared")
			return err
		},
	})

	return cmd
}

// maskToken keeps the first and last four characters of a token.
func maskToken(tok string) string {
	const keep = 4
	if len(tok) <= 2*keep {
		return "********"
	}
	return tok[:keep] + "..." + tok[len(tok)-keep:]
}

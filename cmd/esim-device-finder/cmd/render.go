package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/esim-device-finder/internal/api/client"
	"github.com/donaldgifford/esim-device-finder/internal/engine"
)

func renderCmd(s *settings) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the widget fragment",
		Long: "Runs one embed cycle (token, catalog, render) and prints the resulting\n" +
			"HTML: the widget, or the localized notice when the partner API fails.",
		Example: `  esim-device-finder render > widget.html
  esim-device-finder render --server http://localhost:8080 --strict`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := runRender(cmd.Context(), s, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if strict && state != engine.StateRendered.String() {
				return fmt.Errorf("widget %s", state)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when the widget is unavailable")

	return cmd
}

func runRender(ctx context.Context, s *settings, w io.Writer) (string, error) {
	if srv := s.server(); srv != "" {
		html, state, err := apiclient.New(srv).Widget(ctx)
		if err != nil {
			return "", err
		}
		_, err = io.WriteString(w, html+"\n")
		return state, err
	}

	cfg, err := s.loadConfig()
	if err != nil {
		return "", err
	}
	comps := buildComponents(cfg, newLogger(cfg))

	out, err := comps.svc.RenderHTML(ctx, w)
	if err != nil {
		return "", err
	}
	_, err = io.WriteString(w, "\n")
	return out.State.String(), err
}

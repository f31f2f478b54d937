package cmd

import (
	"context"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/esim-device-finder/internal/api/client"
)

func searchCmd(s *settings) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the compatible-device list",
		Long: "Applies the widget filter to the catalog and prints the lines a visitor\n" +
			"typing the same query would see.",
		Example: `  esim-device-finder search iphone
  esim-device-finder search "galaxy s2" --json
  esim-device-finder search pixel --server http://localhost:8080`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := runSearch(cmd.Context(), s, args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return outputJSON(cmd.OutOrStdout(), res)
			}
			return printLines(cmd.OutOrStdout(), res.Lines)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")

	return cmd
}

func runSearch(ctx context.Context, s *settings, query string) (*apiclient.SearchResult, error) {
	if srv := s.server(); srv != "" {
		return apiclient.New(srv).SearchDevices(ctx, query)
	}

	cfg, err := s.loadConfig()
	if err != nil {
		return nil, err
	}
	comps := buildComponents(cfg, newLogger(cfg))

	found, err := comps.svc.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	res := &apiclient.SearchResult{
		Query:   query,
		Total:   found.State.Total,
		Devices: make([]apiclient.Device, 0, len(found.State.Matches)),
		Lines:   found.Lines,
	}
	for _, d := range found.State.Matches {
		res.Devices = append(res.Devices, apiclient.Device{Name: d.Name, Brand: d.Brand, Model: d.Model})
	}
	return res, nil
}

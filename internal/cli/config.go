package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func (c *CLI) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			for _, kv := range cfg.Summary() {
				printKeyValue(kv[0], kv[1])
			}
			if len(cfg.Styles) > 0 {
				printDetail("%d custom styles", len(cfg.Styles))
			}
			if len(cfg.Occasions) > 0 {
				printDetail("%d custom occasions", len(cfg.Occasions))
			}
			if len(cfg.Server.AllowedOrigins) > 0 {
				printDetail("CORS: %s", strings.Join(cfg.Server.AllowedOrigins, ", "))
			}
			return nil
		},
	}
}

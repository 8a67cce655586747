package commands

import (
	"github.com/pregate/pregate/internal/app"
	"github.com/spf13/cobra"
)

func (c *CLI) newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Load and validate the job configuration tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			noCache, _ := cmd.Flags().GetBool("no-cache")
			watch, _ := cmd.Flags().GetBool("watch")
			jsonLogs, _ := cmd.Flags().GetBool("json")

			return c.app.Check(cmd.Context(), app.CheckOptions{
				Path:    path,
				NoCache: noCache,
				Watch:   watch,
				JSON:    jsonLogs,
			})
		},
	}
	cmd.Flags().BoolP("no-cache", "n", false, "Bypass the verdict cache and re-validate")
	cmd.Flags().BoolP("watch", "w", false, "Re-run the check whenever the configuration changes")
	cmd.Flags().Bool("json", false, "Log as JSON lines")
	return cmd
}

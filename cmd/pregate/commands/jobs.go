package commands

import (
	"github.com/pregate/pregate/internal/app"
	"github.com/spf13/cobra"
)

func (c *CLI) newJobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs [name...]",
		Short: "Print effective job configurations after inheritance",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, _ := cmd.Flags().GetString("pipeline")

			return c.app.Jobs(app.JobsOptions{
				Path:     ".",
				Names:    args,
				Pipeline: pipeline,
			})
		},
	}
	cmd.Flags().StringP("pipeline", "p", "", "Only jobs a project attaches to this pipeline")
	return cmd
}

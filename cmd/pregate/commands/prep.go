package commands

import (
	"github.com/pregate/pregate/internal/app"
	"github.com/spf13/cobra"
)

func (c *CLI) newPrepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prep",
		Short: "Run a host-preparation playbook",
		Long: "Run a host-preparation playbook. Without --playbook the built-in\n" +
			"sequence runs: probe the host's package managers, install the platform\n" +
			"packages the matching branch calls for, refresh the pip dependency and\n" +
			"install the plugin files.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			playbook, _ := cmd.Flags().GetString("playbook")
			nodeset, _ := cmd.Flags().GetString("nodeset")
			timeout, _ := cmd.Flags().GetInt("timeout")
			syntaxCheck, _ := cmd.Flags().GetBool("syntax-check")
			outputMode, _ := cmd.Flags().GetString("output-mode")
			ci, _ := cmd.Flags().GetBool("ci")

			if ci {
				outputMode = "linear"
			}

			return c.app.Prep(cmd.Context(), app.PrepOptions{
				Playbook:    playbook,
				Nodeset:     nodeset,
				Timeout:     timeout,
				SyntaxCheck: syntaxCheck,
				OutputMode:  outputMode,
			})
		},
	}
	cmd.Flags().StringP("playbook", "p", "", "Playbook file to run instead of the built-in sequence")
	cmd.Flags().String("nodeset", "", "Nodeset whose nodes form the inventory")
	cmd.Flags().IntP("timeout", "t", 0, "Run timeout in seconds (0 uses the default)")
	cmd.Flags().Bool("syntax-check", false, "Validate guards and references without executing")
	cmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, rich, or linear")
	cmd.Flags().Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")
	return cmd
}

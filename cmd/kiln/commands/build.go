package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/build"
	"go.trai.ch/kiln/internal/ui/style"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Run the default build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Build(cmd.Context(), options(cmd))
		},
	}
}

func (c *CLI) newServeCmd(use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !c.json {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), style.Banner(cmd.Name(), build.Version))
			}
			return c.app.Serve(cmd.Context(), options(cmd))
		},
	}
}

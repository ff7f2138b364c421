// Package commands implements the CLI commands for the kiln asset builder.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.trai.ch/kiln/internal/adapters/detector"
	"go.trai.ch/kiln/internal/adapters/environment"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/build"
)

// Flag names of the root command.
const (
	flagLogFormat = "log-format"
	flagCwd       = "cwd"
)

// CLI represents the command line interface for kiln.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
	stderr  *os.File
	json    bool
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, opts app.Options) error
	Run(ctx context.Context, targetNames []string, opts app.Options) error
	Serve(ctx context.Context, opts app.Options) error
	List(w io.Writer, opts app.Options) error
	SetJSON(enable bool)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "kiln",
		Short:         "Build, lint and live reload web theme assets",
		Long:          "Without a command, kiln runs the default build.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.String(environment.KeyEnv, "", "Build environment; only \"dev\" enables development mode (env: ENV)")
	flags.String(environment.KeyPort, "", "Live reload server port (env: PORT, default 3001)")
	flags.String(environment.KeyHost, "", "Upstream host to proxy instead of serving files (env: HOST)")
	flags.String(flagLogFormat, "auto", "Log format: auto, pretty, or json")
	flags.String(flagCwd, "", "Directory to start the project search from")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
		stderr:  os.Stderr,
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		format, _ := cmd.Flags().GetString(flagLogFormat)
		resolved := detector.ResolveLogFormat(detector.DetectLogFormat(c.stderr), format)
		c.json = resolved == detector.FormatJSON
		c.app.SetJSON(c.json)
	}
	rootCmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return c.app.Build(cmd.Context(), options(cmd))
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newServeCmd("serve", "Build, then serve the project with live reload and watch for changes"))
	rootCmd.AddCommand(c.newServeCmd("watch", "Alias of serve"))
	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// options collects the environment flags the user set explicitly, so unset
// flags fall through to the process environment.
func options(cmd *cobra.Command) app.Options {
	opts := app.Options{Flags: make(map[string]string)}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		switch f.Name {
		case environment.KeyEnv, environment.KeyPort, environment.KeyHost:
			opts.Flags[f.Name] = f.Value.String()
		case flagCwd:
			opts.Cwd = f.Value.String()
		}
	})
	return opts
}

package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ytget/launcher/internal/acquire"
	"github.com/ytget/launcher/internal/app"
	"github.com/ytget/launcher/internal/config"
	"github.com/ytget/launcher/internal/logging"
	"github.com/ytget/launcher/internal/platform"
)

// options holds the global flags and the wiring shared by subcommands
type options struct {
	catalogPath string
	downloadDir string
	instanceDir string
	debug       bool

	paths       platform.PathProvider
	acquireOpts []acquire.Option
}

// NewRootCommand builds the launcher command tree
func NewRootCommand(version string) *cobra.Command {
	return newRootCommand(version, &options{paths: platform.ExecutablePaths{}})
}

func newRootCommand(version string, opts *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "launcher",
		Short: "Browse and install builds from a catalog",
		Long: `launcher reads a JSON catalog of builds, downloads a build's archive and
extracts it into an instance directory named after the build id.

Use "launcher list" to see the catalog and "launcher acquire <id>" to install.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.catalogPath, FlagCatalog, "", DescCatalog)
	flags.StringVar(&opts.downloadDir, FlagDownloads, "", DescDownloads)
	flags.StringVar(&opts.instanceDir, FlagInstances, "", DescInstances)
	flags.BoolVar(&opts.debug, FlagDebug, false, DescDebug)

	rootCmd.AddCommand(newListCommand(opts))
	rootCmd.AddCommand(newShowCommand(opts))
	rootCmd.AddCommand(newAcquireCommand(opts))

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure
func Execute(version string) {
	if err := NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// load creates the application context for one command and loads the catalog
func (o *options) load(cmd *cobra.Command) *app.Context {
	debug := o.debug || logging.DebugFromEnv()
	logger := logging.New(cmd.ErrOrStderr(), debug)
	if !debug {
		logger.SetLevel(logrus.WarnLevel)
	}

	settings := config.Static{DownloadDir: o.downloadDir, InstanceDir: o.instanceDir}
	ctx := app.New(settings, o.paths, logger, o.acquireOpts...)
	ctx.Catalog.Reload(o.catalogPath)
	return ctx
}

// Tagbook: an address book whose tags form a hierarchy, served over MCP.
//
// Usage:
//
//	tagbook serve    # Start MCP server (stdio transport)
//	tagbook tree     # Print the tag hierarchy
//	tagbook check    # Validate the tag tree file
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HendryAvila/Tagbook/internal/config"
	"github.com/HendryAvila/Tagbook/internal/logging"
	tbserver "github.com/HendryAvila/Tagbook/internal/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// globalOpts holds the persistent flags shared by every subcommand.
type globalOpts struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &globalOpts{}

	root := &cobra.Command{
		Use:           "tagbook",
		Short:         "Address book with hierarchical tags",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath(), "path to the TOML config file")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newTreeCmd(opts))
	root.AddCommand(newCheckCmd(opts))
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tagbook v%s\n", tbserver.Version)
		},
	}
}

// setup loads the configuration and builds the logger.
func (o *globalOpts) setup() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

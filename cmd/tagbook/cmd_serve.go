package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	tbserver "github.com/HendryAvila/Tagbook/internal/server"
)

func newServeCmd(opts *globalOpts) *cobra.Command {
	var resetCorrupt bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.setup()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			s, cleanup, err := tbserver.New(cfg, logger, tbserver.Options{ResetCorrupt: resetCorrupt})
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}
			defer cleanup()

			stdio := server.NewStdioServer(s)

			// Graceful shutdown on interrupt.
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("serving on stdio")
			if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
				return err
			}
			logger.Info("shutting down", zap.Bool("interrupted", ctx.Err() != nil))
			return nil
		},
	}
	cmd.Flags().BoolVar(&resetCorrupt, "reset-corrupt", false, "start with an empty hierarchy if the tag tree file is corrupt")
	return cmd
}

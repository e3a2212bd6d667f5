package main

import (
	"fmt"

	"github.com/spf13/cobra"

	tbserver "github.com/HendryAvila/Tagbook/internal/server"
	"github.com/HendryAvila/Tagbook/internal/tag"
	"github.com/HendryAvila/Tagbook/internal/tagtools"
)

func newTreeCmd(opts *globalOpts) *cobra.Command {
	var counts bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the tag hierarchy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.setup()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			m, store, err := tbserver.OpenModel(cfg, logger, tbserver.Options{})
			if err != nil {
				return err
			}
			defer store.Close()

			var count func(tag.Tag) int
			if counts {
				totals := make(map[tag.Tag]int)
				for _, s := range m.Tags() {
					totals[s.Tag] = s.Total
				}
				count = func(t tag.Tag) int { return totals[t] }
			}
			fmt.Fprintln(cmd.OutOrStdout(), tagtools.RenderTree(m.Tree(), m.KnownTags(), count))
			return nil
		},
	}
	cmd.Flags().BoolVar(&counts, "counts", true, "show how many contacts fall under each tag")
	return cmd
}

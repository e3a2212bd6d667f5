package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HendryAvila/Tagbook/internal/storage"
)

func newCheckCmd(opts *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Validate a tag tree file",
		Long: "Load the tag tree file (the configured one by default), check names and " +
			"acyclicity, and report what is wrong if it is corrupt.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			} else {
				cfg, _, err := opts.setup()
				if err != nil {
					return err
				}
				path = cfg.TagTreePath()
			}

			tree, err := storage.Load(path)
			if err != nil {
				if errors.Is(err, storage.ErrCorruptData) {
					return fmt.Errorf("%w\nfix the file, or run 'tagbook serve --reset-corrupt' to start empty", err)
				}
				return err
			}

			out := cmd.OutOrStdout()
			edges := 0
			for _, children := range tree.Edges() {
				edges += children.Len()
			}
			fmt.Fprintf(out, "%s: ok (%d tags, %d edges, %d roots)\n", path, tree.Len(), edges, tree.Roots().Len())
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/datawire/dlib/dlog"
	"github.com/spf13/cobra"
)

func newResolveCommand(imagePath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve PATH",
		Short: "Resolve a path to its inode number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, closeFn, err := bootAndLog(ctx, *imagePath)
			if err != nil {
				return err
			}
			defer closeFn()

			inode, err := p.ResolvePath(args[0])
			if err != nil {
				return err
			}
			dlog.Infof(ctx, "resolved %q to inode %v", args[0], inode)
			fmt.Println(uint64(inode))
			return nil
		},
	}
}
